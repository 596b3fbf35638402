package listing

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func portalBase(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("https://grid-india.in/en/reports/daily-psp-report")
	require.NoError(t, err)
	return u
}

const pageOne = `
<table>
  <thead><tr><th>Date</th><th>File</th></tr></thead>
  <tbody>
    <tr>
      <td>05-04-2024</td>
      <td>
        <a href="https://grid-india.in/files/grdw/2024/04/05.04.24_NLDC_PSP.xls">xls</a>
        <a href="https://grid-india.in/files/grdw/2024/04/05.04.24_NLDC_PSP.pdf">pdf</a>
      </td>
    </tr>
    <tr>
      <td>01-04-2024</td>
      <td><a href="/files/grdw/2024/04/01.04.24_NLDC_PSP.xlsx">xlsx</a></td>
    </tr>
    <tr>
      <td>Notice</td>
      <td><a href="https://grid-india.in/files/grdw/2024/04/NLDC_PSP_revised.xls">revised</a></td>
    </tr>
    <tr>
      <td>Other</td>
      <td><a href="https://grid-india.in/files/grdw/2024/04/03.04.24_NLDC_REPORT.xls">other</a></td>
    </tr>
    <tr><td>No link</td><td><a>missing</a></td></tr>
  </tbody>
</table>`

func TestExtractLinks(t *testing.T) {
	links, err := ExtractLinks(pageOne, portalBase(t))
	require.NoError(t, err)
	require.Len(t, links, 2)

	assert.Equal(t, "https://grid-india.in/files/grdw/2024/04/05.04.24_NLDC_PSP.xls", links[0].URL)
	assert.True(t, links[0].Date.Equal(time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, "https://grid-india.in/files/grdw/2024/04/01.04.24_NLDC_PSP.xlsx", links[1].URL)
	assert.True(t, links[1].Date.Equal(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)))
}

func TestExtractLinksSkipsUndatedFilenames(t *testing.T) {
	html := `<table><tr><td><a href="https://grid-india.in/files/Weekly_PSP.xlsx">x</a></td></tr></table>`
	links, err := ExtractLinks(html, portalBase(t))
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestCollectorSortsAcrossPages(t *testing.T) {
	c := NewCollector(portalBase(t))

	n, err := c.AddPage(pageOne)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = c.AddPage(`<table><tr><td><a href="/files/28.03.24_NLDC_PSP.XLS">xls</a></td></tr></table>`)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	links := c.Links()
	assert.Equal(t, 2, c.Pages())
	require.Len(t, links, 3)
	assert.Equal(t, "https://grid-india.in/files/28.03.24_NLDC_PSP.XLS", links[0].URL)
	assert.Equal(t, "https://grid-india.in/files/grdw/2024/04/01.04.24_NLDC_PSP.xlsx", links[1].URL)
	assert.Equal(t, "https://grid-india.in/files/grdw/2024/04/05.04.24_NLDC_PSP.xls", links[2].URL)
}

func TestTableFingerprint(t *testing.T) {
	a := TableFingerprint(pageOne)
	assert.Equal(t, a, TableFingerprint(pageOne))
	assert.NotEqual(t, a, TableFingerprint(`<table><tr><td>other page</td></tr></table>`))
}

package listing

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/psp-report-service/internal/entity"
	"github.com/user/psp-report-service/pkg/utils"
)

// LinkMarker must appear in an href for it to be considered a PSP report.
const LinkMarker = "PSP"

// ExtractLinks parses the outer HTML of the listing table and returns every
// report spreadsheet link it contains, in document order. Relative hrefs are
// resolved against base. Links whose filename carries no report date are
// dropped.
func ExtractLinks(tableHTML string, base *url.URL) ([]entity.ReportLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return nil, err
	}

	var links []entity.ReportLink
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		row.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if href == "" {
				return
			}
			abs, err := utils.ToAbsoluteURL(base, href)
			if err != nil {
				return
			}
			if !strings.Contains(abs, LinkMarker) || !entity.HasSpreadsheetExtension(abs) {
				return
			}
			date, ok := entity.ParseReportDate(abs)
			if !ok {
				return
			}
			links = append(links, entity.ReportLink{Date: date, URL: abs})
		})
	})
	return links, nil
}

// TableFingerprint summarises the listing table so that a change of page or
// filter can be detected without comparing whole documents.
func TableFingerprint(tableHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return ""
	}
	var b strings.Builder
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		b.WriteString(strings.Join(strings.Fields(row.Text()), " "))
		b.WriteByte('\n')
	})
	return utils.HashURL(b.String())
}

package chromedp_portal

import (
	"encoding/json"
	"fmt"
)

// Selectors locate the portal controls. They encode the DOM of a third-party
// site and are the first thing to check when extraction stops finding links.
type Selectors struct {
	YearDropdown  string // CSS
	MonthDropdown string // CSS
	SingleValue   string // CSS, relative to a dropdown container
	OptionXPath   string // XPath format string taking the option label
	PageSize      string // CSS
	PageSizeLabel string
	ListingTable  string // XPath
	NextPage      string // CSS
}

// DefaultSelectors returns the selectors for the daily PSP report page.
func DefaultSelectors() Selectors {
	return Selectors{
		YearDropdown:  ".period_drp .my-select__control",
		MonthDropdown: ".period_drp.me-1 .my-select__control",
		SingleValue:   ".my-select__single-value",
		OptionXPath:   `//div[contains(@class, 'my-select__option')][contains(text(), '%s')]`,
		PageSize:      "select[aria-label='Choose a page size']",
		PageSizeLabel: "100",
		ListingTable:  `//*[@id="root"]/div/div[1]/main/div/div[3]/div/div/div[2]/table`,
		NextPage:      "button[aria-label='Next Page']",
	}
}

// Option returns the XPath of the dropdown option showing label.
func (s Selectors) Option(label string) string {
	return fmt.Sprintf(s.OptionXPath, label)
}

// jsString renders s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// tableHTMLScript returns the outer HTML of the listing table, or "" while it is absent.
func (s Selectors) tableHTMLScript() string {
	return fmt.Sprintf(`(() => {
	const node = document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	return node ? node.outerHTML : "";
})()`, jsString(s.ListingTable))
}

// selectedValueScript reports whether the dropdown matched by control displays label.
func (s Selectors) selectedValueScript(control, label string) string {
	return fmt.Sprintf(`(() => {
	const control = document.querySelector(%s);
	if (!control) return false;
	const value = control.querySelector(%s);
	return !!value && value.textContent.includes(%s);
})()`, jsString(control), jsString(s.SingleValue), jsString(label))
}

// pageSizeScript picks the page size option through the native value setter so
// that the page's change listeners fire. It returns false when the control or
// option is missing.
func (s Selectors) pageSizeScript() string {
	return fmt.Sprintf(`(() => {
	const sel = document.querySelector(%s);
	if (!sel || sel.disabled) return false;
	const opt = Array.from(sel.options).find(o => o.text.trim() === %s);
	if (!opt) return false;
	const setter = Object.getOwnPropertyDescriptor(HTMLSelectElement.prototype, "value").set;
	setter.call(sel, opt.value);
	sel.dispatchEvent(new Event("change", { bubbles: true }));
	return true;
})()`, jsString(s.PageSize), jsString(s.PageSizeLabel))
}

// nextPageScript reports the state of the next-page control.
func (s Selectors) nextPageScript() string {
	return fmt.Sprintf(`(() => {
	const btn = document.querySelector(%s);
	if (!btn) return %s;
	if (btn.disabled || btn.getAttribute("aria-disabled") === "true") return %s;
	return %s;
})()`, jsString(s.NextPage), jsString(string(nextAbsent)), jsString(string(nextDisabled)), jsString(string(nextEnabled)))
}

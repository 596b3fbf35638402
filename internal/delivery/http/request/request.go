package request

import (
	"net/url"

	"github.com/user/psp-report-service/internal/entity"
)

// ExtractRequest selects the report period to extract.
type ExtractRequest struct {
	FinancialYear string `json:"financial_year"`
	Month         string `json:"month"`
}

// FromForm reads an ExtractRequest from posted form values.
func FromForm(values url.Values) ExtractRequest {
	return ExtractRequest{
		FinancialYear: values.Get("financial_year"),
		Month:         values.Get("month"),
	}
}

func (r ExtractRequest) Period() entity.Period {
	return entity.Period{FinancialYear: r.FinancialYear, Month: r.Month}
}

package response

// OptionsResponse lists the selectable report filters.
type OptionsResponse struct {
	FinancialYears []string `json:"financial_years"`
	Months         []string `json:"months"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

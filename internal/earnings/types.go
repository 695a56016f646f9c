package earnings

// summaryResponse wraps the quoteSummary earnings module response.
type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type summaryResult struct {
	Earnings struct {
		EarningsChart earningsChart `json:"earningsChart"`
	} `json:"earnings"`
}

type earningsChart struct {
	Quarterly              []quarterlyEarnings `json:"quarterly"`
	CurrentQuarterEstimate finVal              `json:"currentQuarterEstimate"`
	EarningsDate           []finVal            `json:"earningsDate"`
}

// quarterlyEarnings is one reported quarter; Date is a label like
// "1Q2024", not a calendar date.
type quarterlyEarnings struct {
	Date     string `json:"date"`
	Actual   finVal `json:"actual"`
	Estimate finVal `json:"estimate"`
}

// finVal is Yahoo's {raw, fmt} numeric wrapper. Raw stays a pointer so
// absent values survive as nil instead of zero.
type finVal struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

package sec

import "encoding/json"

// tickerEntry is one row of company_tickers.json. The CIK arrives as a
// bare number; json.Number keeps the raw digits for padding.
type tickerEntry struct {
	CIK    json.Number `json:"cik_str"`
	Ticker string      `json:"ticker"`
	Title  string      `json:"title"`
}

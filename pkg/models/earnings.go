package models

import "time"

// EarningsReport represents one reported or upcoming earnings event.
type EarningsReport struct {
	Ticker          string    `json:"ticker"`
	Date            time.Time `json:"date"`
	Period          string    `json:"period,omitempty"` // e.g., "2024 Q1"
	EPSActual       *float64  `json:"eps_actual,omitempty"`
	EPSEstimate     *float64  `json:"eps_estimate,omitempty"`
	SurprisePct     *float64  `json:"surprise_pct,omitempty"`
	RevenueActual   *float64  `json:"revenue_actual,omitempty"`
	RevenueEstimate *float64  `json:"revenue_estimate,omitempty"`
}

// NextEarningsDate returns the earliest report dated after ref, or nil.
func NextEarningsDate(reports []EarningsReport, ref time.Time) *EarningsReport {
	var next *EarningsReport
	for i := range reports {
		r := &reports[i]
		if r.Date.After(ref) && (next == nil || r.Date.Before(next.Date)) {
			next = r
		}
	}
	return next
}

package financials

import "sort"

// Trend classification labels.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// GrowthMetrics holds period-over-period and year-over-year growth rates
// for one ticker and period. Values are nil when the required prior
// periods do not exist or a base value is zero. Never mutated after
// creation.
type GrowthMetrics struct {
	Ticker string `json:"ticker"`
	Period string `json:"period"`
	Date   string `json:"date"`

	RevenueGrowthQoQ         *float64 `json:"revenue_growth_qoq,omitempty"`
	NetIncomeGrowthQoQ       *float64 `json:"net_income_growth_qoq,omitempty"`
	OperatingIncomeGrowthQoQ *float64 `json:"operating_income_growth_qoq,omitempty"`

	RevenueGrowthYoY   *float64 `json:"revenue_growth_yoy,omitempty"`
	NetIncomeGrowthYoY *float64 `json:"net_income_growth_yoy,omitempty"`
	EPSGrowthYoY       *float64 `json:"eps_growth_yoy,omitempty"`

	RevenueGrowthAcceleration *float64 `json:"revenue_growth_acceleration,omitempty"`

	RevenueTrend       string `json:"revenue_trend"`
	ProfitabilityTrend string `json:"profitability_trend"`
}

// Analyzer computes growth metrics across a chronologically ordered
// record series for one ticker.
type Analyzer struct{}

// NewAnalyzer creates a growth analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze produces one GrowthMetrics per record from index 1 onward
// (the first record has no prior period). Records are sorted ascending
// by date before analysis; the input slice is not modified.
func (a *Analyzer) Analyze(records []*FinancialRecord) []*GrowthMetrics {
	if len(records) < 2 {
		return nil
	}

	sorted := make([]*FinancialRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	out := make([]*GrowthMetrics, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		cur, prev := sorted[i], sorted[i-1]
		g := &GrowthMetrics{
			Ticker: cur.Ticker,
			Period: cur.Period,
			Date:   cur.Date,
		}

		g.RevenueGrowthQoQ = growthRate(cur.Revenue, prev.Revenue)
		g.NetIncomeGrowthQoQ = growthRate(cur.NetIncome, prev.NetIncome)
		g.OperatingIncomeGrowthQoQ = growthRate(cur.OperatingIncome, prev.OperatingIncome)

		// Year over year compares to the record exactly 4 periods back.
		if i >= 4 {
			yearAgo := sorted[i-4]
			g.RevenueGrowthYoY = growthRate(cur.Revenue, yearAgo.Revenue)
			g.NetIncomeGrowthYoY = growthRate(cur.NetIncome, yearAgo.NetIncome)
			g.EPSGrowthYoY = growthRate(cur.EarningsPerShare, yearAgo.EarningsPerShare)
		}

		if i >= 2 {
			prevQoQ := growthRate(prev.Revenue, sorted[i-2].Revenue)
			if g.RevenueGrowthQoQ != nil && prevQoQ != nil {
				g.RevenueGrowthAcceleration = ptr(*g.RevenueGrowthQoQ - *prevQoQ)
			}
		}

		g.RevenueTrend = classifyTrend(trailingValues(sorted, i, func(r *FinancialRecord) *float64 { return r.Revenue }))
		g.ProfitabilityTrend = classifyTrend(trailingValues(sorted, i, func(r *FinancialRecord) *float64 { return r.NetMargin }))

		out = append(out, g)
	}
	return out
}

// growthRate returns (current − previous) / previous × 100, or nil when
// either value is missing or the base is zero.
func growthRate(cur, prev *float64) *float64 {
	if cur == nil || prev == nil || *prev == 0 {
		return nil
	}
	return ptr((*cur - *prev) / *prev * 100)
}

// trailingValues collects the field over the trailing 3 records ending
// at index i. Returns nil when fewer than 3 records or any value is
// missing.
func trailingValues(sorted []*FinancialRecord, i int, get func(*FinancialRecord) *float64) []float64 {
	if i < 2 {
		return nil
	}
	vals := make([]float64, 0, 3)
	for j := i - 2; j <= i; j++ {
		v := get(sorted[j])
		if v == nil {
			return nil
		}
		vals = append(vals, *v)
	}
	return vals
}

// classifyTrend labels a 3-point series: increasing when every successive
// difference is positive, decreasing when every one is negative,
// otherwise stable. Insufficient data is stable.
func classifyTrend(vals []float64) string {
	if len(vals) < 3 {
		return TrendStable
	}
	increasing, decreasing := true, true
	for i := 1; i < len(vals); i++ {
		diff := vals[i] - vals[i-1]
		if diff <= 0 {
			increasing = false
		}
		if diff >= 0 {
			decreasing = false
		}
	}
	switch {
	case increasing:
		return TrendIncreasing
	case decreasing:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

package financials

import (
	"fmt"
	"sort"
	"time"

	"github.com/phuslu/log"
)

// dateFormats are the accepted period-end date layouts, normalized to
// YYYY-MM-DD during cleaning.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// imputableFields are the line items that can be solved for a missing
// quarter as the residual of the annual total.
var imputableFields = []string{
	"revenue",
	"cost_of_revenue",
	"gross_profit",
	"operating_income",
	"net_income",
	"research_development",
	"selling_general_admin",
	"operating_cash_flow",
	"investing_cash_flow",
	"financing_cash_flow",
	"capital_expenditures",
}

// CleanerOptions controls date validation strictness and the fiscal
// calendar convention used for annual/quarterly grouping.
type CleanerOptions struct {
	// StrictDates drops records whose date is not already canonical
	// YYYY-MM-DD. The default (lenient) normalizes any recognized format.
	StrictDates bool

	// FiscalYearStartMonth rolls period months >= this month into the next
	// calendar year's fiscal bucket. Zero defaults to October. January
	// makes fiscal years equal calendar years.
	FiscalYearStartMonth time.Month
}

// Cleaner deduplicates records, normalizes dates, fills simple derived
// fields, and imputes missing quarterly figures from annual filings.
type Cleaner struct {
	opts CleanerOptions
}

// NewCleaner creates a cleaner with the given options.
func NewCleaner(opts CleanerOptions) *Cleaner {
	if opts.FiscalYearStartMonth == 0 {
		opts.FiscalYearStartMonth = time.October
	}
	return &Cleaner{opts: opts}
}

// Clean runs the full cleaning pass. Input records are never mutated;
// the result is a new slice of new records. Cleaning an already-clean
// list is a no-op (same records back, value-equal).
func (c *Cleaner) Clean(records []*FinancialRecord) []*FinancialRecord {
	validated := make([]*FinancialRecord, 0, len(records))
	for _, rec := range records {
		cleaned := c.cleanOne(rec)
		if cleaned == nil {
			continue
		}
		validated = append(validated, cleaned)
	}

	deduped := dedupe(validated)
	c.imputeQuarters(deduped)
	return deduped
}

// cleanOne validates and normalizes a single record, returning nil when
// the record must be dropped. A panic during reconstruction drops only
// the offending record.
func (c *Cleaner) cleanOne(rec *FinancialRecord) (out *FinancialRecord) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("ticker", rec.Ticker).Str("date", rec.Date).
				Msgf("dropping record: clean failed: %v", r)
			out = nil
		}
	}()

	date, ok := c.normalizeDate(rec.Date)
	if !ok {
		return nil
	}

	out = rec.Clone()
	out.Date = date

	// Gap-fill simple derived fields when their inputs are present.
	if out.GrossProfit == nil && out.Revenue != nil && out.CostOfRevenue != nil {
		out.GrossProfit = ptr(*out.Revenue - *out.CostOfRevenue)
	}
	if out.WorkingCapital == nil && out.CurrentAssets != nil && out.CurrentLiabilities != nil {
		out.WorkingCapital = ptr(*out.CurrentAssets - *out.CurrentLiabilities)
	}
	return out
}

// normalizeDate validates a date string against the accepted layouts.
func (c *Cleaner) normalizeDate(date string) (string, bool) {
	if c.opts.StrictDates {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return "", false
		}
		return date, true
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// dedupe removes records sharing the (ticker, date, form_type) identity
// tuple, keeping the first occurrence.
func dedupe(records []*FinancialRecord) []*FinancialRecord {
	seen := make(map[string]bool, len(records))
	out := make([]*FinancialRecord, 0, len(records))
	for _, rec := range records {
		key := rec.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

// fiscalYear buckets a period-end date: months at or past the fiscal-year
// start month belong to the next calendar year's fiscal year.
func (c *Cleaner) fiscalYear(date string) (int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("fiscal year for %q: %w", date, err)
	}
	year := t.Year()
	if c.opts.FiscalYearStartMonth > time.January && t.Month() >= c.opts.FiscalYearStartMonth {
		year++
	}
	return year, nil
}

// imputeQuarters fills missing quarterly figures within each ticker's
// fiscal-year group by solving for the missing quarter as the residual
// of the annual total minus the sum of the pure (non-cumulative)
// complete quarters.
func (c *Cleaner) imputeQuarters(records []*FinancialRecord) {
	type groupKey struct {
		ticker string
		year   int
	}
	groups := make(map[groupKey][]*FinancialRecord)
	for _, rec := range records {
		fy, err := c.fiscalYear(rec.Date)
		if err != nil {
			continue
		}
		key := groupKey{ticker: rec.Ticker, year: fy}
		groups[key] = append(groups[key], rec)
	}

	for key, group := range groups {
		annual, quarterly, incomplete := classifyGroup(group)
		if annual == nil || len(quarterly) < 3 || len(incomplete) == 0 {
			continue
		}

		complete := make([]*FinancialRecord, 0, len(quarterly))
		incompleteSet := make(map[*FinancialRecord]bool, len(incomplete))
		for _, rec := range incomplete {
			incompleteSet[rec] = true
		}
		for _, rec := range quarterly {
			if !incompleteSet[rec] {
				complete = append(complete, rec)
			}
		}
		sort.SliceStable(complete, func(i, j int) bool {
			return complete[i].Date < complete[j].Date
		})

		for _, field := range imputableFields {
			acc := rawFieldByName[field]
			annualVal := acc.get(annual)
			if annualVal == nil {
				continue
			}
			residual := *annualVal - sumPureQuarters(complete, acc)
			for _, rec := range incomplete {
				acc.set(rec, ptr(residual))
			}
		}
		log.Debug().Str("ticker", key.ticker).Int("fiscal_year", key.year).
			Int("imputed", len(incomplete)).
			Msg("imputed missing quarterly figures from annual filing")
	}
}

// classifyGroup splits a fiscal-year group into its annual record (10-K
// labeled FY, Q3, or Q4; latest wins if several), quarterly records
// (10-Q labeled Q1-Q4), and the incomplete subset of the quarterly
// records (revenue, net income, and operating income all missing).
func classifyGroup(group []*FinancialRecord) (annual *FinancialRecord, quarterly, incomplete []*FinancialRecord) {
	for _, rec := range group {
		q := periodQuarter(rec.Period)
		switch rec.FormType {
		case Form10K:
			if q == "FY" || q == "Q3" || q == "Q4" {
				if annual == nil || rec.Date > annual.Date {
					annual = rec
				}
			}
		case Form10Q:
			if q == "Q1" || q == "Q2" || q == "Q3" || q == "Q4" {
				quarterly = append(quarterly, rec)
				if rec.Revenue == nil && rec.NetIncome == nil && rec.OperatingIncome == nil {
					incomplete = append(incomplete, rec)
				}
			}
		}
	}
	return annual, quarterly, incomplete
}

// sumPureQuarters sums the standalone (non-cumulative) quarterly values
// of a field over the complete quarters, sorted by date ascending. SEC
// quarterly figures are often cumulative within the fiscal year: the
// first quarter's pure value is its raw value, each later quarter's is
// the current cumulative minus the prior cumulative.
func sumPureQuarters(complete []*FinancialRecord, acc fieldAccessor) float64 {
	var sum, prev float64
	first := true
	for _, rec := range complete {
		v := acc.get(rec)
		if v == nil {
			continue
		}
		if first {
			sum += *v
			first = false
		} else {
			sum += *v - prev
		}
		prev = *v
	}
	return sum
}

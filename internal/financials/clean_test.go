package financials

import (
	"reflect"
	"testing"
)

func rec(ticker, date, period, form string) *FinancialRecord {
	return &FinancialRecord{Ticker: ticker, Date: date, Period: period, FormType: form}
}

func TestCleanNormalizesDates(t *testing.T) {
	cases := []struct {
		in   string
		want string
		kept bool
	}{
		{"2024-03-31", "2024-03-31", true},
		{"2024/03/31", "2024-03-31", true},
		{"03/31/2024", "2024-03-31", true},
		{"2024-03-31 00:00:00", "2024-03-31", true},
		{"March 31, 2024", "", false},
		{"", "", false},
	}
	c := NewCleaner(CleanerOptions{})
	for _, tc := range cases {
		r := rec("AAPL", tc.in, "2024 Q1", Form10Q)
		r.Revenue = fv(100)
		out := c.Clean([]*FinancialRecord{r})
		if tc.kept {
			if len(out) != 1 || out[0].Date != tc.want {
				t.Errorf("date %q: got %v, want kept as %q", tc.in, out, tc.want)
			}
		} else if len(out) != 0 {
			t.Errorf("date %q: expected record dropped", tc.in)
		}
	}
}

func TestCleanStrictDates(t *testing.T) {
	c := NewCleaner(CleanerOptions{StrictDates: true})
	records := []*FinancialRecord{
		rec("AAPL", "2024-03-31", "2024 Q1", Form10Q),
		rec("AAPL", "2024/06/30", "2024 Q2", Form10Q),
	}
	out := c.Clean(records)
	if len(out) != 1 {
		t.Fatalf("strict mode: expected 1 record, got %d", len(out))
	}
	if out[0].Date != "2024-03-31" {
		t.Errorf("strict mode kept wrong record: %s", out[0].Date)
	}
}

func TestCleanDeduplicates(t *testing.T) {
	records := []*FinancialRecord{
		rec("AAPL", "2024-01-01", "2024 Q1", Form10Q),
		rec("AAPL", "2024-01-01", "2024 Q1", Form10Q),
		rec("AAPL", "2024-01-01", "2024 Q1", Form10Q),
	}
	records[0].Revenue = fv(111)
	records[1].Revenue = fv(222)
	records[2].Revenue = fv(333)

	out := NewCleaner(CleanerOptions{}).Clean(records)
	if len(out) != 1 {
		t.Fatalf("expected 1 record after dedup, got %d", len(out))
	}
	if *out[0].Revenue != 111 {
		t.Errorf("dedup kept wrong record: revenue %v, want first (111)", *out[0].Revenue)
	}
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	r := rec("AAPL", "2024/03/31", "2024 Q1", Form10Q)
	r.Revenue = fv(100)
	r.CostOfRevenue = fv(40)

	NewCleaner(CleanerOptions{}).Clean([]*FinancialRecord{r})

	if r.Date != "2024/03/31" {
		t.Errorf("input date mutated to %q", r.Date)
	}
	if r.GrossProfit != nil {
		t.Errorf("input gross profit mutated to %v", *r.GrossProfit)
	}
}

func TestCleanGapFillsGrossProfit(t *testing.T) {
	r := rec("AAPL", "2024-03-31", "2024 Q1", Form10Q)
	r.Revenue = fv(100)
	r.CostOfRevenue = fv(40)
	r.CurrentAssets = fv(500)
	r.CurrentLiabilities = fv(200)

	out := NewCleaner(CleanerOptions{}).Clean([]*FinancialRecord{r})
	if out[0].GrossProfit == nil || *out[0].GrossProfit != 60 {
		t.Errorf("gross profit: got %v, want 60", out[0].GrossProfit)
	}
	if out[0].WorkingCapital == nil || *out[0].WorkingCapital != 300 {
		t.Errorf("working capital: got %v, want 300", out[0].WorkingCapital)
	}
}

// septemberFiscalYear builds the canonical imputation fixture: a
// September-ending fiscal year with cumulative quarterly revenue and a
// fourth quarter whose income figures are missing.
func septemberFiscalYear() []*FinancialRecord {
	annual := rec("AAPL", "2024-09-28", "2024 FY", Form10K)
	annual.Revenue = fv(400000)

	q1 := rec("AAPL", "2023-12-30", "2024 Q1", Form10Q)
	q1.Revenue = fv(100000)
	q2 := rec("AAPL", "2024-03-30", "2024 Q2", Form10Q)
	q2.Revenue = fv(210000) // cumulative through Q2
	q3 := rec("AAPL", "2024-06-29", "2024 Q3", Form10Q)
	q3.Revenue = fv(300000) // cumulative through Q3

	q4 := rec("AAPL", "2024-09-27", "2024 Q4", Form10Q)
	q4.TotalAssets = fv(5000) // balance sheet present, income statement missing

	return []*FinancialRecord{annual, q1, q2, q3, q4}
}

func TestCleanImputesMissingQuarter(t *testing.T) {
	out := NewCleaner(CleanerOptions{}).Clean(septemberFiscalYear())

	var q4 *FinancialRecord
	for _, r := range out {
		if r.Period == "2024 Q4" && r.FormType == Form10Q {
			q4 = r
		}
	}
	if q4 == nil {
		t.Fatal("incomplete Q4 record missing from output")
	}
	// Pure quarters sum to 100000 + 110000 + 90000 = 300000; the residual
	// against the 400000 annual total is 100000.
	if q4.Revenue == nil || *q4.Revenue != 100000 {
		t.Errorf("imputed Q4 revenue: got %v, want 100000", q4.Revenue)
	}
}

func TestCleanImputationRequiresThreeQuarters(t *testing.T) {
	full := septemberFiscalYear()
	// Keep only the annual, Q1, and the incomplete Q4: two quarterly
	// records is below the threshold.
	records := []*FinancialRecord{full[0], full[1], full[4]}

	out := NewCleaner(CleanerOptions{}).Clean(records)
	for _, r := range out {
		if r.Period == "2024 Q4" && r.FormType == Form10Q && r.Revenue != nil {
			t.Errorf("imputation ran below the quarterly threshold: revenue %v", *r.Revenue)
		}
	}
}

func TestCleanImputationRequiresAnnual(t *testing.T) {
	records := septemberFiscalYear()[1:] // drop the 10-K

	out := NewCleaner(CleanerOptions{}).Clean(records)
	for _, r := range out {
		if r.Period == "2024 Q4" && r.Revenue != nil {
			t.Errorf("imputation ran without an annual record: revenue %v", *r.Revenue)
		}
	}
}

func TestCleanImputationIsPerTicker(t *testing.T) {
	records := septemberFiscalYear()
	// A second ticker with only an incomplete quarter in the same fiscal
	// year must not be solved against the first ticker's annual filing.
	other := rec("MSFT", "2024-09-27", "2024 Q4", Form10Q)
	other.TotalAssets = fv(7000)
	records = append(records, other)

	out := NewCleaner(CleanerOptions{}).Clean(records)
	for _, r := range out {
		if r.Ticker == "MSFT" && r.Revenue != nil {
			t.Errorf("cross-ticker imputation: MSFT revenue %v", *r.Revenue)
		}
		if r.Ticker == "AAPL" && r.Period == "2024 Q4" && r.FormType == Form10Q {
			if r.Revenue == nil || *r.Revenue != 100000 {
				t.Errorf("same-ticker imputation broken: got %v, want 100000", r.Revenue)
			}
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	c := NewCleaner(CleanerOptions{})
	once := c.Clean(septemberFiscalYear())
	twice := c.Clean(once)
	if !reflect.DeepEqual(once, twice) {
		t.Error("cleaning an already-clean list changed it")
	}
}

func TestFiscalYearBucketing(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2023-10-01", 2024},
		{"2023-12-30", 2024},
		{"2024-01-15", 2024},
		{"2024-09-28", 2024},
		{"2024-10-05", 2025},
	}
	c := NewCleaner(CleanerOptions{})
	for _, tc := range cases {
		got, err := c.fiscalYear(tc.date)
		if err != nil {
			t.Fatalf("fiscalYear(%q): %v", tc.date, err)
		}
		if got != tc.want {
			t.Errorf("fiscalYear(%q) = %d, want %d", tc.date, got, tc.want)
		}
	}

	// A January start makes fiscal years equal calendar years.
	cal := NewCleaner(CleanerOptions{FiscalYearStartMonth: 1})
	if got, _ := cal.fiscalYear("2023-12-30"); got != 2023 {
		t.Errorf("calendar-year cleaner: fiscalYear(2023-12-30) = %d, want 2023", got)
	}
}

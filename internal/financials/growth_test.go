package financials

import (
	"context"
	"testing"
)

func quarterSeries(revenues ...float64) []*FinancialRecord {
	dates := []string{
		"2023-03-31", "2023-06-30", "2023-09-30", "2023-12-31",
		"2024-03-31", "2024-06-30", "2024-09-30", "2024-12-31",
	}
	periods := []string{
		"2023 Q1", "2023 Q2", "2023 Q3", "2023 Q4",
		"2024 Q1", "2024 Q2", "2024 Q3", "2024 Q4",
	}
	out := make([]*FinancialRecord, 0, len(revenues))
	for i, rev := range revenues {
		r := rec("AAPL", dates[i], periods[i], Form10Q)
		r.Revenue = fv(rev)
		out = append(out, r)
	}
	return out
}

func TestAnalyzeQoQ(t *testing.T) {
	out := NewAnalyzer().Analyze(quarterSeries(100, 200, 300, 400, 500))
	if len(out) != 4 {
		t.Fatalf("expected 4 growth rows, got %d", len(out))
	}
	approx(t, "first QoQ", out[0].RevenueGrowthQoQ, 100.0)
	approx(t, "last QoQ", out[3].RevenueGrowthQoQ, 25.0)
}

func TestAnalyzeYoYNeedsFourPriors(t *testing.T) {
	out := NewAnalyzer().Analyze(quarterSeries(100, 200, 300, 400, 500, 600))
	for i := 0; i < 3; i++ {
		if out[i].RevenueGrowthYoY != nil {
			t.Errorf("row %d (%s): YoY present too early: %v", i, out[i].Period, *out[i].RevenueGrowthYoY)
		}
	}
	// 2024 Q1 vs 2023 Q1: (500-100)/100.
	approx(t, "2024 Q1 YoY", out[3].RevenueGrowthYoY, 400.0)
	// 2024 Q2 vs 2023 Q2: (600-200)/200.
	approx(t, "2024 Q2 YoY", out[4].RevenueGrowthYoY, 200.0)
}

func TestAnalyzeAcceleration(t *testing.T) {
	out := NewAnalyzer().Analyze(quarterSeries(100, 200, 300))
	if out[0].RevenueGrowthAcceleration != nil {
		t.Errorf("acceleration on second record: got %v, want absent", *out[0].RevenueGrowthAcceleration)
	}
	// QoQ went from +100% to +50%.
	approx(t, "acceleration", out[1].RevenueGrowthAcceleration, -50.0)
}

func TestAnalyzeZeroBase(t *testing.T) {
	out := NewAnalyzer().Analyze(quarterSeries(0, 100))
	if out[0].RevenueGrowthQoQ != nil {
		t.Errorf("growth from zero base: got %v, want absent", *out[0].RevenueGrowthQoQ)
	}
}

func TestAnalyzeRevenueTrend(t *testing.T) {
	cases := []struct {
		name     string
		revenues []float64
		want     string
	}{
		{"increasing", []float64{100, 200, 300}, TrendIncreasing},
		{"decreasing", []float64{300, 200, 100}, TrendDecreasing},
		{"mixed", []float64{100, 300, 200}, TrendStable},
		{"flat", []float64{100, 100, 100}, TrendStable},
	}
	for _, c := range cases {
		out := NewAnalyzer().Analyze(quarterSeries(c.revenues...))
		got := out[len(out)-1].RevenueTrend
		if got != c.want {
			t.Errorf("%s: trend %q, want %q", c.name, got, c.want)
		}
	}
}

func TestAnalyzeProfitabilityTrend(t *testing.T) {
	records := quarterSeries(100, 100, 100)
	records[0].NetIncome = fv(10)
	records[1].NetIncome = fv(20)
	records[2].NetIncome = fv(30)
	enriched := NewEngine(nil, 5).Compute(context.Background(), records)

	out := NewAnalyzer().Analyze(enriched)
	if got := out[len(out)-1].ProfitabilityTrend; got != TrendIncreasing {
		t.Errorf("profitability trend: got %q, want %q", got, TrendIncreasing)
	}
}

func TestAnalyzeTooFewRecords(t *testing.T) {
	if out := NewAnalyzer().Analyze(quarterSeries(100)); out != nil {
		t.Errorf("single record: expected nil, got %d rows", len(out))
	}
	if out := NewAnalyzer().Analyze(nil); out != nil {
		t.Errorf("empty input: expected nil, got %d rows", len(out))
	}
}

func TestAnalyzeSortsInput(t *testing.T) {
	records := quarterSeries(100, 200)
	records[0], records[1] = records[1], records[0]

	out := NewAnalyzer().Analyze(records)
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	approx(t, "QoQ after sort", out[0].RevenueGrowthQoQ, 100.0)
	if records[0].Date != "2023-06-30" {
		t.Error("input slice order mutated")
	}
}

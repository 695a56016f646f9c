package report

import (
	"strings"
	"testing"
	"time"

	"github.com/marketbrief/marketbrief/internal/financials"
	"github.com/marketbrief/marketbrief/pkg/models"
)

func fv(v float64) *float64 { return &v }

func sampleBrief() *TickerBrief {
	f := 6
	latest := &financials.FinancialRecord{
		Ticker:   "AAPL",
		Date:     "2024-03-31",
		Period:   "2024 Q1",
		FormType: financials.Form10Q,

		Revenue:          fv(90_753_000_000),
		NetIncome:        fv(23_636_000_000),
		NetMargin:        fv(26.04),
		EarningsPerShare: fv(1.53),
		MarketCap:        fv(2_650_000_000_000),
		PriceToEarnings:  fv(28.4),
		AltmanZScore:     fv(5.9),
		PiotroskiFScore:  &f,
		GrossMargin:      fv(46.6),
		CurrentRatio:     fv(1.04),
	}
	prior := &financials.FinancialRecord{
		Ticker:   "AAPL",
		Date:     "2023-12-30",
		Period:   "2023 Q4",
		FormType: financials.Form10Q,
		Revenue:  fv(119_575_000_000),
	}

	return &TickerBrief{
		Stock: models.Stock{
			Ticker:   "AAPL",
			Name:     "Apple Inc.",
			Exchange: "Nasdaq",
		},
		Records: []*financials.FinancialRecord{latest, prior},
		Growth: []*financials.GrowthMetrics{
			{
				Ticker: "AAPL", Date: "2024-03-31", Period: "2024 Q1",
				RevenueGrowthQoQ:   fv(-24.1),
				RevenueGrowthYoY:   fv(-4.3),
				RevenueTrend:       "decreasing",
				ProfitabilityTrend: "stable",
			},
		},
		Sentiment: &models.SentimentSummary{
			Ticker: "AAPL", Score: 0.34, Confidence: 0.6,
			Label: "bullish", ArticleCount: 7,
			ComputedAt: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
		},
		Earnings: []models.EarningsReport{
			{
				Ticker: "AAPL", Period: "2024 Q2",
				Date:        time.Now().AddDate(0, 1, 0),
				EPSEstimate: fv(1.35),
			},
		},
		Articles: []models.NewsArticle{
			{Title: "Apple beats expectations", Source: "CNBC", Sentiment: 0.5, URL: "https://example.com/a"},
			{Title: "iPhone sales slump in China", Source: "WSJ", Sentiment: -0.3, URL: "https://example.com/b"},
		},
	}
}

func TestGenerateTextIncludesCoreSections(t *testing.T) {
	out, err := GenerateText([]*TickerBrief{sampleBrief()}, DefaultConfig())
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}

	for _, want := range []string{
		"Apple Inc. (AAPL)",
		"Latest period: 2024 Q1",
		"Piotroski F: 6 / 8",
		"Revenue trend: decreasing",
		"Sentiment: bullish",
		"Next earnings:",
		"Apple beats expectations",
		"Not financial advice",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}
}

func TestGenerateTextNoRecords(t *testing.T) {
	brief := &TickerBrief{Stock: models.Stock{Ticker: "MSFT", Name: "Microsoft"}}
	out, err := GenerateText([]*TickerBrief{brief}, DefaultConfig())
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if !strings.Contains(out, "No financial records available") {
		t.Error("expected placeholder for missing records")
	}
}

func TestGenerateTextEmpty(t *testing.T) {
	if _, err := GenerateText(nil, DefaultConfig()); err == nil {
		t.Error("expected error for empty brief list")
	}
}

func TestGenerateHTML(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Title = "Friday Brief"
	out, err := GenerateHTML([]*TickerBrief{sampleBrief()}, cfg)
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Friday Brief</title>",
		"Apple Inc.",
		"2024 Q1",
		"<svg",
		"AAPL Revenue",
		"iPhone sales slump",
		"https://example.com/a",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
}

func TestGenerateHTMLEscapesHeadlines(t *testing.T) {
	brief := sampleBrief()
	brief.Articles = []models.NewsArticle{
		{Title: `Apple & <friends> rally`, Source: "MarketWatch", Sentiment: 0.1},
	}
	out, err := GenerateHTML([]*TickerBrief{brief}, DefaultConfig())
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}
	if strings.Contains(out, "<friends>") {
		t.Error("headline markup was not escaped")
	}
	if !strings.Contains(out, "&lt;friends&gt;") {
		t.Error("expected escaped headline text")
	}
}

func TestBuildMetricRowsDropsEmpty(t *testing.T) {
	r := &financials.FinancialRecord{
		Ticker: "AAPL", Date: "2024-03-31",
		NetMargin:    fv(26.0),
		CurrentRatio: fv(1.04),
	}
	rows := buildMetricRows(r)
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Value == "n/a" {
			t.Errorf("row %s should have been dropped", row.Label)
		}
	}
}

func TestLineChart(t *testing.T) {
	svg := LineChart([]LineSeries{
		{Name: "Revenue", Values: []float64{100, 120, 90, 140}},
	}, []string{"Q1", "Q2", "Q3", "Q4"}, DefaultChartConfig())

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete SVG document")
	}
	for _, want := range []string{"<path", "Revenue", "Q1"} {
		if !strings.Contains(svg, want) {
			t.Errorf("chart missing %q", want)
		}
	}
}

func TestLineChartTooFewPoints(t *testing.T) {
	svg := LineChart([]LineSeries{{Name: "Revenue", Values: []float64{100}}}, nil, DefaultChartConfig())
	if !strings.Contains(svg, "Not enough data points") {
		t.Error("expected empty-chart placeholder")
	}
}

func TestGaugeChart(t *testing.T) {
	cases := []struct {
		value float64
		color string
	}{
		{0.5, "#4caf50"},
		{-0.5, "#f44336"},
		{0.0, "#9e9e9e"},
	}
	for _, tc := range cases {
		svg := GaugeChart(tc.value, "Sentiment", 180)
		if !strings.Contains(svg, tc.color) {
			t.Errorf("gauge for %.1f missing color %s", tc.value, tc.color)
		}
		if !strings.Contains(svg, "Sentiment") {
			t.Errorf("gauge for %.1f missing label", tc.value)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	got := escapeXML(`a<b>&"c"'d'`)
	want := "a&lt;b&gt;&amp;&quot;c&quot;&apos;d&apos;"
	if got != want {
		t.Errorf("escapeXML: got %q, want %q", got, want)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30.0s"},
		{90 * time.Second, "1.5m"},
		{2 * time.Hour, "2.0h"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v): got %q, want %q", tc.d, got, tc.want)
		}
	}
}

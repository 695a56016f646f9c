package store

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/marketbrief/marketbrief/internal/financials"
	"github.com/marketbrief/marketbrief/pkg/models"
)

func TestDecimalPtr(t *testing.T) {
	if got := decimalPtr(nil); got != nil {
		t.Errorf("nil input: got %v, want nil", got)
	}
	v := 123.45
	got := decimalPtr(&v)
	d, ok := got.(decimal.Decimal)
	if !ok {
		t.Fatalf("expected decimal.Decimal, got %T", got)
	}
	if !d.Equal(decimal.NewFromFloat(123.45)) {
		t.Errorf("value: got %s", d)
	}
}

func TestNullableTime(t *testing.T) {
	if got := nullableTime(time.Time{}); got != nil {
		t.Errorf("zero time: got %v, want nil", got)
	}
	now := time.Now()
	if got := nullableTime(now); got != now {
		t.Errorf("non-zero time: got %v", got)
	}
}

func TestQueueTickerDataCountsStatements(t *testing.T) {
	rev := 1000.0
	rec := &financials.FinancialRecord{
		Ticker: "AAPL", Date: "2024-03-31", Period: "2024 Q1",
		FormType: financials.Form10Q, Revenue: &rev,
	}
	data := &TickerData{
		Stock:   models.Stock{Ticker: "AAPL", CIK: "0000320193"},
		Records: []*financials.FinancialRecord{rec},
		Growth: []*financials.GrowthMetrics{
			{Ticker: "AAPL", Date: "2024-03-31", Period: "2024 Q1"},
		},
		Articles: []models.NewsArticle{
			{Title: "Apple rallies", URL: "https://example.com/a"},
		},
		Sentiment: &models.SentimentSummary{Ticker: "AAPL", Label: "bullish"},
		Earnings: []models.EarningsReport{
			{Ticker: "AAPL", Date: time.Now(), Period: "2024 Q1"},
		},
	}

	batch := &pgx.Batch{}
	queued, err := queueTickerData(batch, data)
	if err != nil {
		t.Fatalf("queueTickerData: %v", err)
	}
	// 1 stock + 1 record + 1 growth + 1 article + 1 sentiment + 1 earnings.
	if queued != 6 {
		t.Errorf("queued: got %d, want 6", queued)
	}
	if batch.Len() != queued {
		t.Errorf("batch length %d does not match queued count %d", batch.Len(), queued)
	}
}

func TestQueueTickerDataMinimal(t *testing.T) {
	data := &TickerData{Stock: models.Stock{Ticker: "MSFT"}}
	batch := &pgx.Batch{}
	queued, err := queueTickerData(batch, data)
	if err != nil {
		t.Fatalf("queueTickerData: %v", err)
	}
	if queued != 1 {
		t.Errorf("queued: got %d, want 1 (stock only)", queued)
	}
}

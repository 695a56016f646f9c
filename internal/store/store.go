package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/marketbrief/marketbrief/internal/financials"
	"github.com/marketbrief/marketbrief/pkg/models"
)

// TickerData is one ticker's complete pipeline output, saved atomically.
type TickerData struct {
	Stock     models.Stock
	Records   []*financials.FinancialRecord
	Growth    []*financials.GrowthMetrics
	Articles  []models.NewsArticle
	Sentiment *models.SentimentSummary
	Earnings  []models.EarningsReport
}

// SaveTickerData writes all of a ticker's data in one transaction.
// Either everything for the ticker lands or nothing does.
func (s *Store) SaveTickerData(ctx context.Context, data *TickerData) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	queued, err := queueTickerData(batch, data)
	if err != nil {
		return err
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("store: save %s: %w", data.Stock.Ticker, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("store: save %s: %w", data.Stock.Ticker, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit %s: %w", data.Stock.Ticker, err)
	}
	return nil
}

// queueTickerData queues every upsert for one ticker and returns the
// number of queued statements.
func queueTickerData(batch *pgx.Batch, data *TickerData) (int, error) {
	n := 0

	batch.Queue(`
		INSERT INTO stocks (ticker, cik, name, exchange, sector, industry, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			cik = EXCLUDED.cik,
			name = EXCLUDED.name,
			exchange = EXCLUDED.exchange,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			updated_at = NOW()
	`, data.Stock.Ticker, data.Stock.CIK, data.Stock.Name,
		data.Stock.Exchange, data.Stock.Sector, data.Stock.Industry)
	n++

	for _, rec := range data.Records {
		fields, err := json.Marshal(rec.Fields())
		if err != nil {
			return n, fmt.Errorf("store: marshal fields for %s: %w", rec.Key(), err)
		}
		batch.Queue(`
			INSERT INTO financial_records (
				ticker, date, form_type, period,
				revenue, net_income, operating_income,
				total_assets, total_liabilities, shareholders_equity,
				operating_cash_flow, free_cash_flow, earnings_per_share,
				altman_z_score, piotroski_f_score, fields, updated_at
			) VALUES (
				$1, $2, $3, $4,
				$5, $6, $7,
				$8, $9, $10,
				$11, $12, $13,
				$14, $15, $16, NOW()
			)
			ON CONFLICT (ticker, date, form_type) DO UPDATE SET
				period = EXCLUDED.period,
				revenue = EXCLUDED.revenue,
				net_income = EXCLUDED.net_income,
				operating_income = EXCLUDED.operating_income,
				total_assets = EXCLUDED.total_assets,
				total_liabilities = EXCLUDED.total_liabilities,
				shareholders_equity = EXCLUDED.shareholders_equity,
				operating_cash_flow = EXCLUDED.operating_cash_flow,
				free_cash_flow = EXCLUDED.free_cash_flow,
				earnings_per_share = EXCLUDED.earnings_per_share,
				altman_z_score = EXCLUDED.altman_z_score,
				piotroski_f_score = EXCLUDED.piotroski_f_score,
				fields = EXCLUDED.fields,
				updated_at = NOW()
		`, rec.Ticker, rec.Date, rec.FormType, rec.Period,
			decimalPtr(rec.Revenue), decimalPtr(rec.NetIncome), decimalPtr(rec.OperatingIncome),
			decimalPtr(rec.TotalAssets), decimalPtr(rec.TotalLiabilities), decimalPtr(rec.ShareholdersEquity),
			decimalPtr(rec.OperatingCashFlow), decimalPtr(rec.FreeCashFlow), decimalPtr(rec.EarningsPerShare),
			decimalPtr(rec.AltmanZScore), rec.PiotroskiFScore, fields)
		n++
	}

	for _, g := range data.Growth {
		batch.Queue(`
			INSERT INTO growth_metrics (
				ticker, date, period,
				revenue_growth_qoq, net_income_growth_qoq, operating_income_growth_qoq,
				revenue_growth_yoy, net_income_growth_yoy, eps_growth_yoy,
				revenue_growth_acceleration, revenue_trend, profitability_trend, updated_at
			) VALUES (
				$1, $2, $3,
				$4, $5, $6,
				$7, $8, $9,
				$10, $11, $12, NOW()
			)
			ON CONFLICT (ticker, date) DO UPDATE SET
				period = EXCLUDED.period,
				revenue_growth_qoq = EXCLUDED.revenue_growth_qoq,
				net_income_growth_qoq = EXCLUDED.net_income_growth_qoq,
				operating_income_growth_qoq = EXCLUDED.operating_income_growth_qoq,
				revenue_growth_yoy = EXCLUDED.revenue_growth_yoy,
				net_income_growth_yoy = EXCLUDED.net_income_growth_yoy,
				eps_growth_yoy = EXCLUDED.eps_growth_yoy,
				revenue_growth_acceleration = EXCLUDED.revenue_growth_acceleration,
				revenue_trend = EXCLUDED.revenue_trend,
				profitability_trend = EXCLUDED.profitability_trend,
				updated_at = NOW()
		`, g.Ticker, g.Date, g.Period,
			decimalPtr(g.RevenueGrowthQoQ), decimalPtr(g.NetIncomeGrowthQoQ), decimalPtr(g.OperatingIncomeGrowthQoQ),
			decimalPtr(g.RevenueGrowthYoY), decimalPtr(g.NetIncomeGrowthYoY), decimalPtr(g.EPSGrowthYoY),
			decimalPtr(g.RevenueGrowthAcceleration), g.RevenueTrend, g.ProfitabilityTrend)
		n++
	}

	for _, a := range data.Articles {
		batch.Queue(`
			INSERT INTO news_articles (ticker, url, title, source, summary, sentiment, published_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (ticker, url) DO UPDATE SET
				title = EXCLUDED.title,
				source = EXCLUDED.source,
				summary = EXCLUDED.summary,
				sentiment = EXCLUDED.sentiment,
				published_at = EXCLUDED.published_at,
				updated_at = NOW()
		`, data.Stock.Ticker, a.URL, a.Title, a.Source, a.Summary, a.Sentiment, nullableTime(a.PublishedAt))
		n++
	}

	if data.Sentiment != nil {
		sm := data.Sentiment
		batch.Queue(`
			INSERT INTO sentiment_summaries (ticker, score, confidence, label, article_count, computed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (ticker) DO UPDATE SET
				score = EXCLUDED.score,
				confidence = EXCLUDED.confidence,
				label = EXCLUDED.label,
				article_count = EXCLUDED.article_count,
				computed_at = EXCLUDED.computed_at
		`, sm.Ticker, sm.Score, sm.Confidence, sm.Label, sm.ArticleCount, sm.ComputedAt)
		n++
	}

	for _, e := range data.Earnings {
		batch.Queue(`
			INSERT INTO earnings_reports (
				ticker, date, period,
				eps_actual, eps_estimate, surprise_pct,
				revenue_actual, revenue_estimate, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			ON CONFLICT (ticker, date) DO UPDATE SET
				period = EXCLUDED.period,
				eps_actual = EXCLUDED.eps_actual,
				eps_estimate = EXCLUDED.eps_estimate,
				surprise_pct = EXCLUDED.surprise_pct,
				revenue_actual = EXCLUDED.revenue_actual,
				revenue_estimate = EXCLUDED.revenue_estimate,
				updated_at = NOW()
		`, e.Ticker, e.Date, e.Period,
			decimalPtr(e.EPSActual), decimalPtr(e.EPSEstimate), decimalPtr(e.SurprisePct),
			decimalPtr(e.RevenueActual), decimalPtr(e.RevenueEstimate))
		n++
	}

	return n, nil
}

// TableCounts returns the row count of every MarketBrief table, for the
// status command.
func (s *Store) TableCounts(ctx context.Context) (map[string]int64, error) {
	tables := []string{
		"stocks", "financial_records", "growth_metrics",
		"news_articles", "sentiment_summaries", "earnings_reports",
	}
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("store: count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Tickers returns every saved ticker symbol in order.
func (s *Store) Tickers(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT ticker FROM stocks ORDER BY ticker")
	if err != nil {
		return nil, fmt.Errorf("store: list tickers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("store: scan ticker: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// LatestRecordDate returns the most recent saved period end for a
// ticker, or zero time when none exists.
func (s *Store) LatestRecordDate(ctx context.Context, ticker string) (time.Time, error) {
	var latest time.Time
	err := s.pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(date), '0001-01-01'::date) FROM financial_records WHERE ticker = $1",
		ticker).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("store: latest record for %s: %w", ticker, err)
	}
	return latest, nil
}

// decimalPtr converts an optional float to a decimal database value,
// preserving NULL for absent fields.
func decimalPtr(v *float64) any {
	if v == nil {
		return nil
	}
	return decimal.NewFromFloat(*v)
}

// nullableTime maps the zero time to NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// Package pipeline orchestrates the per-ticker data flow: fetch XBRL
// facts from EDGAR, extract and clean financial records, compute
// metrics and growth, attach news sentiment and earnings, and persist
// everything in one transaction.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/marketbrief/marketbrief/internal/analysis/sentiment"
	"github.com/marketbrief/marketbrief/internal/config"
	"github.com/marketbrief/marketbrief/internal/financials"
	"github.com/marketbrief/marketbrief/internal/sec"
	"github.com/marketbrief/marketbrief/internal/store"
	"github.com/marketbrief/marketbrief/pkg/models"
	"github.com/marketbrief/marketbrief/pkg/utils"
)

// FactsSource fetches company identity and XBRL facts.
type FactsSource interface {
	ResolveCIK(ctx context.Context, ticker string) (string, error)
	CompanyFacts(ctx context.Context, ticker string) (*models.CompanyFacts, error)
}

// NewsSource fetches ticker-relevant headlines.
type NewsSource interface {
	TickerNews(ctx context.Context, ticker string, limit int) ([]models.NewsArticle, error)
}

// EarningsSource fetches quarterly earnings history and estimates.
type EarningsSource interface {
	Reports(ctx context.Context, ticker string) ([]models.EarningsReport, error)
}

// Saver persists one ticker's complete output.
type Saver interface {
	SaveTickerData(ctx context.Context, data *store.TickerData) error
}

// Status classifies a per-ticker run outcome.
type Status string

const (
	StatusOK      Status = "ok"
	StatusPartial Status = "partial" // records saved, auxiliary data incomplete
	StatusSkipped Status = "skipped" // unknown ticker or no usable filings
	StatusFailed  Status = "failed"
)

// TickerResult summarizes one ticker's run.
type TickerResult struct {
	Ticker   string
	Status   Status
	Records  int
	Articles int
	Earnings int
	Warnings []string
	Err      error
	Elapsed  time.Duration
}

// Deps are the pipeline's collaborators. News, Earnings, and Saver are
// optional; a nil source skips that stage.
type Deps struct {
	Facts    FactsSource
	Prices   financials.PriceLookup
	News     NewsSource
	Earnings EarningsSource
	Saver    Saver
}

// Pipeline runs the extract, clean, compute, analyze stages per ticker.
type Pipeline struct {
	deps       Deps
	cfg        config.PipelineConfig
	news       config.NewsConfig
	windowDays int

	extractor *financials.Extractor
	cleaner   *financials.Cleaner
	analyzer  *financials.Analyzer
}

// New builds a pipeline from its collaborators and configuration.
func New(deps Deps, cfg config.PipelineConfig, newsCfg config.NewsConfig, windowDays int) *Pipeline {
	if cfg.PeriodLimit <= 0 {
		cfg.PeriodLimit = 12
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if newsCfg.MaxArticles <= 0 {
		newsCfg.MaxArticles = 25
	}
	return &Pipeline{
		deps:       deps,
		cfg:        cfg,
		news:       newsCfg,
		windowDays: windowDays,
		extractor:  financials.NewExtractor(),
		cleaner: financials.NewCleaner(financials.CleanerOptions{
			StrictDates:          cfg.StrictDates,
			FiscalYearStartMonth: time.Month(cfg.FiscalYearStartMonth),
		}),
		analyzer: financials.NewAnalyzer(),
	}
}

// Run processes tickers concurrently and returns one result per input
// ticker, in input order. A failed ticker never stops the batch.
func (p *Pipeline) Run(ctx context.Context, tickers []string) []TickerResult {
	results := make([]TickerResult, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			results[i] = p.runTicker(gctx, ticker)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// runTicker executes every stage for one ticker. Financial records are
// mandatory; news and earnings failures downgrade the result to partial
// instead of failing it.
func (p *Pipeline) runTicker(ctx context.Context, ticker string) TickerResult {
	start := time.Now()
	sym := utils.NormalizeTicker(ticker)
	res := TickerResult{Ticker: sym}

	defer func() {
		res.Elapsed = time.Since(start)
		log.Info().
			Str("ticker", sym).
			Str("status", string(res.Status)).
			Int("records", res.Records).
			Dur("elapsed", res.Elapsed).
			Msg("ticker pipeline finished")
	}()

	cik, err := p.deps.Facts.ResolveCIK(ctx, sym)
	if err != nil {
		var unknown *sec.UnknownTickerError
		if errors.As(err, &unknown) {
			res.Status = StatusSkipped
			res.Err = err
			return res
		}
		res.Status = StatusFailed
		res.Err = fmt.Errorf("resolve CIK: %w", err)
		return res
	}

	facts, err := p.deps.Facts.CompanyFacts(ctx, sym)
	if err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("fetch company facts: %w", err)
		return res
	}

	records := p.extractor.Extract(sym, facts, p.cfg.PeriodLimit)
	if len(records) == 0 {
		res.Status = StatusSkipped
		res.Err = fmt.Errorf("no usable financial data for %s", sym)
		return res
	}

	records = p.cleaner.Clean(records)
	// Engines memoize price lookups per ticker and are not safe to share
	// across workers.
	engine := financials.NewEngine(p.deps.Prices, p.windowDays)
	records = engine.Compute(ctx, records)
	growth := p.analyzer.Analyze(records)
	res.Records = len(records)

	data := &store.TickerData{
		Stock: models.Stock{
			Ticker: sym,
			CIK:    cik,
			Name:   facts.EntityName,
		},
		Records: records,
		Growth:  growth,
	}

	if p.deps.News != nil {
		articles, err := p.deps.News.TickerNews(ctx, sym, p.news.MaxArticles)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("news: %v", err))
			log.Warn().Str("ticker", sym).Err(err).Msg("news fetch failed")
		} else if len(articles) > 0 {
			for i := range articles {
				articles[i] = sentiment.ScoreArticle(articles[i])
			}
			summary := sentiment.Aggregate(sym, articles, time.Now())
			data.Articles = articles
			data.Sentiment = &summary
			res.Articles = len(articles)
		}
	}

	if p.deps.Earnings != nil {
		reports, err := p.deps.Earnings.Reports(ctx, sym)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("earnings: %v", err))
			log.Warn().Str("ticker", sym).Err(err).Msg("earnings fetch failed")
		} else {
			data.Earnings = reports
			res.Earnings = len(reports)
		}
	}

	if p.deps.Saver != nil {
		if err := p.deps.Saver.SaveTickerData(ctx, data); err != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("save: %w", err)
			return res
		}
	}

	if len(res.Warnings) > 0 {
		res.Status = StatusPartial
	} else {
		res.Status = StatusOK
	}
	return res
}

// Brief assembles the report input for one ticker without persisting,
// reusing the same stages as Run.
func (p *Pipeline) Brief(ctx context.Context, ticker string) (*store.TickerData, error) {
	sym := utils.NormalizeTicker(ticker)

	cik, err := p.deps.Facts.ResolveCIK(ctx, sym)
	if err != nil {
		return nil, err
	}
	facts, err := p.deps.Facts.CompanyFacts(ctx, sym)
	if err != nil {
		return nil, err
	}

	records := p.extractor.Extract(sym, facts, p.cfg.PeriodLimit)
	if len(records) == 0 {
		return nil, fmt.Errorf("pipeline: no usable financial data for %s", sym)
	}
	records = p.cleaner.Clean(records)
	records = financials.NewEngine(p.deps.Prices, p.windowDays).Compute(ctx, records)

	data := &store.TickerData{
		Stock:   models.Stock{Ticker: sym, CIK: cik, Name: facts.EntityName},
		Records: records,
		Growth:  p.analyzer.Analyze(records),
	}

	if p.deps.News != nil {
		if articles, err := p.deps.News.TickerNews(ctx, sym, p.news.MaxArticles); err == nil && len(articles) > 0 {
			for i := range articles {
				articles[i] = sentiment.ScoreArticle(articles[i])
			}
			summary := sentiment.Aggregate(sym, articles, time.Now())
			data.Articles = articles
			data.Sentiment = &summary
		}
	}
	if p.deps.Earnings != nil {
		if reports, err := p.deps.Earnings.Reports(ctx, sym); err == nil {
			data.Earnings = reports
		}
	}
	return data, nil
}

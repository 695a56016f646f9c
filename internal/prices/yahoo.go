// Package prices fetches daily stock price history from the Yahoo
// Finance v8 chart API and answers point-in-time close lookups for the
// metrics pipeline.
package prices

import (
	"context"
	"fmt"
	"time"

	"github.com/marketbrief/marketbrief/internal/infra"
	"github.com/marketbrief/marketbrief/pkg/models"
	"github.com/marketbrief/marketbrief/pkg/utils"
	"github.com/phuslu/log"
)

const defaultChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// historyTTL keeps daily candles around long enough for a full
// multi-ticker pipeline run without refetching.
const historyTTL = 15 * time.Minute

// Client fetches price history from Yahoo Finance. Safe for concurrent
// use; history responses are cached per (ticker, range).
type Client struct {
	chartURL string
	cache    *infra.Cache
	limiter  *infra.RateLimiter
}

// Options configures a Client. ChartURL overrides the endpoint in tests.
type Options struct {
	ChartURL string
	// RateLimit caps requests per second. Zero defaults to 5.
	RateLimit int
}

// NewClient creates a Yahoo price client.
func NewClient(opts Options) *Client {
	if opts.ChartURL == "" {
		opts.ChartURL = defaultChartURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	return &Client{
		chartURL: opts.ChartURL,
		cache:    infra.NewCache(historyTTL),
		limiter:  infra.NewRateLimiter(opts.RateLimit, time.Second),
	}
}

// History fetches daily OHLCV candles for the ticker between start and
// end, inclusive.
func (c *Client) History(ctx context.Context, ticker string, start, end time.Time) ([]models.OHLCV, error) {
	sym := utils.NormalizeTicker(ticker)
	cacheKey := fmt.Sprintf("history:%s:%d:%d", sym, start.Unix(), end.Unix())
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]models.OHLCV), nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d",
		c.chartURL, sym, start.Unix(), end.Unix())

	var resp chartResponse
	if err := infra.FetchJSON(ctx, url, chartHeaders(), &resp); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", sym, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s", sym, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: empty result", sym)
	}

	candles := parseCandles(resp.Chart.Result[0])
	c.cache.Set(cacheKey, candles)
	return candles, nil
}

// PriceFor returns the closing price for the ticker on the given
// YYYY-MM-DD date, or the nearest later close within windowDays. A nil
// price with nil error means no trading day fell inside the window.
func (c *Client) PriceFor(ctx context.Context, ticker, date string, windowDays int) (*float64, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("price lookup date %q: %w", date, err)
	}
	if windowDays <= 0 {
		windowDays = 5
	}

	// One extra day on each side covers timezone skew in the candle
	// timestamps.
	start := day.AddDate(0, 0, -1)
	end := day.AddDate(0, 0, windowDays+1)
	candles, err := c.History(ctx, ticker, start, end)
	if err != nil {
		return nil, err
	}

	var best *models.OHLCV
	for i := range candles {
		cd := candles[i].Timestamp.UTC().Format("2006-01-02")
		if cd < date {
			continue
		}
		if cd > day.AddDate(0, 0, windowDays).Format("2006-01-02") {
			continue
		}
		if best == nil || candles[i].Timestamp.Before(best.Timestamp) {
			best = &candles[i]
		}
	}
	if best == nil || best.Close == 0 {
		log.Debug().Str("ticker", ticker).Str("date", date).
			Msg("no close within price window")
		return nil, nil
	}
	close := best.Close
	return &close, nil
}

func chartHeaders() map[string]string {
	return map[string]string{
		"User-Agent": "Mozilla/5.0 (compatible; marketbrief/1.0)",
		"Accept":     "application/json",
	}
}

// parseCandles converts a chart result to OHLCV bars, skipping slots
// with no close (halts, partial days).
func parseCandles(result chartResult) []models.OHLCV {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	q := result.Indicators.Quote[0]
	var adjCloses []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
	}

	candles := make([]models.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		c := models.OHLCV{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			c.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			c.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			c.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			c.Volume = *q.Volume[i]
		}
		if i < len(adjCloses) && adjCloses[i] != nil {
			c.AdjClose = *adjCloses[i]
		}
		candles = append(candles, c)
	}
	return candles
}

// Package earnings fetches reported and upcoming earnings events from
// the Yahoo Finance quoteSummary API.
package earnings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/marketbrief/marketbrief/internal/infra"
	"github.com/marketbrief/marketbrief/pkg/models"
	"github.com/marketbrief/marketbrief/pkg/utils"
)

const defaultSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"

// Client fetches earnings history and upcoming dates. Safe for
// concurrent use.
type Client struct {
	summaryURL string
	cache      *infra.Cache
	limiter    *infra.RateLimiter
}

// Options configures a Client. SummaryURL overrides the endpoint in
// tests.
type Options struct {
	SummaryURL string
	RateLimit  int
}

// NewClient creates a Yahoo earnings client.
func NewClient(opts Options) *Client {
	if opts.SummaryURL == "" {
		opts.SummaryURL = defaultSummaryURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	return &Client{
		summaryURL: opts.SummaryURL,
		cache:      infra.NewCache(time.Hour),
		limiter:    infra.NewRateLimiter(opts.RateLimit, time.Second),
	}
}

// Reports returns past quarterly earnings plus any announced upcoming
// earnings dates for the ticker, oldest first.
func (c *Client) Reports(ctx context.Context, ticker string) ([]models.EarningsReport, error) {
	sym := utils.NormalizeTicker(ticker)
	cacheKey := "earnings:" + sym
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]models.EarningsReport), nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?modules=earnings", c.summaryURL, sym)
	var resp summaryResponse
	if err := infra.FetchJSON(ctx, url, headers(), &resp); err != nil {
		return nil, fmt.Errorf("yahoo earnings %s: %w", sym, err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo earnings %s: %s", sym, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo earnings %s: empty result", sym)
	}

	chart := resp.QuoteSummary.Result[0].Earnings.EarningsChart
	reports := make([]models.EarningsReport, 0, len(chart.Quarterly)+1)
	for _, q := range chart.Quarterly {
		r := models.EarningsReport{
			Ticker:      sym,
			Period:      periodFromLabel(q.Date),
			Date:        quarterEnd(q.Date),
			EPSActual:   q.Actual.Raw,
			EPSEstimate: q.Estimate.Raw,
		}
		if r.EPSActual != nil && r.EPSEstimate != nil && *r.EPSEstimate != 0 {
			pct := (*r.EPSActual - *r.EPSEstimate) / abs(*r.EPSEstimate) * 100
			r.SurprisePct = &pct
		}
		reports = append(reports, r)
	}

	// The next scheduled earnings date arrives as a list of candidate
	// timestamps; the earliest is the announcement window start.
	var next *float64
	for _, d := range chart.EarningsDate {
		if d.Raw == nil {
			continue
		}
		if next == nil || *d.Raw < *next {
			next = d.Raw
		}
	}
	if next != nil {
		reports = append(reports, models.EarningsReport{
			Ticker:      sym,
			Date:        time.Unix(int64(*next), 0).UTC(),
			EPSEstimate: chart.CurrentQuarterEstimate.Raw,
		})
	}

	c.cache.Set(cacheKey, reports)
	return reports, nil
}

func headers() map[string]string {
	return map[string]string{
		"User-Agent": "Mozilla/5.0 (compatible; marketbrief/1.0)",
		"Accept":     "application/json",
	}
}

// periodFromLabel converts Yahoo's "1Q2024" form to "2024 Q1".
func periodFromLabel(label string) string {
	if len(label) == 6 && label[1] == 'Q' {
		return label[2:] + " Q" + label[:1]
	}
	return label
}

// quarterEnd maps a "1Q2024" label to the calendar quarter's last day.
func quarterEnd(label string) time.Time {
	if len(label) != 6 || label[1] != 'Q' {
		return time.Time{}
	}
	year := label[2:]
	var md string
	switch label[0] {
	case '1':
		md = "03-31"
	case '2':
		md = "06-30"
	case '3':
		md = "09-30"
	case '4':
		md = "12-31"
	default:
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", strings.Join([]string{year, md}, "-"))
	if err != nil {
		return time.Time{}
	}
	return t
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

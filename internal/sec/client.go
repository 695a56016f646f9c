// Package sec fetches company data from SEC EDGAR: the ticker-to-CIK
// mapping file and XBRL company facts documents.
//
// No API key is required, but the SEC requires a descriptive User-Agent
// header and enforces a per-agent request rate limit.
// Docs: https://www.sec.gov/edgar/sec-api-documentation
package sec

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marketbrief/marketbrief/internal/infra"
	"github.com/marketbrief/marketbrief/pkg/models"
	"github.com/marketbrief/marketbrief/pkg/utils"
	"github.com/phuslu/log"
)

const (
	defaultDataURL   = "https://data.sec.gov"
	defaultTickerURL = "https://www.sec.gov/files/company_tickers.json"

	tickerMapCacheKey = "sec:ticker_map"
)

// UnknownTickerError reports a ticker with no CIK in the SEC mapping
// file. It is permanent for the ticker and should not be retried.
type UnknownTickerError struct {
	Ticker string
}

func (e *UnknownTickerError) Error() string {
	return fmt.Sprintf("sec: no CIK mapping for ticker %s", e.Ticker)
}

// Options configures a Client. Zero values fall back to production
// endpoints and conservative defaults.
type Options struct {
	// UserAgent identifies the caller to the SEC. Required by SEC policy;
	// validation happens at config load, not here.
	UserAgent string

	// RateLimit caps requests per second. Zero defaults to 8, below the
	// SEC's published 10 req/s ceiling.
	RateLimit int

	// TickerCacheDays is how long the ticker-to-CIK mapping stays cached.
	// Zero defaults to 7 days.
	TickerCacheDays int

	// DataURL and TickerURL override the EDGAR endpoints in tests.
	DataURL   string
	TickerURL string
}

// Client talks to SEC EDGAR. Safe for concurrent use.
type Client struct {
	dataURL   string
	tickerURL string
	userAgent string
	limiter   *infra.RateLimiter
	cache     *infra.Cache
}

// NewClient creates an EDGAR client.
func NewClient(opts Options) *Client {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 8
	}
	if opts.TickerCacheDays <= 0 {
		opts.TickerCacheDays = 7
	}
	if opts.DataURL == "" {
		opts.DataURL = defaultDataURL
	}
	if opts.TickerURL == "" {
		opts.TickerURL = defaultTickerURL
	}
	return &Client{
		dataURL:   opts.DataURL,
		tickerURL: opts.TickerURL,
		userAgent: opts.UserAgent,
		limiter:   infra.NewRateLimiter(opts.RateLimit, time.Second),
		cache:     infra.NewCache(time.Duration(opts.TickerCacheDays) * 24 * time.Hour),
	}
}

// ResolveCIK maps a ticker symbol to its 10-digit zero-padded CIK.
// A ticker that is already numeric is treated as a CIK and padded.
// Returns *UnknownTickerError when the mapping file has no entry.
func (c *Client) ResolveCIK(ctx context.Context, ticker string) (string, error) {
	sym := utils.NormalizeTicker(ticker)
	if sym == "" {
		return "", &UnknownTickerError{Ticker: ticker}
	}
	if isNumeric(sym) {
		return padCIK(sym), nil
	}

	mapping, err := c.tickerMap(ctx)
	if err != nil {
		return "", err
	}
	cik, ok := mapping[sym]
	if !ok {
		return "", &UnknownTickerError{Ticker: sym}
	}
	return cik, nil
}

// CompanyFacts fetches the full XBRL company facts document for a ticker.
func (c *Client) CompanyFacts(ctx context.Context, ticker string) (*models.CompanyFacts, error) {
	cik, err := c.ResolveCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.dataURL, cik)
	var facts models.CompanyFacts
	if err := infra.FetchJSON(ctx, url, c.headers(), &facts); err != nil {
		return nil, fmt.Errorf("fetch company facts for %s: %w", ticker, err)
	}
	return &facts, nil
}

// tickerMap returns the ticker-to-padded-CIK mapping, refreshing the
// cached copy when it has expired.
func (c *Client) tickerMap(ctx context.Context) (map[string]string, error) {
	if cached, ok := c.cache.Get(tickerMapCacheKey); ok {
		return cached.(map[string]string), nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// The mapping file is a map of row index to entry, not an array.
	var rows map[string]tickerEntry
	if err := infra.FetchJSON(ctx, c.tickerURL, c.headers(), &rows); err != nil {
		return nil, fmt.Errorf("fetch ticker map: %w", err)
	}

	mapping := make(map[string]string, len(rows))
	for _, row := range rows {
		sym := strings.ToUpper(strings.TrimSpace(row.Ticker))
		if sym == "" {
			continue
		}
		mapping[sym] = padCIK(row.CIK.String())
	}
	log.Debug().Int("tickers", len(mapping)).Msg("refreshed SEC ticker map")

	c.cache.Set(tickerMapCacheKey, mapping)
	return mapping, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"User-Agent": c.userAgent,
		"Accept":     "application/json",
	}
}

// padCIK left-pads a numeric CIK to the 10 digits EDGAR URLs expect.
func padCIK(cik string) string {
	n, err := strconv.ParseInt(cik, 10, 64)
	if err != nil {
		return cik
	}
	return fmt.Sprintf("%010d", n)
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

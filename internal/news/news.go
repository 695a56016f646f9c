// Package news fetches financial headlines from RSS feeds and filters
// them per ticker.
package news

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/phuslu/log"

	"github.com/marketbrief/marketbrief/internal/infra"
	"github.com/marketbrief/marketbrief/pkg/models"
	"github.com/marketbrief/marketbrief/pkg/utils"
)

// DefaultFeeds are the US market RSS feeds used when none are configured.
var DefaultFeeds = []string{
	"https://feeds.content.dowjones.io/public/rss/RSSMarketsMain",
	"https://www.cnbc.com/id/100003114/device/rss/rss.html",
	"https://feeds.marketwatch.com/marketwatch/topstories/",
}

// Fetcher pulls articles from configured RSS feeds. Feed responses are
// cached; failed feeds are skipped with a log line rather than failing
// the whole fetch.
type Fetcher struct {
	feeds       []string
	scrapePages bool
	cache       *infra.Cache
	limiter     *infra.RateLimiter
	parser      *gofeed.Parser
}

// NewFetcher creates a news fetcher. Empty feeds falls back to
// DefaultFeeds.
func NewFetcher(feeds []string) *Fetcher {
	if len(feeds) == 0 {
		feeds = DefaultFeeds
	}
	return &Fetcher{
		feeds:   feeds,
		cache:   infra.NewCache(10 * time.Minute),
		limiter: infra.NewRateLimiter(2, time.Second),
		parser:  gofeed.NewParser(),
	}
}

// WithPageScrape enables fetching article pages to fill in summaries
// that the feed itself leaves empty.
func (f *Fetcher) WithPageScrape(enabled bool) *Fetcher {
	f.scrapePages = enabled
	return f
}

// MarketNews returns recent articles from all feeds, newest first.
func (f *Fetcher) MarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	cacheKey := fmt.Sprintf("news:market:%d", limit)
	if cached, ok := f.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	var all []models.NewsArticle
	for _, feed := range f.feeds {
		articles, err := f.fetchFeed(ctx, feed)
		if err != nil {
			log.Warn().Str("feed", feed).Err(err).Msg("skipping news feed")
			continue
		}
		all = append(all, articles...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	f.cache.Set(cacheKey, all)
	return all, nil
}

// TickerNews returns articles mentioning the ticker or its company
// name, newest first.
func (f *Fetcher) TickerNews(ctx context.Context, ticker string, limit int) ([]models.NewsArticle, error) {
	symbol := utils.NormalizeTicker(ticker)
	cacheKey := fmt.Sprintf("news:ticker:%s:%d", symbol, limit)
	if cached, ok := f.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	all, err := f.MarketNews(ctx, 0)
	if err != nil {
		return nil, err
	}

	keywords := tickerKeywords(symbol)
	var filtered []models.NewsArticle
	for _, a := range all {
		if matchesAny(a.Title+" "+a.Summary, keywords) {
			a.Tickers = []string{symbol}
			filtered = append(filtered, a)
		}
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	f.cache.Set(cacheKey, filtered)
	return filtered, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, url string) ([]models.NewsArticle, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", url, err)
	}

	source := feed.Title
	if source == "" {
		source = url
	}
	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   item.Title,
			URL:     item.Link,
			Source:  source,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		if f.scrapePages && a.Summary == "" && a.URL != "" {
			a.Summary = f.scrapeSummary(ctx, a.URL)
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// scrapeSummary fetches the article page and pulls the meta description,
// falling back to the first paragraph. Best effort; failures return "".
func (f *Fetcher) scrapeSummary(ctx context.Context, url string) string {
	if err := f.limiter.Wait(ctx); err != nil {
		return ""
	}
	body, _, err := infra.DoGet(ctx, url, nil)
	if err != nil {
		return ""
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return ""
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && desc != "" {
		return strings.TrimSpace(desc)
	}
	return strings.TrimSpace(doc.Find("p").First().Text())
}

// cleanHTML strips markup from feed descriptions.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// companyNames maps tickers to name keywords that appear in headlines
// where the bare symbol does not.
var companyNames = map[string][]string{
	"AAPL":  {"apple"},
	"MSFT":  {"microsoft"},
	"GOOGL": {"google", "alphabet"},
	"GOOG":  {"google", "alphabet"},
	"AMZN":  {"amazon"},
	"META":  {"meta platforms", "facebook"},
	"NVDA":  {"nvidia"},
	"TSLA":  {"tesla"},
	"BRK-B": {"berkshire"},
	"JPM":   {"jpmorgan", "jp morgan"},
	"V":     {"visa"},
	"WMT":   {"walmart"},
	"XOM":   {"exxon"},
	"UNH":   {"unitedhealth"},
	"JNJ":   {"johnson & johnson"},
}

// tickerKeywords returns lowercase search terms for a ticker.
func tickerKeywords(ticker string) []string {
	keywords := []string{strings.ToLower(ticker)}
	if names, ok := companyNames[ticker]; ok {
		keywords = append(keywords, names...)
	}
	return keywords
}

func matchesAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if containsWord(lower, k) {
			return true
		}
	}
	return false
}

// containsWord matches a keyword on word boundaries so short symbols
// like "V" do not match inside unrelated words.
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isAlnum(text[start-1])
		afterOK := end == len(text) || !isAlnum(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

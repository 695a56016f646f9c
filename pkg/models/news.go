package models

import "time"

// NewsArticle represents a single news article from an RSS feed or page scrape.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Tickers     []string  `json:"tickers,omitempty"` // related tickers
	Sentiment   float64   `json:"sentiment"`         // -1.0 (bearish) .. +1.0 (bullish)
}

// SentimentSummary aggregates headline sentiment for one ticker.
type SentimentSummary struct {
	Ticker       string    `json:"ticker"`
	Score        float64   `json:"score"`      // weighted average, -1.0 .. +1.0
	Confidence   float64   `json:"confidence"` // 0.0 .. 1.0
	Label        string    `json:"label"`      // "bullish", "bearish", "neutral"
	ArticleCount int       `json:"article_count"`
	ComputedAt   time.Time `json:"computed_at"`
}

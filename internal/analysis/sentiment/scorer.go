// Package sentiment scores financial headlines with a deterministic
// keyword dictionary. No external model is involved, so scores are
// reproducible run to run.
package sentiment

import (
	"math"
	"strings"
	"time"

	"github.com/marketbrief/marketbrief/pkg/models"
)

// bullish / bearish keyword dictionaries (lowercase).
var bullishWords = map[string]float64{
	"bullish": 0.7, "rally": 0.6, "surge": 0.7, "soar": 0.7,
	"upbeat": 0.5, "positive": 0.4, "growth": 0.4, "upgrade": 0.6,
	"outperform": 0.6, "buy": 0.5, "strong": 0.4, "recovery": 0.5,
	"breakout": 0.6, "record high": 0.7, "all-time high": 0.7,
	"beat": 0.5, "beats estimates": 0.6, "tops estimates": 0.6,
	"exceeds": 0.5, "expansion": 0.4, "profit": 0.3, "dividend": 0.4,
	"buyback": 0.5, "raises guidance": 0.7,
}

var bearishWords = map[string]float64{
	"bearish": 0.7, "crash": 0.8, "plunge": 0.7, "slump": 0.6,
	"tumble": 0.6, "negative": 0.4, "downgrade": 0.6, "underperform": 0.6,
	"sell": 0.5, "weak": 0.4, "decline": 0.5, "loss": 0.4,
	"selloff": 0.7, "fall": 0.4, "correction": 0.5, "recession": 0.6,
	"default": 0.7, "fraud": 0.8, "probe": 0.5, "investigation": 0.5,
	"lawsuit": 0.5, "layoff": 0.5, "miss": 0.5, "misses estimates": 0.6,
	"warning": 0.5, "concern": 0.3, "cuts guidance": 0.7, "bankruptcy": 0.9,
}

// ScoreHeadline scores a single headline from -1.0 (very bearish) to
// +1.0 (very bullish), with a confidence that grows with keyword hits.
func ScoreHeadline(headline string) (score, confidence float64) {
	lower := strings.ToLower(headline)

	bullScore, bearScore := 0.0, 0.0
	matches := 0
	for word, weight := range bullishWords {
		if strings.Contains(lower, word) {
			bullScore += weight
			matches++
		}
	}
	for word, weight := range bearishWords {
		if strings.Contains(lower, word) {
			bearScore += weight
			matches++
		}
	}

	if matches == 0 {
		return 0, 0.1
	}
	total := bullScore + bearScore
	if total == 0 {
		return 0, 0.1
	}

	score = (bullScore - bearScore) / total
	confidence = math.Min(float64(matches)*0.15+0.2, 0.85)
	return score, confidence
}

// ScoreArticle scores an article's title plus summary and returns the
// article with its Sentiment field set.
func ScoreArticle(article models.NewsArticle) models.NewsArticle {
	text := article.Title
	if article.Summary != "" {
		text += " " + article.Summary
	}
	score, _ := ScoreHeadline(text)
	article.Sentiment = score
	return article
}

// Aggregate computes a time-decayed sentiment summary for one ticker.
// Article weight halves every 24 hours from ref.
func Aggregate(ticker string, articles []models.NewsArticle, ref time.Time) models.SentimentSummary {
	summary := models.SentimentSummary{
		Ticker:       ticker,
		Label:        "neutral",
		ArticleCount: len(articles),
		ComputedAt:   ref,
	}
	if len(articles) == 0 {
		return summary
	}

	weightedSum, totalWeight, confSum := 0.0, 0.0, 0.0
	for _, a := range articles {
		score, confidence := ScoreHeadline(a.Title + " " + a.Summary)

		age := ref.Sub(a.PublishedAt).Hours()
		if age < 0 {
			age = 0
		}
		w := math.Exp(-math.Ln2*age/24) * confidence

		weightedSum += score * w
		totalWeight += w
		confSum += confidence
	}

	if totalWeight > 0 {
		summary.Score = weightedSum / totalWeight
	}
	summary.Confidence = confSum / float64(len(articles))
	summary.Label = label(summary.Score)
	return summary
}

func label(score float64) string {
	switch {
	case score > 0.1:
		return "bullish"
	case score < -0.1:
		return "bearish"
	default:
		return "neutral"
	}
}

package sentiment

import (
	"testing"
	"time"

	"github.com/marketbrief/marketbrief/pkg/models"
)

func TestScoreHeadlineBullish(t *testing.T) {
	score, conf := ScoreHeadline("Apple shares rally 5% on strong growth and positive results")
	if score <= 0 {
		t.Errorf("expected positive score for bullish headline, got %.4f", score)
	}
	if conf <= 0 {
		t.Errorf("expected positive confidence, got %.4f", conf)
	}
}

func TestScoreHeadlineBearish(t *testing.T) {
	score, conf := ScoreHeadline("Market crash: stocks plunge amid fraud investigation concerns")
	if score >= 0 {
		t.Errorf("expected negative score for bearish headline, got %.4f", score)
	}
	if conf <= 0 {
		t.Errorf("expected positive confidence, got %.4f", conf)
	}
}

func TestScoreHeadlineNeutral(t *testing.T) {
	score, conf := ScoreHeadline("Company announces new office location in Austin")
	if score != 0 {
		t.Errorf("expected zero score for neutral headline, got %.4f", score)
	}
	if conf > 0.2 {
		t.Errorf("expected low confidence for neutral, got %.4f", conf)
	}
}

func TestScoreHeadlineDeterministic(t *testing.T) {
	headline := "Nvidia tops estimates as data center growth surges, announces buyback"
	first, _ := ScoreHeadline(headline)
	for i := 0; i < 10; i++ {
		again, _ := ScoreHeadline(headline)
		if again != first {
			t.Fatalf("score varied across runs: %.6f vs %.6f", first, again)
		}
	}
}

func TestScoreArticle(t *testing.T) {
	article := models.NewsArticle{
		Title:       "S&P 500 surges to record high on bullish momentum",
		Source:      "MarketWatch",
		URL:         "https://example.com/article1",
		PublishedAt: time.Now(),
	}
	scored := ScoreArticle(article)
	if scored.Sentiment <= 0 {
		t.Errorf("expected positive sentiment, got %.4f", scored.Sentiment)
	}
	if scored.Source != "MarketWatch" {
		t.Errorf("expected source preserved, got %s", scored.Source)
	}
}

func TestAggregate(t *testing.T) {
	now := time.Now()
	articles := []models.NewsArticle{
		{Title: "Apple stock surges on strong earnings beat", PublishedAt: now},
		{Title: "Positive growth outlook for services segment", PublishedAt: now.Add(-12 * time.Hour)},
		{Title: "Analyst flags margin concern", PublishedAt: now.Add(-36 * time.Hour)},
	}

	agg := Aggregate("AAPL", articles, now)
	if agg.Ticker != "AAPL" {
		t.Errorf("expected AAPL, got %s", agg.Ticker)
	}
	if agg.Score <= 0 {
		t.Errorf("expected positive aggregate score, got %.4f", agg.Score)
	}
	if agg.ArticleCount != 3 {
		t.Errorf("expected 3 articles, got %d", agg.ArticleCount)
	}
	if agg.Label != "bullish" {
		t.Errorf("expected bullish label, got %s", agg.Label)
	}
}

func TestAggregateRecentArticlesWeighMore(t *testing.T) {
	now := time.Now()
	// One fresh bearish headline against one stale bullish headline of
	// equal strength: recency should tip the aggregate negative.
	articles := []models.NewsArticle{
		{Title: "Shares plunge on earnings miss", PublishedAt: now},
		{Title: "Shares surge on earnings beat", PublishedAt: now.Add(-96 * time.Hour)},
	}
	agg := Aggregate("AAPL", articles, now)
	if agg.Score >= 0 {
		t.Errorf("expected negative time-weighted score, got %.4f", agg.Score)
	}
}

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate("AAPL", nil, time.Now())
	if agg.Label != "neutral" {
		t.Errorf("expected neutral, got %s", agg.Label)
	}
	if agg.Score != 0 || agg.Confidence != 0 {
		t.Errorf("expected zero score and confidence, got %.4f / %.4f", agg.Score, agg.Confidence)
	}
}

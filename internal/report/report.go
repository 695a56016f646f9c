// Package report renders the market brief: per-ticker fundamentals,
// growth trends, sentiment, and upcoming earnings, as terminal text or
// a standalone HTML document with embedded SVG charts.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/marketbrief/marketbrief/internal/financials"
	"github.com/marketbrief/marketbrief/pkg/models"
	"github.com/marketbrief/marketbrief/pkg/utils"
)

// Format specifies the output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
)

// Config controls brief generation.
type Config struct {
	Format Format
	Title  string
	Author string
	Chart  ChartConfig
}

// DefaultConfig returns rendering defaults.
func DefaultConfig() Config {
	return Config{
		Format: FormatText,
		Author: "MarketBrief",
		Chart:  DefaultChartConfig(),
	}
}

// TickerBrief is one ticker's slice of the brief.
type TickerBrief struct {
	Stock     models.Stock
	Records   []*financials.FinancialRecord // newest first
	Growth    []*financials.GrowthMetrics   // oldest first
	Sentiment *models.SentimentSummary
	Earnings  []models.EarningsReport
	Articles  []models.NewsArticle
}

// briefData is the flattened template model.
type briefData struct {
	Title       string
	Author      string
	GeneratedAt string
	Tickers     []tickerSection
}

type tickerSection struct {
	Ticker      string
	CompanyName string
	Exchange    string

	LatestPeriod string
	Revenue      string
	NetIncome    string
	NetMargin    string
	EPS          string
	MarketCap    string
	PE           string
	AltmanZ      string
	PiotroskiF   string

	RevenueQoQ   string
	RevenueYoY   string
	RevenueTrend string
	ProfitTrend  string

	SentimentLabel string
	SentimentScore string
	ArticleCount   int

	NextEarnings string

	MetricRows []MetricRow
	Headlines  []HeadlineRow

	RevenueChart   template.HTML
	SentimentGauge template.HTML
}

// MetricRow is one label/value line in the metrics table.
type MetricRow struct {
	Label string
	Value string
}

// HeadlineRow is one rendered headline.
type HeadlineRow struct {
	Title     string
	Source    string
	Sentiment string
	URL       string
}

// GenerateText renders the brief for the terminal.
func GenerateText(briefs []*TickerBrief, cfg Config) (string, error) {
	if len(briefs) == 0 {
		return "", fmt.Errorf("report: no tickers to render")
	}
	return renderText(buildBriefData(briefs, cfg)), nil
}

// GenerateHTML renders the brief as a standalone HTML document.
func GenerateHTML(briefs []*TickerBrief, cfg Config) (string, error) {
	if len(briefs) == 0 {
		return "", fmt.Errorf("report: no tickers to render")
	}
	tmpl, err := template.New("brief").Parse(briefTemplate)
	if err != nil {
		return "", fmt.Errorf("report: parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildBriefData(briefs, cfg)); err != nil {
		return "", fmt.Errorf("report: execute template: %w", err)
	}
	return buf.String(), nil
}

func buildBriefData(briefs []*TickerBrief, cfg Config) briefData {
	data := briefData{
		Title:       cfg.Title,
		Author:      cfg.Author,
		GeneratedAt: utils.NowET().Format("02 Jan 2006, 03:04 PM ET"),
	}
	if data.Title == "" {
		data.Title = "Market Brief"
	}
	for _, b := range briefs {
		data.Tickers = append(data.Tickers, buildTickerSection(b, cfg))
	}
	return data
}

func buildTickerSection(b *TickerBrief, cfg Config) tickerSection {
	sec := tickerSection{
		Ticker:      b.Stock.Ticker,
		CompanyName: b.Stock.Name,
		Exchange:    b.Stock.Exchange,
	}

	var latest *financials.FinancialRecord
	if len(b.Records) > 0 {
		latest = b.Records[0]
	}
	if latest != nil {
		sec.LatestPeriod = latest.Period
		sec.Revenue = fmtUSDPtr(latest.Revenue)
		sec.NetIncome = fmtUSDPtr(latest.NetIncome)
		sec.NetMargin = fmtPctPtr(latest.NetMargin)
		sec.EPS = fmtRatioPtr(latest.EarningsPerShare)
		sec.MarketCap = fmtUSDPtr(latest.MarketCap)
		sec.PE = fmtRatioPtr(latest.PriceToEarnings)
		sec.AltmanZ = fmtRatioPtr(latest.AltmanZScore)
		if latest.PiotroskiFScore != nil {
			sec.PiotroskiF = fmt.Sprintf("%d / 8", *latest.PiotroskiFScore)
		} else {
			sec.PiotroskiF = "n/a"
		}
		sec.MetricRows = buildMetricRows(latest)
	}

	if len(b.Growth) > 0 {
		g := b.Growth[len(b.Growth)-1]
		sec.RevenueQoQ = fmtPctPtr(g.RevenueGrowthQoQ)
		sec.RevenueYoY = fmtPctPtr(g.RevenueGrowthYoY)
		sec.RevenueTrend = g.RevenueTrend
		sec.ProfitTrend = g.ProfitabilityTrend
	}

	if b.Sentiment != nil {
		sec.SentimentLabel = b.Sentiment.Label
		sec.SentimentScore = fmt.Sprintf("%+.2f", b.Sentiment.Score)
		sec.ArticleCount = b.Sentiment.ArticleCount
		sec.SentimentGauge = template.HTML(GaugeChart(b.Sentiment.Score, "Sentiment", 180))
	}

	if next := models.NextEarningsDate(b.Earnings, time.Now()); next != nil {
		sec.NextEarnings = next.Date.Format("02 Jan 2006")
	}

	for i, a := range b.Articles {
		if i >= 5 {
			break
		}
		sec.Headlines = append(sec.Headlines, HeadlineRow{
			Title:     a.Title,
			Source:    a.Source,
			Sentiment: fmt.Sprintf("%+.2f", a.Sentiment),
			URL:       a.URL,
		})
	}

	// Revenue sparkline over the record series, oldest to newest.
	var labels []string
	var revs []float64
	for i := len(b.Records) - 1; i >= 0; i-- {
		if r := b.Records[i]; r.Revenue != nil {
			labels = append(labels, r.Period)
			revs = append(revs, *r.Revenue)
		}
	}
	if len(revs) >= 2 {
		chartCfg := cfg.Chart
		chartCfg.Title = b.Stock.Ticker + " Revenue"
		sec.RevenueChart = template.HTML(LineChart(
			[]LineSeries{{Name: "Revenue", Values: revs}}, labels, chartCfg))
	}

	return sec
}

func buildMetricRows(r *financials.FinancialRecord) []MetricRow {
	rows := []MetricRow{
		{Label: "Gross Margin", Value: fmtPctPtr(r.GrossMargin)},
		{Label: "Operating Margin", Value: fmtPctPtr(r.OperatingMargin)},
		{Label: "Net Margin", Value: fmtPctPtr(r.NetMargin)},
		{Label: "Current Ratio", Value: fmtRatioPtr(r.CurrentRatio)},
		{Label: "Debt/Equity", Value: fmtRatioPtr(r.DebtToEquity)},
		{Label: "ROA", Value: fmtPctPtr(r.ReturnOnAssets)},
		{Label: "ROE", Value: fmtPctPtr(r.ReturnOnEquity)},
		{Label: "Asset Turnover", Value: fmtRatioPtr(r.AssetTurnover)},
		{Label: "P/E", Value: fmtRatioPtr(r.PriceToEarnings)},
		{Label: "P/B", Value: fmtRatioPtr(r.PriceToBook)},
		{Label: "EV/Revenue", Value: fmtRatioPtr(r.EVToRevenue)},
		{Label: "Free Cash Flow", Value: fmtUSDPtr(r.FreeCashFlow)},
	}
	// Drop rows with no value to keep the table tight.
	out := rows[:0]
	for _, row := range rows {
		if row.Value != "n/a" {
			out = append(out, row)
		}
	}
	return out
}

func renderText(d briefData) string {
	var sb strings.Builder
	line := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	sb.WriteString("\n" + line + "\n")
	sb.WriteString(fmt.Sprintf("  %s\n", d.Title))
	sb.WriteString(fmt.Sprintf("  Generated: %s\n", d.GeneratedAt))
	sb.WriteString(line + "\n")

	for _, t := range d.Tickers {
		name := t.CompanyName
		if name == "" {
			name = t.Ticker
		}
		sb.WriteString(fmt.Sprintf("\n  %s (%s)", name, t.Ticker))
		if t.Exchange != "" {
			sb.WriteString(" — " + t.Exchange)
		}
		sb.WriteString("\n" + thin + "\n")

		if t.LatestPeriod != "" {
			sb.WriteString(fmt.Sprintf("  Latest period: %s\n", t.LatestPeriod))
			sb.WriteString(fmt.Sprintf("  Revenue: %s | Net Income: %s | Net Margin: %s\n",
				t.Revenue, t.NetIncome, t.NetMargin))
			sb.WriteString(fmt.Sprintf("  EPS: %s | Market Cap: %s | P/E: %s\n",
				t.EPS, t.MarketCap, t.PE))
			sb.WriteString(fmt.Sprintf("  Altman Z: %s | Piotroski F: %s\n", t.AltmanZ, t.PiotroskiF))
		} else {
			sb.WriteString("  No financial records available.\n")
		}

		if t.RevenueTrend != "" {
			sb.WriteString(fmt.Sprintf("  Growth: QoQ %s | YoY %s | Revenue trend: %s | Profitability: %s\n",
				t.RevenueQoQ, t.RevenueYoY, t.RevenueTrend, t.ProfitTrend))
		}
		if t.SentimentLabel != "" {
			sb.WriteString(fmt.Sprintf("  Sentiment: %s (%s across %d articles)\n",
				t.SentimentLabel, t.SentimentScore, t.ArticleCount))
		}
		if t.NextEarnings != "" {
			sb.WriteString(fmt.Sprintf("  Next earnings: %s\n", t.NextEarnings))
		}

		if len(t.MetricRows) > 0 {
			sb.WriteString("\n  Key metrics:\n")
			for _, row := range t.MetricRows {
				sb.WriteString(fmt.Sprintf("    %-20s %s\n", row.Label, row.Value))
			}
		}
		if len(t.Headlines) > 0 {
			sb.WriteString("\n  Headlines:\n")
			for _, h := range t.Headlines {
				sb.WriteString(fmt.Sprintf("    [%s] %s (%s)\n", h.Sentiment, h.Title, h.Source))
			}
		}
		sb.WriteString(thin + "\n")
	}

	sb.WriteString("\n" + line + "\n")
	sb.WriteString("  Data: SEC EDGAR, Yahoo Finance, public RSS feeds. Not financial advice.\n")
	sb.WriteString(line + "\n")
	return sb.String()
}

func fmtUSDPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return utils.FormatUSDCompact(*v)
}

func fmtPctPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return utils.FormatPct(*v)
}

func fmtRatioPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return utils.FormatRatio(*v)
}

// FormatDuration formats a run duration for status lines.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

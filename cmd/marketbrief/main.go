// MarketBrief — SEC fundamentals, prices, news sentiment, and earnings
// aggregated into a per-ticker market brief.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketbrief/marketbrief/internal/analysis/sentiment"
	"github.com/marketbrief/marketbrief/internal/config"
	"github.com/marketbrief/marketbrief/internal/earnings"
	"github.com/marketbrief/marketbrief/internal/infra"
	"github.com/marketbrief/marketbrief/internal/news"
	"github.com/marketbrief/marketbrief/internal/pipeline"
	"github.com/marketbrief/marketbrief/internal/prices"
	"github.com/marketbrief/marketbrief/internal/report"
	"github.com/marketbrief/marketbrief/internal/sec"
	"github.com/marketbrief/marketbrief/internal/store"
	"github.com/marketbrief/marketbrief/pkg/models"
	"github.com/marketbrief/marketbrief/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "marketbrief",
	Short: "MarketBrief — SEC fundamentals and market sentiment briefs",
	Long: `MarketBrief aggregates SEC EDGAR XBRL filings, stock prices, news
sentiment, and earnings history into per-ticker financial metrics and a
rendered market brief.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		infra.SetupLogging(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(briefCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(statusCmd)
}

// buildPipeline wires the data sources into a pipeline. The saver is
// attached only when a database URL is configured.
func buildPipeline(ctx context.Context, withStore bool) (*pipeline.Pipeline, *store.Store, error) {
	secClient := sec.NewClient(sec.Options{
		UserAgent:       cfg.SEC.UserAgent,
		RateLimit:       cfg.SEC.RateLimit,
		TickerCacheDays: cfg.SEC.TickerCacheDays,
	})
	priceClient := prices.NewClient(prices.Options{})
	newsFetcher := news.NewFetcher(cfg.News.Feeds).WithPageScrape(cfg.News.ScrapePages)
	earningsClient := earnings.NewClient(earnings.Options{})

	deps := pipeline.Deps{
		Facts:    secClient,
		Prices:   priceClient,
		News:     newsFetcher,
		Earnings: earningsClient,
	}

	var st *store.Store
	if withStore && cfg.Database.URL != "" {
		var err error
		st, err = store.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		if cfg.Database.Migrate {
			if err := st.Migrate(ctx); err != nil {
				st.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		deps.Saver = st
	}

	p := pipeline.New(deps, cfg.Pipeline, cfg.News, cfg.Prices.WindowDays)
	return p, st, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("MarketBrief %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [tickers...]",
	Short: "Run the data pipeline for one or more tickers",
	Long: `Fetch SEC filings, compute metrics and growth, attach news sentiment
and earnings, and persist results when a database is configured.

Examples:
  marketbrief analyze AAPL
  marketbrief analyze AAPL,MSFT GOOG`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tickers := utils.SplitTickers(strings.Join(args, ","))
		if len(tickers) == 0 {
			return fmt.Errorf("no valid tickers given")
		}

		ctx := cmd.Context()
		p, st, err := buildPipeline(ctx, true)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		} else {
			fmt.Println("⚠️  No database configured; results will not be persisted.")
		}

		start := time.Now()
		results := p.Run(ctx, tickers)

		fmt.Printf("\n  %-8s %-8s %-8s %-9s %-9s %s\n", "TICKER", "STATUS", "RECORDS", "ARTICLES", "EARNINGS", "NOTES")
		failed := 0
		for _, res := range results {
			note := ""
			if res.Err != nil {
				note = res.Err.Error()
			} else if len(res.Warnings) > 0 {
				note = strings.Join(res.Warnings, "; ")
			}
			if res.Status == pipeline.StatusFailed {
				failed++
			}
			fmt.Printf("  %-8s %-8s %-8d %-9d %-9d %s\n",
				res.Ticker, res.Status, res.Records, res.Articles, res.Earnings, note)
		}
		fmt.Printf("\n  Done in %s.\n", report.FormatDuration(time.Since(start)))

		if failed > 0 {
			return fmt.Errorf("%d of %d tickers failed", failed, len(results))
		}
		return nil
	},
}

// --- Brief Command ---

var briefCmd = &cobra.Command{
	Use:   "brief [tickers...]",
	Short: "Generate a market brief report",
	Long: `Run the pipeline for the given tickers and render a market brief.

Examples:
  marketbrief brief AAPL MSFT
  marketbrief brief AAPL --format html --output ./reports
  marketbrief brief AAPL --pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tickers := utils.SplitTickers(strings.Join(args, ","))
		if len(tickers) == 0 {
			return fmt.Errorf("no valid tickers given")
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = cfg.Report.Format
		}
		pdf, _ := cmd.Flags().GetBool("pdf")
		outDir, _ := cmd.Flags().GetString("output")
		if outDir == "" {
			outDir = cfg.Report.OutputDir
		}

		ctx := cmd.Context()
		p, st, err := buildPipeline(ctx, false)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		var briefs []*report.TickerBrief
		for _, ticker := range tickers {
			data, err := p.Brief(ctx, ticker)
			if err != nil {
				fmt.Printf("⚠️  %s: %v\n", ticker, err)
				continue
			}
			briefs = append(briefs, &report.TickerBrief{
				Stock:     data.Stock,
				Records:   data.Records,
				Growth:    data.Growth,
				Sentiment: data.Sentiment,
				Earnings:  data.Earnings,
				Articles:  data.Articles,
			})
		}
		if len(briefs) == 0 {
			return fmt.Errorf("no tickers produced a brief")
		}

		rcfg := report.DefaultConfig()
		rcfg.Title = cfg.Report.Title

		if format == "text" && !pdf {
			out, err := report.GenerateText(briefs, rcfg)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		}

		html, err := report.GenerateHTML(briefs, rcfg)
		if err != nil {
			return err
		}

		stamp := time.Now().Format("20060102_150405")
		if pdf {
			pdfCfg := report.DefaultPDFConfig()
			pdfCfg.OutputPath = filepath.Join(outDir, "brief_"+stamp+".pdf")
			if err := report.GeneratePDF(html, pdfCfg); err != nil {
				return err
			}
			fmt.Printf("📄 Brief written to %s\n", pdfCfg.OutputPath)
			return nil
		}

		mailer := &report.FileMailer{Dir: outDir}
		if err := mailer.Send(ctx, rcfg.Title, html); err != nil {
			return err
		}
		fmt.Printf("📄 Brief written to %s\n", mailer.LastPath())
		return nil
	},
}

func init() {
	briefCmd.Flags().String("format", "", "output format: text or html (default from config)")
	briefCmd.Flags().String("output", "", "output directory for html/pdf briefs")
	briefCmd.Flags().Bool("pdf", false, "render the brief as a PDF")
}

// --- Prices Command ---

var pricesCmd = &cobra.Command{
	Use:   "prices [ticker]",
	Short: "Show recent daily closing prices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])
		days, _ := cmd.Flags().GetInt("days")

		client := prices.NewClient(prices.Options{})
		end := time.Now()
		start := end.AddDate(0, 0, -days)
		candles, err := client.History(cmd.Context(), ticker, start, end)
		if err != nil {
			return err
		}
		if len(candles) == 0 {
			return fmt.Errorf("no price data for %s", ticker)
		}

		fmt.Printf("  %s — last %d candles\n\n", ticker, len(candles))
		fmt.Printf("  %-12s %10s %10s %10s %10s %12s\n", "DATE", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
		for _, c := range candles {
			fmt.Printf("  %-12s %10.2f %10.2f %10.2f %10.2f %12d\n",
				c.Timestamp.Format("2006-01-02"), c.Open, c.High, c.Low, c.Close, c.Volume)
		}
		return nil
	},
}

func init() {
	pricesCmd.Flags().Int("days", 30, "number of calendar days of history")
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [ticker]",
	Short: "Show scored market or ticker headlines",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		fetcher := news.NewFetcher(cfg.News.Feeds)

		var (
			articles []models.NewsArticle
			err      error
		)
		if len(args) == 1 {
			ticker := utils.NormalizeTicker(args[0])
			fmt.Printf("📰 Headlines mentioning %s\n\n", ticker)
			articles, err = fetcher.TickerNews(cmd.Context(), ticker, limit)
		} else {
			fmt.Println("📰 Market headlines")
			fmt.Println()
			articles, err = fetcher.MarketNews(cmd.Context(), limit)
		}
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			fmt.Println("  No headlines found.")
			return nil
		}
		for _, a := range articles {
			a = sentiment.ScoreArticle(a)
			fmt.Printf("  [%+.2f] %s\n          %s · %s\n",
				a.Sentiment, a.Title, a.Source, a.PublishedAt.Format("02 Jan 15:04"))
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().Int("limit", 15, "maximum number of headlines")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  MarketBrief — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Market Status: %s\n", utils.MarketStatus())
		fmt.Printf("  Time (ET):     %s\n", utils.NowET().Format("02 Jan 2006, 03:04 PM"))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Period Limit:    %d\n", cfg.Pipeline.PeriodLimit)
		fmt.Printf("    Concurrency:     %d\n", cfg.Pipeline.Concurrency)
		fmt.Printf("    Report Format:   %s\n", cfg.Report.Format)
		fmt.Printf("    PDF Engine:      %s\n", report.DetectPDFEngine())
		fmt.Println()

		fmt.Println("  Settings:")
		for _, s := range config.CheckSettings(cfg) {
			mark := "❌ not set"
			if s.IsSet {
				mark = fmt.Sprintf("✅ %s (%s)", s.Display, s.Source)
			}
			fmt.Printf("    %-16s %s\n", s.Name+":", mark)
		}
		fmt.Println()

		if cfg.Database.URL == "" {
			fmt.Println("  Database:        ❌ not configured")
			fmt.Println("═══════════════════════════════════════")
			return nil
		}

		st, err := store.Connect(cmd.Context(), cfg.Database.URL)
		if err != nil {
			fmt.Printf("  Database:        ❌ %v\n", err)
			fmt.Println("═══════════════════════════════════════")
			return nil
		}
		defer st.Close()

		counts, err := st.TableCounts(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("  Database:        ✅ connected")
		for _, table := range []string{
			"stocks", "financial_records", "growth_metrics",
			"news_articles", "sentiment_summaries", "earnings_reports",
		} {
			fmt.Printf("    %-22s %d rows\n", table+":", counts[table])
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

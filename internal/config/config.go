// Package config handles configuration loading for MarketBrief.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	SEC      SECConfig      `mapstructure:"sec"      yaml:"sec"`
	Prices   PricesConfig   `mapstructure:"prices"   yaml:"prices"`
	News     NewsConfig     `mapstructure:"news"     yaml:"news"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Report   ReportConfig   `mapstructure:"report"   yaml:"report"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// SECConfig holds SEC EDGAR client settings.
type SECConfig struct {
	UserAgent       string `mapstructure:"user_agent"        yaml:"user_agent"`        // required by SEC policy: name + contact
	TickerCacheDays int    `mapstructure:"ticker_cache_days" yaml:"ticker_cache_days"` // ticker→CIK map refresh interval
	RateLimit       int    `mapstructure:"rate_limit"        yaml:"rate_limit"`        // requests per second
}

// PricesConfig holds the stock price source settings.
type PricesConfig struct {
	WindowDays int `mapstructure:"window_days" yaml:"window_days"` // ±N-day fallback for price-on-date lookup
	CacheTTL   int `mapstructure:"cache_ttl"   yaml:"cache_ttl"`   // seconds
}

// NewsConfig holds news fetching settings.
type NewsConfig struct {
	Feeds       []string `mapstructure:"feeds"        yaml:"feeds"`        // RSS feed URLs
	MaxArticles int      `mapstructure:"max_articles" yaml:"max_articles"` // per ticker
	ScrapePages bool     `mapstructure:"scrape_pages" yaml:"scrape_pages"` // enrich summaries via page scrape
}

// PipelineConfig holds pipeline orchestration and fiscal-calendar policy.
type PipelineConfig struct {
	PeriodLimit          int  `mapstructure:"period_limit"            yaml:"period_limit"`            // max reporting periods per ticker
	Concurrency          int  `mapstructure:"concurrency"             yaml:"concurrency"`             // parallel ticker workers
	StrictDates          bool `mapstructure:"strict_dates"            yaml:"strict_dates"`            // drop records with non-canonical dates
	FiscalYearStartMonth int  `mapstructure:"fiscal_year_start_month" yaml:"fiscal_year_start_month"` // months >= this roll to next fiscal year
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	URL     string `mapstructure:"url"      yaml:"url"` // postgres://...
	Migrate bool   `mapstructure:"migrate"  yaml:"migrate"`
}

// ReportConfig holds market-brief rendering settings.
type ReportConfig struct {
	Title     string `mapstructure:"title"      yaml:"title"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Format    string `mapstructure:"format"     yaml:"format"` // "html" or "text"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.marketbrief/config.yaml (home directory)
//  3. /etc/marketbrief/config.yaml (system)
//
// Environment variables override config file values.
// Format: MARKETBRIEF_<SECTION>_<KEY>, e.g., MARKETBRIEF_DATABASE_URL
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".marketbrief"))
	v.AddConfigPath("/etc/marketbrief")

	v.SetEnvPrefix("MARKETBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist).
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("MARKETBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// SEC defaults. The User-Agent must identify the operator per SEC policy.
	v.SetDefault("sec.user_agent", "marketbrief/1.0 (github.com/marketbrief/marketbrief)")
	v.SetDefault("sec.ticker_cache_days", 7)
	v.SetDefault("sec.rate_limit", 8) // stay under SEC's 10 req/s

	// Price source defaults
	v.SetDefault("prices.window_days", 5)
	v.SetDefault("prices.cache_ttl", 900) // 15 minutes

	// News defaults
	v.SetDefault("news.feeds", []string{
		"https://feeds.a.dj.com/rss/RSSMarketsMain.xml",
		"https://www.cnbc.com/id/100003114/device/rss/rss.html",
		"https://feeds.content.dowjones.io/public/rss/mw_topstories",
	})
	v.SetDefault("news.max_articles", 25)
	v.SetDefault("news.scrape_pages", false)

	// Pipeline defaults
	v.SetDefault("pipeline.period_limit", 12)
	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("pipeline.strict_dates", false)
	v.SetDefault("pipeline.fiscal_year_start_month", 10) // October fiscal-year start

	// Database defaults
	v.SetDefault("database.url", "")
	v.SetDefault("database.migrate", true)

	// Report defaults
	v.SetDefault("report.title", "Market Brief")
	v.SetDefault("report.output_dir", "./reports")
	v.SetDefault("report.format", "html")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if url := os.Getenv("MARKETBRIEF_DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if ua := os.Getenv("MARKETBRIEF_SEC_USER_AGENT"); ua != "" {
		cfg.SEC.UserAgent = ua
	}
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	if c.SEC.UserAgent == "" {
		return fmt.Errorf("sec.user_agent must be set (SEC requires an identifying User-Agent)")
	}
	if c.Pipeline.FiscalYearStartMonth < 1 || c.Pipeline.FiscalYearStartMonth > 12 {
		return fmt.Errorf("pipeline.fiscal_year_start_month must be 1-12, got %d", c.Pipeline.FiscalYearStartMonth)
	}
	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("pipeline.concurrency must be >= 1, got %d", c.Pipeline.Concurrency)
	}
	if c.Pipeline.PeriodLimit < 1 {
		return fmt.Errorf("pipeline.period_limit must be >= 1, got %d", c.Pipeline.PeriodLimit)
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

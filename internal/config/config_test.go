package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	// Unset any env vars that would interfere.
	for _, e := range []string{
		"MARKETBRIEF_DATABASE_URL", "MARKETBRIEF_SEC_USER_AGENT",
	} {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SEC.TickerCacheDays != 7 {
		t.Errorf("SEC.TickerCacheDays: got %d, want 7", cfg.SEC.TickerCacheDays)
	}
	if cfg.SEC.RateLimit != 8 {
		t.Errorf("SEC.RateLimit: got %d, want 8", cfg.SEC.RateLimit)
	}
	if cfg.Prices.WindowDays != 5 {
		t.Errorf("Prices.WindowDays: got %d, want 5", cfg.Prices.WindowDays)
	}
	if cfg.Pipeline.PeriodLimit != 12 {
		t.Errorf("Pipeline.PeriodLimit: got %d, want 12", cfg.Pipeline.PeriodLimit)
	}
	if cfg.Pipeline.FiscalYearStartMonth != 10 {
		t.Errorf("Pipeline.FiscalYearStartMonth: got %d, want 10", cfg.Pipeline.FiscalYearStartMonth)
	}
	if cfg.Pipeline.StrictDates {
		t.Error("Pipeline.StrictDates: expected lenient default")
	}
	if len(cfg.News.Feeds) == 0 {
		t.Error("News.Feeds: expected default feeds")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
sec:
  user_agent: "test/1.0 (ops@example.com)"
  ticker_cache_days: 3
pipeline:
  period_limit: 8
  concurrency: 2
  fiscal_year_start_month: 1
database:
  url: "postgres://localhost/marketbrief_test"
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile error: %v", err)
	}

	if cfg.SEC.UserAgent != "test/1.0 (ops@example.com)" {
		t.Errorf("SEC.UserAgent: got %q", cfg.SEC.UserAgent)
	}
	if cfg.SEC.TickerCacheDays != 3 {
		t.Errorf("SEC.TickerCacheDays: got %d, want 3", cfg.SEC.TickerCacheDays)
	}
	if cfg.Pipeline.PeriodLimit != 8 {
		t.Errorf("Pipeline.PeriodLimit: got %d, want 8", cfg.Pipeline.PeriodLimit)
	}
	if cfg.Pipeline.FiscalYearStartMonth != 1 {
		t.Errorf("Pipeline.FiscalYearStartMonth: got %d, want 1", cfg.Pipeline.FiscalYearStartMonth)
	}
	if cfg.Database.URL != "postgres://localhost/marketbrief_test" {
		t.Errorf("Database.URL: got %q", cfg.Database.URL)
	}
	// Untouched sections keep defaults.
	if cfg.Prices.WindowDays != 5 {
		t.Errorf("Prices.WindowDays: got %d, want default 5", cfg.Prices.WindowDays)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MARKETBRIEF_DATABASE_URL", "postgres://env-host/db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Database.URL != "postgres://env-host/db" {
		t.Errorf("Database.URL: got %q, want env override", cfg.Database.URL)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.Pipeline.FiscalYearStartMonth = 13
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid fiscal year start month")
	}

	cfg.Pipeline.FiscalYearStartMonth = 10
	cfg.SEC.UserAgent = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty SEC user agent")
	}
}

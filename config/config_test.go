package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigWithRoot(t *testing.T) {
	cfg := DefaultConfigWithRoot("/tmp/mb")
	if cfg.ReportsDir != filepath.Join("/tmp/mb", "reports") {
		t.Errorf("reports dir = %s", cfg.ReportsDir)
	}
	if cfg.BatchSize != 20 || cfg.Workers != 10 || cfg.BatchDelayMs != 500 {
		t.Errorf("unexpected fetch defaults: %d/%d/%d", cfg.BatchSize, cfg.Workers, cfg.BatchDelayMs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfigWithRoot(t.TempDir())

	cfg.Timezone = "Not/AZone"
	if err := cfg.Validate(); err == nil {
		t.Error("bad timezone should fail validation")
	}

	cfg = DefaultConfigWithRoot(t.TempDir())
	cfg.PreMarketTime = "25:99"
	if err := cfg.Validate(); err == nil {
		t.Error("bad schedule time should fail validation")
	}

	cfg = DefaultConfigWithRoot(t.TempDir())
	cfg.SMTPPort = 700000
	if err := cfg.Validate(); err == nil {
		t.Error("out-of-range smtp port should fail validation")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WATCHLIST_SYMBOLS", "AAPL, MSFT ,BTC-USD")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("LLM_PROVIDER", "deepseek")
	t.Setenv("EARNINGS_DAYS", "21")
	t.Setenv("DIVIDEND_DAYS", "10")

	cfg := DefaultConfigWithRoot(t.TempDir())
	cfg.loadFromEnv()

	if len(cfg.Symbols) != 3 || cfg.Symbols[1] != "MSFT" {
		t.Errorf("symbols = %v", cfg.Symbols)
	}
	if cfg.SMTPPort != 465 {
		t.Errorf("smtp port = %d, want 465", cfg.SMTPPort)
	}
	if cfg.LLMProvider != "deepseek" {
		t.Errorf("llm provider = %s", cfg.LLMProvider)
	}
	if cfg.EarningsDays != 21 {
		t.Errorf("earnings days = %d, want 21", cfg.EarningsDays)
	}
	if cfg.DividendDays != 10 {
		t.Errorf("dividend days = %d, want 10", cfg.DividendDays)
	}
}

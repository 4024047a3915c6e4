package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ReportsDir   string `json:"reports_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	// Watchlist source. Notion is primary; Symbols is the static
	// fallback when Notion and the on-disk cache are both unavailable.
	NotionToken      string   `json:"notion_token"`
	NotionDatabaseID string   `json:"notion_database_id"`
	Symbols          []string `json:"symbols"`

	// Quote provider selection: "yahoo" (default) or "longport".
	QuoteProvider       string `json:"quote_provider"`
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`

	// Fetch tuning.
	BatchSize      int `json:"batch_size"`
	Workers        int `json:"workers"`
	BatchDelayMs   int `json:"batch_delay_ms"`
	QuoteTTLSec    int `json:"quote_ttl_sec"`
	FuturesTTLSec  int `json:"futures_ttl_sec"`
	EarningsDays   int `json:"earnings_days"`
	DividendDays   int `json:"dividend_days"`
	TopMoversCount int `json:"top_movers_count"`

	// Narrative digest model. Provider is "grok" or "deepseek".
	LLMProvider    string `json:"llm_provider"`
	LLMModel       string `json:"llm_model"`
	XAIAPIKey      string `json:"xai_api_key"`
	XAIBaseURL     string `json:"xai_base_url"`
	DeepSeekAPIKey string `json:"deepseek_api_key"`

	// Search-trend signals are served by a pytrends-compatible proxy.
	TrendsProxyURL string `json:"trends_proxy_url"`

	// Email delivery.
	SMTPServer     string   `json:"smtp_server"`
	SMTPPort       int      `json:"smtp_port"`
	SenderEmail    string   `json:"sender_email"`
	SenderPassword string   `json:"sender_password"`
	Recipients     []string `json:"recipients"`

	// Report schedule, local to Timezone.
	Timezone       string `json:"timezone"`
	PreMarketTime  string `json:"premarket_time"`
	PostMarketTime string `json:"postmarket_time"`
	WeeklyTime     string `json:"weekly_time"`

	Debug bool `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := defaultConfigAt(currentDir)

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

// DefaultConfigWithRoot builds defaults rooted at dir without touching
// the environment, for the config manager's first-run file.
func DefaultConfigWithRoot(dir string) *Config {
	return defaultConfigAt(dir)
}

func defaultConfigAt(root string) *Config {
	return &Config{
		ProjectDir:   root,
		ReportsDir:   filepath.Join(root, "reports"),
		DataDir:      filepath.Join(root, "data"),
		DataCacheDir: filepath.Join(root, "data", "cache"),

		Symbols: []string{"AAPL", "MSFT", "NVDA", "GOOG", "AMZN", "TSLA", "SPY", "QQQ", "BTC-USD", "ETH-USD"},

		QuoteProvider: "yahoo",

		BatchSize:      20,
		Workers:        10,
		BatchDelayMs:   500,
		QuoteTTLSec:    300,
		FuturesTTLSec:  120,
		EarningsDays:   14,
		DividendDays:   14,
		TopMoversCount: 5,

		LLMProvider: "grok",
		LLMModel:    "grok-3-mini",
		XAIBaseURL:  "https://api.x.ai/v1",

		SMTPServer: "smtp.gmail.com",
		SMTPPort:   587,

		Timezone:       "America/New_York",
		PreMarketTime:  "06:30",
		PostMarketTime: "16:30",
		WeeklyTime:     "09:00",
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("REPORTS_DIR"); val != "" {
		c.ReportsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("NOTION_TOKEN"); val != "" {
		c.NotionToken = val
	}
	if val := os.Getenv("NOTION_DATABASE_ID"); val != "" {
		c.NotionDatabaseID = val
	}
	if val := os.Getenv("WATCHLIST_SYMBOLS"); val != "" {
		c.Symbols = splitSymbols(val)
	}

	if val := os.Getenv("QUOTE_PROVIDER"); val != "" {
		c.QuoteProvider = val
	}
	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}

	if val := os.Getenv("BATCH_SIZE"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.BatchSize = v
		}
	}
	if val := os.Getenv("WORKERS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.Workers = v
		}
	}
	if val := os.Getenv("BATCH_DELAY_MS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.BatchDelayMs = v
		}
	}
	if val := os.Getenv("QUOTE_TTL_SEC"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.QuoteTTLSec = v
		}
	}
	if val := os.Getenv("FUTURES_TTL_SEC"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.FuturesTTLSec = v
		}
	}
	if val := os.Getenv("EARNINGS_DAYS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.EarningsDays = v
		}
	}
	if val := os.Getenv("DIVIDEND_DAYS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.DividendDays = v
		}
	}
	if val := os.Getenv("TOP_MOVERS_COUNT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.TopMoversCount = v
		}
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("XAI_API_KEY"); val != "" {
		c.XAIAPIKey = val
	}
	if val := os.Getenv("XAI_BASE_URL"); val != "" {
		c.XAIBaseURL = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}

	if val := os.Getenv("TRENDS_PROXY_URL"); val != "" {
		c.TrendsProxyURL = val
	}

	if val := os.Getenv("SMTP_SERVER"); val != "" {
		c.SMTPServer = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.SMTPPort = port
		}
	}
	if val := os.Getenv("SENDER_EMAIL"); val != "" {
		c.SenderEmail = val
	}
	if val := os.Getenv("SENDER_PASSWORD"); val != "" {
		c.SenderPassword = val
	}
	if val := os.Getenv("RECIPIENT_EMAILS"); val != "" {
		c.Recipients = splitSymbols(val)
	}

	if val := os.Getenv("REPORT_TIMEZONE"); val != "" {
		c.Timezone = val
	}
	if val := os.Getenv("PREMARKET_TIME"); val != "" {
		c.PreMarketTime = val
	}
	if val := os.Getenv("POSTMARKET_TIME"); val != "" {
		c.PostMarketTime = val
	}
	if val := os.Getenv("WEEKLY_TIME"); val != "" {
		c.WeeklyTime = val
	}

	if val := os.Getenv("MARKETBRIEF_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

func splitSymbols(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.BatchSize < 0 || c.Workers < 0 || c.BatchDelayMs < 0 {
		return fmt.Errorf("fetch tuning values must not be negative")
	}
	if c.SMTPPort < 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid smtp port %d", c.SMTPPort)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
	}
	for _, field := range []struct{ name, value string }{
		{"premarket_time", c.PreMarketTime},
		{"postmarket_time", c.PostMarketTime},
		{"weekly_time", c.WeeklyTime},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.Parse("15:04", field.value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", field.name, field.value, err)
		}
	}
	return nil
}

func (c *Config) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelayMs) * time.Millisecond
}

func (c *Config) QuoteTTL() time.Duration {
	return time.Duration(c.QuoteTTLSec) * time.Second
}

func (c *Config) FuturesTTL() time.Duration {
	return time.Duration(c.FuturesTTLSec) * time.Second
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ReportsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

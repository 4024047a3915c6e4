package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/marketbrief/marketbrief/config"
	"github.com/marketbrief/marketbrief/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	tableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)
)

func changeStyle(v float64) lipgloss.Style {
	if v < 0 {
		return downStyle
	}
	return upStyle
}

// renderQuoteTable formats quotes as an aligned terminal table in
// symbol order.
func renderQuoteTable(quotes map[string]models.Quote) string {
	symbols := make([]string, 0, len(quotes))
	for s := range quotes {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %12s %10s %10s %8s\n", "SYMBOL", "PRICE", "CHANGE", "CHANGE%", "VOL")
	for _, s := range symbols {
		q := quotes[s]
		line := fmt.Sprintf("%-8s %12.2f %10.2f %9.2f%% %7.1fx",
			q.Symbol, q.Price, q.Change, q.ChangePercent, q.VolumeRatio)
		b.WriteString(changeStyle(q.ChangePercent).Render(line))
		b.WriteString("\n")
	}
	return tableStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderScheduleSummary shows when each job will fire.
func renderScheduleSummary(cfg *config.Config, loc *time.Location) string {
	rows := []string{
		fmt.Sprintf("  premarket   %s weekdays", cfg.PreMarketTime),
		fmt.Sprintf("  postmarket  %s weekdays", cfg.PostMarketTime),
		fmt.Sprintf("  weekly      %s Saturday", cfg.WeeklyTime),
	}
	return mutedStyle.Render(fmt.Sprintf("Timezone: %s\n%s", loc, strings.Join(rows, "\n")))
}

// showConfig prints the active configuration with secrets masked.
func showConfig(cfg *config.Config) {
	fmt.Println(headerStyle.Render("MarketBrief Configuration"))
	fmt.Printf("  Reports dir:     %s\n", cfg.ReportsDir)
	fmt.Printf("  Quote provider:  %s\n", cfg.QuoteProvider)
	fmt.Printf("  Watchlist:       %s\n", watchlistSource(cfg))
	fmt.Printf("  Symbols:         %s\n", strings.Join(cfg.Symbols, ", "))
	fmt.Printf("  Batch:           %d symbols, %d workers, %dms delay\n", cfg.BatchSize, cfg.Workers, cfg.BatchDelayMs)
	fmt.Printf("  Digest model:    %s (%s)\n", cfg.LLMModel, cfg.LLMProvider)
	fmt.Printf("  Trends proxy:    %s\n", orUnset(cfg.TrendsProxyURL))
	fmt.Printf("  SMTP:            %s:%d\n", cfg.SMTPServer, cfg.SMTPPort)
	fmt.Printf("  Sender:          %s\n", orUnset(cfg.SenderEmail))
	fmt.Printf("  Recipients:      %d configured\n", len(cfg.Recipients))
	fmt.Printf("  Schedule:        pre %s / post %s / weekly %s (%s)\n",
		cfg.PreMarketTime, cfg.PostMarketTime, cfg.WeeklyTime, cfg.Timezone)
	fmt.Printf("  Notion token:    %s\n", maskSecret(cfg.NotionToken))
	fmt.Printf("  LLM key:         %s\n", maskSecret(firstNonEmpty(cfg.XAIAPIKey, cfg.DeepSeekAPIKey)))
}

func watchlistSource(cfg *config.Config) string {
	if cfg.NotionToken != "" && cfg.NotionDatabaseID != "" {
		return "notion"
	}
	return "static"
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

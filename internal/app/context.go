package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marketbrief/marketbrief/internal/report"
	"github.com/marketbrief/marketbrief/internal/trends"
)

// preMarketContext flattens the morning data into the plain-text
// market summary the digest model reasons over.
func preMarketContext(data *report.Data) string {
	var b strings.Builder

	if len(data.Futures) > 0 {
		b.WriteString("Futures:\n")
		for _, key := range sortedMapKeys(data.Futures) {
			f := data.Futures[key]
			fmt.Fprintf(&b, "- %s: %.2f (%+.2f%%)\n", f.Name, f.Price, f.ChangePercent)
		}
	}
	if len(data.Premarket) > 0 {
		b.WriteString("Pre-market movers:\n")
		for _, key := range sortedMapKeys(data.Premarket) {
			q := data.Premarket[key]
			fmt.Fprintf(&b, "- %s: %.2f (%+.2f%% vs close %.2f)\n", q.Symbol, q.PreMarketPrice, q.PreMarketChange, q.PreviousClose)
		}
	}
	if len(data.Earnings) > 0 {
		b.WriteString("Upcoming earnings:\n")
		for _, e := range data.Earnings {
			fmt.Fprintf(&b, "- %s on %s (%s)\n", e.Symbol, e.Date, e.Time)
		}
	}
	if len(data.MarketNews) > 0 {
		b.WriteString("Market headlines:\n")
		for _, article := range data.MarketNews {
			fmt.Fprintf(&b, "- %s (%s)\n", article.Title, article.Source)
		}
	}
	writeTrends(&b, data)
	writeHeadlines(&b, data)
	return strings.TrimSpace(b.String())
}

// postCloseContext flattens the closing data for the digest model.
func postCloseContext(data *report.Data) string {
	var b strings.Builder

	if len(data.Indices) > 0 {
		b.WriteString("Indices:\n")
		for _, key := range sortedMapKeys(data.Indices) {
			ix := data.Indices[key]
			fmt.Fprintf(&b, "- %s: %.2f (%+.2f%%)\n", ix.Name, ix.Price, ix.ChangePercent)
		}
	}
	if len(data.Gainers) > 0 {
		b.WriteString("Top gainers:\n")
		for _, q := range data.Gainers {
			fmt.Fprintf(&b, "- %s: %+.2f%% on %.1fx volume\n", q.Symbol, q.ChangePercent, q.VolumeRatio)
		}
	}
	if len(data.Losers) > 0 {
		b.WriteString("Top losers:\n")
		for _, q := range data.Losers {
			fmt.Fprintf(&b, "- %s: %+.2f%% on %.1fx volume\n", q.Symbol, q.ChangePercent, q.VolumeRatio)
		}
	}
	if len(data.Sectors) > 0 {
		b.WriteString("Sectors:\n")
		for _, s := range data.Sectors {
			fmt.Fprintf(&b, "- %s: %+.2f%% avg across %d names (best %s, worst %s)\n", s.Sector, s.AvgChange, s.SymbolCount, s.BestSymbol, s.WorstSymbol)
		}
	}
	writeTrends(&b, data)
	writeHeadlines(&b, data)
	return strings.TrimSpace(b.String())
}

func writeTrends(b *strings.Builder, data *report.Data) {
	if len(data.Trends) == 0 {
		return
	}
	b.WriteString("Search interest, biggest moves first:\n")
	for _, s := range trends.TopTrendMovers(data.Trends, len(data.Trends)) {
		fmt.Fprintf(b, "- %s: %.0f now vs %.1f 7d avg, %s\n", s.Symbol, s.Interest, s.WeekAvg, s.Direction)
	}
}

func writeHeadlines(b *strings.Builder, data *report.Data) {
	if len(data.News) == 0 {
		return
	}
	b.WriteString("Headlines:\n")
	for _, symbol := range sortedMapKeys(data.News) {
		for _, article := range data.News[symbol] {
			fmt.Fprintf(b, "- [%s] %s (%s)\n", symbol, article.Title, article.Source)
		}
	}
}

func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

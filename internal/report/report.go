package report

import (
	"fmt"
	"html/template"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/marketbrief/marketbrief/models"
)

// Data is everything a report template may draw on. Any field may be
// empty; templates drop the matching section rather than failing.
type Data struct {
	Date       time.Time
	Quotes     map[string]models.Quote
	Premarket  map[string]models.PreMarketQuote
	Postmarket map[string]models.PostMarketQuote
	Weekly     map[string]models.WeeklyPerformance
	Earnings   []models.EarningsEvent
	Dividends  []models.DividendEvent
	Indices    map[string]models.IndexQuote
	Futures    map[string]models.FutureQuote
	Gainers    []models.Quote
	Losers     []models.Quote
	Sectors    []models.SectorPerformance
	Trends     map[string]models.TrendSignal
	News       map[string][]models.NewsArticle
	MarketNews []models.NewsArticle
	Digest     *models.SignalDigest
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline maps a close series onto block characters for compact
// inline trend display.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func formatPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func formatPrice(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func pctClass(v float64) string {
	switch {
	case v > 0:
		return "up"
	case v < 0:
		return "down"
	default:
		return "flat"
	}
}

func formatVolume(v int64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(v)/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(v)/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", float64(v)/1_000)
	default:
		return fmt.Sprintf("%d", v)
	}
}

func sortedQuotes(quotes map[string]models.Quote) []models.Quote {
	out := make([]models.Quote, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func sortedIndices(indices map[string]models.IndexQuote) []models.IndexQuote {
	out := make([]models.IndexQuote, 0, len(indices))
	for _, q := range indices {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func sortedFutures(futures map[string]models.FutureQuote) []models.FutureQuote {
	out := make([]models.FutureQuote, 0, len(futures))
	for _, q := range futures {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func sortedWeekly(weekly map[string]models.WeeklyPerformance) []models.WeeklyPerformance {
	out := make([]models.WeeklyPerformance, 0, len(weekly))
	for _, w := range weekly {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func sortedPremarket(pre map[string]models.PreMarketQuote) []models.PreMarketQuote {
	out := make([]models.PreMarketQuote, 0, len(pre))
	for _, q := range pre {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func sortedPostmarket(post map[string]models.PostMarketQuote) []models.PostMarketQuote {
	out := make([]models.PostMarketQuote, 0, len(post))
	for _, q := range post {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func sortedTrends(trends map[string]models.TrendSignal) []models.TrendSignal {
	out := make([]models.TrendSignal, 0, len(trends))
	for _, s := range trends {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func newsList(news map[string][]models.NewsArticle) []models.NewsArticle {
	symbols := make([]string, 0, len(news))
	for s := range news {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	var out []models.NewsArticle
	for _, s := range symbols {
		out = append(out, news[s]...)
	}
	return out
}

var funcMap = template.FuncMap{
	"pct":        formatPct,
	"price":      formatPrice,
	"pctClass":   pctClass,
	"volume":     formatVolume,
	"sparkline":  Sparkline,
	"quotes":     sortedQuotes,
	"indices":    sortedIndices,
	"futures":    sortedFutures,
	"weekly":     sortedWeekly,
	"premarket":  sortedPremarket,
	"postmarket": sortedPostmarket,
	"trends":     sortedTrends,
	"newsList":   newsList,
	"date": func(t time.Time) string {
		return t.Format("Jan 02, 2006")
	},
}

var (
	preMarketTmpl = template.Must(template.New("premarket").Funcs(funcMap).Parse(baseStyle + preMarketBody))
	postCloseTmpl = template.Must(template.New("postclose").Funcs(funcMap).Parse(baseStyle + postCloseBody))
	weeklyTmpl    = template.Must(template.New("weekly").Funcs(funcMap).Parse(baseStyle + weeklyBody))
)

func render(t *template.Template, data *Data) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s report: %w", t.Name(), err)
	}
	return b.String(), nil
}

// RenderPreMarket builds the morning briefing HTML.
func RenderPreMarket(data *Data) (string, error) {
	return render(preMarketTmpl, data)
}

// RenderPostClose builds the end-of-day recap HTML.
func RenderPostClose(data *Data) (string, error) {
	return render(postCloseTmpl, data)
}

// RenderWeekly builds the Saturday summary HTML.
func RenderWeekly(data *Data) (string, error) {
	return render(weeklyTmpl, data)
}

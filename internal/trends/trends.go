package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/marketbrief/marketbrief/config"
	"github.com/marketbrief/marketbrief/internal/fetch"
	"github.com/marketbrief/marketbrief/models"
)

const (
	defaultTimeframe = "now 7-d"
	trendsTTL        = 60 * time.Minute
	trendsBatchSize  = 5
	trendsBatchDelay = 3 * time.Second
)

// ambiguousTerms maps tickers whose raw symbol is a common word to a
// search phrase that actually isolates the company.
var ambiguousTerms = map[string]string{
	"META": "Meta Platforms stock",
	"CAT":  "Caterpillar stock",
	"F":    "Ford stock",
	"V":    "Visa stock",
	"T":    "AT&T stock",
	"C":    "Citigroup stock",
}

// Fetcher pulls search-interest series from a pytrends-compatible
// proxy service. Trend data moves slowly, so results cache for an hour
// and the proxy is probed gently: batches of five with a three second
// pause between them.
type Fetcher struct {
	client *resty.Client
	exec   *fetch.Executor
	cache  *fetch.Cache
}

func NewFetcher(cfg *config.Config) *Fetcher {
	client := resty.New()
	client.SetBaseURL(cfg.TrendsProxyURL)
	client.SetTimeout(30 * time.Second)

	return &Fetcher{
		client: client,
		exec: &fetch.Executor{
			BatchSize: trendsBatchSize,
			Workers:   trendsBatchSize,
			Delay:     trendsBatchDelay,
		},
		cache: fetch.NewCache(trendsTTL),
	}
}

// SetBaseURL points the client at a different proxy, for tests.
func (f *Fetcher) SetBaseURL(url string) {
	f.client.SetBaseURL(url)
}

// SetExecutor replaces the batch executor, for tests.
func (f *Fetcher) SetExecutor(e *fetch.Executor) {
	f.exec = e
}

// SearchTerm returns the query used for a symbol.
func SearchTerm(symbol string) string {
	if term, ok := ambiguousTerms[symbol]; ok {
		return term
	}
	return symbol
}

type interestResponse struct {
	Keyword string `json:"keyword"`
	Data    []struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	} `json:"data"`
	Error string `json:"error"`
}

// GetTrendSignals resolves search-interest signals for symbols. A
// symbol whose series is empty or whose lookup fails is absent from
// the result.
func (f *Fetcher) GetTrendSignals(ctx context.Context, symbols []string) map[string]models.TrendSignal {
	if len(symbols) == 0 {
		return map[string]models.TrendSignal{}
	}

	key := fetch.CountKey("trends", len(symbols))
	if cached, ok := f.cache.Get(key); ok {
		return cached.(map[string]models.TrendSignal)
	}

	results := fetch.RunBatches(ctx, f.exec, symbols, "trends", f.fetchSignal)
	if len(results) > 0 {
		f.cache.Put(key, results)
	}
	return results
}

// TopTrendMovers returns the n signals with the largest absolute
// interest change, most extreme first. Input symbol order never
// affects the result.
func TopTrendMovers(signals map[string]models.TrendSignal, n int) []models.TrendSignal {
	symbols := make([]string, 0, len(signals))
	for s := range signals {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	out := make([]models.TrendSignal, 0, len(signals))
	for _, s := range symbols {
		out = append(out, signals[s])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].ChangePercent) > math.Abs(out[j].ChangePercent)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (f *Fetcher) fetchSignal(ctx context.Context, symbol string) (models.TrendSignal, error) {
	term := SearchTerm(symbol)

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("timeframe", defaultTimeframe).
		Get("/interest-over-time/" + url.PathEscape(term))
	if err != nil {
		return models.TrendSignal{}, fmt.Errorf("trends proxy request for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return models.TrendSignal{}, fmt.Errorf("trends proxy error %d for %s", resp.StatusCode(), symbol)
	}

	var parsed interestResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return models.TrendSignal{}, fmt.Errorf("parse trends response for %s: %w", symbol, err)
	}
	if parsed.Error != "" {
		return models.TrendSignal{}, fmt.Errorf("trends proxy: %s", parsed.Error)
	}
	if len(parsed.Data) == 0 {
		return models.TrendSignal{}, fetch.ErrNoData
	}

	values := make([]float64, len(parsed.Data))
	for i, row := range parsed.Data {
		values[i] = row.Value
	}
	return buildSignal(symbol, term, values), nil
}

func buildSignal(symbol, term string, values []float64) models.TrendSignal {
	latest := values[len(values)-1]

	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))

	var changePct float64
	if avg > 0 {
		changePct = (latest - avg) / avg * 100
	}

	return models.TrendSignal{
		Symbol:        symbol,
		SearchTerm:    term,
		Interest:      latest,
		WeekAvg:       avg,
		ChangePercent: changePct,
		Direction:     direction(changePct),
	}
}

func direction(changePct float64) string {
	switch {
	case changePct > 20:
		return "surging"
	case changePct > 5:
		return "rising"
	case changePct < -5:
		return "falling"
	default:
		return "stable"
	}
}

package trends

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/marketbrief/marketbrief/config"
	"github.com/marketbrief/marketbrief/internal/fetch"
	"github.com/marketbrief/marketbrief/models"
)

func serveInterest(t *testing.T, values map[string][]float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimPrefix(r.URL.Path, "/interest-over-time/")
		term, _ = url.PathUnescape(term)
		series, ok := values[term]
		if !ok {
			json.NewEncoder(w).Encode(map[string]any{"error": "no data for " + term})
			return
		}
		rows := make([]map[string]any, len(series))
		for i, v := range series {
			rows[i] = map[string]any{"date": "2026-08-25", "value": v}
		}
		json.NewEncoder(w).Encode(map[string]any{"keyword": term, "data": rows})
	}))
}

func testFetcher(url string) *Fetcher {
	cfg := config.DefaultConfigWithRoot("/tmp")
	cfg.TrendsProxyURL = url
	f := NewFetcher(cfg)
	f.SetExecutor(&fetch.Executor{BatchSize: trendsBatchSize, Workers: trendsBatchSize})
	return f
}

func TestGetTrendSignals(t *testing.T) {
	srv := serveInterest(t, map[string][]float64{
		"NVDA": {50, 50, 50, 50, 100},
	})
	defer srv.Close()

	f := testFetcher(srv.URL)
	signals := f.GetTrendSignals(context.Background(), []string{"NVDA"})

	sig, ok := signals["NVDA"]
	if !ok {
		t.Fatal("NVDA missing from signals")
	}
	if sig.Interest != 100 {
		t.Errorf("interest = %v, want 100", sig.Interest)
	}
	if sig.WeekAvg != 60 {
		t.Errorf("week avg = %v, want 60", sig.WeekAvg)
	}
	if sig.Direction != "surging" {
		t.Errorf("direction = %q, want surging", sig.Direction)
	}
}

func TestGetTrendSignalsMissingSeries(t *testing.T) {
	srv := serveInterest(t, map[string][]float64{})
	defer srv.Close()

	f := testFetcher(srv.URL)
	signals := f.GetTrendSignals(context.Background(), []string{"NVDA"})
	if len(signals) != 0 {
		t.Errorf("expected no signals, got %v", signals)
	}
}

func TestSearchTermAmbiguity(t *testing.T) {
	if got := SearchTerm("META"); got != "Meta Platforms stock" {
		t.Errorf("SearchTerm(META) = %q", got)
	}
	if got := SearchTerm("NVDA"); got != "NVDA" {
		t.Errorf("SearchTerm(NVDA) = %q", got)
	}
}

func TestDirectionThresholds(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{25, "surging"},
		{10, "rising"},
		{0, "stable"},
		{-3, "stable"},
		{-10, "falling"},
	}
	for _, tc := range cases {
		if got := direction(tc.pct); got != tc.want {
			t.Errorf("direction(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestGetTrendSignalsCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{
			"keyword": "AAPL",
			"data":    []map[string]any{{"date": "d", "value": 10}, {"date": "d", "value": 20}},
		})
	}))
	defer srv.Close()

	f := testFetcher(srv.URL)
	f.GetTrendSignals(context.Background(), []string{"AAPL"})
	f.GetTrendSignals(context.Background(), []string{"AAPL"})

	if calls != 1 {
		t.Errorf("expected one proxy call, got %d", calls)
	}
}

func TestTopTrendMovers(t *testing.T) {
	signals := map[string]models.TrendSignal{
		"AAPL": {Symbol: "AAPL", ChangePercent: 5},
		"MSFT": {Symbol: "MSFT", ChangePercent: -30},
		"NVDA": {Symbol: "NVDA", ChangePercent: 22},
		"TSLA": {Symbol: "TSLA", ChangePercent: -8},
	}

	got := TopTrendMovers(signals, 3)
	want := []string{"MSFT", "NVDA", "TSLA"}
	if len(got) != len(want) {
		t.Fatalf("got %d movers, want %d", len(got), len(want))
	}
	for i, symbol := range want {
		if got[i].Symbol != symbol {
			t.Errorf("movers[%d] = %s, want %s", i, got[i].Symbol, symbol)
		}
	}

	if all := TopTrendMovers(signals, 10); len(all) != 4 {
		t.Errorf("n larger than input should return everything, got %d", len(all))
	}
	if none := TopTrendMovers(map[string]models.TrendSignal{}, 3); len(none) != 0 {
		t.Errorf("empty input should return empty, got %d", len(none))
	}
}

func TestTopTrendMoversStableTies(t *testing.T) {
	signals := map[string]models.TrendSignal{
		"ZM":   {Symbol: "ZM", ChangePercent: 10},
		"AAPL": {Symbol: "AAPL", ChangePercent: -10},
		"MSFT": {Symbol: "MSFT", ChangePercent: 10},
	}
	got := TopTrendMovers(signals, 3)
	want := []string{"AAPL", "MSFT", "ZM"}
	for i, symbol := range want {
		if got[i].Symbol != symbol {
			t.Fatalf("tie order = %v, want %v", []string{got[0].Symbol, got[1].Symbol, got[2].Symbol}, want)
		}
	}
}

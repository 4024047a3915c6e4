package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marketbrief/marketbrief/config"
	"github.com/marketbrief/marketbrief/internal/fetch"
	"github.com/marketbrief/marketbrief/internal/mailer"
	"github.com/marketbrief/marketbrief/internal/news"
	"github.com/marketbrief/marketbrief/internal/report"
	"github.com/marketbrief/marketbrief/internal/watchlist"
	"github.com/marketbrief/marketbrief/models"
)

type stubProvider struct {
	snapshots map[string]*fetch.Snapshot
	bars      map[string][]fetch.Bar
}

func (s *stubProvider) Snapshot(_ context.Context, symbol string) (*fetch.Snapshot, error) {
	if snap, ok := s.snapshots[symbol]; ok {
		copied := *snap
		return &copied, nil
	}
	return nil, fetch.ErrNoData
}

func (s *stubProvider) Info(context.Context, string) (*fetch.Info, error) {
	return nil, fetch.ErrNoData
}

func (s *stubProvider) History(_ context.Context, symbol string, _, _ time.Time) ([]fetch.Bar, error) {
	if bars, ok := s.bars[symbol]; ok {
		return bars, nil
	}
	return nil, fetch.ErrNoData
}

func (s *stubProvider) Index(ctx context.Context, symbol string) (*fetch.Snapshot, error) {
	return s.Snapshot(ctx, symbol)
}

func (s *stubProvider) Future(ctx context.Context, symbol string) (*fetch.Snapshot, error) {
	return s.Snapshot(ctx, symbol)
}

const emptyRSS = `<?xml version="1.0"?><rss><channel></channel></rss>`

func testApp(t *testing.T, provider *stubProvider) *App {
	t.Helper()

	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.Symbols = []string{"AAPL", "MSFT", "TSLA"}
	cfg.TopMoversCount = 2
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	rss := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(emptyRSS))
	}))
	t.Cleanup(rss.Close)
	newsFetcher := news.NewFetcher()
	newsFetcher.SetRSSBase(rss.URL)
	newsFetcher.SetExecutor(&fetch.Executor{BatchSize: 10, Workers: 4})

	a := &App{
		cfg:   cfg,
		watch: watchlist.NewSource(cfg),
		news:  newsFetcher,
		mail:  mailer.NewMailer(cfg),
		now: func() time.Time {
			return time.Date(2026, 3, 6, 16, 30, 0, 0, time.UTC)
		},
		fetcher: fetch.NewFetcher(
			fetch.WithProvider(provider),
			fetch.WithExecutor(&fetch.Executor{BatchSize: 20, Workers: 4}),
		),
	}
	return a
}

func marketProvider() *stubProvider {
	snapshots := map[string]*fetch.Snapshot{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Price: 185, PreviousClose: 180, Volume: 2_000_000, AvgVolume: 1_000_000},
		"MSFT": {Symbol: "MSFT", Name: "Microsoft", Price: 400, PreviousClose: 410, Volume: 900_000, AvgVolume: 1_000_000},
		"TSLA": {Symbol: "TSLA", Name: "Tesla", Price: 171, PreviousClose: 180, Volume: 3_000_000, AvgVolume: 1_500_000},
	}
	for symbol, name := range map[string]string{
		"^GSPC": "S&P 500", "^IXIC": "Nasdaq", "^DJI": "Dow Jones", "^VIX": "VIX", "^RUT": "Russell 2000",
		"ES=F": "S&P Futures", "NQ=F": "Nasdaq Futures", "YM=F": "Dow Futures", "RTY=F": "Russell Futures",
	} {
		snapshots[symbol] = &fetch.Snapshot{Symbol: symbol, Name: name, Price: 100, PreviousClose: 99}
	}
	return &stubProvider{snapshots: snapshots}
}

func TestRunPostCloseDeliversReport(t *testing.T) {
	a := testApp(t, marketProvider())
	a.cfg.SenderEmail = "reports@example.com"
	a.cfg.SenderPassword = "secret"
	a.cfg.Recipients = []string{"alice@example.com"}
	a.mail = mailer.NewMailer(a.cfg)

	var sentSubject string
	a.mail.SetSendFunc(func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		sentSubject = "sent"
		if !strings.Contains(string(msg), "Market Close Report") {
			t.Error("mail body missing report content")
		}
		return nil
	})

	html, err := a.RunPostClose(context.Background())
	if err != nil {
		t.Fatalf("RunPostClose: %v", err)
	}
	for _, want := range []string{"AAPL", "MSFT", "TSLA", "Top Gainers", "Top Losers"} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if sentSubject == "" {
		t.Error("configured mailer was not used")
	}

	saved := filepath.Join(a.cfg.ReportsDir, "postclose_2026-03-06.html")
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("report not saved to %s: %v", saved, err)
	}
}

func TestRunPreMarketSkipsMailWhenUnconfigured(t *testing.T) {
	a := testApp(t, marketProvider())
	a.mail.SetSendFunc(func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("mail should not be sent without sender configuration")
		return nil
	})

	html, err := a.RunPreMarket(context.Background())
	if err != nil {
		t.Fatalf("RunPreMarket: %v", err)
	}
	if !strings.Contains(html, "Pre-Market Briefing") {
		t.Error("report missing title")
	}
	if _, err := os.Stat(filepath.Join(a.cfg.ReportsDir, "premarket_2026-03-06.html")); err != nil {
		t.Errorf("report not saved: %v", err)
	}
}

func TestRunWeeklyRendersPerformance(t *testing.T) {
	provider := marketProvider()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]fetch.Bar, 0, 5)
	for i, close := range []float64{180, 184, 182, 188, 190} {
		bars = append(bars, fetch.Bar{
			Date: day.AddDate(0, 0, i), Open: close - 1, High: close + 1, Low: close - 2, Close: close, Volume: 1000,
		})
	}
	provider.bars = map[string][]fetch.Bar{"AAPL": bars}

	a := testApp(t, provider)
	html, err := a.RunWeekly(context.Background())
	if err != nil {
		t.Fatalf("RunWeekly: %v", err)
	}
	if !strings.Contains(html, "Weekly Summary") || !strings.Contains(html, "AAPL") {
		t.Error("weekly report missing content")
	}
	if strings.Contains(html, "MSFT") {
		t.Error("symbols without history should be absent")
	}
}

func TestPreMarketContext(t *testing.T) {
	price := 186.5
	data := &report.Data{
		Futures: map[string]models.FutureQuote{
			"ES=F": {Symbol: "ES=F", Name: "S&P Futures", Price: 5100, ChangePercent: -0.4},
		},
		Premarket: map[string]models.PreMarketQuote{
			"AAPL": {Symbol: "AAPL", PreviousClose: 185, PreMarketPrice: price, PreMarketChange: 0.81},
		},
		Earnings: []models.EarningsEvent{{Symbol: "NVDA", Date: "2026-03-10", Time: "AMC"}},
	}
	got := preMarketContext(data)
	for _, want := range []string{"S&P Futures", "AAPL: 186.50 (+0.81%", "NVDA on 2026-03-10"} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q in:\n%s", want, got)
		}
	}
}

func TestPostCloseContext(t *testing.T) {
	data := &report.Data{
		Indices: map[string]models.IndexQuote{
			"^GSPC": {Symbol: "^GSPC", Name: "S&P 500", Price: 5234.18, ChangePercent: 0.8},
		},
		Gainers: []models.Quote{{Symbol: "NVDA", ChangePercent: 4.1, VolumeRatio: 2.3}},
		Losers:  []models.Quote{{Symbol: "TSLA", ChangePercent: -3.5, VolumeRatio: 1.8}},
		Sectors: []models.SectorPerformance{
			{Sector: "Technology", AvgChange: 1.4, SymbolCount: 3, BestSymbol: "NVDA", WorstSymbol: "MSFT"},
		},
	}
	got := postCloseContext(data)
	for _, want := range []string{"S&P 500: 5234.18 (+0.80%)", "NVDA: +4.10% on 2.3x volume", "TSLA: -3.50%", "Technology: +1.40% avg across 3 names"} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q in:\n%s", want, got)
		}
	}
}

func TestPreMarketContextEmpty(t *testing.T) {
	if got := preMarketContext(&report.Data{}); got != "" {
		t.Errorf("empty data should produce empty context, got %q", got)
	}
}

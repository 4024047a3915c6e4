package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/marketbrief/marketbrief/config"
	"github.com/marketbrief/marketbrief/internal/digest"
	"github.com/marketbrief/marketbrief/internal/fetch"
	"github.com/marketbrief/marketbrief/internal/logx"
	"github.com/marketbrief/marketbrief/internal/mailer"
	"github.com/marketbrief/marketbrief/internal/news"
	"github.com/marketbrief/marketbrief/internal/report"
	"github.com/marketbrief/marketbrief/internal/schedule"
	"github.com/marketbrief/marketbrief/internal/trends"
	"github.com/marketbrief/marketbrief/internal/watchlist"
	"github.com/marketbrief/marketbrief/models"
)

// App wires the watchlist, data fetchers, signal sources, renderer
// and mailer into the three report pipelines.
type App struct {
	cfg      *config.Config
	watch    *watchlist.Source
	fetcher  *fetch.Fetcher
	trends   *trends.Fetcher
	news     *news.Fetcher
	analyzer *digest.Analyzer
	mail     *mailer.Mailer

	now     func() time.Time
	closeFn func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	a := &App{
		cfg:   cfg,
		watch: watchlist.NewSource(cfg),
		news:  news.NewFetcher(),
		mail:  mailer.NewMailer(cfg),
		now:   time.Now,
	}

	exec := &fetch.Executor{
		BatchSize: cfg.BatchSize,
		Workers:   cfg.Workers,
		Delay:     cfg.BatchDelay(),
	}
	opts := []fetch.Option{
		fetch.WithExecutor(exec),
		fetch.WithQuoteTTL(cfg.QuoteTTL()),
		fetch.WithFuturesTTL(cfg.FuturesTTL()),
	}
	if cfg.QuoteProvider == "longport" && cfg.LongportAppKey != "" {
		provider, err := fetch.NewLongportProvider(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken)
		if err != nil {
			return nil, fmt.Errorf("init longport provider: %w", err)
		}
		opts = append(opts, fetch.WithProvider(provider))
		a.closeFn = provider.Close
		logx.Info("quote provider ready", "provider", "longport")
	} else {
		logx.Info("quote provider ready", "provider", "yahoo")
	}
	a.fetcher = fetch.NewFetcher(opts...)

	if cfg.TrendsProxyURL != "" {
		a.trends = trends.NewFetcher(cfg)
	}

	if cfg.XAIAPIKey != "" || cfg.DeepSeekAPIKey != "" {
		analyzer, err := digest.NewAnalyzer(ctx, cfg)
		if err != nil {
			logx.Warn("digest model unavailable, reports will skip the narrative section", "error", err)
		} else {
			a.analyzer = analyzer
		}
	}

	return a, nil
}

// SetClock overrides the report date source, for tests.
func (a *App) SetClock(now func() time.Time) { a.now = now }

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// RunPreMarket assembles and delivers the morning briefing. The
// report HTML is returned even when email delivery is skipped.
func (a *App) RunPreMarket(ctx context.Context) (string, error) {
	started := a.now()
	symbols := a.watch.GetSymbols(ctx)
	logx.Info("premarket run starting", "symbols", len(symbols))

	data := &report.Data{
		Date:       started,
		Futures:    a.fetcher.GetFutures(ctx),
		Premarket:  a.fetcher.GetPremarketData(ctx, symbols),
		Earnings:   a.fetcher.GetEarningsCalendar(ctx, symbols, a.cfg.EarningsDays),
		Dividends:  a.fetcher.GetDividendCalendar(ctx, symbols, a.cfg.DividendDays),
		News:       a.news.GetHeadlines(ctx, symbols),
		MarketNews: a.news.GetMarketHeadlines(ctx),
	}
	if a.trends != nil {
		data.Trends = a.trends.GetTrendSignals(ctx, symbols)
	}
	data.Digest = a.generateDigest(ctx, digest.PreMarket, preMarketContext(data))

	html, err := report.RenderPreMarket(data)
	if err != nil {
		return "", err
	}
	a.deliver("premarket", mailer.PreMarketSubject(started), html)
	logx.Info("premarket run finished", "elapsed", a.now().Sub(started).Round(time.Millisecond))
	return html, nil
}

// RunPostClose assembles and delivers the end-of-day recap.
func (a *App) RunPostClose(ctx context.Context) (string, error) {
	started := a.now()
	symbols := a.watch.GetSymbols(ctx)
	logx.Info("postclose run starting", "symbols", len(symbols))

	quotes := a.fetcher.GetBatchQuotes(ctx, symbols)
	gainers, losers := fetch.TopMovers(quotes, a.cfg.TopMoversCount)
	data := &report.Data{
		Date:       started,
		Quotes:     quotes,
		Indices:    a.fetcher.GetMarketIndices(ctx),
		Postmarket: a.fetcher.GetPostmarketData(ctx, symbols),
		Gainers:    gainers,
		Losers:     losers,
		Sectors:    fetch.SectorBreakdown(quotes, watchlist.SectorOf),
		News:       a.news.GetHeadlines(ctx, symbols),
	}
	if a.trends != nil {
		data.Trends = a.trends.GetTrendSignals(ctx, symbols)
	}
	data.Digest = a.generateDigest(ctx, digest.PostClose, postCloseContext(data))

	html, err := report.RenderPostClose(data)
	if err != nil {
		return "", err
	}
	a.deliver("postclose", mailer.PostCloseSubject(started), html)
	logx.Info("postclose run finished", "elapsed", a.now().Sub(started).Round(time.Millisecond))
	return html, nil
}

// RunWeekly assembles and delivers the Saturday summary.
func (a *App) RunWeekly(ctx context.Context) (string, error) {
	started := a.now()
	symbols := a.watch.GetSymbols(ctx)
	logx.Info("weekly run starting", "symbols", len(symbols))

	quotes := a.fetcher.GetBatchQuotes(ctx, symbols)
	data := &report.Data{
		Date:     started,
		Weekly:   a.fetcher.GetWeeklyPerformance(ctx, symbols),
		Sectors:  fetch.SectorBreakdown(quotes, watchlist.SectorOf),
		Earnings: a.fetcher.GetEarningsCalendar(ctx, symbols, 7),
		News:     a.news.GetHeadlines(ctx, symbols),
	}

	html, err := report.RenderWeekly(data)
	if err != nil {
		return "", err
	}
	a.deliver("weekly", mailer.WeeklySubject(started), html)
	logx.Info("weekly run finished", "elapsed", a.now().Sub(started).Round(time.Millisecond))
	return html, nil
}

// Quotes exposes the fetch layer for the quotes command.
func (a *App) Quotes(ctx context.Context, symbols []string) map[string]models.Quote {
	return a.fetcher.GetBatchQuotes(ctx, symbols)
}

// Watchlist exposes the watchlist source for the watchlist commands.
func (a *App) Watchlist() *watchlist.Source { return a.watch }

// ScheduleJobs returns the callbacks the scheduler dispatches. Each
// logs failures instead of propagating them so one bad run does not
// stop the schedule.
func (a *App) ScheduleJobs() schedule.Jobs {
	run := func(name string, fn func(context.Context) (string, error)) func() {
		return func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if _, err := fn(ctx); err != nil {
				logx.Error("scheduled run failed", "job", name, "error", err)
			}
		}
	}
	return schedule.Jobs{
		PreMarket:  run("premarket", a.RunPreMarket),
		PostMarket: run("postclose", a.RunPostClose),
		Weekly:     run("weekly", a.RunWeekly),
	}
}

func (a *App) generateDigest(ctx context.Context, mode digest.Mode, marketContext string) *models.SignalDigest {
	if a.analyzer == nil || marketContext == "" {
		return nil
	}
	d, err := a.analyzer.GenerateDigest(ctx, mode, marketContext)
	if err != nil {
		logx.Warn("digest generation failed", "mode", string(mode), "error", err)
		return nil
	}
	return d
}

// deliver writes the report to disk and emails it when SMTP delivery
// is configured. Neither failure aborts the run.
func (a *App) deliver(kind, subject, html string) {
	path := filepath.Join(a.cfg.ReportsDir, fmt.Sprintf("%s_%s.html", kind, a.now().Format("2006-01-02")))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		logx.Warn("report save failed", "path", path, "error", err)
	} else {
		logx.Info("report saved", "path", path)
	}

	if a.cfg.SenderEmail == "" || len(a.cfg.Recipients) == 0 {
		logx.Debug("email delivery not configured, skipping send")
		return
	}
	if err := a.mail.Send(subject, html); err != nil {
		logx.Warn("email delivery failed", "error", err)
	}
}

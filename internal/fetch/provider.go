package fetch

import (
	"context"
	"time"
)

// Snapshot is the normalized quote payload a provider returns for one
// symbol. Every field is best-effort; zero values mean the upstream did
// not report the field. Pre and post market pointers are nil outside
// their sessions.
type Snapshot struct {
	Symbol            string
	Name              string
	Currency          string
	Price             float64
	PreviousClose     float64
	Open              float64
	DayHigh           float64
	DayLow            float64
	Volume            int64
	AvgVolume         int64
	FiftyTwoWeekHigh  float64
	FiftyTwoWeekLow   float64
	PreMarketPrice    *float64
	PreMarketPercent  *float64
	PostMarketPrice   *float64
	PostMarketPercent *float64
}

// Info is the slower per-symbol detail payload used for market cap and
// the earnings and dividend calendars. ExDividend carries whatever the
// upstream reported, either epoch seconds or an ISO date string; the
// calendar fetcher normalizes it.
type Info struct {
	Symbol         string
	Name           string
	MarketCap      int64
	EarningsDates  []string
	ScheduledDates []string
	EarningsTime   string
	ExDividend     any
	DividendRate   float64
	DividendYield  float64
}

// Bar is one daily OHLCV observation.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Provider resolves market data for single symbols. Implementations
// must be safe for concurrent use; the batch layer calls them from
// multiple goroutines.
type Provider interface {
	Snapshot(ctx context.Context, symbol string) (*Snapshot, error)
	Info(ctx context.Context, symbol string) (*Info, error)
	History(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error)
	Index(ctx context.Context, symbol string) (*Snapshot, error)
	Future(ctx context.Context, symbol string) (*Snapshot, error)
}

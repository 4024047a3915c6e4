package fetch

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/crypto"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/piquette/finance-go/future"
	"github.com/piquette/finance-go/index"
	"github.com/piquette/finance-go/quote"
)

// YahooProvider resolves symbols against Yahoo Finance. It is the
// default backend; all methods are stateless and safe for concurrent
// use.
type YahooProvider struct{}

func NewYahooProvider() *YahooProvider {
	return &YahooProvider{}
}

func (y *YahooProvider) Snapshot(ctx context.Context, symbol string) (*Snapshot, error) {
	var q *finance.Quote
	var err error
	if IsCrypto(symbol) {
		pair, cerr := crypto.Get(symbol)
		if cerr != nil {
			return nil, fmt.Errorf("crypto quote for %s: %w", symbol, cerr)
		}
		if pair == nil {
			return nil, ErrNoData
		}
		q = &pair.Quote
	} else {
		q, err = quote.Get(symbol)
		if err != nil {
			return nil, fmt.Errorf("quote for %s: %w", symbol, err)
		}
		if q == nil {
			return nil, ErrNoData
		}
	}
	return snapshotFromQuote(q), nil
}

func snapshotFromQuote(q *finance.Quote) *Snapshot {
	s := &Snapshot{
		Symbol:           q.Symbol,
		Name:             q.ShortName,
		Currency:         q.CurrencyID,
		Price:            q.RegularMarketPrice,
		PreviousClose:    q.RegularMarketPreviousClose,
		Open:             q.RegularMarketOpen,
		DayHigh:          q.RegularMarketDayHigh,
		DayLow:           q.RegularMarketDayLow,
		Volume:           int64(q.RegularMarketVolume),
		AvgVolume:        int64(q.AverageDailyVolume3Month),
		FiftyTwoWeekHigh: q.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  q.FiftyTwoWeekLow,
	}
	if q.PreMarketPrice > 0 {
		price := q.PreMarketPrice
		percent := q.PreMarketChangePercent
		s.PreMarketPrice = &price
		s.PreMarketPercent = &percent
	}
	if q.PostMarketPrice > 0 {
		price := q.PostMarketPrice
		percent := q.PostMarketChangePercent
		s.PostMarketPrice = &price
		s.PostMarketPercent = &percent
	}
	return s
}

func (y *YahooProvider) Info(ctx context.Context, symbol string) (*Info, error) {
	if IsCrypto(symbol) {
		return nil, ErrNoData
	}
	eq, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("equity info for %s: %w", symbol, err)
	}
	if eq == nil {
		return nil, ErrNoData
	}

	info := &Info{
		Symbol:        symbol,
		Name:          eq.ShortName,
		MarketCap:     eq.MarketCap,
		DividendRate:  eq.TrailingAnnualDividendRate,
		DividendYield: eq.TrailingAnnualDividendYield * 100,
	}
	if eq.EarningsTimestamp > 0 {
		info.EarningsDates = []string{epochDate(eq.EarningsTimestamp)}
	}
	if eq.EarningsTimestampStart > 0 {
		info.ScheduledDates = append(info.ScheduledDates, epochDate(eq.EarningsTimestampStart))
	}
	if eq.EarningsTimestampEnd > 0 && eq.EarningsTimestampEnd != eq.EarningsTimestampStart {
		info.ScheduledDates = append(info.ScheduledDates, epochDate(eq.EarningsTimestampEnd))
	}
	if eq.DividendDate > 0 {
		info.ExDividend = int64(eq.DividendDate)
	}
	return info, nil
}

func epochDate(ts int) string {
	return time.Unix(int64(ts), 0).UTC().Format(dateLayout)
}

func (y *YahooProvider) History(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	bars := make([]Bar, 0, 8)
	for iter.Next() {
		b := iter.Bar()
		open, _ := b.Open.Float64()
		high, _ := b.High.Float64()
		low, _ := b.Low.Float64()
		closePrice, _ := b.Close.Float64()
		bars = append(bars, Bar{
			Date:   time.Unix(int64(b.Timestamp), 0),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("history for %s: %w", symbol, err)
	}
	return bars, nil
}

func (y *YahooProvider) Index(ctx context.Context, symbol string) (*Snapshot, error) {
	idx, err := index.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("index quote for %s: %w", symbol, err)
	}
	if idx == nil {
		return nil, ErrNoData
	}
	return snapshotFromQuote(&idx.Quote), nil
}

func (y *YahooProvider) Future(ctx context.Context, symbol string) (*Snapshot, error) {
	fut, err := future.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("futures quote for %s: %w", symbol, err)
	}
	if fut == nil {
		return nil, ErrNoData
	}
	return snapshotFromQuote(&fut.Quote), nil
}

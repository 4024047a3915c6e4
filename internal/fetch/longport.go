package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"
)

// LongportProvider resolves exchange-listed symbols through the
// Longport OpenAPI. It covers snapshots, static info and daily candles;
// index and futures symbols stay on the default backend, so it returns
// ErrNoData for those.
type LongportProvider struct {
	quoteCtx *quote.QuoteContext
}

func NewLongportProvider(appKey, appSecret, accessToken string) (*LongportProvider, error) {
	conf, err := config.New(config.WithConfigKey(appKey, appSecret, accessToken))
	if err != nil {
		return nil, fmt.Errorf("longport config: %w", err)
	}
	quoteCtx, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, fmt.Errorf("longport quote context: %w", err)
	}
	return &LongportProvider{quoteCtx: quoteCtx}, nil
}

// Close releases the underlying websocket session.
func (p *LongportProvider) Close() {
	if p.quoteCtx != nil {
		p.quoteCtx.Close()
	}
}

func (p *LongportProvider) Snapshot(ctx context.Context, symbol string) (*Snapshot, error) {
	if p.quoteCtx == nil {
		return nil, ErrSessionClosed
	}
	quotes, err := p.quoteCtx.Quote(ctx, []string{symbol})
	if err != nil {
		return nil, fmt.Errorf("longport quote for %s: %w", symbol, err)
	}
	if len(quotes) == 0 {
		return nil, ErrNoData
	}

	q := quotes[0]
	s := &Snapshot{
		Symbol:        symbol,
		Price:         decimalValue(q.LastDone),
		PreviousClose: decimalValue(q.PrevClose),
		Open:          decimalValue(q.Open),
		DayHigh:       decimalValue(q.High),
		DayLow:        decimalValue(q.Low),
		Volume:        q.Volume,
	}
	if q.PreMarketQuote != nil && q.PreMarketQuote.LastDone != nil {
		price := decimalValue(q.PreMarketQuote.LastDone)
		s.PreMarketPrice = &price
		if prev := decimalValue(q.PreMarketQuote.PrevClose); prev > 0 {
			percent := (price - prev) / prev * 100
			s.PreMarketPercent = &percent
		}
	}
	if q.PostMarketQuote != nil && q.PostMarketQuote.LastDone != nil {
		price := decimalValue(q.PostMarketQuote.LastDone)
		s.PostMarketPrice = &price
		if prev := decimalValue(q.PostMarketQuote.PrevClose); prev > 0 {
			percent := (price - prev) / prev * 100
			s.PostMarketPercent = &percent
		}
	}
	return s, nil
}

func (p *LongportProvider) Info(ctx context.Context, symbol string) (*Info, error) {
	if p.quoteCtx == nil {
		return nil, ErrSessionClosed
	}
	statics, err := p.quoteCtx.StaticInfo(ctx, []string{symbol})
	if err != nil {
		return nil, fmt.Errorf("longport static info for %s: %w", symbol, err)
	}
	if len(statics) == 0 {
		return nil, ErrNoData
	}

	st := statics[0]
	info := &Info{
		Symbol:        symbol,
		Name:          st.NameEn,
		DividendYield: parseYield(st.DividendYield),
	}

	// Longport has no market cap field; approximate from total shares
	// and the latest trade.
	if st.TotalShares > 0 {
		if snap, err := p.Snapshot(ctx, symbol); err == nil && snap.Price > 0 {
			info.MarketCap = int64(snap.Price * float64(st.TotalShares))
		}
	}
	return info, nil
}

func (p *LongportProvider) History(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error) {
	if p.quoteCtx == nil {
		return nil, ErrSessionClosed
	}

	days := int32(end.Sub(start).Hours()/24) + 1
	candles, err := p.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, days, quote.AdjustTypeNo)
	if err != nil {
		return nil, fmt.Errorf("longport candles for %s: %w", symbol, err)
	}

	bars := make([]Bar, 0, len(candles))
	for _, c := range candles {
		ts := time.Unix(c.Timestamp, 0)
		if ts.Before(start) || ts.After(end) {
			continue
		}
		bars = append(bars, Bar{
			Date:   ts,
			Open:   decimalValue(c.Open),
			High:   decimalValue(c.High),
			Low:    decimalValue(c.Low),
			Close:  decimalValue(c.Close),
			Volume: c.Volume,
		})
	}
	return bars, nil
}

func (p *LongportProvider) Index(ctx context.Context, symbol string) (*Snapshot, error) {
	return nil, ErrNoData
}

func (p *LongportProvider) Future(ctx context.Context, symbol string) (*Snapshot, error) {
	return nil, ErrNoData
}

func decimalValue(d *decimal.Decimal) float64 {
	if d == nil {
		return 0
	}
	return d.InexactFloat64()
}

// parseYield converts the API's string dividend yield. Symbols with no
// payout come back as an empty string.
func parseYield(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

package fetch

import (
	"context"

	"github.com/marketbrief/marketbrief/models"
)

// deriveChange computes absolute and percentage change against the
// previous close. A non-positive previous close yields zero percent
// rather than a division fault.
func deriveChange(price, previousClose float64) (change, percent float64) {
	change = price - previousClose
	if previousClose <= 0 {
		return change, 0
	}
	return change, change / previousClose * 100
}

// deriveVolumeRatio is 1.0 whenever the average volume is unknown, so
// consumers can treat the ratio as "normal volume" by default.
func deriveVolumeRatio(volume, avgVolume int64) float64 {
	if avgVolume <= 0 {
		return 1.0
	}
	return float64(volume) / float64(avgVolume)
}

// GetBatchQuotes resolves current quotes for all symbols. Failed
// symbols are absent from the result; the map itself is never nil. The
// result is cached by symbol set.
func (f *Fetcher) GetBatchQuotes(ctx context.Context, symbols []string) map[string]models.Quote {
	if len(symbols) == 0 {
		return map[string]models.Quote{}
	}

	key := QuotesKey("quotes", symbols)
	if cached, ok := f.cache.Get(key); ok {
		return cached.(map[string]models.Quote)
	}

	quotes := RunBatches(ctx, f.exec, symbols, "quotes", f.fetchQuote)
	if len(quotes) > 0 {
		f.cache.Put(key, quotes)
	}
	return quotes
}

func (f *Fetcher) fetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	snap, err := f.provider.Snapshot(ctx, symbol)
	if err != nil {
		return models.Quote{}, err
	}

	q := models.Quote{
		Symbol:            symbol,
		Name:              snap.Name,
		Price:             snap.Price,
		PreviousClose:     snap.PreviousClose,
		Open:              snap.Open,
		DayHigh:           snap.DayHigh,
		DayLow:            snap.DayLow,
		Volume:            snap.Volume,
		AvgVolume:         snap.AvgVolume,
		FiftyTwoWeekHigh:  snap.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:   snap.FiftyTwoWeekLow,
		Currency:          snap.Currency,
		IsCrypto:          IsCrypto(symbol),
		PreMarketPrice:    snap.PreMarketPrice,
		PreMarketPercent:  snap.PreMarketPercent,
		PostMarketPrice:   snap.PostMarketPrice,
		PostMarketPercent: snap.PostMarketPercent,
	}
	if q.Name == "" {
		q.Name = symbol
	}
	q.Change, q.ChangePercent = deriveChange(q.Price, q.PreviousClose)
	q.VolumeRatio = deriveVolumeRatio(q.Volume, q.AvgVolume)

	// Market cap lives in the slower info payload. Best effort only.
	if info, err := f.provider.Info(ctx, symbol); err == nil && info != nil {
		q.MarketCap = info.MarketCap
	}

	return q, nil
}

// GetPremarketData returns pre-market prices for symbols currently
// showing a pre-market session. Symbols without one are skipped.
func (f *Fetcher) GetPremarketData(ctx context.Context, symbols []string) map[string]models.PreMarketQuote {
	if len(symbols) == 0 {
		return map[string]models.PreMarketQuote{}
	}

	key := CountKey("premarket", len(symbols))
	if cached, ok := f.cache.Get(key); ok {
		return cached.(map[string]models.PreMarketQuote)
	}

	results := RunBatches(ctx, f.exec, symbols, "premarket", func(ctx context.Context, symbol string) (models.PreMarketQuote, error) {
		snap, err := f.provider.Snapshot(ctx, symbol)
		if err != nil {
			return models.PreMarketQuote{}, err
		}
		if snap.PreMarketPrice == nil {
			return models.PreMarketQuote{}, ErrNoData
		}
		pq := models.PreMarketQuote{
			Symbol:         symbol,
			Name:           snap.Name,
			PreMarketPrice: *snap.PreMarketPrice,
			PreviousClose:  snap.PreviousClose,
		}
		if pq.Name == "" {
			pq.Name = symbol
		}
		if snap.PreMarketPercent != nil {
			pq.PreMarketChange = *snap.PreMarketPercent
		} else {
			_, pq.PreMarketChange = deriveChange(pq.PreMarketPrice, pq.PreviousClose)
		}
		return pq, nil
	})

	if len(results) > 0 {
		f.cache.Put(key, results)
	}
	return results
}

// GetPostmarketData returns the regular-session close plus any
// after-hours move for each symbol.
func (f *Fetcher) GetPostmarketData(ctx context.Context, symbols []string) map[string]models.PostMarketQuote {
	if len(symbols) == 0 {
		return map[string]models.PostMarketQuote{}
	}

	key := CountKey("postmarket", len(symbols))
	if cached, ok := f.cache.Get(key); ok {
		return cached.(map[string]models.PostMarketQuote)
	}

	results := RunBatches(ctx, f.exec, symbols, "postmarket", func(ctx context.Context, symbol string) (models.PostMarketQuote, error) {
		snap, err := f.provider.Snapshot(ctx, symbol)
		if err != nil {
			return models.PostMarketQuote{}, err
		}
		pq := models.PostMarketQuote{
			Symbol:     symbol,
			Name:       snap.Name,
			ClosePrice: snap.Price,
		}
		if pq.Name == "" {
			pq.Name = symbol
		}
		_, pq.CloseChange = deriveChange(snap.Price, snap.PreviousClose)
		if snap.PostMarketPrice != nil {
			pq.PostMarketPrice = *snap.PostMarketPrice
		}
		if snap.PostMarketPercent != nil {
			pq.PostMarketChange = *snap.PostMarketPercent
		} else if pq.PostMarketPrice > 0 {
			_, pq.PostMarketChange = deriveChange(pq.PostMarketPrice, snap.Price)
		}
		return pq, nil
	})

	if len(results) > 0 {
		f.cache.Put(key, results)
	}
	return results
}

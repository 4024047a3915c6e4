package fetch

import (
	"context"
	"sort"

	"github.com/marketbrief/marketbrief/models"
)

var marketIndices = map[string]string{
	"^GSPC": "S&P 500",
	"^IXIC": "Nasdaq",
	"^DJI":  "Dow Jones",
	"^VIX":  "VIX",
	"^RUT":  "Russell 2000",
}

var indexFutures = map[string]string{
	"ES=F":  "S&P 500 Futures",
	"NQ=F":  "Nasdaq Futures",
	"YM=F":  "Dow Futures",
	"RTY=F": "Russell 2000 Futures",
}

// GetMarketIndices resolves the fixed benchmark index set. The set is
// small enough to fetch in one fully-parallel pass, so the batch
// executor runs at set width with no inter-batch delay.
func (f *Fetcher) GetMarketIndices(ctx context.Context) map[string]models.IndexQuote {
	if cached, ok := f.cache.Get(indicesCacheKey); ok {
		return cached.(map[string]models.IndexQuote)
	}

	symbols := sortedKeys(marketIndices)
	ex := &Executor{BatchSize: len(symbols), Workers: len(symbols)}

	results := RunBatches(ctx, ex, symbols, "indices", func(ctx context.Context, symbol string) (models.IndexQuote, error) {
		snap, err := f.provider.Index(ctx, symbol)
		if err != nil {
			return models.IndexQuote{}, err
		}
		change, percent := deriveChange(snap.Price, snap.PreviousClose)
		return models.IndexQuote{
			Symbol:        symbol,
			Name:          marketIndices[symbol],
			Price:         snap.Price,
			Change:        change,
			ChangePercent: percent,
		}, nil
	})

	if len(results) > 0 {
		f.cache.Put(indicesCacheKey, results)
	}
	return results
}

// GetFutures resolves the index futures set, cached on its own shorter
// TTL since the overnight session keeps moving.
func (f *Fetcher) GetFutures(ctx context.Context) map[string]models.FutureQuote {
	if cached, ok := f.futures.Get(futuresCacheKey); ok {
		return cached.(map[string]models.FutureQuote)
	}

	symbols := sortedKeys(indexFutures)
	ex := &Executor{BatchSize: len(symbols), Workers: len(symbols)}

	results := RunBatches(ctx, ex, symbols, "futures", func(ctx context.Context, symbol string) (models.FutureQuote, error) {
		snap, err := f.provider.Future(ctx, symbol)
		if err != nil {
			return models.FutureQuote{}, err
		}
		change, percent := deriveChange(snap.Price, snap.PreviousClose)
		return models.FutureQuote{
			Symbol:        symbol,
			Name:          indexFutures[symbol],
			Price:         snap.Price,
			Change:        change,
			ChangePercent: percent,
		}, nil
	})

	if len(results) > 0 {
		f.futures.Put(futuresCacheKey, results)
	}
	return results
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

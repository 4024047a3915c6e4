package fetch

import (
	"sort"

	"github.com/marketbrief/marketbrief/models"
)

// TopMovers ranks an already-fetched quote set into the n biggest
// gainers and losers. Gainers come back best first; losers come back
// most negative first. Ties keep the symbol-ordered input ordering, so
// output is deterministic for any map.
func TopMovers(quotes map[string]models.Quote, n int) (gainers, losers []models.Quote) {
	all := make([]models.Quote, 0, len(quotes))
	for _, symbol := range quoteKeys(quotes) {
		all = append(all, quotes[symbol])
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ChangePercent > all[j].ChangePercent
	})

	for _, q := range all {
		if q.ChangePercent > 0 {
			gainers = append(gainers, q)
		}
	}
	if len(gainers) > n {
		gainers = gainers[:n]
	}

	var falling []models.Quote
	for _, q := range all {
		if q.ChangePercent < 0 {
			falling = append(falling, q)
		}
	}
	if len(falling) > n {
		falling = falling[len(falling)-n:]
	}
	for i := len(falling) - 1; i >= 0; i-- {
		losers = append(losers, falling[i])
	}

	return gainers, losers
}

// SectorBreakdown aggregates quote moves per sector. sectorOf maps a
// symbol to its sector name; symbols it maps to "" are ignored.
func SectorBreakdown(quotes map[string]models.Quote, sectorOf func(string) string) []models.SectorPerformance {
	type bucket struct {
		total float64
		count int
		best  models.Quote
		worst models.Quote
	}

	buckets := make(map[string]*bucket)
	for _, symbol := range quoteKeys(quotes) {
		sector := sectorOf(symbol)
		if sector == "" {
			continue
		}
		q := quotes[symbol]
		b, ok := buckets[sector]
		if !ok {
			b = &bucket{best: q, worst: q}
			buckets[sector] = b
		}
		b.total += q.ChangePercent
		b.count++
		if q.ChangePercent > b.best.ChangePercent {
			b.best = q
		}
		if q.ChangePercent < b.worst.ChangePercent {
			b.worst = q
		}
	}

	out := make([]models.SectorPerformance, 0, len(buckets))
	for sector, b := range buckets {
		out = append(out, models.SectorPerformance{
			Sector:      sector,
			AvgChange:   b.total / float64(b.count),
			SymbolCount: b.count,
			BestSymbol:  b.best.Symbol,
			BestChange:  b.best.ChangePercent,
			WorstSymbol: b.worst.Symbol,
			WorstChange: b.worst.ChangePercent,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AvgChange != out[j].AvgChange {
			return out[i].AvgChange > out[j].AvgChange
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}

func quoteKeys(quotes map[string]models.Quote) []string {
	keys := make([]string, 0, len(quotes))
	for k := range quotes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

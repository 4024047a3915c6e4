package fetch

import (
	"context"
	"time"

	"github.com/marketbrief/marketbrief/models"
)

const weeklyWindowDays = 7

// GetWeeklyPerformance resolves a trailing seven-calendar-day close
// series per symbol. The window is computed once at call start so every
// symbol covers the same span. Symbols with fewer than two observations
// are absent from the result; thin history is expected, not an error.
func (f *Fetcher) GetWeeklyPerformance(ctx context.Context, symbols []string) map[string]models.WeeklyPerformance {
	if len(symbols) == 0 {
		return map[string]models.WeeklyPerformance{}
	}

	key := CountKey("weekly", len(symbols))
	if cached, ok := f.cache.Get(key); ok {
		return cached.(map[string]models.WeeklyPerformance)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -weeklyWindowDays)

	results := RunBatches(ctx, f.exec, symbols, "weekly", func(ctx context.Context, symbol string) (models.WeeklyPerformance, error) {
		bars, err := f.provider.History(ctx, symbol, start, end)
		if err != nil {
			return models.WeeklyPerformance{}, err
		}
		if len(bars) < 2 {
			return models.WeeklyPerformance{}, ErrNoData
		}
		return weeklyFromBars(symbol, bars), nil
	})

	if len(results) > 0 {
		f.cache.Put(key, results)
	}
	return results
}

func weeklyFromBars(symbol string, bars []Bar) models.WeeklyPerformance {
	closes := make([]float64, len(bars))
	changes := make([]float64, 0, len(bars)-1)
	var totalVolume int64
	high := bars[0].High
	var low float64

	for i, bar := range bars {
		closes[i] = bar.Close
		totalVolume += bar.Volume
		if bar.High > high {
			high = bar.High
		}
		// Skip zero lows so a bar with a missing field cannot pin the
		// weekly low at 0.
		if bar.Low > 0 && (low == 0 || bar.Low < low) {
			low = bar.Low
		}
		if i > 0 {
			_, pct := deriveChange(bar.Close, bars[i-1].Close)
			changes = append(changes, pct)
		}
	}

	startPrice := closes[0]
	endPrice := closes[len(closes)-1]
	change, percent := deriveChange(endPrice, startPrice)

	return models.WeeklyPerformance{
		Symbol:            symbol,
		StartPrice:        startPrice,
		EndPrice:          endPrice,
		WeekChange:        change,
		WeekChangePercent: percent,
		WeekHigh:          high,
		WeekLow:           low,
		Closes:            closes,
		DailyChanges:      changes,
		TotalVolume:       totalVolume,
	}
}

package fetch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/marketbrief/marketbrief/models"
)

const dateLayout = "2006-01-02"

// GetEarningsCalendar collects upcoming earnings dates for the
// non-crypto symbols, probing both upstream date sources per symbol and
// deduplicating by (symbol, date). The two sources keep their own
// window rules: announced calendar dates qualify on the upper bound
// only, scheduled dates must fall inside [today, today+daysAhead].
func (f *Fetcher) GetEarningsCalendar(ctx context.Context, symbols []string, daysAhead int) []models.EarningsEvent {
	stocks, _ := SplitSymbols(symbols)
	if len(stocks) == 0 {
		return []models.EarningsEvent{}
	}

	// The cache entry is scoped by window too: the morning and weekly
	// pipelines ask for different horizons in the same process, and a
	// warm 14-day list must not answer a 7-day request.
	key := fmt.Sprintf("%s_%dd", CountKey("earnings", len(stocks)), daysAhead)
	if cached, ok := f.cache.Get(key); ok {
		return cached.([]models.EarningsEvent)
	}

	today := time.Now().Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, daysAhead)

	perSymbol := RunBatches(ctx, f.exec, stocks, "earnings", func(ctx context.Context, symbol string) ([]models.EarningsEvent, error) {
		info, err := f.provider.Info(ctx, symbol)
		if err != nil {
			return nil, err
		}
		events := earningsForSymbol(symbol, info, today, cutoff)
		if len(events) == 0 {
			return nil, ErrNoData
		}
		return events, nil
	})

	events := flattenEvents(stocks, perSymbol)
	events = dedupeEarnings(events)
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Symbol < events[j].Symbol
	})

	f.cache.Put(key, events)
	return events
}

func earningsForSymbol(symbol string, info *Info, today, cutoff time.Time) []models.EarningsEvent {
	name := info.Name
	if name == "" {
		name = symbol
	}

	var events []models.EarningsEvent
	for _, raw := range info.EarningsDates {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			continue
		}
		if !d.After(cutoff) {
			events = append(events, models.EarningsEvent{
				Symbol: symbol,
				Name:   name,
				Date:   d.Format(dateLayout),
				Time:   info.EarningsTime,
			})
		}
	}

	scheduled := info.ScheduledDates
	if len(scheduled) > 2 {
		scheduled = scheduled[:2]
	}
	for _, raw := range scheduled {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			continue
		}
		if !d.Before(today) && !d.After(cutoff) {
			events = append(events, models.EarningsEvent{
				Symbol: symbol,
				Name:   name,
				Date:   d.Format(dateLayout),
				Time:   info.EarningsTime,
			})
		}
	}
	return events
}

func dedupeEarnings(events []models.EarningsEvent) []models.EarningsEvent {
	seen := make(map[string]bool, len(events))
	out := events[:0]
	for _, ev := range events {
		k := ev.Symbol + "_" + ev.Date
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, ev)
	}
	return out
}

// flattenEvents concatenates per-symbol event lists in input symbol
// order so downstream dedup and sorting are deterministic.
func flattenEvents[T any](symbols []string, perSymbol map[string][]T) []T {
	out := make([]T, 0, len(perSymbol))
	for _, symbol := range symbols {
		out = append(out, perSymbol[symbol]...)
	}
	return out
}

// GetDividendCalendar collects upcoming ex-dividend dates for the
// non-crypto symbols. The ex-date qualifies only inside
// [today, today+daysAhead].
func (f *Fetcher) GetDividendCalendar(ctx context.Context, symbols []string, daysAhead int) []models.DividendEvent {
	stocks, _ := SplitSymbols(symbols)
	if len(stocks) == 0 {
		return []models.DividendEvent{}
	}

	key := fmt.Sprintf("%s_%dd", CountKey("dividends", len(stocks)), daysAhead)
	if cached, ok := f.cache.Get(key); ok {
		return cached.([]models.DividendEvent)
	}

	today := time.Now().Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, daysAhead)

	perSymbol := RunBatches(ctx, f.exec, stocks, "dividends", func(ctx context.Context, symbol string) ([]models.DividendEvent, error) {
		info, err := f.provider.Info(ctx, symbol)
		if err != nil {
			return nil, err
		}
		exDate, ok := normalizeExDate(info.ExDividend)
		if !ok {
			return nil, ErrNoData
		}
		d, err := time.Parse(dateLayout, exDate)
		if err != nil || d.Before(today) || d.After(cutoff) {
			return nil, ErrNoData
		}
		name := info.Name
		if name == "" {
			name = symbol
		}
		return []models.DividendEvent{{
			Symbol: symbol,
			Name:   name,
			ExDate: exDate,
			Amount: info.DividendRate,
			Yield:  info.DividendYield,
		}}, nil
	})

	events := flattenEvents(stocks, perSymbol)
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].ExDate != events[j].ExDate {
			return events[i].ExDate < events[j].ExDate
		}
		return events[i].Symbol < events[j].Symbol
	})

	f.cache.Put(key, events)
	return events
}

// normalizeExDate accepts the ex-dividend date however the upstream
// reported it, epoch seconds in any numeric width or an ISO date
// string, and returns the canonical YYYY-MM-DD form.
func normalizeExDate(v any) (string, bool) {
	switch d := v.(type) {
	case nil:
		return "", false
	case int:
		if d <= 0 {
			return "", false
		}
		return time.Unix(int64(d), 0).UTC().Format(dateLayout), true
	case int64:
		if d <= 0 {
			return "", false
		}
		return time.Unix(d, 0).UTC().Format(dateLayout), true
	case float64:
		if d <= 0 {
			return "", false
		}
		return time.Unix(int64(d), 0).UTC().Format(dateLayout), true
	case string:
		if _, err := time.Parse(dateLayout, d); err != nil {
			return "", false
		}
		return d, true
	case time.Time:
		if d.IsZero() {
			return "", false
		}
		return d.Format(dateLayout), true
	default:
		return "", false
	}
}

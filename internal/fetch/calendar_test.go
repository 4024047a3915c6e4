package fetch

import (
	"context"
	"testing"
	"time"
)

func dateFromToday(days int) string {
	return time.Now().AddDate(0, 0, days).Format(dateLayout)
}

func TestEarningsCalendarDedup(t *testing.T) {
	p := newFakeProvider()
	date := dateFromToday(5)
	// Both sources report the same date; only one event may survive.
	p.infos["AAPL"] = &Info{
		Symbol:         "AAPL",
		Name:           "Apple",
		EarningsDates:  []string{date},
		ScheduledDates: []string{date},
	}
	f := newTestFetcher(p)

	events := f.GetEarningsCalendar(context.Background(), []string{"AAPL"}, 14)
	if len(events) != 1 {
		t.Fatalf("expected 1 deduplicated event, got %d", len(events))
	}
	if events[0].Symbol != "AAPL" || events[0].Date != date {
		t.Errorf("unexpected event %+v", events[0])
	}
}

func TestEarningsCalendarWindowRules(t *testing.T) {
	p := newFakeProvider()
	// The announced-calendar source only checks the upper bound, so a
	// past date passes; the scheduled source requires both bounds.
	p.infos["PAST"] = &Info{Symbol: "PAST", EarningsDates: []string{dateFromToday(-3)}}
	p.infos["SCHED"] = &Info{Symbol: "SCHED", ScheduledDates: []string{dateFromToday(-3)}}
	p.infos["FAR"] = &Info{Symbol: "FAR", EarningsDates: []string{dateFromToday(30)}}
	f := newTestFetcher(p)

	events := f.GetEarningsCalendar(context.Background(), []string{"PAST", "SCHED", "FAR"}, 14)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(events), events)
	}
	if events[0].Symbol != "PAST" {
		t.Errorf("expected the announced past date to qualify, got %+v", events[0])
	}
}

func TestEarningsCalendarScheduledLimit(t *testing.T) {
	p := newFakeProvider()
	p.infos["AAPL"] = &Info{
		Symbol:         "AAPL",
		ScheduledDates: []string{dateFromToday(2), dateFromToday(3), dateFromToday(4)},
	}
	f := newTestFetcher(p)

	events := f.GetEarningsCalendar(context.Background(), []string{"AAPL"}, 14)
	if len(events) != 2 {
		t.Fatalf("only the first two scheduled dates should be probed, got %d", len(events))
	}
}

func TestEarningsCalendarWindowsCachedSeparately(t *testing.T) {
	p := newFakeProvider()
	p.infos["AAPL"] = &Info{Symbol: "AAPL", EarningsDates: []string{dateFromToday(12)}}
	f := newTestFetcher(p)

	wide := f.GetEarningsCalendar(context.Background(), []string{"AAPL"}, 14)
	if len(wide) != 1 {
		t.Fatalf("14-day window should report the event, got %d", len(wide))
	}
	narrow := f.GetEarningsCalendar(context.Background(), []string{"AAPL"}, 7)
	if len(narrow) != 0 {
		t.Errorf("7-day window served %d events, a warm wider window must not answer it", len(narrow))
	}
}

func TestEarningsCalendarSkipsCrypto(t *testing.T) {
	p := newFakeProvider()
	f := newTestFetcher(p)

	events := f.GetEarningsCalendar(context.Background(), []string{"BTC-USD", "ETH-USD"}, 14)
	if len(events) != 0 {
		t.Errorf("crypto-only input should yield no events, got %d", len(events))
	}
	if _, infos, _ := p.counts(); infos != 0 {
		t.Errorf("expected zero info calls for crypto input, got %d", infos)
	}
}

func TestEarningsCalendarSorted(t *testing.T) {
	p := newFakeProvider()
	p.infos["ZZZ"] = &Info{Symbol: "ZZZ", EarningsDates: []string{dateFromToday(2)}}
	p.infos["AAA"] = &Info{Symbol: "AAA", EarningsDates: []string{dateFromToday(9)}}
	f := newTestFetcher(p)

	events := f.GetEarningsCalendar(context.Background(), []string{"AAA", "ZZZ"}, 14)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Symbol != "ZZZ" {
		t.Errorf("events should sort ascending by date, got %+v", events)
	}
}

func TestDividendCalendarWindow(t *testing.T) {
	p := newFakeProvider()
	in := time.Now().AddDate(0, 0, 5).UTC()
	out := time.Now().AddDate(0, 0, 40).UTC()
	p.infos["KO"] = &Info{Symbol: "KO", Name: "Coca-Cola", ExDividend: in.Unix(), DividendRate: 1.94, DividendYield: 3.1}
	p.infos["PG"] = &Info{Symbol: "PG", ExDividend: out.Unix()}
	f := newTestFetcher(p)

	events := f.GetDividendCalendar(context.Background(), []string{"KO", "PG"}, 14)
	if len(events) != 1 {
		t.Fatalf("expected 1 dividend event, got %d", len(events))
	}
	ev := events[0]
	if ev.Symbol != "KO" || ev.Amount != 1.94 || ev.Yield != 3.1 {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.ExDate != in.Format(dateLayout) {
		t.Errorf("ex-date = %s, want %s", ev.ExDate, in.Format(dateLayout))
	}
}

func TestNormalizeExDate(t *testing.T) {
	epoch := time.Date(2026, 1, 22, 14, 30, 0, 0, time.UTC).Unix()

	if got, ok := normalizeExDate(epoch); !ok || got != "2026-01-22" {
		t.Errorf("int64 epoch = %q (ok=%v), want 2026-01-22", got, ok)
	}
	if got, ok := normalizeExDate(float64(epoch)); !ok || got != "2026-01-22" {
		t.Errorf("float epoch = %q (ok=%v), want 2026-01-22", got, ok)
	}
	if got, ok := normalizeExDate("2026-01-22"); !ok || got != "2026-01-22" {
		t.Errorf("string date = %q (ok=%v), want 2026-01-22", got, ok)
	}
	if _, ok := normalizeExDate(nil); ok {
		t.Error("nil should not normalize")
	}
	if _, ok := normalizeExDate("not a date"); ok {
		t.Error("garbage string should not normalize")
	}
	if _, ok := normalizeExDate(int64(0)); ok {
		t.Error("zero epoch should not normalize")
	}
}

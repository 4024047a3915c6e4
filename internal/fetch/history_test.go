package fetch

import (
	"context"
	"math"
	"testing"
	"time"
)

func barsFromCloses(closes ...float64) []Bar {
	day := time.Now().AddDate(0, 0, -len(closes))
	bars := make([]Bar, len(closes))
	for i, c := range closes {
		bars[i] = Bar{
			Date:   day.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestWeeklyPerformanceThinHistory(t *testing.T) {
	p := newFakeProvider()
	p.history["IPO"] = barsFromCloses(42)
	p.history["AAPL"] = barsFromCloses(100, 102, 101, 105, 110)
	f := newTestFetcher(p)

	results := f.GetWeeklyPerformance(context.Background(), []string{"IPO", "AAPL"})
	if _, ok := results["IPO"]; ok {
		t.Error("single-row history should yield no entry")
	}
	if _, ok := results["AAPL"]; !ok {
		t.Error("AAPL should be present")
	}
}

func TestWeeklyPerformanceSeries(t *testing.T) {
	p := newFakeProvider()
	p.history["AAPL"] = barsFromCloses(100, 102, 101, 105, 110)
	f := newTestFetcher(p)

	results := f.GetWeeklyPerformance(context.Background(), []string{"AAPL"})
	w := results["AAPL"]

	if len(w.Closes) != 5 {
		t.Fatalf("closes length = %d, want 5", len(w.Closes))
	}
	if len(w.DailyChanges) != 4 {
		t.Fatalf("daily changes length = %d, want 4", len(w.DailyChanges))
	}
	if w.StartPrice != 100 || w.EndPrice != 110 {
		t.Errorf("start/end = %v/%v, want 100/110", w.StartPrice, w.EndPrice)
	}
	if w.WeekChange != 10 {
		t.Errorf("week change = %v, want 10", w.WeekChange)
	}
	if w.WeekChangePercent != 10 {
		t.Errorf("week change percent = %v, want 10", w.WeekChangePercent)
	}
	if math.Abs(w.DailyChanges[0]-2) > 1e-9 {
		t.Errorf("first daily change = %v, want 2", w.DailyChanges[0])
	}
	if w.TotalVolume != 5000 {
		t.Errorf("total volume = %v, want 5000", w.TotalVolume)
	}
	if w.WeekHigh != 111 || w.WeekLow != 99 {
		t.Errorf("high/low = %v/%v, want 111/99", w.WeekHigh, w.WeekLow)
	}
}

func TestWeeklyLowSkipsZeroFirstBar(t *testing.T) {
	bars := barsFromCloses(100, 102, 104)
	bars[0].Low = 0

	w := weeklyFromBars("AAPL", bars)
	if w.WeekLow != 101 {
		t.Errorf("week low = %v, want 101 from the first bar with a real low", w.WeekLow)
	}
}

func TestWeeklyPerformanceEmptyInput(t *testing.T) {
	p := newFakeProvider()
	f := newTestFetcher(p)

	results := f.GetWeeklyPerformance(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected empty result, got %d", len(results))
	}
	if _, _, hist := p.counts(); hist != 0 {
		t.Errorf("expected zero history calls, got %d", hist)
	}
}

func TestWeeklyPerformanceCached(t *testing.T) {
	p := newFakeProvider()
	p.history["AAPL"] = barsFromCloses(100, 101, 102)
	f := newTestFetcher(p)

	f.GetWeeklyPerformance(context.Background(), []string{"AAPL"})
	f.GetWeeklyPerformance(context.Background(), []string{"AAPL"})

	if _, _, hist := p.counts(); hist != 1 {
		t.Errorf("expected one history fetch, got %d", hist)
	}
}

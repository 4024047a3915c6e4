package fetch

import (
	"context"
	"testing"
	"time"
)

func indicesProvider() *fakeProvider {
	p := newFakeProvider()
	for symbol := range marketIndices {
		p.addSnapshot(symbol, 5000, 4950, 0, 0)
	}
	for symbol := range indexFutures {
		p.addSnapshot(symbol, 5100, 5050, 0, 0)
	}
	return p
}

func TestGetMarketIndices(t *testing.T) {
	p := indicesProvider()
	f := newTestFetcher(p)

	indices := f.GetMarketIndices(context.Background())
	if len(indices) != len(marketIndices) {
		t.Fatalf("expected %d indices, got %d", len(marketIndices), len(indices))
	}

	spx, ok := indices["^GSPC"]
	if !ok {
		t.Fatal("^GSPC missing")
	}
	if spx.Name != "S&P 500" {
		t.Errorf("name = %q, want S&P 500", spx.Name)
	}
	if spx.Change != 50 {
		t.Errorf("change = %v, want 50", spx.Change)
	}
}

func TestGetMarketIndicesCached(t *testing.T) {
	p := indicesProvider()
	f := newTestFetcher(p)

	f.GetMarketIndices(context.Background())
	before := p.indexCalls
	f.GetMarketIndices(context.Background())
	if p.indexCalls != before {
		t.Errorf("second call should be served from cache, calls went %d -> %d", before, p.indexCalls)
	}
}

func TestGetFutures(t *testing.T) {
	p := indicesProvider()
	f := newTestFetcher(p)

	futures := f.GetFutures(context.Background())
	if len(futures) != len(indexFutures) {
		t.Fatalf("expected %d futures, got %d", len(indexFutures), len(futures))
	}
	es, ok := futures["ES=F"]
	if !ok {
		t.Fatal("ES=F missing")
	}
	if es.Name != "S&P 500 Futures" {
		t.Errorf("name = %q", es.Name)
	}
}

func TestFuturesCacheShorterTTL(t *testing.T) {
	p := indicesProvider()
	now := time.Now()
	f := NewFetcher(WithProvider(p), WithExecutor(fastExecutor()), WithClock(func() time.Time { return now }))

	f.GetMarketIndices(context.Background())
	f.GetFutures(context.Background())
	idxCalls, futCalls := p.indexCalls, p.futureCalls

	// Three minutes on: futures TTL (2m) has lapsed, quotes TTL (5m)
	// has not.
	now = now.Add(3 * time.Minute)
	f.GetMarketIndices(context.Background())
	f.GetFutures(context.Background())

	if p.indexCalls != idxCalls {
		t.Errorf("indices should still be cached after 3m, calls %d -> %d", idxCalls, p.indexCalls)
	}
	if p.futureCalls == futCalls {
		t.Error("futures should refresh after their shorter TTL")
	}
}

func TestPartialIndexFailureKeepsOthers(t *testing.T) {
	p := indicesProvider()
	p.fail("^VIX")
	f := newTestFetcher(p)

	indices := f.GetMarketIndices(context.Background())
	if len(indices) != len(marketIndices)-1 {
		t.Fatalf("expected %d indices, got %d", len(marketIndices)-1, len(indices))
	}
	if _, ok := indices["^VIX"]; ok {
		t.Error("failed index should be absent")
	}
}

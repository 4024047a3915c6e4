package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunBatchesEmptyInput(t *testing.T) {
	var calls int32
	results := RunBatches(context.Background(), fastExecutor(), nil, "test", func(ctx context.Context, key string) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, nil
	})

	if len(results) != 0 {
		t.Errorf("expected empty result, got %d entries", len(results))
	}
	if results == nil {
		t.Error("result map should never be nil")
	}
	if calls != 0 {
		t.Errorf("expected zero calls for empty input, got %d", calls)
	}
}

func TestRunBatchesPartialFailure(t *testing.T) {
	keys := []string{"AAPL", "MSFT", "GOOG", "AMZN", "NVDA"}
	results := RunBatches(context.Background(), fastExecutor(), keys, "test", func(ctx context.Context, key string) (string, error) {
		if key == "GOOG" {
			return "", errors.New("boom")
		}
		return key + "-ok", nil
	})

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if _, ok := results["GOOG"]; ok {
		t.Error("failed key should be absent from results")
	}
	if results["AAPL"] != "AAPL-ok" {
		t.Errorf("unexpected payload for AAPL: %q", results["AAPL"])
	}
}

func TestRunBatchesAllKeysVisited(t *testing.T) {
	keys := make([]string, 0, 45)
	for i := 0; i < 45; i++ {
		keys = append(keys, string(rune('a'+i%26))+string(rune('0'+i/26)))
	}

	var mu sync.Mutex
	seen := make(map[string]int)
	ex := &Executor{BatchSize: 20, Workers: 10}
	results := RunBatches(context.Background(), ex, keys, "test", func(ctx context.Context, key string) (bool, error) {
		mu.Lock()
		seen[key]++
		mu.Unlock()
		return true, nil
	})

	if len(results) != len(keys) {
		t.Fatalf("expected %d results, got %d", len(keys), len(results))
	}
	for _, key := range keys {
		if seen[key] != 1 {
			t.Errorf("key %s visited %d times, want exactly once", key, seen[key])
		}
	}
}

func TestRunBatchesBoundsConcurrency(t *testing.T) {
	var active, peak int32
	ex := &Executor{BatchSize: 40, Workers: 4}

	keys := make([]string, 40)
	for i := range keys {
		keys[i] = string(rune('a' + i%26))
	}
	// Duplicate keys collapse in the result map but every op still runs.
	var calls int32
	RunBatches(context.Background(), ex, keys, "test", func(ctx context.Context, key string) (int, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		atomic.AddInt32(&calls, 1)
		atomic.AddInt32(&active, -1)
		return 0, nil
	})

	if calls != 40 {
		t.Errorf("expected 40 op calls, got %d", calls)
	}
	if peak > 4 {
		t.Errorf("concurrency peaked at %d, limit is 4", peak)
	}
}

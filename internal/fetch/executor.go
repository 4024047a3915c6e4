package fetch

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marketbrief/marketbrief/internal/logx"
)

const (
	defaultBatchSize = 20
	defaultWorkers   = 10
	defaultDelay     = 500 * time.Millisecond
)

// Executor runs per-key operations in fixed-size batches with bounded
// concurrency inside each batch and a pause between batches. One key
// failing never cancels or delays its siblings.
type Executor struct {
	BatchSize int
	Workers   int
	Delay     time.Duration

	sleep func(ctx context.Context, d time.Duration)
}

func NewExecutor() *Executor {
	return &Executor{
		BatchSize: defaultBatchSize,
		Workers:   defaultWorkers,
		Delay:     defaultDelay,
	}
}

func (e *Executor) batchSize() int {
	if e.BatchSize <= 0 {
		return defaultBatchSize
	}
	return e.BatchSize
}

func (e *Executor) workers() int {
	if e.Workers <= 0 {
		return defaultWorkers
	}
	return e.Workers
}

func (e *Executor) pause(ctx context.Context) {
	if e.Delay <= 0 {
		return
	}
	if e.sleep != nil {
		e.sleep(ctx, e.Delay)
		return
	}
	t := time.NewTimer(e.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// RunBatches applies op to every key and collects the successes into a
// map. Keys whose op returns an error are omitted; ErrNoData is skipped
// silently, anything else logs one warning for that key. The returned
// map is never nil.
func RunBatches[T any](ctx context.Context, e *Executor, keys []string, desc string, op func(ctx context.Context, key string) (T, error)) map[string]T {
	results := make(map[string]T, len(keys))
	if len(keys) == 0 {
		return results
	}

	var mu sync.Mutex
	size := e.batchSize()

	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		batch := keys[start:end]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers())
		for _, key := range batch {
			g.Go(func() error {
				payload, err := op(gctx, key)
				if err != nil {
					if !errors.Is(err, ErrNoData) {
						logx.Warn("fetch failed", "op", desc, "symbol", key, "error", err)
					}
					return nil
				}
				mu.Lock()
				results[key] = payload
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		if end < len(keys) {
			e.pause(ctx)
		}
	}

	return results
}

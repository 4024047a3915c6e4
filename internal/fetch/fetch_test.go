package fetch

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeProvider serves canned payloads and counts calls so tests can
// assert how many upstream fetches an operation issued.
type fakeProvider struct {
	mu            sync.Mutex
	snapshotCalls int
	infoCalls     int
	historyCalls  int
	indexCalls    int
	futureCalls   int

	snapshots map[string]*Snapshot
	infos     map[string]*Info
	history   map[string][]Bar
	failing   map[string]error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		snapshots: make(map[string]*Snapshot),
		infos:     make(map[string]*Info),
		history:   make(map[string][]Bar),
		failing:   make(map[string]error),
	}
}

func (p *fakeProvider) addSnapshot(symbol string, price, prevClose float64, volume, avgVolume int64) {
	p.snapshots[symbol] = &Snapshot{
		Symbol:        symbol,
		Name:          symbol + " Inc",
		Price:         price,
		PreviousClose: prevClose,
		Volume:        volume,
		AvgVolume:     avgVolume,
	}
}

func (p *fakeProvider) fail(symbol string) {
	p.failing[symbol] = errors.New("upstream rejected " + symbol)
}

func (p *fakeProvider) counts() (snapshots, infos, history int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotCalls, p.infoCalls, p.historyCalls
}

func (p *fakeProvider) Snapshot(ctx context.Context, symbol string) (*Snapshot, error) {
	p.mu.Lock()
	p.snapshotCalls++
	p.mu.Unlock()
	if err, ok := p.failing[symbol]; ok {
		return nil, err
	}
	snap, ok := p.snapshots[symbol]
	if !ok {
		return nil, ErrNoData
	}
	return snap, nil
}

func (p *fakeProvider) Info(ctx context.Context, symbol string) (*Info, error) {
	p.mu.Lock()
	p.infoCalls++
	p.mu.Unlock()
	if err, ok := p.failing[symbol]; ok {
		return nil, err
	}
	info, ok := p.infos[symbol]
	if !ok {
		return nil, ErrNoData
	}
	return info, nil
}

func (p *fakeProvider) History(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error) {
	p.mu.Lock()
	p.historyCalls++
	p.mu.Unlock()
	if err, ok := p.failing[symbol]; ok {
		return nil, err
	}
	return p.history[symbol], nil
}

func (p *fakeProvider) Index(ctx context.Context, symbol string) (*Snapshot, error) {
	p.mu.Lock()
	p.indexCalls++
	p.mu.Unlock()
	return p.Snapshot(ctx, symbol)
}

func (p *fakeProvider) Future(ctx context.Context, symbol string) (*Snapshot, error) {
	p.mu.Lock()
	p.futureCalls++
	p.mu.Unlock()
	return p.Snapshot(ctx, symbol)
}

// fastExecutor drops the inter-batch delay so tests stay quick.
func fastExecutor() *Executor {
	return &Executor{BatchSize: defaultBatchSize, Workers: defaultWorkers}
}

func newTestFetcher(p Provider) *Fetcher {
	return NewFetcher(WithProvider(p), WithExecutor(fastExecutor()))
}

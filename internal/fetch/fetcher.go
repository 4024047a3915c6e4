package fetch

import (
	"strings"
	"time"
)

const (
	defaultQuoteTTL   = 5 * time.Minute
	defaultFuturesTTL = 2 * time.Minute
)

// Fetcher is the aggregate entry point for quote, history, calendar and
// index data. It owns its caches so independent instances never share
// state.
type Fetcher struct {
	provider Provider
	exec     *Executor
	cache    *Cache
	futures  *Cache
}

type Option func(*Fetcher)

// WithProvider swaps the market-data backend.
func WithProvider(p Provider) Option {
	return func(f *Fetcher) { f.provider = p }
}

// WithExecutor replaces the batch executor, mainly to drop the
// inter-batch delay in tests.
func WithExecutor(e *Executor) Option {
	return func(f *Fetcher) { f.exec = e }
}

// WithQuoteTTL sets the TTL for quotes, history and calendar caches.
func WithQuoteTTL(ttl time.Duration) Option {
	return func(f *Fetcher) { f.cache = NewCache(ttl) }
}

// WithFuturesTTL sets the TTL for the futures cache, kept shorter since
// futures move through the overnight session.
func WithFuturesTTL(ttl time.Duration) Option {
	return func(f *Fetcher) { f.futures = NewCache(ttl) }
}

// WithClock overrides the time source of both caches, for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.cache.now = now
		f.futures.now = now
	}
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		provider: NewYahooProvider(),
		exec:     NewExecutor(),
		cache:    NewCache(defaultQuoteTTL),
		futures:  NewCache(defaultFuturesTTL),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsCrypto reports whether symbol names a crypto pair by the trailing
// -USD convention.
func IsCrypto(symbol string) bool {
	return strings.HasSuffix(symbol, "-USD")
}

// SplitSymbols partitions symbols into equities and crypto pairs,
// preserving input order within each group.
func SplitSymbols(symbols []string) (stocks, crypto []string) {
	for _, s := range symbols {
		if IsCrypto(s) {
			crypto = append(crypto, s)
		} else {
			stocks = append(stocks, s)
		}
	}
	return stocks, crypto
}

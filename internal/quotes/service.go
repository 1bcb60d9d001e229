package quotes

import (
	"context"
	"time"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
)

// Service is the facade the rest of the application uses for market data.
// It wires the cache, coalescer, resolver, and batch scheduler together and
// exposes the combined observability counters.
type Service struct {
	cache     *Cache
	coalescer *Coalescer
	resolver  *Resolver
	batch     *BatchFetcher
}

// ServiceConfig holds the tunables of the market-data core.
type ServiceConfig struct {
	PriceTTL        time.Duration
	HistoricalTTL   time.Duration
	DividendTTL     time.Duration
	BatchGroupSize  int
	GroupsPerMinute int

	// Clock overrides the time source of the cache and resolver; nil means
	// time.Now.
	Clock func() time.Time
}

// NewService builds the market-data core over a provider and a pre-loaded
// reference table.
func NewService(provider Provider, ref *ReferenceTable, cfg ServiceConfig) *Service {
	cacheOpts := []CacheOption{}
	if cfg.PriceTTL > 0 {
		cacheOpts = append(cacheOpts, WithTTL(KindPrice, cfg.PriceTTL))
	}
	if cfg.HistoricalTTL > 0 {
		cacheOpts = append(cacheOpts, WithTTL(KindHistorical, cfg.HistoricalTTL))
	}
	if cfg.DividendTTL > 0 {
		cacheOpts = append(cacheOpts, WithTTL(KindDividend, cfg.DividendTTL))
	}

	resolverOpts := []ResolverOption{}
	if cfg.Clock != nil {
		cacheOpts = append(cacheOpts, WithClock(cfg.Clock))
		resolverOpts = append(resolverOpts, WithResolverClock(cfg.Clock))
	}

	cache := NewCache(cacheOpts...)
	coalescer := NewCoalescer()
	resolver := NewResolver(provider, cache, coalescer, ref, resolverOpts...)
	batch := NewBatchFetcher(resolver, cfg.BatchGroupSize, cfg.GroupsPerMinute)

	return &Service{
		cache:     cache,
		coalescer: coalescer,
		resolver:  resolver,
		batch:     batch,
	}
}

// GetPrices resolves a current price for every distinct symbol in symbols,
// batched and rate limited.
func (s *Service) GetPrices(ctx context.Context, symbols []string) (map[string]model.Quote, error) {
	return s.batch.FetchAll(ctx, symbols)
}

// GetPrice resolves the current price for a single symbol.
func (s *Service) GetPrice(ctx context.Context, symbol string) (model.Quote, error) {
	return s.resolver.ResolveCurrentPrice(ctx, symbol)
}

// GetHistoricalPrice resolves the closing price nearest the given date.
func (s *Service) GetHistoricalPrice(ctx context.Context, symbol string, date time.Time) (model.HistoricalPrice, error) {
	return s.resolver.ResolveHistoricalPrice(ctx, symbol, date)
}

// GetDividendTotal resolves the trailing-twelve-month dividend total.
func (s *Service) GetDividendTotal(ctx context.Context, symbol string) (float64, model.PriceSource, error) {
	return s.resolver.ResolveDividendTotal(ctx, symbol)
}

// SweepExpired removes expired cache entries and returns how many were
// removed. Wired to the periodic cron job in cmd/server.
func (s *Service) SweepExpired() int {
	return s.cache.EvictExpired()
}

// Cache exposes the underlying cache for components that share it, such as
// the leaderboard page cache.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Stats returns a snapshot of the cache and coalescing counters.
func (s *Service) Stats() model.CacheStats {
	return model.CacheStats{
		Entries:        s.cache.Len(),
		Hits:           s.cache.Hits(),
		Misses:         s.cache.Misses(),
		Evictions:      s.cache.Evictions(),
		UpstreamCalls:  s.coalescer.UpstreamCalls(),
		CoalescedCalls: s.coalescer.CoalescedCalls(),
	}
}

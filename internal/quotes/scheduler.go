package quotes

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
)

// BatchFetcher resolves many symbols while staying under the upstream
// provider's rate ceiling. The input list is deduplicated, partitioned into
// fixed-size groups, and each group's lookups run concurrently through the
// coalescing resolver. Pacing between groups goes through a rate limiter so
// cancellation is honored at the suspension point.
//
// A single symbol's failure never aborts the batch; the returned map holds
// one entry per requested symbol unless that symbol somehow failed across
// every resolver tier, in which case its entry is omitted.
type BatchFetcher struct {
	resolver  *Resolver
	groupSize int
	limiter   *rate.Limiter
}

// NewBatchFetcher creates a scheduler issuing groups of groupSize lookups,
// with at most groupsPerMinute groups dispatched per minute.
func NewBatchFetcher(resolver *Resolver, groupSize, groupsPerMinute int) *BatchFetcher {
	if groupSize < 1 {
		groupSize = 1
	}
	if groupsPerMinute < 1 {
		groupsPerMinute = 1
	}

	interval := time.Minute / time.Duration(groupsPerMinute)

	return &BatchFetcher{
		resolver:  resolver,
		groupSize: groupSize,
		// Burst of one: the first group goes out immediately, every
		// subsequent group waits out the inter-group interval.
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// FetchAll resolves a current price for every distinct symbol in symbols.
// Symbols are uppercased before deduplication, so "aapl" and "AAPL" collapse
// to one lookup. Partial results are never returned: either the whole batch
// completes and the map holds one entry per distinct symbol, or ctx was
// cancelled and the error is returned.
func (b *BatchFetcher) FetchAll(ctx context.Context, symbols []string) (map[string]model.Quote, error) {
	distinct := dedupe(symbols)
	results := make(map[string]model.Quote, len(distinct))

	for start := 0; start < len(distinct); start += b.groupSize {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		end := min(start+b.groupSize, len(distinct))
		group := distinct[start:end]

		quotes := make([]*model.Quote, len(group))
		g, groupCtx := errgroup.WithContext(ctx)

		for i, symbol := range group {
			i, symbol := i, symbol
			g.Go(func() error {
				quote, err := b.resolver.ResolveCurrentPrice(groupCtx, symbol)
				if err != nil {
					return err
				}
				quotes[i] = &quote
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		for i, symbol := range group {
			if quotes[i] != nil {
				results[symbol] = *quotes[i]
			}
		}
	}

	return results, nil
}

// dedupe uppercases and deduplicates symbols, preserving first-seen order.
func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	distinct := make([]string, 0, len(symbols))

	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		distinct = append(distinct, s)
	}

	return distinct
}

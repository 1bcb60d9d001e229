package quotes_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/apperrors"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/quotes"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/testutil"
)

// newTestResolver wires a resolver over a mock provider, a fake clock, and
// an empty reference table, returning all the pieces for assertions.
func newTestResolver(t *testing.T, base time.Time) (*quotes.Resolver, *testutil.MockProvider, *quotes.Cache, *testutil.FakeClock, *quotes.ReferenceTable) {
	t.Helper()

	provider := testutil.NewMockProvider()
	clock := testutil.NewFakeClock(base)
	cache := quotes.NewCache(
		quotes.WithClock(clock.Now),
		quotes.WithTTL(quotes.KindPrice, 15*time.Minute),
	)
	ref := quotes.NewReferenceTable()
	resolver := quotes.NewResolver(provider, cache, quotes.NewCoalescer(), ref,
		quotes.WithResolverClock(clock.Now))

	return resolver, provider, cache, clock, ref
}

// TestResolveCurrentPriceLive verifies the happy path: a live quote is
// returned tagged live and cached, so an immediate second call makes no
// upstream request.
func TestResolveCurrentPriceLive(t *testing.T) {
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	resolver, provider, _, _, _ := newTestResolver(t, base)

	quote, err := resolver.ResolveCurrentPrice(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if quote.Source != model.SourceLive {
		t.Errorf("Expected source live, got %s", quote.Source)
	}
	if quote.Price != 100 {
		t.Errorf("Expected the provider's price 100, got %v", quote.Price)
	}

	// The second read must be served from cache.
	if _, err := resolver.ResolveCurrentPrice(context.Background(), "AAPL"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.QuoteCalls() != 1 {
		t.Errorf("Expected 1 upstream call for 2 sequential reads, got %d", provider.QuoteCalls())
	}
}

// TestResolveCurrentPriceExpiryRefetch verifies that after the TTL passes,
// exactly one new upstream call refreshes the entry.
func TestResolveCurrentPriceExpiryRefetch(t *testing.T) {
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	resolver, provider, _, clock, _ := newTestResolver(t, base)

	if _, err := resolver.ResolveCurrentPrice(context.Background(), "AAPL"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Just inside the TTL: still cached.
	clock.Advance(15*time.Minute - time.Millisecond)
	if _, err := resolver.ResolveCurrentPrice(context.Background(), "AAPL"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.QuoteCalls() != 1 {
		t.Fatalf("Expected no refetch inside the TTL, got %d calls", provider.QuoteCalls())
	}

	// Just past it: exactly one refetch.
	clock.Advance(2 * time.Millisecond)
	if _, err := resolver.ResolveCurrentPrice(context.Background(), "AAPL"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.QuoteCalls() != 2 {
		t.Errorf("Expected exactly one refetch after expiry, got %d total calls", provider.QuoteCalls())
	}
}

// TestResolveCurrentPriceFallbackOrdering verifies the tier ladder: a failing
// live tier falls to the reference table when it has a same-day anchor, and
// to a deterministic estimate when it does not.
func TestResolveCurrentPriceFallbackOrdering(t *testing.T) {
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	t.Run("reference tier wins when live fails", func(t *testing.T) {
		resolver, provider, _, _, ref := newTestResolver(t, base)
		provider.QuoteFunc = func(string) (model.Quote, error) {
			return model.Quote{}, errors.New("connection refused")
		}
		ref.Add("AAPL", base, 178.50)

		quote, err := resolver.ResolveCurrentPrice(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Upstream failure must not surface as an error, got %v", err)
		}
		if quote.Source != model.SourceReference {
			t.Errorf("Expected source reference, got %s", quote.Source)
		}
		if quote.Price != 178.50 {
			t.Errorf("Expected the reference price 178.50, got %v", quote.Price)
		}
	})

	t.Run("estimated tier when no reference entry", func(t *testing.T) {
		resolver, provider, _, _, _ := newTestResolver(t, base)
		provider.QuoteFunc = func(string) (model.Quote, error) {
			return model.Quote{}, errors.New("connection refused")
		}

		quote, err := resolver.ResolveCurrentPrice(context.Background(), "ZZZZ")
		if err != nil {
			t.Fatalf("Estimated tier must never error, got %v", err)
		}
		if quote.Source != model.SourceEstimated {
			t.Errorf("Expected source estimated, got %s", quote.Source)
		}
		if quote.Price <= 0 {
			t.Errorf("Expected a usable positive price, got %v", quote.Price)
		}
	})

	t.Run("estimate is deterministic across resolvers", func(t *testing.T) {
		// Two independent resolvers degrade an unknown symbol to the same
		// value: no new information, no jitter.
		prices := make([]float64, 2)
		for i := range prices {
			resolver, provider, _, _, _ := newTestResolver(t, base)
			provider.QuoteFunc = func(string) (model.Quote, error) {
				return model.Quote{}, errors.New("connection refused")
			}
			quote, err := resolver.ResolveCurrentPrice(context.Background(), "ZZZZ")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			prices[i] = quote.Price
		}
		if prices[0] != prices[1] {
			t.Errorf("Expected identical estimates, got %v and %v", prices[0], prices[1])
		}
	})

	t.Run("stale anchor only anchors an estimate", func(t *testing.T) {
		resolver, provider, _, _, ref := newTestResolver(t, base)
		provider.QuoteFunc = func(string) (model.Quote, error) {
			return model.Quote{}, errors.New("connection refused")
		}
		ref.Add("AAPL", base.AddDate(0, 0, -30), 170.00)

		quote, err := resolver.ResolveCurrentPrice(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if quote.Source != model.SourceEstimated {
			t.Errorf("A month-old anchor is not current data; expected estimated, got %s", quote.Source)
		}
		// The estimate stays tethered to the anchor.
		if quote.Price < 170.00*0.97 || quote.Price > 170.00*1.03 {
			t.Errorf("Estimate %v strayed more than 3%% from its anchor 170", quote.Price)
		}
	})
}

// TestResolveCurrentPriceDegradedTTL verifies degraded values are cached
// only briefly: once the provider recovers, the live tier takes over without
// waiting out the full price TTL.
func TestResolveCurrentPriceDegradedTTL(t *testing.T) {
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	resolver, provider, _, clock, _ := newTestResolver(t, base)

	failing := true
	provider.QuoteFunc = func(symbol string) (model.Quote, error) {
		if failing {
			return model.Quote{}, errors.New("connection refused")
		}
		return model.Quote{Symbol: symbol, Price: 181, PreviousClose: 180}, nil
	}

	quote, err := resolver.ResolveCurrentPrice(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if quote.Source != model.SourceEstimated {
		t.Fatalf("Expected a degraded quote, got source %s", quote.Source)
	}

	// Recovery. Two minutes later the short degraded TTL has lapsed and the
	// live tier serves again.
	failing = false
	clock.Advance(2 * time.Minute)

	quote, err = resolver.ResolveCurrentPrice(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if quote.Source != model.SourceLive {
		t.Errorf("Expected the live tier after recovery, got %s", quote.Source)
	}
	if quote.Price != 181 {
		t.Errorf("Expected the recovered price 181, got %v", quote.Price)
	}
}

// TestResolveCurrentPriceRateLimited verifies a rate-limit rejection is the
// one upstream failure that propagates instead of degrading, and that it is
// never cached.
func TestResolveCurrentPriceRateLimited(t *testing.T) {
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	resolver, provider, cache, _, _ := newTestResolver(t, base)

	provider.QuoteFunc = func(string) (model.Quote, error) {
		return model.Quote{}, apperrors.ErrRateLimited
	}

	_, err := resolver.ResolveCurrentPrice(context.Background(), "AAPL")
	if !errors.Is(err, apperrors.ErrRateLimited) {
		t.Fatalf("Expected ErrRateLimited to propagate, got %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("A rate-limit rejection must not be cached; cache has %d entries", cache.Len())
	}

	// Each retry reaches the provider again.
	_, _ = resolver.ResolveCurrentPrice(context.Background(), "AAPL")
	if provider.QuoteCalls() != 2 {
		t.Errorf("Expected 2 upstream attempts, got %d", provider.QuoteCalls())
	}
}

// TestResolveHistoricalPrice verifies the date-based resolution paths.
func TestResolveHistoricalPrice(t *testing.T) {
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	t.Run("nearest trading day", func(t *testing.T) {
		resolver, provider, _, _, _ := newTestResolver(t, base)

		// Saturday May 3rd has no close; Friday the 2nd is nearer than
		// Monday the 5th.
		provider.HistoricalFunc = func(symbol string, from, to time.Time) ([]model.ClosingPrice, error) {
			return []model.ClosingPrice{
				{Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Close: 170},
				{Date: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), Close: 171},
				{Date: time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), Close: 175},
			}, nil
		}

		saturday := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
		hp, err := resolver.ResolveHistoricalPrice(context.Background(), "AAPL", saturday)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if hp.Price != 171 {
			t.Errorf("Expected Friday's close 171, got %v", hp.Price)
		}
		if hp.Source != model.SourceLive {
			t.Errorf("Expected source live, got %s", hp.Source)
		}
	})

	t.Run("cached per requested date", func(t *testing.T) {
		resolver, provider, _, _, _ := newTestResolver(t, base)
		provider.HistoricalFunc = func(symbol string, from, to time.Time) ([]model.ClosingPrice, error) {
			return []model.ClosingPrice{{Date: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), Close: 171}}, nil
		}

		date := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			if _, err := resolver.ResolveHistoricalPrice(context.Background(), "AAPL", date); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
		}
		if provider.HistoricalCalls() != 1 {
			t.Errorf("Expected 1 upstream call for 3 reads of one date, got %d", provider.HistoricalCalls())
		}
	})

	t.Run("reference tier for exact date", func(t *testing.T) {
		resolver, _, _, _, ref := newTestResolver(t, base)
		// Default mock returns ErrNoData for historical ranges.
		date := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
		ref.Add("AAPL", date, 243.85)

		hp, err := resolver.ResolveHistoricalPrice(context.Background(), "AAPL", date)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if hp.Source != model.SourceReference {
			t.Errorf("Expected source reference, got %s", hp.Source)
		}
		if hp.Price != 243.85 {
			t.Errorf("Expected the reference close 243.85, got %v", hp.Price)
		}
	})

	t.Run("estimated tier never errors", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver(t, base)

		date := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
		hp, err := resolver.ResolveHistoricalPrice(context.Background(), "ZZZZ", date)
		if err != nil {
			t.Fatalf("Expected the estimated tier to absorb missing data, got %v", err)
		}
		if hp.Source != model.SourceEstimated {
			t.Errorf("Expected source estimated, got %s", hp.Source)
		}
		if hp.Price <= 0 {
			t.Errorf("Expected a usable positive price, got %v", hp.Price)
		}
	})
}

// TestResolveDividendTotal verifies dividend aggregation and its degraded
// zero-total fallback.
func TestResolveDividendTotal(t *testing.T) {
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	t.Run("sums trailing dividends", func(t *testing.T) {
		resolver, provider, _, _, _ := newTestResolver(t, base)
		provider.DividendsFunc = func(symbol string, from, to time.Time) ([]model.Dividend, error) {
			return []model.Dividend{
				{Date: base.AddDate(0, -9, 0), Amount: 0.24},
				{Date: base.AddDate(0, -6, 0), Amount: 0.24},
				{Date: base.AddDate(0, -3, 0), Amount: 0.25},
				{Date: base.AddDate(0, 0, -7), Amount: 0.25},
			}, nil
		}

		total, source, err := resolver.ResolveDividendTotal(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if total != 0.98 {
			t.Errorf("Expected TTM total 0.98, got %v", total)
		}
		if source != model.SourceLive {
			t.Errorf("Expected source live, got %s", source)
		}
	})

	t.Run("missing data degrades to zero", func(t *testing.T) {
		resolver, _, _, _, _ := newTestResolver(t, base)

		// Default mock returns ErrNoData for dividends.
		total, source, err := resolver.ResolveDividendTotal(context.Background(), "ZZZZ")
		if err != nil {
			t.Fatalf("Expected missing dividends to degrade, got %v", err)
		}
		if total != 0 {
			t.Errorf("Expected zero total, got %v", total)
		}
		if source != model.SourceEstimated {
			t.Errorf("Expected source estimated, got %s", source)
		}
	})
}

// TestResolveCancelledContext verifies a cancelled context surfaces as an
// error rather than a degraded value.
func TestResolveCancelledContext(t *testing.T) {
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	resolver, provider, _, _, _ := newTestResolver(t, base)

	ctx, cancel := context.WithCancel(context.Background())
	provider.QuoteFunc = func(string) (model.Quote, error) {
		cancel()
		return model.Quote{}, ctx.Err()
	}

	if _, err := resolver.ResolveCurrentPrice(ctx, "AAPL"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// TestResolveCancellationNotCached verifies a cancelled call leaves no trace
// in the cache: the next caller with a healthy context still reaches the live
// tier instead of being served a cached fallback.
func TestResolveCancellationNotCached(t *testing.T) {
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	t.Run("current price", func(t *testing.T) {
		resolver, provider, _, _, _ := newTestResolver(t, base)

		ctx, cancel := context.WithCancel(context.Background())
		provider.QuoteFunc = func(string) (model.Quote, error) {
			cancel()
			return model.Quote{}, ctx.Err()
		}
		if _, err := resolver.ResolveCurrentPrice(ctx, "AAPL"); !errors.Is(err, context.Canceled) {
			t.Fatalf("Expected context.Canceled, got %v", err)
		}

		provider.QuoteFunc = func(symbol string) (model.Quote, error) {
			return model.Quote{Symbol: symbol, Price: 187.5, PreviousClose: 185}, nil
		}
		quote, err := resolver.ResolveCurrentPrice(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if quote.Source != model.SourceLive {
			t.Errorf("Expected source live after recovery, got %s", quote.Source)
		}
		if quote.Price != 187.5 {
			t.Errorf("Expected the provider's price 187.5, got %v", quote.Price)
		}
	})

	t.Run("historical price", func(t *testing.T) {
		resolver, provider, _, _, _ := newTestResolver(t, base)
		day := time.Date(2025, 5, 27, 0, 0, 0, 0, time.UTC)

		ctx, cancel := context.WithCancel(context.Background())
		provider.HistoricalFunc = func(string, time.Time, time.Time) ([]model.ClosingPrice, error) {
			cancel()
			return nil, ctx.Err()
		}
		if _, err := resolver.ResolveHistoricalPrice(ctx, "AAPL", day); !errors.Is(err, context.Canceled) {
			t.Fatalf("Expected context.Canceled, got %v", err)
		}

		provider.HistoricalFunc = func(string, time.Time, time.Time) ([]model.ClosingPrice, error) {
			return []model.ClosingPrice{{Date: day, Close: 142.25}}, nil
		}
		hp, err := resolver.ResolveHistoricalPrice(context.Background(), "AAPL", day)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if hp.Source != model.SourceLive {
			t.Errorf("Expected source live after recovery, got %s", hp.Source)
		}
		if hp.Price != 142.25 {
			t.Errorf("Expected the provider's close 142.25, got %v", hp.Price)
		}
	})

	t.Run("dividend total", func(t *testing.T) {
		resolver, provider, _, _, _ := newTestResolver(t, base)

		ctx, cancel := context.WithCancel(context.Background())
		provider.DividendsFunc = func(string, time.Time, time.Time) ([]model.Dividend, error) {
			cancel()
			return nil, ctx.Err()
		}
		if _, _, err := resolver.ResolveDividendTotal(ctx, "AAPL"); !errors.Is(err, context.Canceled) {
			t.Fatalf("Expected context.Canceled, got %v", err)
		}

		provider.DividendsFunc = func(string, time.Time, time.Time) ([]model.Dividend, error) {
			return []model.Dividend{{Date: base.AddDate(0, -1, 0), Amount: 0.5}}, nil
		}
		total, source, err := resolver.ResolveDividendTotal(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if source != model.SourceLive {
			t.Errorf("Expected source live after recovery, got %s", source)
		}
		if total != 0.5 {
			t.Errorf("Expected total 0.5, got %v", total)
		}
	})
}

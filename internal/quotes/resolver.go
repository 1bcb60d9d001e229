package quotes

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/apperrors"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
)

// historicalWindow is how far around a requested date the resolver asks the
// provider for closes. Exchanges are shut on weekends and holidays, so the
// requested day itself may have no trading data.
const historicalWindow = 4 * 24 * time.Hour

// fallbackTTL caches degraded (reference or estimated) values only briefly,
// so the live tier is retried soon after the provider recovers.
const fallbackTTL = time.Minute

// Resolver turns a symbol (and optionally a date) into the best available
// price. Tiers are attempted in strict order: live provider, static
// reference table, deterministic estimate. Every call returns a value tagged
// with its tier; absence of data collapses to the estimated tier rather than
// surfacing as an error. Upstream transport failures are treated as "live
// tier unusable", never propagated to the caller.
//
// The only errors a Resolver returns are context cancellations and provider
// rate limits. Cancelled calls never populate the cache, so a healthy caller
// arriving next still reaches the live tier.
type Resolver struct {
	provider  Provider
	cache     *Cache
	coalescer *Coalescer
	ref       *ReferenceTable
	now       func() time.Time
}

// NewResolver creates a resolver over the given provider, cache, coalescer,
// and reference table. The clock defaults to time.Now and can be replaced
// with WithResolverClock.
func NewResolver(provider Provider, cache *Cache, coalescer *Coalescer, ref *ReferenceTable, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		provider:  provider,
		cache:     cache,
		coalescer: coalescer,
		ref:       ref,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverClock replaces the resolver's time source.
func WithResolverClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// ResolveCurrentPrice returns the current price snapshot for a symbol. The
// returned Quote always carries a usable price; its Source tag states which
// tier produced it.
func (r *Resolver) ResolveCurrentPrice(ctx context.Context, symbol string) (model.Quote, error) {
	key := PriceKey(symbol)

	if cached, ok := r.cache.Get(key); ok {
		return cached.(model.Quote), nil
	}

	result, err := r.coalescer.Do(key, func() (any, error) {
		return r.fetchCurrentPrice(ctx, symbol)
	})
	if err != nil {
		return model.Quote{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Quote{}, err
	}

	return result.(model.Quote), nil
}

// fetchCurrentPrice walks the tiers for a current price and caches the
// outcome. Live results get the full price TTL; degraded results are cached
// only briefly so the live tier is retried soon. A provider rate-limit
// rejection is the one upstream condition that propagates: callers must be
// told to back off rather than be served a silently degraded number.
func (r *Resolver) fetchCurrentPrice(ctx context.Context, symbol string) (model.Quote, error) {
	quote, err := r.provider.GetQuote(ctx, symbol)
	if err == nil && quote.Price > 0 {
		quote.Source = model.SourceLive
		r.cache.Put(KindPrice, PriceKey(symbol), quote)
		return quote, nil
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrRateLimited) {
			return model.Quote{}, err
		}
		// A cancellation from the caller's side is not a provider failure:
		// surface it instead of caching degraded data that coalesced peers
		// and later callers would be served.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Quote{}, ctxErr
		}
		log.Printf("quote provider unavailable for %s, falling back: %v", symbol, err)
	}

	fallback := r.fallbackCurrentPrice(symbol)
	r.cache.PutTTL(PriceKey(symbol), fallback, fallbackTTL)
	return fallback, nil
}

// fallbackCurrentPrice produces a reference- or estimated-tier quote.
func (r *Resolver) fallbackCurrentPrice(symbol string) model.Quote {
	now := r.now()

	if anchorPrice, anchorDate, ok := r.ref.Anchor(symbol); ok {
		// A same-day anchor is authoritative reference data; an older one
		// only anchors an estimate.
		if sameDay(anchorDate, now) {
			return model.Quote{
				Symbol:        symbol,
				Price:         anchorPrice,
				PreviousClose: anchorPrice,
				Source:        model.SourceReference,
				AsOf:          now,
			}
		}
		return r.estimatedQuote(symbol, anchorPrice, now)
	}

	return r.estimatedQuote(symbol, SyntheticAnchor(symbol), now)
}

func (r *Resolver) estimatedQuote(symbol string, anchorPrice float64, now time.Time) model.Quote {
	price := Estimate(symbol, now, anchorPrice)
	prevClose := Estimate(symbol, now.Add(-24*time.Hour), anchorPrice)

	change := 0.0
	if prevClose != 0 {
		change = (price - prevClose) / prevClose * 100
	}

	return model.Quote{
		Symbol:        symbol,
		Price:         price,
		ChangePercent: change,
		PreviousClose: prevClose,
		Source:        model.SourceEstimated,
		AsOf:          now,
	}
}

// ResolveHistoricalPrice returns the closing price for a symbol nearest the
// requested date, walking live, reference, and estimated tiers in order.
func (r *Resolver) ResolveHistoricalPrice(ctx context.Context, symbol string, date time.Time) (model.HistoricalPrice, error) {
	day := date.UTC().Truncate(24 * time.Hour)
	key := HistoricalKey(symbol, day)

	if cached, ok := r.cache.Get(key); ok {
		return cached.(model.HistoricalPrice), nil
	}

	result, err := r.coalescer.Do(key, func() (any, error) {
		return r.fetchHistoricalPrice(ctx, symbol, day)
	})
	if err != nil {
		return model.HistoricalPrice{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.HistoricalPrice{}, err
	}

	return result.(model.HistoricalPrice), nil
}

func (r *Resolver) fetchHistoricalPrice(ctx context.Context, symbol string, day time.Time) (model.HistoricalPrice, error) {
	from := day.Add(-historicalWindow)
	to := day.Add(historicalWindow)

	closes, err := r.provider.GetHistoricalRange(ctx, symbol, from, to)
	if err == nil && len(closes) > 0 {
		nearest := nearestClose(closes, day)
		hp := model.HistoricalPrice{
			Symbol: symbol,
			Date:   nearest.Date,
			Price:  nearest.Close,
			Source: model.SourceLive,
		}
		r.cache.Put(KindHistorical, HistoricalKey(symbol, day), hp)
		return hp, nil
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrRateLimited) {
			return model.HistoricalPrice{}, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.HistoricalPrice{}, ctxErr
		}
		log.Printf("historical provider unavailable for %s@%s, falling back: %v", symbol, day.Format("2006-01-02"), err)
	}

	fallback := r.fallbackHistoricalPrice(symbol, day)
	r.cache.PutTTL(HistoricalKey(symbol, day), fallback, fallbackTTL)
	return fallback, nil
}

func (r *Resolver) fallbackHistoricalPrice(symbol string, day time.Time) model.HistoricalPrice {
	if price, ok := r.ref.Lookup(symbol, day); ok {
		return model.HistoricalPrice{Symbol: symbol, Date: day, Price: price, Source: model.SourceReference}
	}

	anchorPrice, _, ok := r.ref.Anchor(symbol)
	if !ok {
		anchorPrice = SyntheticAnchor(symbol)
	}

	return model.HistoricalPrice{
		Symbol: symbol,
		Date:   day,
		Price:  Estimate(symbol, day, anchorPrice),
		Source: model.SourceEstimated,
	}
}

// ResolveDividendTotal returns the trailing-twelve-month dividend total for a
// symbol. When the provider has no data the total collapses to zero, tagged
// estimated.
func (r *Resolver) ResolveDividendTotal(ctx context.Context, symbol string) (float64, model.PriceSource, error) {
	key := DividendKey(symbol)

	if cached, ok := r.cache.Get(key); ok {
		dt := cached.(dividendTotal)
		return dt.amount, dt.source, nil
	}

	result, err := r.coalescer.Do(key, func() (any, error) {
		return r.fetchDividendTotal(ctx, symbol)
	})
	if err != nil {
		return 0, "", err
	}
	if err := ctx.Err(); err != nil {
		return 0, "", err
	}

	dt := result.(dividendTotal)
	return dt.amount, dt.source, nil
}

type dividendTotal struct {
	amount float64
	source model.PriceSource
}

func (r *Resolver) fetchDividendTotal(ctx context.Context, symbol string) (any, error) {
	now := r.now()

	dividends, err := r.provider.GetDividends(ctx, symbol, now.AddDate(-1, 0, 0), now)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateLimited) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Printf("dividend provider unavailable for %s, falling back: %v", symbol, err)
		dt := dividendTotal{amount: 0, source: model.SourceEstimated}
		r.cache.PutTTL(DividendKey(symbol), dt, fallbackTTL)
		return dt, nil
	}

	total := 0.0
	for _, d := range dividends {
		total += d.Amount
	}

	dt := dividendTotal{amount: roundCents(total), source: model.SourceLive}
	r.cache.Put(KindDividend, DividendKey(symbol), dt)
	return dt, nil
}

// nearestClose picks the trading day closest to the target date.
func nearestClose(closes []model.ClosingPrice, target time.Time) model.ClosingPrice {
	best := closes[0]
	bestDist := math.Abs(best.Date.Sub(target).Hours())

	for _, c := range closes[1:] {
		dist := math.Abs(c.Date.Sub(target).Hours())
		if dist < bestDist {
			best = c
			bestDist = dist
		}
	}

	return best
}

func sameDay(a, b time.Time) bool {
	return a.UTC().Truncate(24*time.Hour).Equal(b.UTC().Truncate(24 * time.Hour))
}

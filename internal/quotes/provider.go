// Package quotes implements the market-data acquisition core: a TTL cache
// keyed by data kind, request coalescing, a three-tier fallback resolver
// (live provider, reference table, deterministic estimate), and a batched,
// rate-limited fetch scheduler. The rest of the application consumes prices
// exclusively through the Service facade so it is shielded from unreliable,
// rate-limited upstream providers.
package quotes

import (
	"context"
	"time"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
)

// Provider is the minimal capability the resolver depends on. Multiple
// interchangeable providers can sit behind it; any transport error or
// non-success response is treated identically by the resolver (fall to the
// next tier).
type Provider interface {
	// GetQuote returns the current price snapshot for a symbol.
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)

	// GetHistoricalRange returns daily closing prices for the trading days
	// inside [from, to]. Weekends and holidays yield no points.
	GetHistoricalRange(ctx context.Context, symbol string, from, to time.Time) ([]model.ClosingPrice, error)

	// GetDividends returns the dividend payments inside [from, to].
	GetDividends(ctx context.Context, symbol string, from, to time.Time) ([]model.Dividend, error)
}

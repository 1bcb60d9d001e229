package model

import "time"

// PriceSource tags every resolved price with the tier that produced it, so
// consumers can distinguish authoritative market data from degraded values.
type PriceSource string

const (
	// SourceLive is a price fetched from the upstream provider.
	SourceLive PriceSource = "live"
	// SourceReference is a known-good anchor from the static reference table.
	SourceReference PriceSource = "reference"
	// SourceEstimated is a deterministic approximation derived from an anchor.
	SourceEstimated PriceSource = "estimated"
)

// Quote is a current price snapshot for one symbol. Every resolved quote
// carries a usable price; Source states which tier produced it.
type Quote struct {
	Symbol        string      `json:"symbol"`
	Price         float64     `json:"price"`
	ChangePercent float64     `json:"changePercent"`
	PreviousClose float64     `json:"previousClose"`
	Source        PriceSource `json:"source"`
	AsOf          time.Time   `json:"asOf"`
}

// HistoricalPrice is the resolved closing price for a symbol on (or nearest)
// a requested date.
type HistoricalPrice struct {
	Symbol string      `json:"symbol"`
	Date   time.Time   `json:"date"`
	Price  float64     `json:"price"`
	Source PriceSource `json:"source"`
}

// ClosingPrice is one trading day's close as returned by a provider.
type ClosingPrice struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Dividend is a single dividend event.
type Dividend struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// CacheStats is a snapshot of the market-data cache and coalescing counters,
// exposed on the price and health surfaces for observability.
type CacheStats struct {
	Entries        int   `json:"entries"`
	Hits           int64 `json:"hits"`
	Misses         int64 `json:"misses"`
	Evictions      int64 `json:"evictions"`
	UpstreamCalls  int64 `json:"upstreamCalls"`
	CoalescedCalls int64 `json:"coalescedCalls"`
}

package quotes

import (
	"sync"
	"time"
)

// ReferenceTable holds known-good anchor prices for specific (symbol, date)
// pairs plus a per-symbol latest anchor. The resolver consults it when the
// live provider has no coverage for an instant; the estimated tier derives
// its approximations from the same anchors.
type ReferenceTable struct {
	mu      sync.RWMutex
	byDate  map[string]float64 // "SYM:2006-01-02" -> price
	anchors map[string]anchor  // symbol -> most recent known price
}

type anchor struct {
	date  time.Time
	price float64
}

// NewReferenceTable creates an empty table.
func NewReferenceTable() *ReferenceTable {
	return &ReferenceTable{
		byDate:  make(map[string]float64),
		anchors: make(map[string]anchor),
	}
}

// Add records a known price for (symbol, date) and advances the symbol's
// anchor if the date is newer than the current one.
func (t *ReferenceTable) Add(symbol string, date time.Time, price float64) {
	day := date.UTC().Truncate(24 * time.Hour)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.byDate[refKey(symbol, day)] = price
	if a, ok := t.anchors[symbol]; !ok || day.After(a.date) {
		t.anchors[symbol] = anchor{date: day, price: price}
	}
}

// Lookup returns the known price for (symbol, date) if one exists.
func (t *ReferenceTable) Lookup(symbol string, date time.Time) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	price, ok := t.byDate[refKey(symbol, date.UTC().Truncate(24*time.Hour))]
	return price, ok
}

// Anchor returns the most recent known price for a symbol, used as the base
// for the estimated tier.
func (t *ReferenceTable) Anchor(symbol string) (float64, time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	a, ok := t.anchors[symbol]
	return a.price, a.date, ok
}

func refKey(symbol string, day time.Time) string {
	return symbol + ":" + day.Format("2006-01-02")
}

package quotes

import (
	"hash/fnv"
	"math"
	"time"
)

// maxDrift bounds the estimated tier's deviation from its anchor price.
const maxDrift = 0.03

// Estimate derives an approximate price for (symbol, date) from an anchor
// price. The drift is a pure function of symbol and date, so repeated calls
// without new information return the same value; it is bounded to ±maxDrift
// of the anchor.
func Estimate(symbol string, date time.Time, anchorPrice float64) float64 {
	drift := driftFor(symbol, date)
	return roundCents(anchorPrice * (1 + drift))
}

// SyntheticAnchor produces a stable base price for a symbol with no known
// anchor at all, keeping the estimated tier total: it always yields a usable
// number. The result lands between $10 and $510.
func SyntheticAnchor(symbol string) float64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return roundCents(10 + float64(h.Sum64()%50000)/100)
}

// driftFor maps (symbol, date) onto [-maxDrift, +maxDrift] via FNV-1a.
func driftFor(symbol string, date time.Time) float64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	h.Write([]byte(":"))
	h.Write([]byte(date.UTC().Format("2006-01-02")))

	// Scale the hash onto [0, 1), then center it.
	unit := float64(h.Sum64()%10000) / 10000
	return (unit*2 - 1) * maxDrift
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

package service

import "math"

// RoundingPrecision is the multiplier used to round monetary values and
// percentages to two decimal places in API-facing figures.
const RoundingPrecision = 100.0

// round rounds a float64 value to two decimal places. Used throughout the
// service layer so monetary values and percentages are consistent across
// call sites.
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

package model

import "time"

// PositionMetrics contains the derived figures for a single position at the
// moment of valuation.
type PositionMetrics struct {
	Symbol            string      `json:"symbol"`
	Shares            float64     `json:"shares"`
	AvgPrice          float64     `json:"avgPrice"`
	Sector            string      `json:"sector,omitempty"`
	CurrentPrice      float64     `json:"currentPrice"`
	PreviousClose     float64     `json:"previousClose"`
	CurrentValue      float64     `json:"currentValue"`
	Invested          float64     `json:"invested"`
	UnrealizedGain    float64     `json:"unrealizedGain"`
	UnrealizedGainPct float64     `json:"unrealizedGainPct"`
	DayChangeValue    float64     `json:"dayChangeValue"`
	Source            PriceSource `json:"source"`
}

// PortfolioValuation is the derived financial snapshot of a portfolio,
// recomputed on demand from persisted positions plus the current quote set.
// Aggregates are straight sums across positions; the percentage figures are
// computed from the aggregated bases, not averaged per-position percentages.
type PortfolioValuation struct {
	PortfolioID    string            `json:"portfolioId"`
	TotalValue     float64           `json:"totalValue"`
	TotalInvested  float64           `json:"totalInvested"`
	TotalReturnPct float64           `json:"totalReturnPct"`
	DayChangeValue float64           `json:"dayChangeValue"`
	DayChangePct   float64           `json:"dayChangePct"`
	Positions      []PositionMetrics `json:"positions"`
	Tier           string            `json:"tier"`
	ComputedAt     time.Time         `json:"computedAt"`
}

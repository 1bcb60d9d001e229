package model

import "time"

// User represents a tracked leaderboard participant.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Portfolio represents a user's persisted portfolio. Only positions and cost
// basis are stored; valuation figures are derived on demand and never
// persisted as a source of truth.
type Portfolio struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	Positions []Position `json:"positions"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Position represents a single holding inside a portfolio. The symbol is the
// position's identity; shares and average price change under buy/sell
// operations (weighted-average cost merge on repeated buys, removal on a
// full sell).
type Position struct {
	Symbol   string  `json:"symbol"`
	Shares   float64 `json:"shares"`
	AvgPrice float64 `json:"avgPrice"`
	Sector   string  `json:"sector,omitempty"`
}

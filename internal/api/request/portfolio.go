package request

// CreatePortfolioRequest represents the request body for creating a portfolio
type CreatePortfolioRequest struct {
	UserID    string            `json:"userId"`
	Name      string            `json:"name"`
	Positions []PositionRequest `json:"positions,omitempty"`
}

// PositionRequest is one starting position in a portfolio creation request.
type PositionRequest struct {
	Symbol   string  `json:"symbol"`
	Shares   float64 `json:"shares"`
	AvgPrice float64 `json:"avgPrice"`
	Sector   string  `json:"sector,omitempty"`
}

// TradeRequest represents the request body for buy and sell operations.
// Price and sector are only read on buys.
type TradeRequest struct {
	Symbol string  `json:"symbol"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price,omitempty"`
	Sector string  `json:"sector,omitempty"`
}

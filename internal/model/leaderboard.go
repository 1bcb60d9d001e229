package model

import "time"

// Leaderboard periods supported by the query surface.
const (
	PeriodDay   = "1D"
	PeriodWeek  = "1W"
	PeriodMonth = "1M"
	PeriodAll   = "ALL"
)

// Leaderboard sort keys supported by the query surface.
const (
	SortPnL            = "pnl"
	SortWinRate        = "winRate"
	SortSharpe         = "sharpe"
	SortAvgReturn      = "avgReturn"
	SortTrades         = "trades"
	SortTotalValue     = "totalValue"
	SortTotalReturnPct = "totalReturnPct"
	SortDayChangePct   = "dayChangePct"
)

// Sort orders supported by the query surface.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// LeaderboardQuery holds the validated parameters of a leaderboard request.
// The full tuple is also the cache key for the computed page.
type LeaderboardQuery struct {
	Period   string `json:"period"`
	Sort     string `json:"sort"`
	Order    string `json:"order"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Query    string `json:"q,omitempty"`
	Sector   string `json:"sector,omitempty"`
}

// LeaderboardMetrics is the metric set synthesized for a single user entry.
// All figures are deterministic given the same valuations, so repeated calls
// with unchanged inputs produce identical pages.
type LeaderboardMetrics struct {
	PnL       float64 `json:"pnl"`
	WinRate   float64 `json:"winRate"`
	Sharpe    float64 `json:"sharpe"`
	AvgReturn float64 `json:"avgReturn"`
	Trades    int     `json:"trades"`
}

// LeaderboardEntry is one ranked row. Rank is 1-based and local to the
// filtered, sorted view of the query that produced it; it is not a stored
// attribute of the user.
type LeaderboardEntry struct {
	Rank           int                `json:"rank"`
	UserID         string             `json:"userId"`
	Username       string             `json:"username"`
	DisplayName    string             `json:"displayName"`
	TotalValue     float64            `json:"totalValue"`
	TotalReturnPct float64            `json:"totalReturnPct"`
	DayChangePct   float64            `json:"dayChangePct"`
	Tier           string             `json:"tier"`
	Metrics        LeaderboardMetrics `json:"metrics"`
	Period         string             `json:"period"`
	ComputedAt     time.Time          `json:"computedAt"`

	// Sectors holds the distinct sectors of the user's positions. It feeds
	// the sector filter and is not part of the response body.
	Sectors []string `json:"-"`
}

// LeaderboardPage is a fully computed, paginated leaderboard response.
type LeaderboardPage struct {
	Entries  []LeaderboardEntry `json:"entries"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
	Total    int                `json:"total"`
	AsOf     time.Time          `json:"asOf"`
}

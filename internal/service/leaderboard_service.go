package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/quotes"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/repository"
)

// defaultPageCacheTTL absorbs repeated identical queries without recomputing
// valuations for every tracked user.
const defaultPageCacheTTL = 30 * time.Second

// LeaderboardService computes ranked leaderboard pages. For every tracked
// user it derives one portfolio valuation, synthesizes the requested metric
// set, applies free-text and sector filters, sorts with a stable tie-break
// (original user insertion order), assigns 1-based ranks local to the
// filtered view, paginates, and caches the page keyed by the full parameter
// tuple.
type LeaderboardService struct {
	repo      *repository.PortfolioRepository
	valuation *ValuationService
	quotes    *quotes.Service
	pageTTL   time.Duration
	now       func() time.Time
}

// NewLeaderboardService creates a LeaderboardService. A non-positive pageTTL
// falls back to the default.
func NewLeaderboardService(
	repo *repository.PortfolioRepository,
	valuation *ValuationService,
	quoteService *quotes.Service,
	pageTTL time.Duration,
) *LeaderboardService {
	if pageTTL <= 0 {
		pageTTL = defaultPageCacheTTL
	}

	return &LeaderboardService{
		repo:      repo,
		valuation: valuation,
		quotes:    quoteService,
		pageTTL:   pageTTL,
		now:       time.Now,
	}
}

// Rank computes (or serves from cache) the leaderboard page for a validated
// query.
func (s *LeaderboardService) Rank(ctx context.Context, query model.LeaderboardQuery) (model.LeaderboardPage, error) {
	cacheKey := pageCacheKey(query)
	if cached, ok := s.quotes.Cache().Get(cacheKey); ok {
		return cached.(model.LeaderboardPage), nil
	}

	entries, err := s.computeEntries(ctx, query.Period)
	if err != nil {
		return model.LeaderboardPage{}, err
	}

	filtered := filterEntries(entries, query)
	sortEntries(filtered, query.Sort, query.Order)

	for i := range filtered {
		filtered[i].Rank = i + 1
	}

	page := paginate(filtered, query)
	page.AsOf = s.now().UTC()

	s.quotes.Cache().PutTTL(cacheKey, page, s.pageTTL)

	return page, nil
}

// WarmCache precomputes the first page of the default query so the common
// request is served hot. Wired to the periodic cron job in cmd/server.
func (s *LeaderboardService) WarmCache(ctx context.Context) {
	query := model.LeaderboardQuery{
		Period:   model.PeriodAll,
		Sort:     model.SortTotalReturnPct,
		Order:    model.OrderDesc,
		Page:     1,
		PageSize: 25,
	}

	if _, err := s.Rank(ctx, query); err != nil {
		log.Printf("leaderboard warm failed: %v", err)
	}
}

// computeEntries values every tracked user's portfolio. All symbols across
// all portfolios go through one batched quote fetch, then each portfolio is
// valued from the shared quote set. The returned slice preserves user
// insertion order, which is the sort's tie-break.
func (s *LeaderboardService) computeEntries(ctx context.Context, period string) ([]model.LeaderboardEntry, error) {
	users, err := s.repo.GetUsers()
	if err != nil {
		return nil, err
	}

	portfolios := make(map[string]model.Portfolio, len(users))
	allSymbols := []string{}

	for _, user := range users {
		portfolio, err := s.repo.GetPortfolioByUserID(user.ID)
		if err != nil {
			// Users without a portfolio yet simply rank with an empty one.
			continue
		}
		portfolios[user.ID] = portfolio
		for _, pos := range portfolio.Positions {
			allSymbols = append(allSymbols, pos.Symbol)
		}
	}

	quoteSet, err := s.quotes.GetPrices(ctx, allSymbols)
	if err != nil {
		return nil, err
	}

	computedAt := s.now().UTC()
	entries := make([]model.LeaderboardEntry, 0, len(users))

	for _, user := range users {
		portfolio, ok := portfolios[user.ID]
		if !ok {
			continue
		}

		valuation := s.valuation.ValuateWith(portfolio, quoteSet)

		metrics, err := s.periodMetrics(ctx, portfolio, valuation, period)
		if err != nil {
			return nil, err
		}

		entries = append(entries, model.LeaderboardEntry{
			UserID:         user.ID,
			Username:       user.Username,
			DisplayName:    user.DisplayName,
			TotalValue:     valuation.TotalValue,
			TotalReturnPct: valuation.TotalReturnPct,
			DayChangePct:   valuation.DayChangePct,
			Tier:           valuation.Tier,
			Metrics:        metrics,
			Period:         period,
			ComputedAt:     computedAt,
			Sectors:        distinctSectors(portfolio.Positions),
		})
	}

	return entries, nil
}

// periodMetrics synthesizes the metric set for one entry. The PnL base
// depends on the period: the day change for 1D, the value at the period
// start (via historical closes) for 1W/1M, and the invested cost basis for
// ALL. Every figure is deterministic given the same valuations.
func (s *LeaderboardService) periodMetrics(
	ctx context.Context,
	portfolio model.Portfolio,
	valuation model.PortfolioValuation,
	period string,
) (model.LeaderboardMetrics, error) {
	var pnl, periodReturn float64

	switch period {
	case model.PeriodDay:
		pnl = valuation.DayChangeValue
		periodReturn = valuation.DayChangePct
	case model.PeriodWeek, model.PeriodMonth:
		startValue, err := s.valueAt(ctx, portfolio, s.periodStart(period))
		if err != nil {
			return model.LeaderboardMetrics{}, err
		}
		pnl = round(valuation.TotalValue - startValue)
		if startValue != 0 {
			periodReturn = round(pnl / startValue * 100)
		}
	default: // ALL
		pnl = round(valuation.TotalValue - valuation.TotalInvested)
		periodReturn = valuation.TotalReturnPct
	}

	wins := 0
	gainPcts := make([]float64, 0, len(valuation.Positions))
	for _, pos := range valuation.Positions {
		if pos.UnrealizedGain > 0 {
			wins++
		}
		gainPcts = append(gainPcts, pos.UnrealizedGainPct)
	}

	winRate := 0.0
	if len(valuation.Positions) > 0 {
		winRate = round(float64(wins) / float64(len(valuation.Positions)) * 100)
	}

	return model.LeaderboardMetrics{
		PnL:       pnl,
		WinRate:   winRate,
		Sharpe:    sharpeProxy(periodReturn, gainPcts),
		AvgReturn: periodReturn,
		Trades:    len(valuation.Positions),
	}, nil
}

// valueAt prices the portfolio's current positions at the closes nearest a
// past date. Historical closes are cached for two weeks, so this costs one
// upstream call per symbol at most.
func (s *LeaderboardService) valueAt(ctx context.Context, portfolio model.Portfolio, date time.Time) (float64, error) {
	total := 0.0

	for _, pos := range portfolio.Positions {
		hp, err := s.quotes.GetHistoricalPrice(ctx, pos.Symbol, date)
		if err != nil {
			return 0, err
		}
		total += pos.Shares * hp.Price
	}

	return total, nil
}

func (s *LeaderboardService) periodStart(period string) time.Time {
	now := s.now().UTC()

	switch period {
	case model.PeriodWeek:
		return now.AddDate(0, 0, -7)
	case model.PeriodMonth:
		return now.AddDate(0, -1, 0)
	default:
		return now
	}
}

// sharpeProxy is a deterministic risk-adjusted return figure: the period
// return scaled by the dispersion of per-position returns. A portfolio with
// no dispersion reports the raw return.
func sharpeProxy(periodReturn float64, gainPcts []float64) float64 {
	if len(gainPcts) < 2 {
		return round(periodReturn)
	}

	mean := 0.0
	for _, g := range gainPcts {
		mean += g
	}
	mean /= float64(len(gainPcts))

	variance := 0.0
	for _, g := range gainPcts {
		variance += (g - mean) * (g - mean)
	}
	variance /= float64(len(gainPcts))

	stddev := math.Sqrt(variance)
	if stddev == 0 {
		return round(periodReturn)
	}

	return round(periodReturn / stddev)
}

// filterEntries applies the free-text and sector filters. The free-text
// filter is a case-insensitive substring match on username and display name;
// the sector filter keeps users holding at least one position in that
// sector.
func filterEntries(entries []model.LeaderboardEntry, query model.LeaderboardQuery) []model.LeaderboardEntry {
	filtered := make([]model.LeaderboardEntry, 0, len(entries))

	text := strings.ToLower(strings.TrimSpace(query.Query))

	for _, entry := range entries {
		if text != "" &&
			!strings.Contains(strings.ToLower(entry.Username), text) &&
			!strings.Contains(strings.ToLower(entry.DisplayName), text) {
			continue
		}

		if query.Sector != "" && !holdsSector(entry.Sectors, query.Sector) {
			continue
		}

		filtered = append(filtered, entry)
	}

	return filtered
}

func holdsSector(sectors []string, want string) bool {
	for _, s := range sectors {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

func distinctSectors(positions []model.Position) []string {
	seen := map[string]bool{}
	sectors := []string{}

	for _, pos := range positions {
		if pos.Sector == "" || seen[pos.Sector] {
			continue
		}
		seen[pos.Sector] = true
		sectors = append(sectors, pos.Sector)
	}

	return sectors
}

// sortEntries orders entries by the requested key. The sort is stable, so
// entries with equal keys retain their original insertion order and repeated
// calls with unchanged inputs paginate reproducibly.
func sortEntries(entries []model.LeaderboardEntry, sortKey, order string) {
	key := metricSelector(sortKey)

	sort.SliceStable(entries, func(i, j int) bool {
		if order == model.OrderAsc {
			return key(entries[i]) < key(entries[j])
		}
		return key(entries[i]) > key(entries[j])
	})
}

func metricSelector(sortKey string) func(model.LeaderboardEntry) float64 {
	switch sortKey {
	case model.SortPnL:
		return func(e model.LeaderboardEntry) float64 { return e.Metrics.PnL }
	case model.SortWinRate:
		return func(e model.LeaderboardEntry) float64 { return e.Metrics.WinRate }
	case model.SortSharpe:
		return func(e model.LeaderboardEntry) float64 { return e.Metrics.Sharpe }
	case model.SortAvgReturn:
		return func(e model.LeaderboardEntry) float64 { return e.Metrics.AvgReturn }
	case model.SortTrades:
		return func(e model.LeaderboardEntry) float64 { return float64(e.Metrics.Trades) }
	case model.SortTotalValue:
		return func(e model.LeaderboardEntry) float64 { return e.TotalValue }
	case model.SortDayChangePct:
		return func(e model.LeaderboardEntry) float64 { return e.DayChangePct }
	default:
		return func(e model.LeaderboardEntry) float64 { return e.TotalReturnPct }
	}
}

// paginate slices the ranked sequence into the requested page. Total always
// reflects the filtered count, not the page length.
func paginate(entries []model.LeaderboardEntry, query model.LeaderboardQuery) model.LeaderboardPage {
	start := (query.Page - 1) * query.PageSize
	end := start + query.PageSize

	if start > len(entries) {
		start = len(entries)
	}
	if end > len(entries) {
		end = len(entries)
	}

	return model.LeaderboardPage{
		Entries:  entries[start:end],
		Page:     query.Page,
		PageSize: query.PageSize,
		Total:    len(entries),
	}
}

func pageCacheKey(query model.LeaderboardQuery) string {
	return fmt.Sprintf("lb:%s:%s:%s:%d:%d:%s:%s",
		query.Period, query.Sort, query.Order, query.Page, query.PageSize,
		strings.ToLower(query.Query), strings.ToLower(query.Sector))
}

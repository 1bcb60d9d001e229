package service

import (
	"context"
	"strings"
	"time"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/quotes"
)

// TierLadder classifies a portfolio's total return percentage into a
// performance bracket. Thresholds are inclusive lower bounds, ordered from
// the top tier down: a return exactly equal to a threshold lands in the
// higher tier. One ladder serves every call site.
type TierLadder struct {
	S float64
	A float64
	B float64
}

// DefaultTierLadder is the canonical ladder used when no configuration
// overrides it.
var DefaultTierLadder = TierLadder{S: 15.0, A: 8.0, B: 0.0}

// Classify returns the tier name for a total return percentage.
func (l TierLadder) Classify(totalReturnPct float64) string {
	switch {
	case totalReturnPct >= l.S:
		return "S"
	case totalReturnPct >= l.A:
		return "A"
	case totalReturnPct >= l.B:
		return "B"
	default:
		return "C"
	}
}

// ValuationService converts persisted positions plus current quotes into
// per-position and aggregate portfolio metrics. Valuations are derived, never
// persisted; the stored portfolio holds only positions and cost basis.
type ValuationService struct {
	quotes *quotes.Service
	ladder TierLadder
	now    func() time.Time
}

// NewValuationService creates a ValuationService over the market-data core.
func NewValuationService(quoteService *quotes.Service, ladder TierLadder) *ValuationService {
	return &ValuationService{
		quotes: quoteService,
		ladder: ladder,
		now:    time.Now,
	}
}

// Valuate fetches quotes for every symbol the portfolio holds (batched and
// rate limited) and computes the full valuation.
func (s *ValuationService) Valuate(ctx context.Context, portfolio model.Portfolio) (model.PortfolioValuation, error) {
	symbols := make([]string, 0, len(portfolio.Positions))
	for _, pos := range portfolio.Positions {
		symbols = append(symbols, pos.Symbol)
	}

	quoteSet, err := s.quotes.GetPrices(ctx, symbols)
	if err != nil {
		return model.PortfolioValuation{}, err
	}

	return s.ValuateWith(portfolio, quoteSet), nil
}

// ValuateWith computes a valuation from an already-fetched quote set. This is
// the pure arithmetic core: the ranking engine batches one quote fetch across
// all users and values each portfolio from the shared set.
//
// Per position: currentValue = shares * price, invested = shares * avgPrice,
// dayChangeValue = shares * (price - previousClose). Aggregates are straight
// sums; the percentage figures are computed from the aggregated bases rather
// than averaging per-position percentages, which would misweight small
// holdings.
func (s *ValuationService) ValuateWith(portfolio model.Portfolio, quoteSet map[string]model.Quote) model.PortfolioValuation {
	valuation := model.PortfolioValuation{
		PortfolioID: portfolio.ID,
		Positions:   make([]model.PositionMetrics, 0, len(portfolio.Positions)),
		ComputedAt:  s.now().UTC(),
	}

	for _, pos := range portfolio.Positions {
		quote, ok := quoteSet[strings.ToUpper(pos.Symbol)]
		if !ok {
			// A symbol that failed across every resolver tier is valued flat
			// at cost so one bad symbol cannot distort the whole portfolio.
			quote = model.Quote{
				Symbol:        pos.Symbol,
				Price:         pos.AvgPrice,
				PreviousClose: pos.AvgPrice,
				Source:        model.SourceEstimated,
			}
		}

		metrics := positionMetrics(pos, quote)
		valuation.Positions = append(valuation.Positions, metrics)

		valuation.TotalValue += metrics.CurrentValue
		valuation.TotalInvested += metrics.Invested
		valuation.DayChangeValue += metrics.DayChangeValue
	}

	if valuation.TotalInvested != 0 {
		valuation.TotalReturnPct = round((valuation.TotalValue - valuation.TotalInvested) / valuation.TotalInvested * 100)
	}

	priorValue := valuation.TotalValue - valuation.DayChangeValue
	if priorValue != 0 {
		valuation.DayChangePct = round(valuation.DayChangeValue / priorValue * 100)
	}

	valuation.TotalValue = round(valuation.TotalValue)
	valuation.TotalInvested = round(valuation.TotalInvested)
	valuation.DayChangeValue = round(valuation.DayChangeValue)
	valuation.Tier = s.ladder.Classify(valuation.TotalReturnPct)

	return valuation
}

// positionMetrics computes the derived figures for one position. A zero
// invested base yields a zero gain percentage, never a division fault.
func positionMetrics(pos model.Position, quote model.Quote) model.PositionMetrics {
	metrics := model.PositionMetrics{
		Symbol:        pos.Symbol,
		Shares:        pos.Shares,
		AvgPrice:      pos.AvgPrice,
		Sector:        pos.Sector,
		CurrentPrice:  quote.Price,
		PreviousClose: quote.PreviousClose,
		Source:        quote.Source,
	}

	metrics.CurrentValue = round(pos.Shares * quote.Price)
	metrics.Invested = round(pos.Shares * pos.AvgPrice)
	metrics.UnrealizedGain = round(metrics.CurrentValue - metrics.Invested)

	if metrics.Invested != 0 {
		metrics.UnrealizedGainPct = round(metrics.UnrealizedGain / metrics.Invested * 100)
	}

	if quote.PreviousClose != 0 {
		metrics.DayChangeValue = round(pos.Shares * (quote.Price - quote.PreviousClose))
	}

	return metrics
}

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/apperrors"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/repository"
)

// sharesEpsilon absorbs float drift when deciding whether a sell closed a
// position completely.
const sharesEpsilon = 1e-9

// PortfolioService owns the position lifecycle: portfolios are created with
// optional starting positions, buys merge into existing positions at a
// weighted-average cost, and a full sell removes the position.
type PortfolioService struct {
	repo *repository.PortfolioRepository
	now  func() time.Time
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(repo *repository.PortfolioRepository) *PortfolioService {
	return &PortfolioService{
		repo: repo,
		now:  time.Now,
	}
}

// CreateUser registers a new tracked user. Registration order is preserved
// and serves as the leaderboard's tie-break.
func (s *PortfolioService) CreateUser(username, displayName string) (model.User, error) {
	if displayName == "" {
		displayName = username
	}

	user := model.User{
		ID:          uuid.New().String(),
		Username:    username,
		DisplayName: displayName,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ListUsers returns every tracked user in registration order.
func (s *PortfolioService) ListUsers() ([]model.User, error) {
	return s.repo.GetUsers()
}

// GetPortfolio retrieves a portfolio and its positions.
func (s *PortfolioService) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	return s.repo.GetPortfolio(portfolioID)
}

// CreatePortfolio persists a new portfolio for a user. Position symbols are
// normalized to uppercase.
func (s *PortfolioService) CreatePortfolio(userID, name string, positions []model.Position) (model.Portfolio, error) {
	portfolio := model.Portfolio{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Positions: make([]model.Position, len(positions)),
		CreatedAt: s.now().UTC(),
	}

	for i, pos := range positions {
		pos.Symbol = strings.ToUpper(strings.TrimSpace(pos.Symbol))
		portfolio.Positions[i] = pos
	}

	if err := s.repo.CreatePortfolio(portfolio); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to create portfolio: %w", err)
	}

	return portfolio, nil
}

// Buy applies a buy to a portfolio. A repeated buy of a held symbol merges
// into the existing position with a weighted-average cost; a new symbol
// creates the position.
func (s *PortfolioService) Buy(portfolioID, symbol string, shares, price float64, sector string) (model.Position, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	portfolio, err := s.repo.GetPortfolio(portfolioID)
	if err != nil {
		return model.Position{}, err
	}

	position := model.Position{Symbol: symbol, Shares: shares, AvgPrice: price, Sector: sector}

	for _, existing := range portfolio.Positions {
		if existing.Symbol != symbol {
			continue
		}

		totalShares := existing.Shares + shares
		position.Shares = totalShares
		position.AvgPrice = (existing.Shares*existing.AvgPrice + shares*price) / totalShares
		if sector == "" {
			position.Sector = existing.Sector
		}
		break
	}

	if err := s.repo.SavePosition(portfolioID, position); err != nil {
		return model.Position{}, err
	}

	return position, nil
}

// Sell applies a sell to a portfolio. Selling every held share removes the
// position; selling more than is held fails with ErrInsufficientShares. The
// average cost of the remaining shares is unchanged by a partial sell.
func (s *PortfolioService) Sell(portfolioID, symbol string, shares float64) (model.Position, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	portfolio, err := s.repo.GetPortfolio(portfolioID)
	if err != nil {
		return model.Position{}, err
	}

	for _, existing := range portfolio.Positions {
		if existing.Symbol != symbol {
			continue
		}

		if shares > existing.Shares+sharesEpsilon {
			return model.Position{}, apperrors.ErrInsufficientShares
		}

		remaining := existing.Shares - shares
		if remaining <= sharesEpsilon {
			if err := s.repo.DeletePosition(portfolioID, symbol); err != nil {
				return model.Position{}, err
			}
			return model.Position{Symbol: symbol}, nil
		}

		existing.Shares = remaining
		if err := s.repo.SavePosition(portfolioID, existing); err != nil {
			return model.Position{}, err
		}
		return existing, nil
	}

	return model.Position{}, apperrors.ErrPositionNotFound
}

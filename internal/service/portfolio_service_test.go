package service

import (
	"errors"
	"testing"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/apperrors"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/repository"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/testutil"
)

func setupPortfolioService(t *testing.T) (*PortfolioService, *repository.PortfolioRepository, string) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repo := repository.NewPortfolioRepository(db)
	svc := NewPortfolioService(repo)

	user := testutil.CreateUser(t, db, "trader1")
	portfolio := testutil.CreatePortfolio(t, db, user.ID, "Main")

	return svc, repo, portfolio.ID
}

// TestCreatePortfolio verifies portfolio creation with starting positions
// and symbol normalization.
func TestCreatePortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPortfolioRepository(db)
	svc := NewPortfolioService(repo)
	user := testutil.CreateUser(t, db, "trader1")

	portfolio, err := svc.CreatePortfolio(user.ID, "Growth", []model.Position{
		{Symbol: "aapl", Shares: 10, AvgPrice: 150, Sector: "Technology"},
		{Symbol: " msft ", Shares: 5, AvgPrice: 380},
	})
	if err != nil {
		t.Fatalf("Failed to create portfolio: %v", err)
	}

	stored, err := svc.GetPortfolio(portfolio.ID)
	if err != nil {
		t.Fatalf("Failed to read back portfolio: %v", err)
	}

	if len(stored.Positions) != 2 {
		t.Fatalf("Expected 2 positions, got %d", len(stored.Positions))
	}
	// Positions come back ordered by symbol.
	if stored.Positions[0].Symbol != "AAPL" || stored.Positions[1].Symbol != "MSFT" {
		t.Errorf("Expected normalized symbols AAPL and MSFT, got %s and %s",
			stored.Positions[0].Symbol, stored.Positions[1].Symbol)
	}
}

// TestBuy verifies the buy path, in particular the weighted-average cost
// merge for repeated buys of a held symbol.
func TestBuy(t *testing.T) {
	t.Run("new symbol creates position", func(t *testing.T) {
		svc, _, portfolioID := setupPortfolioService(t)

		position, err := svc.Buy(portfolioID, "AAPL", 10, 150, "Technology")
		if err != nil {
			t.Fatalf("Failed to buy: %v", err)
		}

		if position.Shares != 10 || position.AvgPrice != 150 {
			t.Errorf("Expected 10 shares at 150, got %v at %v", position.Shares, position.AvgPrice)
		}
		if position.Sector != "Technology" {
			t.Errorf("Expected sector Technology, got %s", position.Sector)
		}
	})

	t.Run("repeated buy merges at weighted average", func(t *testing.T) {
		svc, _, portfolioID := setupPortfolioService(t)

		if _, err := svc.Buy(portfolioID, "AAPL", 10, 150, "Technology"); err != nil {
			t.Fatalf("Failed first buy: %v", err)
		}

		// 10 @ 150 + 10 @ 170 -> 20 @ 160.
		position, err := svc.Buy(portfolioID, "AAPL", 10, 170, "")
		if err != nil {
			t.Fatalf("Failed second buy: %v", err)
		}

		if position.Shares != 20 {
			t.Errorf("Expected 20 merged shares, got %v", position.Shares)
		}
		if position.AvgPrice != 160 {
			t.Errorf("Expected weighted-average cost 160, got %v", position.AvgPrice)
		}
		// A blank sector on the merge keeps the existing one.
		if position.Sector != "Technology" {
			t.Errorf("Expected the existing sector retained, got %q", position.Sector)
		}
	})

	t.Run("case-insensitive symbol merge", func(t *testing.T) {
		svc, _, portfolioID := setupPortfolioService(t)

		if _, err := svc.Buy(portfolioID, "AAPL", 10, 150, ""); err != nil {
			t.Fatalf("Failed first buy: %v", err)
		}
		position, err := svc.Buy(portfolioID, "aapl", 10, 150, "")
		if err != nil {
			t.Fatalf("Failed second buy: %v", err)
		}

		if position.Shares != 20 {
			t.Errorf("Expected lowercase buy to merge into AAPL, got %v shares", position.Shares)
		}
	})

	t.Run("unknown portfolio", func(t *testing.T) {
		svc, _, _ := setupPortfolioService(t)

		_, err := svc.Buy("00000000-0000-0000-0000-000000000000", "AAPL", 10, 150, "")
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})
}

// TestSell verifies the sell semantics: partial sells keep the average cost,
// full sells remove the position, overselling fails.
func TestSell(t *testing.T) {
	t.Run("partial sell keeps average cost", func(t *testing.T) {
		svc, _, portfolioID := setupPortfolioService(t)

		if _, err := svc.Buy(portfolioID, "AAPL", 20, 160, ""); err != nil {
			t.Fatalf("Failed to buy: %v", err)
		}

		position, err := svc.Sell(portfolioID, "AAPL", 5)
		if err != nil {
			t.Fatalf("Failed to sell: %v", err)
		}

		if position.Shares != 15 {
			t.Errorf("Expected 15 remaining shares, got %v", position.Shares)
		}
		if position.AvgPrice != 160 {
			t.Errorf("A partial sell must not change the average cost; got %v", position.AvgPrice)
		}
	})

	t.Run("full sell removes position", func(t *testing.T) {
		svc, repo, portfolioID := setupPortfolioService(t)

		if _, err := svc.Buy(portfolioID, "AAPL", 10, 150, ""); err != nil {
			t.Fatalf("Failed to buy: %v", err)
		}
		if _, err := svc.Sell(portfolioID, "AAPL", 10); err != nil {
			t.Fatalf("Failed to sell: %v", err)
		}

		portfolio, err := repo.GetPortfolio(portfolioID)
		if err != nil {
			t.Fatalf("Failed to read back portfolio: %v", err)
		}
		if len(portfolio.Positions) != 0 {
			t.Errorf("Expected the position removed after a full sell, got %d positions", len(portfolio.Positions))
		}
	})

	t.Run("oversell fails", func(t *testing.T) {
		svc, _, portfolioID := setupPortfolioService(t)

		if _, err := svc.Buy(portfolioID, "AAPL", 10, 150, ""); err != nil {
			t.Fatalf("Failed to buy: %v", err)
		}

		_, err := svc.Sell(portfolioID, "AAPL", 10.5)
		if !errors.Is(err, apperrors.ErrInsufficientShares) {
			t.Errorf("Expected ErrInsufficientShares, got %v", err)
		}
	})

	t.Run("unheld symbol fails", func(t *testing.T) {
		svc, _, portfolioID := setupPortfolioService(t)

		_, err := svc.Sell(portfolioID, "MSFT", 1)
		if !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("Expected ErrPositionNotFound, got %v", err)
		}
	})

	t.Run("fractional full sell absorbs float drift", func(t *testing.T) {
		svc, repo, portfolioID := setupPortfolioService(t)

		// 0.1+0.2 style drift: three buys summing to 0.6 shares, then one
		// sell of 0.6 must close the position rather than leave dust.
		for i := 0; i < 3; i++ {
			if _, err := svc.Buy(portfolioID, "AAPL", 0.2, 150, ""); err != nil {
				t.Fatalf("Failed to buy: %v", err)
			}
		}
		if _, err := svc.Sell(portfolioID, "AAPL", 0.6); err != nil {
			t.Fatalf("Failed to sell: %v", err)
		}

		portfolio, err := repo.GetPortfolio(portfolioID)
		if err != nil {
			t.Fatalf("Failed to read back portfolio: %v", err)
		}
		if len(portfolio.Positions) != 0 {
			t.Errorf("Expected the position closed, got %d positions with %v shares",
				len(portfolio.Positions), portfolio.Positions)
		}
	})
}

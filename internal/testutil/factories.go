package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
)

// CreateUser inserts a test user and returns it. Creation times step forward
// one second per call so user insertion order is deterministic.
func CreateUser(t *testing.T, db *sql.DB, username string) model.User {
	t.Helper()

	user := model.User{
		ID:          uuid.New().String(),
		Username:    username,
		DisplayName: fmt.Sprintf("%s display", username),
		CreatedAt:   nextCreationTime(),
	}

	_, err := db.Exec(
		"INSERT INTO user (id, username, display_name, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Username, user.DisplayName, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreatePortfolio inserts a test portfolio for a user and returns it.
func CreatePortfolio(t *testing.T, db *sql.DB, userID, name string) model.Portfolio {
	t.Helper()

	portfolio := model.Portfolio{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: nextCreationTime(),
	}

	_, err := db.Exec(
		"INSERT INTO portfolio (id, user_id, name, created_at) VALUES (?, ?, ?, ?)",
		portfolio.ID, portfolio.UserID, portfolio.Name, portfolio.CreatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return portfolio
}

// AddPosition inserts a position row for a portfolio.
func AddPosition(t *testing.T, db *sql.DB, portfolioID string, pos model.Position) {
	t.Helper()

	_, err := db.Exec(
		"INSERT INTO position (portfolio_id, symbol, shares, avg_price, sector) VALUES (?, ?, ?, ?, ?)",
		portfolioID, pos.Symbol, pos.Shares, pos.AvgPrice, pos.Sector,
	)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}
}

// creationCounter makes factory creation times strictly increasing within a
// test binary, so ordering by created_at is stable.
var creationCounter int64

func nextCreationTime() time.Time {
	creationCounter++
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(creationCounter) * time.Second)
}

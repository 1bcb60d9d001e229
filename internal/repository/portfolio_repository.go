package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/apperrors"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
)

// PortfolioRepository provides data access methods for the user, portfolio,
// and position tables. The valuation and ranking engines only read through
// it; position updates go through the write methods.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetUsers retrieves all tracked users ordered by creation time. The order is
// stable and serves as the leaderboard's tie-break sequence.
func (r *PortfolioRepository) GetUsers() ([]model.User, error) {
	query := `
          SELECT id, username, display_name, created_at
          FROM user
          ORDER BY created_at, id
      `

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query user table: %w", err)
	}
	defer rows.Close()

	users := []model.User{}

	for rows.Next() {
		var u model.User

		err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user table results: %w", err)
		}

		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user table: %w", err)
	}

	return users, nil
}

// CreateUser inserts a new user record.
func (r *PortfolioRepository) CreateUser(u model.User) error {
	query := `
          INSERT INTO user (id, username, display_name, created_at)
          VALUES (?, ?, ?, ?)
      `

	if _, err := r.db.Exec(query, u.ID, u.Username, u.DisplayName, u.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetPortfolio retrieves a portfolio and its positions by portfolio ID.
func (r *PortfolioRepository) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	query := `
          SELECT id, user_id, name, created_at
          FROM portfolio
          WHERE id = ?
      `

	var p model.Portfolio

	err := r.db.QueryRow(query, portfolioID).Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	positions, err := r.getPositions(p.ID)
	if err != nil {
		return model.Portfolio{}, err
	}
	p.Positions = positions

	return p, nil
}

// GetPortfolioByUserID retrieves a user's portfolio and its positions.
func (r *PortfolioRepository) GetPortfolioByUserID(userID string) (model.Portfolio, error) {
	query := `
          SELECT id, user_id, name, created_at
          FROM portfolio
          WHERE user_id = ?
      `

	var p model.Portfolio

	err := r.db.QueryRow(query, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	positions, err := r.getPositions(p.ID)
	if err != nil {
		return model.Portfolio{}, err
	}
	p.Positions = positions

	return p, nil
}

// CreatePortfolio inserts a new portfolio record and its initial positions.
func (r *PortfolioRepository) CreatePortfolio(p model.Portfolio) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	query := `
          INSERT INTO portfolio (id, user_id, name, created_at)
          VALUES (?, ?, ?, ?)
      `

	if _, err := tx.Exec(query, p.ID, p.UserID, p.Name, p.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	for _, pos := range p.Positions {
		if err := upsertPosition(tx, p.ID, pos); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit portfolio: %w", err)
	}

	return nil
}

// SavePosition inserts or replaces a position row for a portfolio.
func (r *PortfolioRepository) SavePosition(portfolioID string, pos model.Position) error {
	return upsertPosition(r.db, portfolioID, pos)
}

// DeletePosition removes a position row, used when a full sell closes the position.
func (r *PortfolioRepository) DeletePosition(portfolioID, symbol string) error {
	query := `
          DELETE FROM position
          WHERE portfolio_id = ? AND symbol = ?
      `

	result, err := r.db.Exec(query, portfolioID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}

// execer lets upsertPosition run inside or outside a transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsertPosition(db execer, portfolioID string, pos model.Position) error {
	query := `
          INSERT INTO position (portfolio_id, symbol, shares, avg_price, sector)
          VALUES (?, ?, ?, ?, ?)
          ON CONFLICT (portfolio_id, symbol)
          DO UPDATE SET shares = excluded.shares, avg_price = excluded.avg_price, sector = excluded.sector
      `

	if _, err := db.Exec(query, portfolioID, pos.Symbol, pos.Shares, pos.AvgPrice, pos.Sector); err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}

	return nil
}

func (r *PortfolioRepository) getPositions(portfolioID string) ([]model.Position, error) {
	query := `
          SELECT symbol, shares, avg_price, COALESCE(sector, '')
          FROM position
          WHERE portfolio_id = ?
          ORDER BY symbol
      `

	rows, err := r.db.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}

	for rows.Next() {
		var pos model.Position

		err := rows.Scan(&pos.Symbol, &pos.Shares, &pos.AvgPrice, &pos.Sector)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position table results: %w", err)
		}

		positions = append(positions, pos)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return positions, nil
}

package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// ReferencePriceRepository reads the static table of known-good anchor
// prices consumed by the resolver's reference tier.
type ReferencePriceRepository struct {
	db *sql.DB
}

// NewReferencePriceRepository creates a new ReferencePriceRepository.
func NewReferencePriceRepository(db *sql.DB) *ReferencePriceRepository {
	return &ReferencePriceRepository{db: db}
}

// ReferencePrice is one known (symbol, date) anchor.
type ReferencePrice struct {
	Symbol string
	Date   time.Time
	Price  float64
}

// GetAll returns every reference price row.
func (r *ReferencePriceRepository) GetAll() ([]ReferencePrice, error) {
	query := `
          SELECT symbol, date, price
          FROM reference_price
          ORDER BY symbol, date
      `

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference_price table: %w", err)
	}
	defer rows.Close()

	prices := []ReferencePrice{}

	for rows.Next() {
		var rp ReferencePrice
		var date string

		err := rows.Scan(&rp.Symbol, &date, &rp.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reference_price results: %w", err)
		}

		rp.Date, err = ParseTime(date)
		if err != nil {
			return nil, err
		}

		prices = append(prices, rp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reference_price table: %w", err)
	}

	return prices, nil
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

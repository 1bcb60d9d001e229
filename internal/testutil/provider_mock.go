package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/apperrors"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
)

// MockProvider is a scriptable implementation of the quotes.Provider
// capability. By default every symbol resolves to a fixed quote; individual
// behaviors can be overridden per test via the function fields. Call counts
// are tracked so tests can assert how many upstream calls were actually
// issued.
type MockProvider struct {
	mu sync.Mutex

	// QuoteFunc, HistoricalFunc, and DividendsFunc override the default
	// behavior when non-nil.
	QuoteFunc      func(symbol string) (model.Quote, error)
	HistoricalFunc func(symbol string, from, to time.Time) ([]model.ClosingPrice, error)
	DividendsFunc  func(symbol string, from, to time.Time) ([]model.Dividend, error)

	quoteCalls      int
	historicalCalls int
	dividendCalls   int
}

// NewMockProvider creates a mock whose default quote is $100 with a $98
// previous close for every symbol.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// GetQuote returns the scripted quote for a symbol.
func (m *MockProvider) GetQuote(_ context.Context, symbol string) (model.Quote, error) {
	m.mu.Lock()
	m.quoteCalls++
	fn := m.QuoteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(symbol)
	}

	return model.Quote{
		Symbol:        symbol,
		Price:         100,
		ChangePercent: 2.04,
		PreviousClose: 98,
		AsOf:          time.Date(2025, 6, 2, 16, 0, 0, 0, time.UTC),
	}, nil
}

// GetHistoricalRange returns the scripted closes for a symbol.
func (m *MockProvider) GetHistoricalRange(_ context.Context, symbol string, from, to time.Time) ([]model.ClosingPrice, error) {
	m.mu.Lock()
	m.historicalCalls++
	fn := m.HistoricalFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(symbol, from, to)
	}

	return nil, apperrors.ErrNoData
}

// GetDividends returns the scripted dividends for a symbol.
func (m *MockProvider) GetDividends(_ context.Context, symbol string, from, to time.Time) ([]model.Dividend, error) {
	m.mu.Lock()
	m.dividendCalls++
	fn := m.DividendsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(symbol, from, to)
	}

	return nil, apperrors.ErrNoData
}

// QuoteCalls returns how many GetQuote calls were issued.
func (m *MockProvider) QuoteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quoteCalls
}

// HistoricalCalls returns how many GetHistoricalRange calls were issued.
func (m *MockProvider) HistoricalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.historicalCalls
}

// DividendCalls returns how many GetDividends calls were issued.
func (m *MockProvider) DividendCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dividendCalls
}

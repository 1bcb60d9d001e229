package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrPositionNotFound indicates that the portfolio holds no position for the symbol.
	ErrPositionNotFound = errors.New("position not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInsufficientShares indicates that a sell cannot be completed because
	// the position does not hold enough shares.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrEmptySymbolList indicates that a price query carried no symbols.
	ErrEmptySymbolList = errors.New("symbol list cannot be empty")

	// ErrTooManySymbols indicates that a price query exceeded the batch ceiling.
	ErrTooManySymbols = errors.New("too many symbols in one request")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")
)

// Upstream errors represent conditions reported by the quote provider.
var (
	// ErrRateLimited indicates the upstream provider rejected a request for
	// exceeding its rate limit. Callers should back off and retry later
	// rather than treating this as missing data.
	ErrRateLimited = errors.New("upstream rate limit exceeded")

	// ErrNoData indicates the provider responded successfully but carried no
	// usable data for the requested symbol or range.
	ErrNoData = errors.New("no data returned by provider")
)

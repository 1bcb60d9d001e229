package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/api/response"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/apperrors"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/quotes"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/validation"
)

// PricesHandler serves the price query surface.
type PricesHandler struct {
	quotes *quotes.Service
}

// NewPricesHandler creates a new PricesHandler
func NewPricesHandler(quoteService *quotes.Service) *PricesHandler {
	return &PricesHandler{quotes: quoteService}
}

// PriceEntry is one resolved symbol in the prices response.
type PriceEntry struct {
	Price  float64           `json:"price"`
	Change float64           `json:"change"`
	Source model.PriceSource `json:"source"`
}

// PricesResponse represents the prices endpoint response, including cache and
// coalescing statistics for observability.
type PricesResponse struct {
	Prices map[string]PriceEntry `json:"prices"`
	Stats  model.CacheStats      `json:"stats"`
	AsOf   time.Time             `json:"asOf"`
}

// Prices resolves current prices for a comma-delimited (or repeated) list of
// ticker symbols. Invalid input is rejected before any upstream work;
// provider rate-limit exhaustion maps to 429 so front-ends can back off.
func (h *PricesHandler) Prices(w http.ResponseWriter, r *http.Request) {
	symbols, err := validation.ParseSymbols(r.URL.Query()["symbols"])
	if err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
			return
		}
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	quoteSet, err := h.quotes.GetPrices(r.Context(), symbols)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateLimited) {
			response.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to resolve prices", err.Error())
		return
	}

	prices := make(map[string]PriceEntry, len(quoteSet))
	for symbol, quote := range quoteSet {
		prices[symbol] = PriceEntry{
			Price:  quote.Price,
			Change: quote.ChangePercent,
			Source: quote.Source,
		}
	}

	response.RespondJSON(w, http.StatusOK, PricesResponse{
		Prices: prices,
		Stats:  h.quotes.Stats(),
		AsOf:   time.Now().UTC(),
	})
}

// Price resolves the current price snapshot for a single symbol.
func (h *PricesHandler) Price(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.pathSymbol(w, r)
	if !ok {
		return
	}

	quote, err := h.quotes.GetPrice(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateLimited) {
			response.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to resolve price", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}

// DividendResponse is the trailing-twelve-month dividend total for a symbol.
type DividendResponse struct {
	Symbol string            `json:"symbol"`
	Total  float64           `json:"total"`
	Source model.PriceSource `json:"source"`
}

// Dividends resolves the trailing-twelve-month dividend total for a symbol.
func (h *PricesHandler) Dividends(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.pathSymbol(w, r)
	if !ok {
		return
	}

	total, source, err := h.quotes.GetDividendTotal(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateLimited) {
			response.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to resolve dividends", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, DividendResponse{
		Symbol: symbol,
		Total:  total,
		Source: source,
	})
}

// pathSymbol validates the {symbol} URL parameter.
func (h *PricesHandler) pathSymbol(w http.ResponseWriter, r *http.Request) (string, bool) {
	symbols, err := validation.ParseSymbols([]string{chi.URLParam(r, "symbol")})
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
		return "", false
	}
	return symbols[0], true
}

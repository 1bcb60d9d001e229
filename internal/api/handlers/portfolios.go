package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/api/request"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/api/response"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/apperrors"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/service"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolios *service.PortfolioService
	valuation  *service.ValuationService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolios *service.PortfolioService, valuation *service.ValuationService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolios: portfolios,
		valuation:  valuation,
	}
}

// Portfolio returns the persisted portfolio: positions and cost basis only,
// no derived figures.
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")
	if err := validation.ValidateUUID(portfolioID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid portfolio ID", err.Error())
		return
	}

	portfolio, err := h.portfolios.GetPortfolio(portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, "portfolio not found", nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve portfolio", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// CreatePortfolio persists a new portfolio with optional starting positions.
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUUID(req.UserID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid user ID", err.Error())
		return
	}
	fields := map[string]string{}
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	// Starting positions are held to the same rules as trades.
	for i, p := range req.Positions {
		if _, err := validation.ParseSymbols([]string{p.Symbol}); err != nil {
			fields[fmt.Sprintf("positions[%d].symbol", i)] = "a valid symbol is required"
		}
		if p.Shares <= 0 {
			fields[fmt.Sprintf("positions[%d].shares", i)] = "shares must be positive"
		}
		if p.AvgPrice <= 0 {
			fields[fmt.Sprintf("positions[%d].avgPrice", i)] = "avgPrice must be positive"
		}
	}
	if len(fields) > 0 {
		response.RespondError(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	positions := make([]model.Position, len(req.Positions))
	for i, p := range req.Positions {
		positions[i] = model.Position{
			Symbol:   p.Symbol,
			Shares:   p.Shares,
			AvgPrice: p.AvgPrice,
			Sector:   p.Sector,
		}
	}

	portfolio, err := h.portfolios.CreatePortfolio(req.UserID, req.Name, positions)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create portfolio", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// Valuation computes the derived snapshot for a portfolio on demand.
func (h *PortfolioHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")
	if err := validation.ValidateUUID(portfolioID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid portfolio ID", err.Error())
		return
	}

	portfolio, err := h.portfolios.GetPortfolio(portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, "portfolio not found", nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve portfolio", err.Error())
		return
	}

	valuation, err := h.valuation.Valuate(r.Context(), portfolio)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateLimited) {
			response.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to compute valuation", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, valuation)
}

// Buy applies a buy to the portfolio, merging repeated buys of a symbol at a
// weighted-average cost.
func (h *PortfolioHandler) Buy(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")
	if err := validation.ValidateUUID(portfolioID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid portfolio ID", err.Error())
		return
	}

	req, ok := decodeTrade(w, r, true)
	if !ok {
		return
	}

	position, err := h.portfolios.Buy(portfolioID, req.Symbol, req.Shares, req.Price, req.Sector)
	if err != nil {
		respondTradeError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, position)
}

// Sell applies a sell to the portfolio, removing the position on a full sell.
func (h *PortfolioHandler) Sell(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")
	if err := validation.ValidateUUID(portfolioID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid portfolio ID", err.Error())
		return
	}

	req, ok := decodeTrade(w, r, false)
	if !ok {
		return
	}

	position, err := h.portfolios.Sell(portfolioID, req.Symbol, req.Shares)
	if err != nil {
		respondTradeError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, position)
}

// decodeTrade decodes and validates a trade body. Price is only required on
// buys.
func decodeTrade(w http.ResponseWriter, r *http.Request, requirePrice bool) (request.TradeRequest, bool) {
	var req request.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return req, false
	}

	fields := map[string]string{}
	if _, err := validation.ParseSymbols([]string{req.Symbol}); err != nil {
		fields["symbol"] = "a valid symbol is required"
	}
	if req.Shares <= 0 {
		fields["shares"] = "shares must be positive"
	}
	if requirePrice && req.Price <= 0 {
		fields["price"] = "price must be positive"
	}

	if len(fields) > 0 {
		response.RespondError(w, http.StatusBadRequest, "validation failed", fields)
		return req, false
	}

	return req, true
}

func respondTradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrPortfolioNotFound):
		response.RespondError(w, http.StatusNotFound, "portfolio not found", nil)
	case errors.Is(err, apperrors.ErrPositionNotFound):
		response.RespondError(w, http.StatusNotFound, "position not found", nil)
	case errors.Is(err, apperrors.ErrInsufficientShares):
		response.RespondError(w, http.StatusBadRequest, "insufficient shares for sale", nil)
	default:
		response.RespondError(w, http.StatusInternalServerError, "failed to update position", err.Error())
	}
}

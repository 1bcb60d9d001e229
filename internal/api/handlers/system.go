package handlers

import (
	"database/sql"
	"net/http"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/api/response"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/database"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/quotes"
)

// SystemHandler handles system-level HTTP requests
type SystemHandler struct {
	db     *sql.DB
	quotes *quotes.Service
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *sql.DB, quoteService *quotes.Service) *SystemHandler {
	return &SystemHandler{
		db:     db,
		quotes: quoteService,
	}
}

// HealthResponse represents the health endpoint response
type HealthResponse struct {
	Status   string           `json:"status"`
	Database string           `json:"database"`
	Cache    model.CacheStats `json:"cache"`
	Error    string           `json:"error,omitempty"`
}

// Health reports process health: database connectivity plus the market-data
// cache counters.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Cache:    h.quotes.Stats(),
	}

	if err := database.HealthCheck(h.db); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		resp.Error = err.Error()
		response.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/api/response"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/apperrors"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/service"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/validation"
)

// LeaderboardHandler serves the leaderboard query surface.
type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(leaderboard *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// Leaderboard computes a ranked, filtered, paginated leaderboard page.
func (h *LeaderboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	params := map[string]string{}
	for _, key := range []string{"period", "sort", "order", "page", "pageSize", "q", "sector"} {
		params[key] = r.URL.Query().Get(key)
	}

	query, err := validation.ParseLeaderboardQuery(params)
	if err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
			return
		}
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	page, err := h.leaderboard.Rank(r.Context(), query)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateLimited) {
			response.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to compute leaderboard", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, page)
}

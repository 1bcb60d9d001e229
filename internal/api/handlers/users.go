package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/api/request"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/api/response"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/service"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	portfolios *service.PortfolioService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(portfolios *service.PortfolioService) *UserHandler {
	return &UserHandler{portfolios: portfolios}
}

// Users returns every tracked user in registration order.
func (h *UserHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.portfolios.ListUsers()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve users", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, users)
}

// CreateUser registers a new tracked user.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Username == "" {
		response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"username": "username is required"})
		return
	}

	user, err := h.portfolios.CreateUser(req.Username, req.DisplayName)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create user", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, user)
}

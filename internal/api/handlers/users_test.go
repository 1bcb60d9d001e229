package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/repository"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/service"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/testutil"
)

func setupUserHandler(t *testing.T) *UserHandler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repo := repository.NewPortfolioRepository(db)
	return NewUserHandler(service.NewPortfolioService(repo))
}

// TestUsers verifies registration and listing of tracked users.
func TestUsers(t *testing.T) {
	t.Run("register and list", func(t *testing.T) {
		handler := setupUserHandler(t)

		body, _ := json.Marshal(map[string]string{"username": "alice", "displayName": "Alice"})
		req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateUser(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
		}

		var user model.User
		if err := json.NewDecoder(w.Body).Decode(&user); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected a generated user ID")
		}
		if user.Username != "alice" || user.DisplayName != "Alice" {
			t.Errorf("Unexpected user: %+v", user)
		}

		listReq := httptest.NewRequest("GET", "/api/users", nil)
		listW := httptest.NewRecorder()

		handler.Users(listW, listReq)

		if listW.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", listW.Code)
		}
		var users []model.User
		if err := json.NewDecoder(listW.Body).Decode(&users); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(users) != 1 || users[0].ID != user.ID {
			t.Errorf("Expected the registered user listed, got %+v", users)
		}
	})

	t.Run("display name defaults to username", func(t *testing.T) {
		handler := setupUserHandler(t)

		body, _ := json.Marshal(map[string]string{"username": "bob"})
		req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateUser(w, req)

		var user model.User
		if err := json.NewDecoder(w.Body).Decode(&user); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if user.DisplayName != "bob" {
			t.Errorf("Expected display name to default to the username, got %q", user.DisplayName)
		}
	})

	t.Run("missing username rejected", func(t *testing.T) {
		handler := setupUserHandler(t)

		req := httptest.NewRequest("POST", "/api/users", bytes.NewReader([]byte("{}")))
		w := httptest.NewRecorder()

		handler.CreateUser(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("duplicate username fails", func(t *testing.T) {
		handler := setupUserHandler(t)

		for i := 0; i < 2; i++ {
			body, _ := json.Marshal(map[string]string{"username": "alice"})
			req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.CreateUser(w, req)

			if i == 0 && w.Code != http.StatusCreated {
				t.Fatalf("Expected the first registration to succeed, got %d", w.Code)
			}
			if i == 1 && w.Code == http.StatusCreated {
				t.Error("Expected the duplicate username to be rejected")
			}
		}
	})
}

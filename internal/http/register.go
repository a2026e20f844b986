package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pennyledger/pennyledger/internal/service"
	"github.com/pennyledger/pennyledger/pkg/httpx"
	"github.com/pennyledger/pennyledger/pkg/slogx"
)

// RegisterHandler creates a new account from a JSON credentials payload.
// Registration never issues a session; the new user signs in afterwards.
type RegisterHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Request body must be valid JSON.")
		return
	}

	_, err := h.AuthService.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteError(w, http.StatusBadRequest,
				"invalid_email", "That email address doesn't look valid.")
		case errors.Is(err, service.ErrMissingUsername):
			httpx.WriteError(w, http.StatusBadRequest,
				"missing_username", "A username is required.")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest,
				"weak_password", "Password must be at least 8 characters and mix letters, digits, and symbols.")
		case errors.Is(err, service.ErrDuplicateAccount):
			httpx.WriteError(w, http.StatusBadRequest,
				"duplicate_account", "An account with that email already exists.")
		default:
			log.Error("register failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError,
				"server_error", "Could not register the account. Please try again.")
		}
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Account registered successfully."))
}

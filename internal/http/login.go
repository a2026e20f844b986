package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pennyledger/pennyledger/internal/service"
	"github.com/pennyledger/pennyledger/pkg/httpx"
	"github.com/pennyledger/pennyledger/pkg/slogx"
)

// LoginHandler verifies credentials and issues the session cookie. On
// success the browser is redirected to the tracker page.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Request body must be valid JSON.")
		return
	}

	token, session, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// One message for both unknown email and wrong password, so
			// responses don't reveal which emails are registered.
			httpx.WriteError(w, http.StatusUnauthorized,
				"invalid_credentials", "Invalid email or password.")
			return
		}
		log.Error("login failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Could not sign in. Please try again.")
		return
	}

	setSessionCookie(w, token, time.Until(session.ExpiresAt))
	http.Redirect(w, r, "/index", http.StatusFound)
}

// setSessionCookie installs the HTTP-only session cookie. The token never
// reaches client-side script.
func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

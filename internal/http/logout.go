package http

import (
	"net/http"

	"github.com/pennyledger/pennyledger/internal/service"
	"github.com/pennyledger/pennyledger/pkg/httpx"
	"github.com/pennyledger/pennyledger/pkg/slogx"
)

// LogoutHandler destroys the session and clears the cookie. Logging out
// with a stale or missing cookie still succeeds.
type LogoutHandler struct {
	AuthService *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.AuthService.Logout(ctx, sessionToken(r)); err != nil {
		log.Error("logout failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Could not sign out. Please try again.")
		return
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

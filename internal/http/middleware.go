package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/pennyledger/pennyledger/internal/domain"
	"github.com/pennyledger/pennyledger/internal/service"
	"github.com/pennyledger/pennyledger/pkg/httpx"
	"github.com/pennyledger/pennyledger/pkg/slogx"
)

type ctxKey string

const ctxKeySession ctxKey = "session"

// gateMode controls what an unauthenticated request sees: HTML routes
// redirect to the login page, API routes get a bare 401.
type gateMode int

const (
	gateRedirect gateMode = iota
	gateReject
)

// requireSession resolves the session cookie and injects the session into
// the request context. Requests without a live session never reach the
// wrapped handler.
func (rt *Router) requireSession(mode gateMode) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			session, err := rt.AuthService.Resolve(ctx, sessionToken(r))
			if err != nil {
				if !errors.Is(err, service.ErrNoSession) {
					log.Error("session resolve failed", "error", err)
					httpx.WriteError(w, http.StatusInternalServerError,
						"server_error", "Something went wrong. Please try again.")
					return
				}

				switch mode {
				case gateRedirect:
					http.Redirect(w, r, "/login", http.StatusFound)
				default:
					httpx.WriteError(w, http.StatusUnauthorized,
						"no_session", "Sign in to continue.")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(ctx, session)))
		})
	}
}

// sessionToken extracts the opaque token from the session cookie, or ""
// when absent.
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func contextWithSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

// sessionFromContext returns the authenticated session placed there by
// requireSession.
func sessionFromContext(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(ctxKeySession).(domain.Session)
	return s, ok
}

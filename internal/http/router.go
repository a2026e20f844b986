package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pennyledger/pennyledger/internal/service"
	"github.com/pennyledger/pennyledger/internal/store"
	"github.com/pennyledger/pennyledger/pkg/httpx"
	"github.com/pennyledger/pennyledger/pkg/slogx"
)

const sessionCookieName = "pl_session"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	AuthService   *service.AuthService
	LedgerService *service.LedgerService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPages()
	r.registerLedger()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential endpoints get strict per-IP limits (brute force prevention).
	registerHandler := &RegisterHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	logoutHandler := &LogoutHandler{AuthService: r.AuthService}
	r.Mux.Handle("GET /logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPages() {
	pages := &PagesHandler{}

	r.Mux.Handle("GET /{$}", http.RedirectHandler("/login", http.StatusFound))
	r.Mux.Handle("GET /login", pages.Page("login.html"))
	r.Mux.Handle("GET /register", pages.Page("register.html"))
	r.Mux.Handle("GET /static/", pages.Static())

	// The tracker page is session-gated; anonymous visitors are sent to
	// the login page rather than shown an error.
	r.Mux.Handle("GET /index",
		httpx.Chain(pages.Page("index.html"),
			r.requireSession(gateRedirect),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerLedger() {
	h := &LedgerHandler{LedgerService: r.LedgerService}

	// fetch() callers want a status code, not a redirect to an HTML page.
	list := httpx.Chain(http.HandlerFunc(h.HandleList),
		r.requireSession(gateReject),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)
	create := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		r.requireSession(gateReject),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)

	r.Mux.Handle("GET /api/transactions", list)
	r.Mux.Handle("POST /api/transactions", create)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

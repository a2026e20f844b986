package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pennyledger/pennyledger/internal/domain"
	"github.com/pennyledger/pennyledger/internal/service"
	"github.com/pennyledger/pennyledger/internal/store/drivers/sqlite"
	"github.com/pennyledger/pennyledger/pkg/cryptox"
	"github.com/pennyledger/pennyledger/pkg/idx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

const testPassword = "tr0ub4dor&3-xkcd"

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rt := NewRouter("test", st, logger)
	rt.AuthService = &service.AuthService{Store: st}
	rt.LedgerService = &service.LedgerService{Store: st}
	rt.ApplyRoutes()
	return rt
}

// do drives the full router, middleware chain included.
func do(t *testing.T, rt *Router, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, req)
	return w
}

func registerAccount(t *testing.T, rt *Router, email string) {
	t.Helper()

	resp := do(t, rt, http.MethodPost, "/register", map[string]string{
		"email":    email,
		"username": "tester",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.Code)
}

// loginAccount signs in and returns the session cookie the browser would hold.
func loginAccount(t *testing.T, rt *Router, email string) *http.Cookie {
	t.Helper()

	resp := do(t, rt, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusFound, resp.Code)

	for _, c := range resp.Result().Cookies() {
		if c.Name == "pl_session" {
			return c
		}
	}
	t.Fatal("login response did not set the session cookie")
	return nil
}

func errorKind(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body.Error
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("creates the account without signing in", func(t *testing.T) {
		rt := newTestRouter(t)

		resp := do(t, rt, http.MethodPost, "/register", map[string]string{
			"email":    "alice@example.com",
			"username": "alice",
			"password": testPassword,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), "registered successfully")
		require.Empty(t, resp.Result().Cookies())
	})

	t.Run("rejects a non-JSON body", func(t *testing.T) {
		rt := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader([]byte("not json")))
		w := httptest.NewRecorder()
		rt.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps validation failures to distinct errors", func(t *testing.T) {
		rt := newTestRouter(t)

		cases := []struct {
			name                      string
			email, username, password string
			wantKind                  string
		}{
			{"bad email", "nope", "alice", testPassword, "invalid_email"},
			{"no username", "alice@example.com", "", testPassword, "missing_username"},
			{"weak password", "alice@example.com", "alice", "short", "weak_password"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				resp := do(t, rt, http.MethodPost, "/register", map[string]string{
					"email":    tc.email,
					"username": tc.username,
					"password": tc.password,
				})
				require.Equal(t, http.StatusBadRequest, resp.Code)
				require.Equal(t, tc.wantKind, errorKind(t, resp))
			})
		}
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		rt := newTestRouter(t)
		registerAccount(t, rt, "alice@example.com")

		resp := do(t, rt, http.MethodPost, "/register", map[string]string{
			"email":    "Alice@Example.com",
			"username": "alice2",
			"password": testPassword,
		})
		require.Equal(t, http.StatusBadRequest, resp.Code)
		require.Equal(t, "duplicate_account", errorKind(t, resp))
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("sets the session cookie and redirects to the tracker", func(t *testing.T) {
		rt := newTestRouter(t)
		registerAccount(t, rt, "alice@example.com")

		resp := do(t, rt, http.MethodPost, "/login", map[string]string{
			"email":    "alice@example.com",
			"password": testPassword,
		})
		require.Equal(t, http.StatusFound, resp.Code)
		require.Equal(t, "/index", resp.Header().Get("Location"))

		cookies := resp.Result().Cookies()
		require.Len(t, cookies, 1)
		cookie := cookies[0]
		require.Equal(t, "pl_session", cookie.Name)
		require.NotEmpty(t, cookie.Value)
		require.True(t, cookie.HttpOnly)
		require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		require.Positive(t, cookie.MaxAge)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		rt := newTestRouter(t)
		registerAccount(t, rt, "alice@example.com")

		unknown := do(t, rt, http.MethodPost, "/login", map[string]string{
			"email":    "ghost@example.com",
			"password": testPassword,
		})
		wrong := do(t, rt, http.MethodPost, "/login", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong-Passw0rd!",
		})

		require.Equal(t, http.StatusUnauthorized, unknown.Code)
		require.Equal(t, http.StatusUnauthorized, wrong.Code)
		require.Equal(t, unknown.Body.String(), wrong.Body.String())
		require.Empty(t, unknown.Result().Cookies())
	})
}

func TestSessionGate(t *testing.T) {
	t.Run("anonymous visitor is sent to the login page", func(t *testing.T) {
		rt := newTestRouter(t)

		resp := do(t, rt, http.MethodGet, "/index", nil)
		require.Equal(t, http.StatusFound, resp.Code)
		require.Equal(t, "/login", resp.Header().Get("Location"))
	})

	t.Run("signed-in visitor sees the tracker page", func(t *testing.T) {
		rt := newTestRouter(t)
		registerAccount(t, rt, "alice@example.com")
		cookie := loginAccount(t, rt, "alice@example.com")

		resp := do(t, rt, http.MethodGet, "/index", nil, cookie)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Header().Get("Content-Type"), "text/html")
	})

	t.Run("a forged cookie does not pass the gate", func(t *testing.T) {
		rt := newTestRouter(t)

		forged := &http.Cookie{Name: "pl_session", Value: "not-a-real-token"}
		resp := do(t, rt, http.MethodGet, "/index", nil, forged)
		require.Equal(t, http.StatusFound, resp.Code)
		require.Equal(t, "/login", resp.Header().Get("Location"))
	})

	t.Run("an expired session does not pass the gate", func(t *testing.T) {
		rt := newTestRouter(t)
		registerAccount(t, rt, "alice@example.com")

		account, err := rt.store.Accounts().GetAccountByEmail(t.Context(), "alice@example.com")
		require.NoError(t, err)

		token, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		now := time.Now().UTC()
		require.NoError(t, rt.store.Sessions().CreateSession(t.Context(), domain.Session{
			ID:        idx.New().String(),
			TokenHash: cryptox.FingerprintToken(token),
			AccountID: account.ID,
			Username:  account.Username,
			CreatedAt: now.Add(-2 * time.Hour),
			ExpiresAt: now.Add(-time.Hour),
		}))

		stale := &http.Cookie{Name: "pl_session", Value: token}
		resp := do(t, rt, http.MethodGet, "/index", nil, stale)
		require.Equal(t, http.StatusFound, resp.Code)
		require.Equal(t, "/login", resp.Header().Get("Location"))
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Run("clears the cookie and kills the session", func(t *testing.T) {
		rt := newTestRouter(t)
		registerAccount(t, rt, "alice@example.com")
		cookie := loginAccount(t, rt, "alice@example.com")

		resp := do(t, rt, http.MethodGet, "/logout", nil, cookie)
		require.Equal(t, http.StatusFound, resp.Code)
		require.Equal(t, "/login", resp.Header().Get("Location"))

		cleared := resp.Result().Cookies()
		require.Len(t, cleared, 1)
		require.Equal(t, "pl_session", cleared[0].Name)
		require.Negative(t, cleared[0].MaxAge)

		// The old cookie value is dead server-side, not just in the browser.
		gated := do(t, rt, http.MethodGet, "/index", nil, cookie)
		require.Equal(t, http.StatusFound, gated.Code)
		require.Equal(t, "/login", gated.Header().Get("Location"))
	})

	t.Run("logout without a session still lands on the login page", func(t *testing.T) {
		rt := newTestRouter(t)

		resp := do(t, rt, http.MethodGet, "/logout", nil)
		require.Equal(t, http.StatusFound, resp.Code)
		require.Equal(t, "/login", resp.Header().Get("Location"))
	})

	t.Run("logout twice with the same cookie is harmless", func(t *testing.T) {
		rt := newTestRouter(t)
		registerAccount(t, rt, "alice@example.com")
		cookie := loginAccount(t, rt, "alice@example.com")

		require.Equal(t, http.StatusFound, do(t, rt, http.MethodGet, "/logout", nil, cookie).Code)
		require.Equal(t, http.StatusFound, do(t, rt, http.MethodGet, "/logout", nil, cookie).Code)
	})
}

func TestTransactionsAPI(t *testing.T) {
	t.Run("anonymous callers get a bare 401, not a redirect", func(t *testing.T) {
		rt := newTestRouter(t)

		resp := do(t, rt, http.MethodGet, "/api/transactions", nil)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
		require.Equal(t, "no_session", errorKind(t, resp))
	})

	t.Run("create and list round trip", func(t *testing.T) {
		rt := newTestRouter(t)
		registerAccount(t, rt, "alice@example.com")
		cookie := loginAccount(t, rt, "alice@example.com")

		created := do(t, rt, http.MethodPost, "/api/transactions", map[string]any{
			"amount":   42.5,
			"category": "groceries",
			"date":     "2025-06-01",
			"notes":    "weekly shop",
		}, cookie)
		require.Equal(t, http.StatusCreated, created.Code)

		var payload struct {
			ID     string  `json:"id"`
			Amount float64 `json:"amount"`
			Date   string  `json:"date"`
		}
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &payload))
		require.NotEmpty(t, payload.ID)
		require.Equal(t, 42.5, payload.Amount)
		require.Equal(t, "2025-06-01", payload.Date)

		list := do(t, rt, http.MethodGet, "/api/transactions", nil, cookie)
		require.Equal(t, http.StatusOK, list.Code)

		var entries []map[string]any
		require.NoError(t, json.Unmarshal(list.Body.Bytes(), &entries))
		require.Len(t, entries, 1)
		require.Equal(t, "groceries", entries[0]["category"])
	})

	t.Run("entries are scoped to the signed-in account", func(t *testing.T) {
		rt := newTestRouter(t)
		registerAccount(t, rt, "alice@example.com")
		registerAccount(t, rt, "bob@example.com")

		alice := loginAccount(t, rt, "alice@example.com")
		bob := loginAccount(t, rt, "bob@example.com")

		created := do(t, rt, http.MethodPost, "/api/transactions", map[string]any{
			"amount":   10.0,
			"category": "private",
		}, alice)
		require.Equal(t, http.StatusCreated, created.Code)

		list := do(t, rt, http.MethodGet, "/api/transactions", nil, bob)
		require.Equal(t, http.StatusOK, list.Code)
		require.JSONEq(t, "[]", list.Body.String())
	})

	t.Run("rejects invalid entries", func(t *testing.T) {
		rt := newTestRouter(t)
		registerAccount(t, rt, "alice@example.com")
		cookie := loginAccount(t, rt, "alice@example.com")

		badAmount := do(t, rt, http.MethodPost, "/api/transactions", map[string]any{
			"amount":   -5.0,
			"category": "misc",
		}, cookie)
		require.Equal(t, http.StatusBadRequest, badAmount.Code)
		require.Equal(t, "invalid_amount", errorKind(t, badAmount))

		badDate := do(t, rt, http.MethodPost, "/api/transactions", map[string]any{
			"amount":   5.0,
			"category": "misc",
			"date":     "06/01/2025",
		}, cookie)
		require.Equal(t, http.StatusBadRequest, badDate.Code)
		require.Equal(t, "invalid_date", errorKind(t, badDate))
	})
}

func TestPagesAndSystem(t *testing.T) {
	rt := newTestRouter(t)

	t.Run("root redirects to the login page", func(t *testing.T) {
		resp := do(t, rt, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusFound, resp.Code)
		require.Equal(t, "/login", resp.Header().Get("Location"))
	})

	t.Run("auth pages are public", func(t *testing.T) {
		for _, path := range []string{"/login", "/register"} {
			resp := do(t, rt, http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, resp.Code, path)
			require.Contains(t, resp.Header().Get("Content-Type"), "text/html", path)
		}
	})

	t.Run("static assets are served", func(t *testing.T) {
		resp := do(t, rt, http.MethodGet, "/static/app.css", nil)
		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("health probes respond", func(t *testing.T) {
		require.Equal(t, http.StatusOK, do(t, rt, http.MethodGet, "/livez", nil).Code)
		require.Equal(t, http.StatusOK, do(t, rt, http.MethodGet, "/readyz", nil).Code)
	})
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pennyledger/pennyledger/internal/domain"
	"github.com/pennyledger/pennyledger/internal/store"
	"github.com/pennyledger/pennyledger/pkg/cryptox"
	"github.com/pennyledger/pennyledger/pkg/idx"
	"github.com/pennyledger/pennyledger/pkg/slogx"
)

// DefaultSessionTTL is the fixed session lifetime when none is configured.
const DefaultSessionTTL = time.Hour

var (
	// Validation failures. The caller can fix the input and resubmit.
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrMissingUsername = errors.New("missing_username")
	ErrWeakPassword    = errors.New("weak_password")

	// ErrDuplicateAccount means the email is already registered.
	ErrDuplicateAccount = errors.New("duplicate_account")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are distinguished in logs only; surfacing the
	// difference would let callers enumerate registered emails.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrNoSession means the presented token maps to no live session.
	ErrNoSession = errors.New("no_session")
)

// AuthService owns registration, login, logout, and the session gate.
// All durable state lives behind the injected Store.
type AuthService struct {
	Store      store.Store
	SessionTTL time.Duration
}

func (s *AuthService) ttl() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

// Register validates input, checks for an existing account, and persists a
// new one with a hashed password. Validation failures return before any
// store access. The returned account has its PasswordHash cleared.
//
// The duplicate pre-check gives a friendly error on the common path, but
// the unique index on email is the real guard: a concurrent registration
// losing the race gets ErrDuplicateAccount from the insert itself.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return domain.Account{}, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.Account{}, ErrMissingUsername
	}
	if err := ValidatePassword(password); err != nil {
		return domain.Account{}, err
	}

	_, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.Account{}, ErrDuplicateAccount
	case !errors.Is(err, store.ErrNotFound):
		return domain.Account{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent registration for the same email.
			return domain.Account{}, ErrDuplicateAccount
		}
		return domain.Account{}, err
	}

	log.Info("account registered", "account_id", account.ID)

	account.PasswordHash = ""
	return account, nil
}

// Login verifies credentials and issues a new session. The returned token
// is the only copy of the raw session token; the store keeps a
// fingerprint. A login is only successful once the session row commits.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.Session, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login failed", "reason", "account not found")
			return "", domain.Session{}, ErrInvalidCredentials
		}
		return "", domain.Session{}, err
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("login failed", "reason", "password mismatch", "account_id", account.ID)
			return "", domain.Session{}, ErrInvalidCredentials
		}
		return "", domain.Session{}, err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.Session{}, err
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		AccountID: account.ID,
		Username:  account.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}

	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return "", domain.Session{}, err
	}

	log.Info("session issued", "account_id", account.ID, "session_id", session.ID)
	return token, session, nil
}

// Logout destroys the session for the given token. Idempotent: an invalid,
// expired, or already-destroyed token is not an error. Only infrastructure
// failures propagate.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	err := s.Store.Sessions().DeleteSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// Resolve is the access gate: it maps a session token to its authenticated
// user record. Missing and expired sessions both return ErrNoSession.
// Expiry is fixed-TTL; resolving never extends a session.
func (s *AuthService) Resolve(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, ErrNoSession
	}

	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrNoSession
		}
		return domain.Session{}, err
	}

	if session.Expired(time.Now().UTC()) {
		return domain.Session{}, ErrNoSession
	}
	return session, nil
}

package store

import (
	"context"
	"errors"

	"github.com/pennyledger/pennyledger/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. It exposes sub-repositories to keep concerns tidy and
// testable, and lets services take the whole store while tests swap in an
// in-memory database.
type Store interface {
	Accounts() Accounts
	Sessions() Sessions
	Ledger() Ledger

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST Commit() or Rollback().
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped store with Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account (id provided by the app via ULID).
	// The unique index on email is the final authority against duplicate
	// registration; a constraint violation surfaces as ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	// GetAccountByEmail looks up an account by its normalized email.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// CountAccountsByEmail reports how many rows share an email. Only used
	// by tests to assert the uniqueness invariant.
	CountAccountsByEmail(ctx context.Context, email string) (int, error)
}

type Sessions interface {
	// CreateSession stores a new session record keyed by token fingerprint.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns the session for a token fingerprint.
	// Expiry is not filtered here; callers decide how stale rows behave.
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)

	// DeleteSessionByTokenHash destroys a session. Deleting an absent row
	// returns ErrNotFound so callers can decide whether that matters.
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type Ledger interface {
	// CreateTransaction inserts a new expense entry.
	CreateTransaction(ctx context.Context, t domain.Transaction) error

	// ListTransactionsByAccount returns an account's entries, newest first.
	ListTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

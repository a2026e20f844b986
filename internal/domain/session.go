package domain

import "time"

// Session grants the bearer of its opaque token authenticated access until
// ExpiresAt. The raw token never touches the store; only its SHA-256
// fingerprint is kept. Username is denormalized so the access gate resolves
// in a single row read.
type Session struct {
	ID        string
	TokenHash string
	AccountID string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is logically absent at t, even if
// housekeeping has not purged the row yet.
func (s Session) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

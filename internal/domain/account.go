package domain

import "time"

// Account is a registered identity. Email is unique (stored lower-cased);
// Username is a display label and carries no uniqueness guarantee.
type Account struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // argon2id PHC encoded, opaque outside cryptox
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

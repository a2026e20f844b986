package domain

import "time"

// Transaction is a single expense entry, always scoped to the account that
// recorded it.
type Transaction struct {
	ID         string
	AccountID  string
	Amount     float64
	Category   string
	OccurredOn string // calendar date, ISO 8601 (2006-01-02)
	Notes      string
	CreatedAt  time.Time
}

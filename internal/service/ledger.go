package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/pennyledger/pennyledger/internal/domain"
	"github.com/pennyledger/pennyledger/internal/store"
	"github.com/pennyledger/pennyledger/pkg/idx"
)

var (
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidDate   = errors.New("invalid_date")
)

// LedgerService records and lists expense entries for an account.
type LedgerService struct {
	Store store.Store
}

// Add validates and persists a new expense entry for the account.
func (s *LedgerService) Add(ctx context.Context, accountID string, amount float64, category, occurredOn, notes string) (domain.Transaction, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.Transaction{}, ErrInvalidAmount
	}

	occurredOn = strings.TrimSpace(occurredOn)
	if occurredOn != "" {
		if _, err := time.Parse("2006-01-02", occurredOn); err != nil {
			return domain.Transaction{}, ErrInvalidDate
		}
	}

	t := domain.Transaction{
		ID:         idx.New().String(),
		AccountID:  accountID,
		Amount:     amount,
		Category:   strings.TrimSpace(category),
		OccurredOn: occurredOn,
		Notes:      strings.TrimSpace(notes),
	}

	if err := s.Store.Ledger().CreateTransaction(ctx, t); err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}

// List returns the account's entries, newest first.
func (s *LedgerService) List(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	return s.Store.Ledger().ListTransactionsByAccount(ctx, accountID)
}

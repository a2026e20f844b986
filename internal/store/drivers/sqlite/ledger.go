package sqlite

import (
	"context"
	"time"

	"github.com/pennyledger/pennyledger/internal/domain"
)

type ledgerRepo struct {
	db dbtx
}

func (r *ledgerRepo) CreateTransaction(ctx context.Context, t domain.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, account_id, amount, category, occurred_on, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.Amount, t.Category, t.OccurredOn, t.Notes, time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *ledgerRepo) ListTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, amount, category, occurred_on, notes, created_at
		FROM transactions WHERE account_id = ?
		ORDER BY id DESC`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &t.Category, &t.OccurredOn, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

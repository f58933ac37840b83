package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// GetNetCash sums the user's cash ledger: income counts positive, everything
// else negative
func (r *transactionRepository) GetNetCash(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)::text
		FROM transactions
		WHERE user_id = $1
	`

	var netStr string
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&netStr); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get net cash: %w", err)
	}

	net, err := decimal.NewFromString(netStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse net cash: %w", err)
	}

	return net, nil
}

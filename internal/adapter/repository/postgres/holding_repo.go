package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

// GetTickers retrieves the tickers of every holding owned by the user
func (r *holdingRepository) GetTickers(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `SELECT ticker FROM investments WHERE user_id = $1 ORDER BY ticker`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickers: %w", err)
	}

	return tickers, nil
}

// GetAllJoined retrieves every holding joined with its catalog entry, the
// shape the valuation engine consumes
func (r *holdingRepository) GetAllJoined(ctx context.Context, userID uuid.UUID) ([]domain.PortfolioRow, error) {
	query := `
		SELECT i.ticker, COALESCE(a.name, i.ticker), i.quantity, i.avg_buy_price,
		       COALESCE(a.current_price::text, '0'), COALESCE(a.source, ''),
		       COALESCE(a.api_ticker, ''), COALESCE(a.currency, ''),
		       COALESCE(a.icon_url, '')
		FROM investments i
		LEFT JOIN assets a ON a.ticker = i.ticker
		WHERE i.user_id = $1
		ORDER BY i.ticker
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	defer rows.Close()

	var result []domain.PortfolioRow
	for rows.Next() {
		var row domain.PortfolioRow
		var quantityStr, avgBuyStr, priceStr, source string

		err := rows.Scan(
			&row.Ticker,
			&row.Name,
			&quantityStr,
			&avgBuyStr,
			&priceStr,
			&source,
			&row.APITicker,
			&row.Currency,
			&row.IconURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		row.Source = domain.Provider(source)

		if row.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
			return nil, fmt.Errorf("failed to parse quantity: %w", err)
		}
		if row.AvgBuyPrice, err = decimal.NewFromString(avgBuyStr); err != nil {
			return nil, fmt.Errorf("failed to parse avg_buy_price: %w", err)
		}
		if row.CurrentPrice, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("failed to parse current_price: %w", err)
		}

		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}

	return result, nil
}

// Add creates a new holding
func (r *holdingRepository) Add(ctx context.Context, userID uuid.UUID, holding *domain.Holding) error {
	query := `
		INSERT INTO investments (user_id, ticker, quantity, avg_buy_price)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		userID,
		holding.Ticker,
		holding.Quantity.String(),
		holding.AvgBuyPrice.String(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				return domain.ErrHoldingExists
			case "23503": // foreign_key_violation on assets
				return domain.ErrAssetNotFound
			}
		}
		return fmt.Errorf("failed to add holding: %w", err)
	}

	return nil
}

// Update replaces the quantity and cost basis of an existing holding
func (r *holdingRepository) Update(ctx context.Context, userID uuid.UUID, ticker string, quantity, avgBuyPrice decimal.Decimal) error {
	query := `
		UPDATE investments
		SET quantity = $3, avg_buy_price = $4
		WHERE user_id = $1 AND ticker = $2
	`

	result, err := r.db.ExecContext(ctx, query, userID, ticker, quantity.String(), avgBuyPrice.String())
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrHoldingNotFound
	}

	return nil
}

// Delete removes a holding and reports how many rows were deleted
func (r *holdingRepository) Delete(ctx context.Context, userID uuid.UUID, ticker string) (int64, error) {
	query := `DELETE FROM investments WHERE user_id = $1 AND ticker = $2`

	result, err := r.db.ExecContext(ctx, query, userID, ticker)
	if err != nil {
		return 0, fmt.Errorf("failed to delete holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}

// GetTotalInvested sums quantity times cost basis over every holding, in USD
func (r *holdingRepository) GetTotalInvested(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity * avg_buy_price), 0)::text
		FROM investments
		WHERE user_id = $1
	`

	var totalStr string
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&totalStr); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get total invested: %w", err)
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse total invested: %w", err)
	}

	return total, nil
}

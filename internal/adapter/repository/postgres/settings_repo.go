package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// settingsRepository implements domain.SettingsRepository
type settingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) domain.SettingsRepository {
	return &settingsRepository{db: db}
}

// GetBaseCurrency retrieves the user's reporting currency, defaulting to USD
// for users who never picked one
func (r *settingsRepository) GetBaseCurrency(ctx context.Context, userID uuid.UUID) (string, error) {
	query := `SELECT base_currency FROM user_settings WHERE user_id = $1`

	var currency string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "USD", nil
		}
		return "", fmt.Errorf("failed to get base currency: %w", err)
	}

	return currency, nil
}

// SetBaseCurrency stores the user's reporting currency
func (r *settingsRepository) SetBaseCurrency(ctx context.Context, userID uuid.UUID, currency string) error {
	query := `
		INSERT INTO user_settings (user_id, base_currency)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET base_currency = EXCLUDED.base_currency
	`

	_, err := r.db.ExecContext(ctx, query, userID, currency)
	if err != nil {
		return fmt.Errorf("failed to set base currency: %w", err)
	}

	return nil
}

// ValidateCurrency reports whether the code exists in the currencies table
func (r *settingsRepository) ValidateCurrency(ctx context.Context, currency string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM currencies WHERE code = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, currency).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to validate currency: %w", err)
	}

	return exists, nil
}

// EnsureCurrency inserts a currency code, leaving any existing row untouched
func (r *settingsRepository) EnsureCurrency(ctx context.Context, code, name string) error {
	query := `
		INSERT INTO currencies (code, name)
		VALUES ($1, $2)
		ON CONFLICT (code) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, code, name)
	if err != nil {
		return fmt.Errorf("failed to ensure currency: %w", err)
	}

	return nil
}

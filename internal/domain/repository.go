package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetCatalog defines the interface for asset catalog persistence operations.
// The catalog is global data: a ticker maps to the same provider and price for
// every user.
type AssetCatalog interface {
	// GetAsset retrieves a catalog entry by ticker.
	// Returns ErrAssetNotFound if the ticker is not in the catalog.
	GetAsset(ctx context.Context, ticker string) (*Asset, error)

	// ListAssets retrieves all catalog entries ordered by ticker.
	ListAssets(ctx context.Context) ([]*Asset, error)

	// UpdateAssetPrice records the last known price and its currency for a
	// ticker.
	UpdateAssetPrice(ctx context.Context, ticker string, price decimal.Decimal, currency string) error

	// UpdateAssetIcon records an icon URL for a ticker.
	UpdateAssetIcon(ctx context.Context, ticker string, iconURL string) error

	// EnsureAsset inserts a catalog entry if the ticker is not present yet.
	// Existing entries are left untouched.
	EnsureAsset(ctx context.Context, asset *Asset) error
}

// HoldingRepository defines the interface for portfolio persistence operations.
type HoldingRepository interface {
	// GetTickers retrieves the distinct tickers a user holds.
	GetTickers(ctx context.Context, userID uuid.UUID) ([]string, error)

	// GetAllJoined retrieves a user's holdings joined with their catalog
	// entries, ready for valuation.
	GetAllJoined(ctx context.Context, userID uuid.UUID) ([]PortfolioRow, error)

	// Add creates a new holding.
	// Returns ErrHoldingExists if the user already holds the ticker and
	// ErrAssetNotFound if the ticker is not in the catalog.
	Add(ctx context.Context, userID uuid.UUID, holding *Holding) error

	// Update changes quantity and average buy price of an existing holding.
	Update(ctx context.Context, userID uuid.UUID, ticker string, quantity, avgBuyPrice decimal.Decimal) error

	// Delete removes a holding and returns the number of rows removed.
	Delete(ctx context.Context, userID uuid.UUID, ticker string) (int64, error)

	// GetTotalInvested returns the sum of quantity * average buy price over
	// a user's holdings, in USD.
	GetTotalInvested(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

// SettingsRepository defines the interface for user settings persistence.
type SettingsRepository interface {
	// GetBaseCurrency returns the user's chosen base currency.
	GetBaseCurrency(ctx context.Context, userID uuid.UUID) (string, error)

	// SetBaseCurrency changes the user's base currency.
	SetBaseCurrency(ctx context.Context, userID uuid.UUID, currency string) error

	// ValidateCurrency reports whether a currency code is known.
	ValidateCurrency(ctx context.Context, code string) (bool, error)

	// EnsureCurrency inserts a currency code if it is not known yet.
	EnsureCurrency(ctx context.Context, code, name string) error
}

// TransactionRepository exposes the slice of the cash ledger the valuation
// side depends on. Transaction CRUD itself lives outside this core.
type TransactionRepository interface {
	// GetNetCash returns the user's net cash balance in their base
	// currency: income minus expenses over all recorded transactions.
	GetNetCash(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

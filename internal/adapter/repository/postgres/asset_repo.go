package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// assetRepository implements domain.AssetCatalog
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset catalog repository
func NewAssetRepository(db *DB) domain.AssetCatalog {
	return &assetRepository{db: db}
}

// GetAsset retrieves one catalog entry by its display ticker
func (r *assetRepository) GetAsset(ctx context.Context, ticker string) (*domain.Asset, error) {
	query := `
		SELECT ticker, name, asset_type, api_ticker, source, currency,
		       current_price, icon_url, last_updated
		FROM assets
		WHERE ticker = $1
	`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, ticker))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return asset, nil
}

// ListAssets retrieves the full asset catalog ordered by ticker
func (r *assetRepository) ListAssets(ctx context.Context) ([]*domain.Asset, error) {
	query := `
		SELECT ticker, name, asset_type, api_ticker, source, currency,
		       current_price, icon_url, last_updated
		FROM assets
		ORDER BY ticker
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}

	return assets, nil
}

// UpdateAssetPrice records the last known price and its quote currency
func (r *assetRepository) UpdateAssetPrice(ctx context.Context, ticker string, price decimal.Decimal, currency string) error {
	query := `
		UPDATE assets
		SET current_price = $2, currency = $3, last_updated = NOW()
		WHERE ticker = $1
	`

	_, err := r.db.ExecContext(ctx, query, ticker, price.String(), currency)
	if err != nil {
		return fmt.Errorf("failed to update asset price: %w", err)
	}

	return nil
}

// UpdateAssetIcon stores the icon URL for an asset
func (r *assetRepository) UpdateAssetIcon(ctx context.Context, ticker string, iconURL string) error {
	query := `UPDATE assets SET icon_url = $2 WHERE ticker = $1`

	_, err := r.db.ExecContext(ctx, query, ticker, iconURL)
	if err != nil {
		return fmt.Errorf("failed to update asset icon: %w", err)
	}

	return nil
}

// EnsureAsset inserts a catalog entry, leaving any existing row untouched
func (r *assetRepository) EnsureAsset(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (ticker, name, asset_type, api_ticker, source, currency)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
		ON CONFLICT (ticker) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		asset.Ticker,
		asset.Name,
		asset.AssetType,
		asset.APITicker,
		string(asset.Source),
		asset.Currency,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure asset: %w", err)
	}

	return nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var asset domain.Asset
	var apiTicker, source, currency, priceStr, iconURL sql.NullString
	var lastUpdated sql.NullTime

	err := row.Scan(
		&asset.Ticker,
		&asset.Name,
		&asset.AssetType,
		&apiTicker,
		&source,
		&currency,
		&priceStr,
		&iconURL,
		&lastUpdated,
	)
	if err != nil {
		return nil, err
	}

	asset.APITicker = apiTicker.String
	asset.Source = domain.Provider(source.String)
	asset.Currency = currency.String
	asset.IconURL = iconURL.String
	if lastUpdated.Valid {
		asset.LastUpdated = lastUpdated.Time
	}

	// Parse current_price (DECIMAL, nullable for never-quoted assets)
	if priceStr.Valid {
		price, err := decimal.NewFromString(priceStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse current_price: %w", err)
		}
		asset.CurrentPrice = price
	}

	return &asset, nil
}

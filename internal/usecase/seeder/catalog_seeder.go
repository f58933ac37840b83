// Package seeder populates the asset and currency catalogs on boot so a fresh
// database is immediately usable.
package seeder

import (
	"context"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// defaultCurrencies are the currencies selectable as a reporting base.
var defaultCurrencies = []struct {
	Code string
	Name string
}{
	{"USD", "US Dollar"},
	{"EUR", "Euro"},
	{"GBP", "British Pound"},
	{"SGD", "Singapore Dollar"},
	{"BRL", "Brazilian Real"},
	{"JPY", "Japanese Yen"},
	{"CHF", "Swiss Franc"},
}

// defaultAssets is the starter catalog. Each entry pins the ticker to the
// provider that quotes it and the symbol that provider expects.
var defaultAssets = []domain.Asset{
	{Ticker: "AAPL", Name: "Apple Inc.", AssetType: "stock", Source: domain.ProviderYahoo},
	{Ticker: "GOOGL", Name: "Alphabet Inc.", AssetType: "stock", Source: domain.ProviderYahoo},
	{Ticker: "MSFT", Name: "Microsoft Corporation", AssetType: "stock", Source: domain.ProviderYahoo},
	{Ticker: "VWCE", Name: "Vanguard FTSE All-World", AssetType: "etf", APITicker: "VWCE.DE", Source: domain.ProviderYahoo, Currency: "EUR"},
	{Ticker: "BTC", Name: "Bitcoin", AssetType: "crypto", APITicker: "BTCUSDT", Source: domain.ProviderBinance},
	{Ticker: "ETH", Name: "Ethereum", AssetType: "crypto", APITicker: "ETHUSDT", Source: domain.ProviderBinance},
	{Ticker: "SOL", Name: "Solana", AssetType: "crypto", APITicker: "solana", Source: domain.ProviderCoinGecko},
}

// CatalogSeeder handles seeding of the asset and currency catalogs
type CatalogSeeder struct {
	catalog  domain.AssetCatalog
	settings domain.SettingsRepository
}

// NewCatalogSeeder creates a new CatalogSeeder instance
func NewCatalogSeeder(catalog domain.AssetCatalog, settings domain.SettingsRepository) *CatalogSeeder {
	return &CatalogSeeder{
		catalog:  catalog,
		settings: settings,
	}
}

// Seed ensures the default currencies and assets exist. Rows already present
// are never overwritten, so user edits survive restarts.
func (s *CatalogSeeder) Seed(ctx context.Context) error {
	for _, c := range defaultCurrencies {
		if err := s.settings.EnsureCurrency(ctx, c.Code, c.Name); err != nil {
			return err
		}
	}

	for i := range defaultAssets {
		if err := s.catalog.EnsureAsset(ctx, &defaultAssets[i]); err != nil {
			return err
		}
	}

	return nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provider identifies the upstream quote source an asset is pinned to.
// Each asset in the catalog is resolved through exactly one provider; there is
// no cross-provider fallback for price lookups.
type Provider string

const (
	// ProviderYahoo serves equities, ETFs and FX pairs. It is also the
	// default for catalog rows that predate provider pinning.
	ProviderYahoo Provider = "YAHOO"
	// ProviderBinance serves exchange-traded crypto pairs (e.g. "BTCUSDT").
	ProviderBinance Provider = "BINANCE"
	// ProviderCoinGecko serves aggregated crypto prices keyed by
	// aggregator ID (e.g. "bitcoin"), and is the only source of icons.
	ProviderCoinGecko Provider = "COINGECKO"
)

// Asset represents a row in the asset catalog: the mapping from a
// caller-facing ticker to the provider that quotes it, plus the last price
// fetched for it.
type Asset struct {
	Ticker    string
	Name      string
	AssetType string
	// APITicker is the symbol actually sent upstream. Empty means the
	// raw ticker is used as-is.
	APITicker string
	// Source is the pinned provider. Empty means ProviderYahoo.
	Source Provider
	// Currency is the native currency of the quoted price. Empty means USD.
	Currency     string
	CurrentPrice decimal.Decimal
	IconURL      string
	LastUpdated  time.Time
}

// ProviderSymbol returns the symbol to send upstream for this asset.
func (a *Asset) ProviderSymbol() string {
	if a.APITicker != "" {
		return a.APITicker
	}
	return a.Ticker
}

// QuoteSource returns the pinned provider, applying the legacy default.
func (a *Asset) QuoteSource() Provider {
	if a.Source != "" {
		return a.Source
	}
	return ProviderYahoo
}

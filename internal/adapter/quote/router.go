// Package quote routes price lookups to the upstream provider an asset is
// pinned to, and normalizes every provider failure into a single typed error.
package quote

import (
	"context"
	"fmt"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// Fetcher performs exactly one upstream call for a provider symbol. It does
// not retry and does not fall back to another provider.
type Fetcher interface {
	FetchQuote(ctx context.Context, symbol string) (domain.PriceQuote, error)
}

// Router dispatches a lookup to the single adapter matching an asset's
// pinned provider. Unknown providers are a configuration error.
type Router struct {
	fetchers map[domain.Provider]Fetcher
}

// NewRouter creates a router over the supported provider set.
func NewRouter(yahoo, binance, coingecko Fetcher) *Router {
	return &Router{
		fetchers: map[domain.Provider]Fetcher{
			domain.ProviderYahoo:     yahoo,
			domain.ProviderBinance:   binance,
			domain.ProviderCoinGecko: coingecko,
		},
	}
}

// Resolve fetches the current quote for ticker through the given provider,
// sending symbol upstream. Adapter failures come back as *domain.QuoteError
// carrying the caller-facing ticker, so callers never see provider-specific
// parse detail.
func (r *Router) Resolve(ctx context.Context, ticker, symbol string, source domain.Provider) (domain.PriceQuote, error) {
	fetcher, ok := r.fetchers[source]
	if !ok {
		return domain.PriceQuote{}, fmt.Errorf("%w: %q for %s", domain.ErrUnsupportedProvider, source, ticker)
	}

	q, err := fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return domain.PriceQuote{}, &domain.QuoteError{Ticker: ticker, Cause: err}
	}
	return q, nil
}

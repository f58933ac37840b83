// Package pricing owns price acquisition: cache-or-fetch of current prices,
// cached exchange-rate lookups, and the concurrent refresh fan-out.
package pricing

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/cache"
	"github.com/centavo-app/centavo-backend/internal/domain"
)

// QuoteRouter resolves a price through the provider an asset is pinned to.
type QuoteRouter interface {
	Resolve(ctx context.Context, ticker, symbol string, source domain.Provider) (domain.PriceQuote, error)
}

// RateFetcher resolves an exchange rate between two ISO currency codes.
type RateFetcher interface {
	FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// IconFetcher looks up an icon URL for an aggregator coin ID.
type IconFetcher interface {
	FetchIcon(ctx context.Context, id string) (string, error)
}

// Service handles price and exchange-rate acquisition.
type Service struct {
	catalog    domain.AssetCatalog
	router     QuoteRouter
	rates      RateFetcher
	icons      IconFetcher
	priceCache *cache.Cache
	rateCache  *cache.Cache
	log        zerolog.Logger
}

// NewService creates a new pricing Service instance. Both caches are created
// once at process start and shared by reference.
func NewService(
	catalog domain.AssetCatalog,
	router QuoteRouter,
	rates RateFetcher,
	icons IconFetcher,
	priceCache *cache.Cache,
	rateCache *cache.Cache,
	log zerolog.Logger,
) *Service {
	return &Service{
		catalog:    catalog,
		router:     router,
		rates:      rates,
		icons:      icons,
		priceCache: priceCache,
		rateCache:  rateCache,
		log:        log.With().Str("component", "pricing").Logger(),
	}
}

// GetPrice returns the current price for ticker. A cache hit within the TTL
// returns immediately; on a miss the price is fetched from the asset's pinned
// provider and written back to both the cache and the catalog. Failures are
// never cached and surface to the caller as typed errors.
func (s *Service) GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	return s.priceCache.GetOrFetch(ctx, ticker, func(ctx context.Context) (decimal.Decimal, error) {
		s.log.Debug().Str("ticker", ticker).Msg("Price cache miss")
		return s.fetchAndPersist(ctx, ticker)
	})
}

// fetchAndPersist resolves the asset's provider and symbol, fetches the quote
// and records it as the last known price. The catalog write is best-effort:
// the cache and the persisted price are only eventually consistent.
func (s *Service) fetchAndPersist(ctx context.Context, ticker string) (decimal.Decimal, error) {
	symbol := ticker
	source := domain.ProviderYahoo

	asset, err := s.catalog.GetAsset(ctx, ticker)
	switch {
	case err == nil:
		symbol = asset.ProviderSymbol()
		source = asset.QuoteSource()
		if asset.IconURL == "" && source == domain.ProviderCoinGecko {
			s.populateIcon(ctx, ticker, symbol)
		}
	case errors.Is(err, domain.ErrAssetNotFound):
		// Legacy rows: quote the raw ticker through the default provider.
	default:
		return decimal.Decimal{}, err
	}

	quote, err := s.router.Resolve(ctx, ticker, symbol, source)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := s.catalog.UpdateAssetPrice(ctx, ticker, quote.Price, quote.Currency); err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to persist price")
	}

	return quote.Price, nil
}

// populateIcon fetches and stores a missing icon URL. Icons are cosmetic, so
// every failure is logged and swallowed.
func (s *Service) populateIcon(ctx context.Context, ticker, symbol string) {
	s.log.Info().Str("ticker", ticker).Msg("Missing icon, fetching")

	url, err := s.icons.FetchIcon(ctx, symbol)
	if err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to fetch icon")
		return
	}
	if url == "" {
		s.log.Warn().Str("ticker", ticker).Msg("No icon found")
		return
	}

	if err := s.catalog.UpdateAssetIcon(ctx, ticker, url); err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to save icon")
		return
	}
	s.log.Info().Str("ticker", ticker).Msg("Updated icon")
}

// GetRate returns the multiplier converting from into to. Same-currency pairs
// are 1 without any I/O; other pairs are served from the FX cache or fetched.
func (s *Service) GetRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	key := from + "_" + to
	return s.rateCache.GetOrFetch(ctx, key, func(ctx context.Context) (decimal.Decimal, error) {
		s.log.Debug().Str("from", from).Str("to", to).Msg("Rate cache miss")
		return s.rates.FetchRate(ctx, from, to)
	})
}

// RefreshAll freshens the price of every distinct ticker concurrently and
// waits for all fetches to settle. Individual failures are logged and do not
// affect the other tickers; the return value is the number of tickers
// attempted, not the number that succeeded.
func (s *Service) RefreshAll(ctx context.Context, tickers []string) int {
	seen := make(map[string]struct{}, len(tickers))
	var wg sync.WaitGroup

	for _, t := range tickers {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}

		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			if _, err := s.GetPrice(ctx, ticker); err != nil {
				s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to refresh price")
			}
		}(t)
	}

	wg.Wait()
	return len(seen)
}

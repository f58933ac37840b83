// Package binance fetches crypto pair prices from the Binance spot ticker
// endpoint.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

const defaultBaseURL = "https://api.binance.com"

// Client for the Binance spot API.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Binance client.
func NewClient(httpClient *http.Client, log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  httpClient,
		log:     log.With().Str("client", "binance").Logger(),
	}
}

type tickerResponse struct {
	Symbol string `json:"symbol"`
	// Binance quotes the price as a string, e.g. "0.69300000".
	Price string `json:"price"`
}

// FetchQuote fetches the current price for a pair symbol such as "BTCUSDT".
// Symbols are uppercased before the call; results are assumed USD-denominated.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	endpoint := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", c.baseURL, url.QueryEscape(strings.ToUpper(symbol)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("failed to build request: %w", err)
	}

	c.log.Debug().Str("symbol", symbol).Msg("Fetching quote")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("binance request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PriceQuote{}, fmt.Errorf("binance returned status %d for %s", resp.StatusCode, symbol)
	}

	var data tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.PriceQuote{}, fmt.Errorf("failed to parse binance response: %w", err)
	}

	price, err := decimal.NewFromString(data.Price)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("failed to parse binance price %q: %w", data.Price, err)
	}

	return domain.PriceQuote{Price: price, Currency: "USD"}, nil
}

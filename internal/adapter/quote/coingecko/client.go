// Package coingecko fetches aggregated crypto prices and coin icons from the
// CoinGecko API. Symbols are CoinGecko coin IDs, e.g. "bitcoin".
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

const defaultBaseURL = "https://api.coingecko.com"

// Client for the CoinGecko API.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new CoinGecko client.
func NewClient(httpClient *http.Client, log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  httpClient,
		log:     log.With().Str("client", "coingecko").Logger(),
	}
}

// FetchQuote fetches the USD price for a coin ID via the simple-price
// endpoint. Results are assumed USD-denominated.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	id := strings.ToLower(symbol)
	endpoint := fmt.Sprintf("%s/api/v3/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("failed to build request: %w", err)
	}

	c.log.Debug().Str("id", id).Msg("Fetching quote")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("coingecko request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PriceQuote{}, fmt.Errorf("coingecko returned status %d for %s", resp.StatusCode, id)
	}

	// Shape: {"bitcoin": {"usd": 45000.12}}
	var data map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.PriceQuote{}, fmt.Errorf("failed to parse coingecko response: %w", err)
	}

	coin, ok := data[id]
	if !ok {
		return domain.PriceQuote{}, fmt.Errorf("no price data for %s", id)
	}
	usd, ok := coin["usd"]
	if !ok {
		return domain.PriceQuote{}, fmt.Errorf("no USD price for %s", id)
	}

	price, err := domain.DecimalFromFloat(usd)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("failed to parse coingecko price: %w", err)
	}

	return domain.PriceQuote{Price: price, Currency: "USD"}, nil
}

type coinResponse struct {
	Image struct {
		Thumb string `json:"thumb"`
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"image"`
}

// FetchIcon looks up an icon URL for a coin ID. Returns an empty string when
// the coin has no image; used only by the best-effort icon-population path.
func (c *Client) FetchIcon(ctx context.Context, symbol string) (string, error) {
	id := strings.ToLower(symbol)
	endpoint := fmt.Sprintf(
		"%s/api/v3/coins/%s?localization=false&tickers=false&market_data=false&community_data=false&developer_data=false",
		c.baseURL, url.PathEscape(id),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("coingecko request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("coingecko returned status %d for %s", resp.StatusCode, id)
	}

	var data coinResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to parse coingecko coin response: %w", err)
	}

	if data.Image.Small != "" {
		return data.Image.Small, nil
	}
	return data.Image.Large, nil
}

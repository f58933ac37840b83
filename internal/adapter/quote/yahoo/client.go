// Package yahoo fetches equity, ETF and FX quotes from the Yahoo Finance
// chart endpoint.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// The chart endpoint rejects the default Go user agent with 403/429.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client for the Yahoo Finance chart API.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client.
func NewClient(httpClient *http.Client, log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  httpClient,
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				Currency           string   `json:"currency"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchQuote fetches the regular market price for symbol. The instrument's
// native currency comes from the payload when present, defaulting to USD.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (domain.PriceQuote, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.log.Debug().Str("symbol", symbol).Msg("Fetching quote")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("yahoo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PriceQuote{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}

	var data chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.PriceQuote{}, fmt.Errorf("failed to parse yahoo response: %w", err)
	}

	if data.Chart.Error != nil {
		return domain.PriceQuote{}, fmt.Errorf("yahoo error %s: %s", data.Chart.Error.Code, data.Chart.Error.Description)
	}
	if len(data.Chart.Result) == 0 || data.Chart.Result[0].Meta.RegularMarketPrice == nil {
		return domain.PriceQuote{}, fmt.Errorf("no quote data for %s", symbol)
	}

	meta := data.Chart.Result[0].Meta
	price, err := domain.DecimalFromFloat(*meta.RegularMarketPrice)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("failed to parse yahoo price: %w", err)
	}

	currency := meta.Currency
	if currency == "" {
		currency = "USD"
	}

	return domain.PriceQuote{Price: price, Currency: currency}, nil
}

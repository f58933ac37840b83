// Package frankfurter resolves exchange rates between ISO currency codes via
// the Frankfurter API. It is the single authoritative FX source; there is no
// provider fallback for rates.
package frankfurter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

const defaultBaseURL = "https://api.frankfurter.app"

// Client for the Frankfurter API.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Frankfurter client.
func NewClient(httpClient *http.Client, log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  httpClient,
		log:     log.With().Str("client", "frankfurter").Logger(),
	}
}

type latestResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// FetchRate returns the multiplier converting from into to, such that
// amount_in_to = amount_in_from * rate. A same-currency pair is 1 by
// definition and never touches the network. All failures come back as
// *domain.RateError.
func (c *Client) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	endpoint := fmt.Sprintf("%s/latest?from=%s&to=%s", c.baseURL, url.QueryEscape(from), url.QueryEscape(to))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Decimal{}, &domain.RateError{From: from, To: to, Cause: err}
	}

	c.log.Debug().Str("from", from).Str("to", to).Msg("Fetching rate")

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, &domain.RateError{From: from, To: to, Cause: fmt.Errorf("frankfurter request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, &domain.RateError{From: from, To: to, Cause: fmt.Errorf("frankfurter returned status %d", resp.StatusCode)}
	}

	var data latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return decimal.Decimal{}, &domain.RateError{From: from, To: to, Cause: fmt.Errorf("failed to parse frankfurter response: %w", err)}
	}

	raw, ok := data.Rates[to]
	if !ok {
		return decimal.Decimal{}, &domain.RateError{From: from, To: to, Cause: fmt.Errorf("no rate in response")}
	}

	rate, err := domain.DecimalFromFloat(raw)
	if err != nil {
		return decimal.Decimal{}, &domain.RateError{From: from, To: to, Cause: fmt.Errorf("failed to parse rate: %w", err)}
	}

	return rate, nil
}

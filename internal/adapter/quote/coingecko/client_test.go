package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestClient(serverURL string) *Client {
	c := NewClient(&http.Client{}, zerolog.Nop())
	c.baseURL = serverURL
	return c
}

func TestFetchQuote_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"bitcoin":{"usd":45000.5}}`))
	}))
	defer srv.Close()

	q, err := newTestClient(srv.URL).FetchQuote(context.Background(), "bitcoin")

	assert.NoError(t, err)
	assert.True(t, q.Price.Equal(decimal.NewFromFloat(45000.5)))
	assert.Equal(t, "USD", q.Currency)
}

func TestFetchQuote_LowercasesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"bitcoin":{"usd":45000.5}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchQuote(context.Background(), "Bitcoin")

	assert.NoError(t, err)
}

func TestFetchQuote_UnknownCoinEmptyObject(t *testing.T) {
	// CoinGecko answers 200 with an empty object for unknown IDs.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchQuote(context.Background(), "nope")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no price data")
}

func TestFetchQuote_MissingUSDEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":{"eur":42000.1}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchQuote(context.Background(), "bitcoin")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no USD price")
}

func TestFetchQuote_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchQuote(context.Background(), "bitcoin")

	assert.Error(t, err)
}

func TestFetchIcon_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/coins/bitcoin", r.URL.Path)
		w.Write([]byte(`{"image":{"thumb":"https://img.test/thumb.png","small":"https://img.test/small.png","large":"https://img.test/large.png"}}`))
	}))
	defer srv.Close()

	url, err := newTestClient(srv.URL).FetchIcon(context.Background(), "bitcoin")

	assert.NoError(t, err)
	assert.Equal(t, "https://img.test/small.png", url)
}

func TestFetchIcon_NoImageReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"image":{}}`))
	}))
	defer srv.Close()

	url, err := newTestClient(srv.URL).FetchIcon(context.Background(), "bitcoin")

	assert.NoError(t, err)
	assert.Empty(t, url)
}

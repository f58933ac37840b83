package domain

import (
	"errors"
	"fmt"
)

// ErrUnsupportedProvider indicates an asset is pinned to a provider this
// build does not know. It is a configuration defect, never retried.
var ErrUnsupportedProvider = errors.New("unsupported price provider")

// ErrAssetNotFound indicates the catalog has no row for a ticker.
var ErrAssetNotFound = errors.New("asset not found")

// ErrHoldingExists indicates the user already holds a ticker.
var ErrHoldingExists = errors.New("ticker already in portfolio")

// ErrHoldingNotFound indicates the user does not hold a ticker.
var ErrHoldingNotFound = errors.New("investment not found")

// ErrInvalidCurrency indicates a currency code the catalog does not know.
var ErrInvalidCurrency = errors.New("invalid currency code")

// ErrInvalidHolding indicates a holding that fails validation.
var ErrInvalidHolding = errors.New("invalid holding")

// QuoteError reports that a price could not be obtained for a ticker.
// It covers upstream connection failures, non-success statuses, unparsable
// payloads and empty result sets alike; Cause carries the detail.
type QuoteError struct {
	Ticker string
	Cause  error
}

func (e *QuoteError) Error() string {
	return fmt.Sprintf("price unavailable for %s: %v", e.Ticker, e.Cause)
}

func (e *QuoteError) Unwrap() error { return e.Cause }

// RateError reports that an exchange rate could not be obtained for a
// currency pair.
type RateError struct {
	From  string
	To    string
	Cause error
}

func (e *RateError) Error() string {
	return fmt.Sprintf("exchange rate unavailable for %s -> %s: %v", e.From, e.To, e.Cause)
}

func (e *RateError) Unwrap() error { return e.Cause }

package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// PriceQuote is the normalized result of a provider lookup: a price and the
// currency that price is denominated in. Immutable once returned.
type PriceQuote struct {
	Price    decimal.Decimal
	Currency string
}

// DecimalFromFloat converts a floating-point amount from an upstream JSON
// payload to an exact decimal. Upstream providers quote money as JSON numbers;
// the conversion happens once at the parse boundary and floats never travel
// further. NaN and infinities are rejected rather than propagated.
func DecimalFromFloat(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Decimal{}, fmt.Errorf("not a finite number: %v", v)
	}
	return decimal.NewFromFloat(v), nil
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Holding represents a position a user holds in a single asset.
// Quantity may be fractional; AvgBuyPrice is in the asset's native currency.
type Holding struct {
	Ticker      string
	Quantity    decimal.Decimal
	AvgBuyPrice decimal.Decimal
}

// Validate ensures the holding adheres to domain rules.
// Returns an error if validation fails.
func (h *Holding) Validate() error {
	if h.Ticker == "" {
		return fmt.Errorf("%w: ticker cannot be empty", ErrInvalidHolding)
	}
	if h.Quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidHolding)
	}
	if h.AvgBuyPrice.IsNegative() {
		return fmt.Errorf("%w: average buy price cannot be negative", ErrInvalidHolding)
	}
	return nil
}

// PortfolioRow is a holding joined with its catalog entry: the input shape of
// the valuation engine. The join is performed by the repository, not computed
// here.
type PortfolioRow struct {
	Ticker       string
	Name         string
	Quantity     decimal.Decimal
	AvgBuyPrice  decimal.Decimal
	CurrentPrice decimal.Decimal
	Source       Provider
	APITicker    string
	// Currency is the asset's native currency; empty means USD.
	Currency string
	IconURL  string
}

// InvestmentSummary is the per-holding valuation result. Native figures keep
// the asset's own currency; converted figures are in the user's base currency.
// ChangePct is computed from native prices only, so it is currency-invariant.
type InvestmentSummary struct {
	Ticker                string
	Name                  string
	Quantity              decimal.Decimal
	AvgBuyPrice           decimal.Decimal
	AvgBuyPriceConverted  decimal.Decimal
	CurrentPrice          decimal.Decimal
	CurrentPriceConverted decimal.Decimal
	TotalValue            decimal.Decimal
	TotalValueConverted   decimal.Decimal
	ChangePct             decimal.Decimal
	// Currency is the base currency the converted figures are expressed in.
	Currency      string
	AssetCurrency string
	IconURL       string
}

// PortfolioReport is the aggregate valuation of all of a user's holdings.
// Totals are in the base currency. Never persisted; built fresh per request.
type PortfolioReport struct {
	Investments    []InvestmentSummary
	TotalCost      decimal.Decimal
	TotalValue     decimal.Decimal
	AbsoluteChange decimal.Decimal
}

// FinancialHealth is the user's net-worth snapshot in their base currency.
type FinancialHealth struct {
	CashBalance       decimal.Decimal
	InvestmentBalance decimal.Decimal
	TotalNetWorth     decimal.Decimal
}

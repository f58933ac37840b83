// Package portfolio owns holdings management and valuation: per-holding
// summaries, the aggregated portfolio report, and the net-worth roll-up.
package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

var one = decimal.NewFromInt(1)

// ChangePercent returns the percentage gain or loss of current over avgBuy.
// A non-positive cost basis yields 0 rather than a division error.
func ChangePercent(avgBuy, current decimal.Decimal) decimal.Decimal {
	if avgBuy.Sign() <= 0 {
		return decimal.Zero
	}
	return current.Sub(avgBuy).Div(avgBuy).Mul(decimal.NewFromInt(100))
}

// conversionRate picks the multiplier that converts an amount in currency
// into the base currency. A missing rate degrades to 1 so a single FX gap
// does not blank out the whole report.
func conversionRate(currency, base string, rates map[string]decimal.Decimal) decimal.Decimal {
	if currency == base {
		return one
	}
	if rate, ok := rates[currency]; ok {
		return rate
	}
	return one
}

// SummarizeHolding values one holding at the given live price. Monetary
// amounts are computed in the asset's native currency first, then converted
// to base; the change percentage uses native prices only, so it is immune
// to FX noise.
func SummarizeHolding(row domain.PortfolioRow, price decimal.Decimal, base string, rates map[string]decimal.Decimal) domain.InvestmentSummary {
	currency := row.Currency
	if currency == "" {
		currency = "USD"
	}
	rate := conversionRate(currency, base, rates)

	totalValue := price.Mul(row.Quantity)

	return domain.InvestmentSummary{
		Ticker:                row.Ticker,
		Name:                  row.Name,
		Quantity:              row.Quantity,
		AvgBuyPrice:           row.AvgBuyPrice,
		AvgBuyPriceConverted:  row.AvgBuyPrice.Mul(rate),
		CurrentPrice:          price,
		CurrentPriceConverted: price.Mul(rate),
		TotalValue:            totalValue,
		TotalValueConverted:   totalValue.Mul(rate),
		ChangePct:             ChangePercent(row.AvgBuyPrice, price),
		Currency:              base,
		AssetCurrency:         currency,
		IconURL:               row.IconURL,
	}
}

// BuildReport summarizes every holding and accumulates the cost, value and
// absolute change totals in the base currency.
func BuildReport(rows []domain.PortfolioRow, prices map[string]decimal.Decimal, base string, rates map[string]decimal.Decimal) domain.PortfolioReport {
	report := domain.PortfolioReport{
		Investments: make([]domain.InvestmentSummary, 0, len(rows)),
	}

	for _, row := range rows {
		price, ok := prices[row.Ticker]
		if !ok {
			price = row.CurrentPrice
		}

		summary := SummarizeHolding(row, price, base, rates)
		report.Investments = append(report.Investments, summary)

		cost := summary.AvgBuyPriceConverted.Mul(row.Quantity)
		report.TotalCost = report.TotalCost.Add(cost)
		report.TotalValue = report.TotalValue.Add(summary.TotalValueConverted)
	}

	report.AbsoluteChange = report.TotalValue.Sub(report.TotalCost)
	return report
}

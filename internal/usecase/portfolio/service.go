package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// PriceService is the pricing facade the portfolio service builds on.
type PriceService interface {
	GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
	GetRate(ctx context.Context, from, to string) (decimal.Decimal, error)
	RefreshAll(ctx context.Context, tickers []string) int
}

// Service handles holdings management, portfolio valuation and the
// net-worth roll-up.
type Service struct {
	holdings     domain.HoldingRepository
	settings     domain.SettingsRepository
	transactions domain.TransactionRepository
	prices       PriceService
	log          zerolog.Logger
}

// NewService creates a new portfolio Service instance.
func NewService(
	holdings domain.HoldingRepository,
	settings domain.SettingsRepository,
	transactions domain.TransactionRepository,
	prices PriceService,
	log zerolog.Logger,
) *Service {
	return &Service{
		holdings:     holdings,
		settings:     settings,
		transactions: transactions,
		prices:       prices,
		log:          log.With().Str("component", "portfolio").Logger(),
	}
}

// GetPortfolio refreshes every held ticker, then values the portfolio in the
// user's base currency. Stale quotes degrade to the last persisted price so
// one flaky upstream cannot take down the whole report.
func (s *Service) GetPortfolio(ctx context.Context, userID uuid.UUID) (*domain.PortfolioReport, error) {
	tickers, err := s.holdings.GetTickers(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.prices.RefreshAll(ctx, tickers)

	base, err := s.settings.GetBaseCurrency(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.holdings.GetAllJoined(ctx, userID)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		price, err := s.prices.GetPrice(ctx, row.Ticker)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", row.Ticker).Msg("Using last known price")
			continue
		}
		prices[row.Ticker] = price
	}

	rates, err := s.collectRates(ctx, rows, base)
	if err != nil {
		return nil, err
	}

	report := BuildReport(rows, prices, base, rates)
	return &report, nil
}

// collectRates fetches one conversion rate per distinct non-base asset
// currency. A rate failure fails the valuation: silently mixing currencies
// would produce a wrong total.
func (s *Service) collectRates(ctx context.Context, rows []domain.PortfolioRow, base string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal)
	for _, row := range rows {
		currency := row.Currency
		if currency == "" {
			currency = "USD"
		}
		if currency == base {
			continue
		}
		if _, ok := rates[currency]; ok {
			continue
		}

		rate, err := s.prices.GetRate(ctx, currency, base)
		if err != nil {
			return nil, err
		}
		rates[currency] = rate
	}
	return rates, nil
}

// RefreshPortfolio force-refreshes the prices of every held ticker and
// returns how many were attempted.
func (s *Service) RefreshPortfolio(ctx context.Context, userID uuid.UUID) (int, error) {
	tickers, err := s.holdings.GetTickers(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.prices.RefreshAll(ctx, tickers), nil
}

// AddInvestment validates the holding and verifies its ticker is actually
// quotable before persisting, so unpriceable positions never enter the book.
func (s *Service) AddInvestment(ctx context.Context, userID uuid.UUID, holding *domain.Holding) error {
	if err := holding.Validate(); err != nil {
		return err
	}

	if _, err := s.prices.GetPrice(ctx, holding.Ticker); err != nil {
		return err
	}

	if err := s.holdings.Add(ctx, userID, holding); err != nil {
		return err
	}

	s.log.Info().Str("ticker", holding.Ticker).Msg("Added investment")
	return nil
}

// UpdateInvestment replaces the quantity and cost basis of an existing
// holding.
func (s *Service) UpdateInvestment(ctx context.Context, userID uuid.UUID, ticker string, quantity, avgBuyPrice decimal.Decimal) error {
	holding := &domain.Holding{Ticker: ticker, Quantity: quantity, AvgBuyPrice: avgBuyPrice}
	if err := holding.Validate(); err != nil {
		return err
	}
	return s.holdings.Update(ctx, userID, ticker, quantity, avgBuyPrice)
}

// RemoveInvestment deletes a holding.
func (s *Service) RemoveInvestment(ctx context.Context, userID uuid.UUID, ticker string) error {
	affected, err := s.holdings.Delete(ctx, userID, ticker)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrHoldingNotFound
	}

	s.log.Info().Str("ticker", ticker).Msg("Removed investment")
	return nil
}

// UpdateBaseCurrency switches the currency all valuations are reported in.
func (s *Service) UpdateBaseCurrency(ctx context.Context, userID uuid.UUID, currency string) error {
	valid, err := s.settings.ValidateCurrency(ctx, currency)
	if err != nil {
		return err
	}
	if !valid {
		return domain.ErrInvalidCurrency
	}
	return s.settings.SetBaseCurrency(ctx, userID, currency)
}

// GetFinancialHealth rolls cash and investments up into a single net-worth
// figure in the base currency. Invested capital is tracked in USD, so it is
// converted once with the USD-to-base rate.
func (s *Service) GetFinancialHealth(ctx context.Context, userID uuid.UUID) (*domain.FinancialHealth, error) {
	base, err := s.settings.GetBaseCurrency(ctx, userID)
	if err != nil {
		return nil, err
	}

	netCash, err := s.transactions.GetNetCash(ctx, userID)
	if err != nil {
		return nil, err
	}

	investedUSD, err := s.holdings.GetTotalInvested(ctx, userID)
	if err != nil {
		return nil, err
	}

	rate, err := s.prices.GetRate(ctx, "USD", base)
	if err != nil {
		return nil, err
	}
	invested := investedUSD.Mul(rate)

	return &domain.FinancialHealth{
		CashBalance:       netCash,
		InvestmentBalance: invested,
		TotalNetWorth:     netCash.Add(invested),
	}, nil
}

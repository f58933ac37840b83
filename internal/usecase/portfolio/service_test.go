package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// MockHoldingRepository is a mock implementation of HoldingRepository for testing
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) GetTickers(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockHoldingRepository) GetAllJoined(ctx context.Context, userID uuid.UUID) ([]domain.PortfolioRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PortfolioRow), args.Error(1)
}

func (m *MockHoldingRepository) Add(ctx context.Context, userID uuid.UUID, holding *domain.Holding) error {
	args := m.Called(ctx, userID, holding)
	return args.Error(0)
}

func (m *MockHoldingRepository) Update(ctx context.Context, userID uuid.UUID, ticker string, quantity, avgBuyPrice decimal.Decimal) error {
	args := m.Called(ctx, userID, ticker, quantity, avgBuyPrice)
	return args.Error(0)
}

func (m *MockHoldingRepository) Delete(ctx context.Context, userID uuid.UUID, ticker string) (int64, error) {
	args := m.Called(ctx, userID, ticker)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHoldingRepository) GetTotalInvested(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepository for testing
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetBaseCurrency(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsRepository) SetBaseCurrency(ctx context.Context, userID uuid.UUID, currency string) error {
	args := m.Called(ctx, userID, currency)
	return args.Error(0)
}

func (m *MockSettingsRepository) ValidateCurrency(ctx context.Context, currency string) (bool, error) {
	args := m.Called(ctx, currency)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettingsRepository) EnsureCurrency(ctx context.Context, code, name string) error {
	args := m.Called(ctx, code, name)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) GetNetCash(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// fakePrices is a canned PriceService that records refresh calls.
type fakePrices struct {
	prices    map[string]decimal.Decimal
	priceErrs map[string]error
	rates     map[string]decimal.Decimal
	rateErr   error
	refreshed [][]string
}

func newFakePrices() *fakePrices {
	return &fakePrices{
		prices:    make(map[string]decimal.Decimal),
		priceErrs: make(map[string]error),
		rates:     make(map[string]decimal.Decimal),
	}
}

func (f *fakePrices) GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if err, ok := f.priceErrs[ticker]; ok {
		return decimal.Decimal{}, err
	}
	return f.prices[ticker], nil
}

func (f *fakePrices) GetRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if f.rateErr != nil {
		return decimal.Decimal{}, f.rateErr
	}
	return f.rates[from+"_"+to], nil
}

func (f *fakePrices) RefreshAll(ctx context.Context, tickers []string) int {
	f.refreshed = append(f.refreshed, tickers)
	return len(tickers)
}

func newTestService(holdings *MockHoldingRepository, settings *MockSettingsRepository, transactions *MockTransactionRepository, prices PriceService) *Service {
	return NewService(holdings, settings, transactions, prices, zerolog.Nop())
}

func TestGetPortfolio_ValuesHoldingsInBaseCurrency(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	holdings := new(MockHoldingRepository)
	settings := new(MockSettingsRepository)
	prices := newFakePrices()
	prices.prices["AAPL"] = d("120")
	prices.rates["USD_SGD"] = d("1.35")

	holdings.On("GetTickers", ctx, userID).Return([]string{"AAPL"}, nil)
	holdings.On("GetAllJoined", ctx, userID).Return([]domain.PortfolioRow{
		row("AAPL", "10", "100", "USD"),
	}, nil)
	settings.On("GetBaseCurrency", ctx, userID).Return("SGD", nil)

	svc := newTestService(holdings, settings, new(MockTransactionRepository), prices)

	report, err := svc.GetPortfolio(ctx, userID)

	assert.NoError(t, err)
	assert.Len(t, report.Investments, 1)
	assert.True(t, report.TotalCost.Equal(d("1350")))
	assert.True(t, report.TotalValue.Equal(d("1620")))
	assert.Equal(t, [][]string{{"AAPL"}}, prices.refreshed, "holdings are refreshed before valuation")
	holdings.AssertExpectations(t)
}

func TestGetPortfolio_QuoteFailureFallsBackToPersistedPrice(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	holdings := new(MockHoldingRepository)
	settings := new(MockSettingsRepository)
	prices := newFakePrices()
	prices.priceErrs["AAPL"] = &domain.QuoteError{Ticker: "AAPL", Cause: errors.New("down")}

	stale := row("AAPL", "10", "100", "USD")
	stale.CurrentPrice = d("115")

	holdings.On("GetTickers", ctx, userID).Return([]string{"AAPL"}, nil)
	holdings.On("GetAllJoined", ctx, userID).Return([]domain.PortfolioRow{stale}, nil)
	settings.On("GetBaseCurrency", ctx, userID).Return("USD", nil)

	svc := newTestService(holdings, settings, new(MockTransactionRepository), prices)

	report, err := svc.GetPortfolio(ctx, userID)

	assert.NoError(t, err)
	assert.True(t, report.TotalValue.Equal(d("1150")))
}

func TestGetPortfolio_RateFailurePropagates(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	holdings := new(MockHoldingRepository)
	settings := new(MockSettingsRepository)
	prices := newFakePrices()
	prices.prices["AAPL"] = d("120")
	prices.rateErr = &domain.RateError{From: "USD", To: "SGD", Cause: errors.New("down")}

	holdings.On("GetTickers", ctx, userID).Return([]string{"AAPL"}, nil)
	holdings.On("GetAllJoined", ctx, userID).Return([]domain.PortfolioRow{
		row("AAPL", "10", "100", "USD"),
	}, nil)
	settings.On("GetBaseCurrency", ctx, userID).Return("SGD", nil)

	svc := newTestService(holdings, settings, new(MockTransactionRepository), prices)

	_, err := svc.GetPortfolio(ctx, userID)

	var rateErr *domain.RateError
	assert.ErrorAs(t, err, &rateErr)
}

func TestRefreshPortfolio_ReturnsAttemptedCount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	holdings := new(MockHoldingRepository)
	prices := newFakePrices()

	holdings.On("GetTickers", ctx, userID).Return([]string{"AAPL", "BTC"}, nil)

	svc := newTestService(holdings, new(MockSettingsRepository), new(MockTransactionRepository), prices)

	n, err := svc.RefreshPortfolio(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAddInvestment_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	holdings := new(MockHoldingRepository)
	prices := newFakePrices()
	prices.prices["AAPL"] = d("180")

	holding := &domain.Holding{Ticker: "AAPL", Quantity: d("10"), AvgBuyPrice: d("150")}
	holdings.On("Add", ctx, userID, holding).Return(nil)

	svc := newTestService(holdings, new(MockSettingsRepository), new(MockTransactionRepository), prices)

	assert.NoError(t, svc.AddInvestment(ctx, userID, holding))
	holdings.AssertExpectations(t)
}

func TestAddInvestment_RejectsInvalidHolding(t *testing.T) {
	holdings := new(MockHoldingRepository)
	svc := newTestService(holdings, new(MockSettingsRepository), new(MockTransactionRepository), newFakePrices())

	err := svc.AddInvestment(context.Background(), uuid.New(), &domain.Holding{Ticker: "AAPL", Quantity: d("0"), AvgBuyPrice: d("150")})

	assert.Error(t, err)
	holdings.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddInvestment_UnpriceableTickerIsRejected(t *testing.T) {
	holdings := new(MockHoldingRepository)
	prices := newFakePrices()
	prices.priceErrs["NOPE"] = &domain.QuoteError{Ticker: "NOPE", Cause: errors.New("no data")}

	svc := newTestService(holdings, new(MockSettingsRepository), new(MockTransactionRepository), prices)

	err := svc.AddInvestment(context.Background(), uuid.New(), &domain.Holding{Ticker: "NOPE", Quantity: d("1"), AvgBuyPrice: d("1")})

	var quoteErr *domain.QuoteError
	assert.ErrorAs(t, err, &quoteErr)
	holdings.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddInvestment_DuplicatePropagates(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	holdings := new(MockHoldingRepository)
	prices := newFakePrices()
	prices.prices["AAPL"] = d("180")

	holdings.On("Add", ctx, userID, mock.Anything).Return(domain.ErrHoldingExists)

	svc := newTestService(holdings, new(MockSettingsRepository), new(MockTransactionRepository), prices)

	err := svc.AddInvestment(ctx, userID, &domain.Holding{Ticker: "AAPL", Quantity: d("10"), AvgBuyPrice: d("150")})

	assert.ErrorIs(t, err, domain.ErrHoldingExists)
}

func TestUpdateInvestment_ValidatesBeforePersisting(t *testing.T) {
	holdings := new(MockHoldingRepository)
	svc := newTestService(holdings, new(MockSettingsRepository), new(MockTransactionRepository), newFakePrices())

	err := svc.UpdateInvestment(context.Background(), uuid.New(), "AAPL", d("-1"), d("150"))

	assert.Error(t, err)
	holdings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveInvestment_NotFound(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	holdings := new(MockHoldingRepository)

	holdings.On("Delete", ctx, userID, "AAPL").Return(int64(0), nil)

	svc := newTestService(holdings, new(MockSettingsRepository), new(MockTransactionRepository), newFakePrices())

	err := svc.RemoveInvestment(ctx, userID, "AAPL")

	assert.ErrorIs(t, err, domain.ErrHoldingNotFound)
}

func TestUpdateBaseCurrency_RejectsUnknownCode(t *testing.T) {
	ctx := context.Background()
	settings := new(MockSettingsRepository)

	settings.On("ValidateCurrency", ctx, "ZZZ").Return(false, nil)

	svc := newTestService(new(MockHoldingRepository), settings, new(MockTransactionRepository), newFakePrices())

	err := svc.UpdateBaseCurrency(ctx, uuid.New(), "ZZZ")

	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
	settings.AssertNotCalled(t, "SetBaseCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBaseCurrency_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	settings := new(MockSettingsRepository)

	settings.On("ValidateCurrency", ctx, "EUR").Return(true, nil)
	settings.On("SetBaseCurrency", ctx, userID, "EUR").Return(nil)

	svc := newTestService(new(MockHoldingRepository), settings, new(MockTransactionRepository), newFakePrices())

	assert.NoError(t, svc.UpdateBaseCurrency(ctx, userID, "EUR"))
	settings.AssertExpectations(t)
}

func TestGetFinancialHealth_ConvertsInvestedCapital(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	holdings := new(MockHoldingRepository)
	settings := new(MockSettingsRepository)
	transactions := new(MockTransactionRepository)
	prices := newFakePrices()
	prices.rates["USD_SGD"] = d("1.35")

	settings.On("GetBaseCurrency", ctx, userID).Return("SGD", nil)
	transactions.On("GetNetCash", ctx, userID).Return(d("5000"), nil)
	holdings.On("GetTotalInvested", ctx, userID).Return(d("2000"), nil)

	svc := newTestService(holdings, settings, transactions, prices)

	health, err := svc.GetFinancialHealth(ctx, userID)

	assert.NoError(t, err)
	assert.True(t, health.CashBalance.Equal(d("5000")))
	assert.True(t, health.InvestmentBalance.Equal(d("2700")))
	assert.True(t, health.TotalNetWorth.Equal(d("7700")))
}

func TestGetFinancialHealth_USDBaseNeedsNoConversion(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	holdings := new(MockHoldingRepository)
	settings := new(MockSettingsRepository)
	transactions := new(MockTransactionRepository)

	settings.On("GetBaseCurrency", ctx, userID).Return("USD", nil)
	transactions.On("GetNetCash", ctx, userID).Return(d("1000"), nil)
	holdings.On("GetTotalInvested", ctx, userID).Return(d("500"), nil)

	svc := newTestService(holdings, settings, transactions, newFakePrices())

	health, err := svc.GetFinancialHealth(ctx, userID)

	assert.NoError(t, err)
	assert.True(t, health.TotalNetWorth.Equal(d("1500")))
}

// Package http exposes the REST surface: portfolio CRUD, valuation reports,
// the net-worth roll-up and the asset catalog.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/usecase/portfolio"
)

// Handlers binds the use-case services to HTTP.
type Handlers struct {
	portfolio *portfolio.Service
	catalog   domain.AssetCatalog
	log       zerolog.Logger
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(portfolioSvc *portfolio.Service, catalog domain.AssetCatalog, log zerolog.Logger) *Handlers {
	return &Handlers{
		portfolio: portfolioSvc,
		catalog:   catalog,
		log:       log.With().Str("component", "http").Logger(),
	}
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

type investmentDTO struct {
	Ticker                string `json:"ticker"`
	Name                  string `json:"name"`
	Quantity              string `json:"quantity"`
	AvgBuyPrice           string `json:"avg_buy_price"`
	AvgBuyPriceConverted  string `json:"avg_buy_price_converted"`
	CurrentPrice          string `json:"current_price"`
	CurrentPriceConverted string `json:"current_price_converted"`
	TotalValue            string `json:"total_value"`
	TotalValueConverted   string `json:"total_value_converted"`
	ChangePct             string `json:"change_pct"`
	Currency              string `json:"currency"`
	AssetCurrency         string `json:"asset_currency"`
	IconURL               string `json:"icon_url,omitempty"`
}

type portfolioDTO struct {
	Investments    []investmentDTO `json:"investments"`
	TotalCost      string          `json:"total_cost"`
	TotalValue     string          `json:"total_value"`
	AbsoluteChange string          `json:"absolute_change"`
}

type healthDTO struct {
	CashBalance       string `json:"cash_balance"`
	InvestmentBalance string `json:"investment_balance"`
	TotalNetWorth     string `json:"total_net_worth"`
}

type assetDTO struct {
	Ticker       string `json:"ticker"`
	Name         string `json:"name"`
	AssetType    string `json:"asset_type"`
	Currency     string `json:"currency,omitempty"`
	CurrentPrice string `json:"current_price"`
	IconURL      string `json:"icon_url,omitempty"`
}

type holdingRequest struct {
	Ticker      string          `json:"ticker"`
	Quantity    decimal.Decimal `json:"quantity"`
	AvgBuyPrice decimal.Decimal `json:"avg_buy_price"`
}

type currencyRequest struct {
	Currency string `json:"currency"`
}

// GetPortfolio handles GET /api/v1/portfolio
func (h *Handlers) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	report, err := h.portfolio.GetPortfolio(r.Context(), userFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: toPortfolioDTO(report)})
}

// AddInvestment handles POST /api/v1/portfolio
func (h *Handlers) AddInvestment(w http.ResponseWriter, r *http.Request) {
	var req holdingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	holding := &domain.Holding{Ticker: req.Ticker, Quantity: req.Quantity, AvgBuyPrice: req.AvgBuyPrice}
	if err := h.portfolio.AddInvestment(r.Context(), userFromContext(r.Context()), holding); err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{Success: true})
}

// UpdateInvestment handles PUT /api/v1/portfolio/{ticker}
func (h *Handlers) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	var req holdingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ticker := chi.URLParam(r, "ticker")
	if err := h.portfolio.UpdateInvestment(r.Context(), userFromContext(r.Context()), ticker, req.Quantity, req.AvgBuyPrice); err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// RemoveInvestment handles DELETE /api/v1/portfolio/{ticker}
func (h *Handlers) RemoveInvestment(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if err := h.portfolio.RemoveInvestment(r.Context(), userFromContext(r.Context()), ticker); err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// RefreshPortfolio handles POST /api/v1/portfolio/refresh
func (h *Handlers) RefreshPortfolio(w http.ResponseWriter, r *http.Request) {
	attempted, err := h.portfolio.RefreshPortfolio(r.Context(), userFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]int{"refreshed": attempted}})
}

// GetNetWorth handles GET /api/v1/analysis/net-worth
func (h *Handlers) GetNetWorth(w http.ResponseWriter, r *http.Request) {
	health, err := h.portfolio.GetFinancialHealth(r.Context(), userFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: healthDTO{
		CashBalance:       health.CashBalance.StringFixed(2),
		InvestmentBalance: health.InvestmentBalance.StringFixed(2),
		TotalNetWorth:     health.TotalNetWorth.StringFixed(2),
	}})
}

// ListAssets handles GET /api/v1/assets
func (h *Handlers) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.catalog.ListAssets(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	dtos := make([]assetDTO, 0, len(assets))
	for _, a := range assets {
		dtos = append(dtos, assetDTO{
			Ticker:       a.Ticker,
			Name:         a.Name,
			AssetType:    a.AssetType,
			Currency:     a.Currency,
			CurrentPrice: a.CurrentPrice.StringFixed(2),
			IconURL:      a.IconURL,
		})
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: dtos})
}

// UpdateCurrency handles PUT /api/v1/settings/currency
func (h *Handlers) UpdateCurrency(w http.ResponseWriter, r *http.Request) {
	var req currencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.portfolio.UpdateBaseCurrency(r.Context(), userFromContext(r.Context()), req.Currency); err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// Healthz handles GET /
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]string{"status": "ok"}})
}

func toPortfolioDTO(report *domain.PortfolioReport) portfolioDTO {
	investments := make([]investmentDTO, 0, len(report.Investments))
	for _, inv := range report.Investments {
		investments = append(investments, investmentDTO{
			Ticker:                inv.Ticker,
			Name:                  inv.Name,
			Quantity:              inv.Quantity.String(),
			AvgBuyPrice:           inv.AvgBuyPrice.StringFixed(2),
			AvgBuyPriceConverted:  inv.AvgBuyPriceConverted.StringFixed(2),
			CurrentPrice:          inv.CurrentPrice.StringFixed(2),
			CurrentPriceConverted: inv.CurrentPriceConverted.StringFixed(2),
			TotalValue:            inv.TotalValue.StringFixed(2),
			TotalValueConverted:   inv.TotalValueConverted.StringFixed(2),
			ChangePct:             inv.ChangePct.StringFixed(2),
			Currency:              inv.Currency,
			AssetCurrency:         inv.AssetCurrency,
			IconURL:               inv.IconURL,
		})
	}

	return portfolioDTO{
		Investments:    investments,
		TotalCost:      report.TotalCost.StringFixed(2),
		TotalValue:     report.TotalValue.StringFixed(2),
		AbsoluteChange: report.AbsoluteChange.StringFixed(2),
	}
}

// respondError maps domain errors onto HTTP status codes. Upstream quote and
// rate failures read as bad gateway: the request was fine, the provider was
// not.
func (h *Handlers) respondError(w http.ResponseWriter, err error) {
	var quoteErr *domain.QuoteError
	var rateErr *domain.RateError

	switch {
	case errors.Is(err, domain.ErrHoldingNotFound), errors.Is(err, domain.ErrAssetNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrHoldingExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCurrency), errors.Is(err, domain.ErrInvalidHolding),
		errors.Is(err, domain.ErrUnsupportedProvider):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &quoteErr), errors.As(err, &rateErr):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.log.Error().Err(err).Msg("Unhandled error")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Errors: []string{msg}})
}

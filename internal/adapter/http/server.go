package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles the full route tree. Everything under /api/v1 requires
// a valid bearer token; the root health check does not.
func NewRouter(h *Handlers, apiToken string, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", h.Healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(apiToken))

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", h.GetPortfolio)
			r.Post("/", h.AddInvestment)
			r.Post("/refresh", h.RefreshPortfolio)
			r.Put("/{ticker}", h.UpdateInvestment)
			r.Delete("/{ticker}", h.RemoveInvestment)
		})

		r.Get("/analysis/net-worth", h.GetNetWorth)
		r.Get("/assets", h.ListAssets)
		r.Put("/settings/currency", h.UpdateCurrency)
	})

	return r
}

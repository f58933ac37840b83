package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/centavo-app/centavo-backend/internal/adapter/fx/frankfurter"
	httpadapter "github.com/centavo-app/centavo-backend/internal/adapter/http"
	"github.com/centavo-app/centavo-backend/internal/adapter/quote"
	"github.com/centavo-app/centavo-backend/internal/adapter/quote/binance"
	"github.com/centavo-app/centavo-backend/internal/adapter/quote/coingecko"
	"github.com/centavo-app/centavo-backend/internal/adapter/quote/yahoo"
	"github.com/centavo-app/centavo-backend/internal/adapter/repository/postgres"
	"github.com/centavo-app/centavo-backend/internal/cache"
	"github.com/centavo-app/centavo-backend/internal/usecase/portfolio"
	"github.com/centavo-app/centavo-backend/internal/usecase/pricing"
	"github.com/centavo-app/centavo-backend/internal/usecase/seeder"
)

const (
	defaultAPIToken = "dev-token"
	defaultHTTPAddr = ":8080"

	defaultPriceTTL = 3 * time.Second
	defaultRateTTL  = 60 * time.Second
)

func main() {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	logger := zlog.Logger

	// 1. Setup Database
	dbConnStr := os.Getenv("DB_CONN_STR")
	if dbConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		dbConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			envOr("DB_HOST", "localhost"),
			envOr("DB_PORT", "5432"),
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_NAME", "centavo"),
		)
	}

	db, err := postgres.NewDB(dbConnStr)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// 2. Initialize Repositories (Postgres)
	assetRepo := postgres.NewAssetRepository(db)
	holdingRepo := postgres.NewHoldingRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Seed the default catalogs so a fresh database is usable right away
	catalogSeeder := seeder.NewCatalogSeeder(assetRepo, settingsRepo)
	if err := catalogSeeder.Seed(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed catalogs")
	}

	// 3. Initialize upstream clients. One pooled HTTP client is shared by
	// every provider.
	httpClient := &http.Client{Timeout: 10 * time.Second}

	yahooClient := yahoo.NewClient(httpClient, logger)
	binanceClient := binance.NewClient(httpClient, logger)
	coingeckoClient := coingecko.NewClient(httpClient, logger)
	fxClient := frankfurter.NewClient(httpClient, logger)

	quoteRouter := quote.NewRouter(yahooClient, binanceClient, coingeckoClient)

	// 4. Initialize Services (Use Cases)
	priceCache := cache.New(envDurationOr("PRICE_CACHE_TTL", defaultPriceTTL))
	rateCache := cache.New(envDurationOr("FX_CACHE_TTL", defaultRateTTL))

	pricingService := pricing.NewService(assetRepo, quoteRouter, fxClient, coingeckoClient, priceCache, rateCache, logger)
	portfolioService := portfolio.NewService(holdingRepo, settingsRepo, transactionRepo, pricingService, logger)

	// 5. Start HTTP Server
	apiToken := envOr("API_TOKEN", defaultAPIToken)
	origins := strings.Split(envOr("CORS_ORIGINS", "*"), ",")

	handlers := httpadapter.NewHandlers(portfolioService, assetRepo, logger)
	router := httpadapter.NewRouter(handlers, apiToken, origins)

	server := &http.Server{
		Addr:         envOr("HTTP_ADDR", defaultHTTPAddr),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	waitForShutdown(server, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, logger zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Forced shutdown")
	}
	logger.Info().Msg("HTTP server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		zlog.Warn().Str("key", key).Str("value", v).Msg("Invalid duration, using default")
		return fallback
	}
	return d
}

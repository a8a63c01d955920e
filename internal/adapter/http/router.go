package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dafeanyi/kobowallet/internal/adapter/http/handler"
	"github.com/dafeanyi/kobowallet/internal/adapter/http/middleware"
	"github.com/dafeanyi/kobowallet/internal/domain"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/auth"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/metrics"
	"github.com/dafeanyi/kobowallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	WalletHandler    *handler.WalletHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Health and telemetry endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Authentication
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// Wallet
	r.Route("/wallet", func(r chi.Router) {
		// The gateway calls this endpoint directly; it authenticates with a
		// body signature instead of a bearer token.
		r.Post("/paystack/webhook", cfg.WalletHandler.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
			}

			r.With(middleware.RequirePermission(domain.PermissionDeposit)).
				Post("/deposit", cfg.WalletHandler.Deposit)
			r.With(middleware.RequirePermission(domain.PermissionRead)).
				Get("/deposit/{reference}/status", cfg.WalletHandler.DepositStatus)
			r.With(middleware.RequirePermission(domain.PermissionRead)).
				Get("/balance", cfg.WalletHandler.Balance)
			r.With(middleware.RequirePermission(domain.PermissionTransfer)).
				Post("/transfer", cfg.WalletHandler.Transfer)
			r.With(middleware.RequirePermission(domain.PermissionRead)).
				Get("/transactions", cfg.WalletHandler.Transactions)
		})
	})

	return r
}

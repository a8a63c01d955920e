package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/dafeanyi/kobowallet/internal/adapter/http"
	"github.com/dafeanyi/kobowallet/internal/adapter/http/handler"
	postgresRepo "github.com/dafeanyi/kobowallet/internal/adapter/repository/postgres"
	redisRepo "github.com/dafeanyi/kobowallet/internal/adapter/repository/redis"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/auth"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/config"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/eventpublisher"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/gateway"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/logger"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/logging"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/metrics"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/postgres"
	"github.com/dafeanyi/kobowallet/internal/infrastructure/redis"
	"github.com/dafeanyi/kobowallet/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// HTTP request logging uses zerolog; everything below the adapters logs
	// through slog.
	httpLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	appLogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	slog.SetDefault(appLogger.Logger)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	refGen := postgresRepo.NewReferenceGenerator()
	numGen := postgresRepo.NewWalletNumberGenerator()

	// Payment gateway
	paystack := gateway.NewPaystackClient(gateway.Config{
		SecretKey:   cfg.PaystackSecretKey,
		BaseURL:     cfg.PaystackBaseURL,
		CallbackURL: cfg.AppBaseURL + "/wallet/deposit/callback",
		Timeout:     cfg.PaystackTimeout,
	})

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	m := metrics.New()

	// Initialize use cases
	depositUC := usecase.NewDepositUseCase(txManager, walletRepo, txnRepo, outboxRepo, paystack, cache, idGen, refGen, retrier)
	transferUC := usecase.NewTransferUseCase(txManager, walletRepo, txnRepo, outboxRepo, cache, idGen, refGen, retrier)
	queryUC := usecase.NewQueryUseCase(walletRepo, txnRepo, cache)
	userUC := usecase.NewUserUseCase(txManager, userRepo, walletRepo, idGen, numGen)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager, m)
	walletHandler := handler.NewWalletHandler(depositUC, transferUC, queryUC, paystack, m)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      authHandler,
		WalletHandler:    walletHandler,
		HealthHandler:    healthHandler,
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		Metrics:          m,
		Logger:           httpLogger,
	})

	// Start the outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewRedisPublisher(redisClient, cfg.PublisherChannel),
		Logger:     appLogger.Logger,
		BatchSize:  cfg.PublisherBatch,
		Interval:   cfg.PublisherInterval,
	})

	go func() {
		if err := publisher.Start(publisherCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

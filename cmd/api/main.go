package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/22smeargle/qzpay/internal/application/billing"
	"github.com/22smeargle/qzpay/internal/domain/provider"
	entitlementcache "github.com/22smeargle/qzpay/internal/infrastructure/cache"
	"github.com/22smeargle/qzpay/internal/infrastructure/database/postgres"
	"github.com/22smeargle/qzpay/internal/infrastructure/database/postgres/repositories"
	"github.com/22smeargle/qzpay/internal/infrastructure/database/redis"
	"github.com/22smeargle/qzpay/internal/infrastructure/provider/mercadopagoprovider"
	"github.com/22smeargle/qzpay/internal/infrastructure/provider/mockprovider"
	"github.com/22smeargle/qzpay/internal/infrastructure/provider/stripeprovider"
	httpServer "github.com/22smeargle/qzpay/internal/interfaces/http"
	"github.com/22smeargle/qzpay/pkg/config"
	"github.com/22smeargle/qzpay/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.Env)

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	logger.Info("Database connection established successfully")

	redisWrapper, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", err)
	}
	defer func() {
		if err := redisWrapper.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	logger.Info("Redis connection established successfully")

	database := postgres.NewDatabase(db, &cfg.Database)
	if err := database.AutoMigrate(repositories.AllModels()...); err != nil {
		logger.Fatal("Failed to run database migrations", err)
	}

	logger.Info("Database migrations completed successfully")

	storage := repositories.NewGormStorage(db)

	providers := provider.NewRegistry(defaultProviderName(cfg))
	providers.Register("stripe", stripeprovider.New(cfg.Stripe))
	providers.Register("mercadopago", mercadopagoprovider.New(cfg.MercadoPago))
	providers.Register("mock", mockprovider.New(cfg.Stripe.WebhookSecret))

	entitlementCache := entitlementcache.NewEntitlementCacheService(redisWrapper)

	facade := billing.New(storage, providers, billingConfig(cfg), nil, entitlementCache)
	facade.StartScheduler()
	defer facade.Teardown()

	server := httpServer.NewServer(cfg, facade)

	go func() {
		logger.Info("Starting server on port", cfg.App.Port)
		if err := server.Start(); err != nil {
			logger.Fatal("Server failed to start", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", err)
	}

	logger.Info("Server exited")
}

// defaultProviderName resolves the deployment's primary payment provider,
// falling back to the in-memory mock so a deployment with no live provider
// credentials configured still boots.
func defaultProviderName(cfg *config.Config) string {
	if cfg.Stripe.SecretKey != "" {
		return "stripe"
	}
	if cfg.MercadoPago.AccessToken != "" {
		return "mercadopago"
	}
	return "mock"
}

func billingConfig(cfg *config.Config) billing.Config {
	// The lifecycle engine counts retry intervals in whole days; the config
	// carries hours, so round each one up to the next day.
	retryDays := make([]int, len(cfg.Billing.RetryIntervalsHours))
	for i, h := range cfg.Billing.RetryIntervalsHours {
		retryDays[i] = (h + 23) / 24
	}
	return billing.Config{
		GracePeriodDays:     cfg.Billing.GracePeriodDays,
		RetryIntervals:      retryDays,
		TrialConversionDays: cfg.Billing.TrialConversionDays,
		DefaultCurrency:     cfg.Billing.DefaultCurrency,
		Livemode:            cfg.Billing.Livemode,
		DefaultProvider:     defaultProviderName(cfg),
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/uxauditpro/backend/internal/config"
	"github.com/uxauditpro/backend/internal/domain/repository"
	"github.com/uxauditpro/backend/internal/infrastructure/cache"
	"github.com/uxauditpro/backend/internal/infrastructure/database"
	httpServer "github.com/uxauditpro/backend/internal/infrastructure/http"
	"github.com/uxauditpro/backend/internal/infrastructure/provider"
	"github.com/uxauditpro/backend/internal/usecase"
	"github.com/uxauditpro/backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Development: cfg.Service.Environment != "production",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	repos := database.NewRepositories(db, zapLogger)

	// The entitlement cache is a read hint. If redis is down the service
	// runs uncached rather than refusing to start.
	var entitlementCache repository.EntitlementCache
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Warn("Redis unavailable, entitlement cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			entitlementCache = cache.NewEntitlementCache(redisClient, cfg.Redis.TTL, zapLogger)
		}
	}

	providerFactory := provider.NewFactory(cfg, zapLogger)

	entitlementService := usecase.NewEntitlementService(repos.Entitlement, entitlementCache, zapLogger)
	accountService := usecase.NewAccountService(repos.Entitlement, repos.Order, repos.Report, entitlementCache, zapLogger)
	checkoutService := usecase.NewCheckoutService(repos.Order, repos.PlanPrice, providerFactory, zapLogger)
	webhookService := usecase.NewWebhookService(repos.Order, repos.WebhookEvent, entitlementService, providerFactory, zapLogger)
	auditService := usecase.NewAuditService(repos.Report, zapLogger)
	suggestionService := usecase.NewSuggestionService(auditService, zapLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := usecase.NewSweeper(repos.Order, cfg.Service.OrderExpiry, cfg.Service.SweepInterval, zapLogger)
	go sweeper.Run(ctx)

	srv := httpServer.NewServer(cfg, zapLogger, repos, &httpServer.Services{
		Account:     accountService,
		Checkout:    checkoutService,
		Entitlement: entitlementService,
		Webhook:     webhookService,
		Audit:       auditService,
		Suggestion:  suggestionService,
	})

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Info("HTTP server stopped", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down...")
	cancel()

	if err := srv.Shutdown(context.Background()); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}

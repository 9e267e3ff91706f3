package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kittipos/namecard-bff-go/internal/config"
	"github.com/kittipos/namecard-bff-go/internal/domain"
	"github.com/kittipos/namecard-bff-go/internal/handler"
	"github.com/kittipos/namecard-bff-go/internal/infra/cache"
	"github.com/kittipos/namecard-bff-go/internal/infra/observability"
	"github.com/kittipos/namecard-bff-go/internal/infra/resilience"
	"github.com/kittipos/namecard-bff-go/internal/infra/supabase"
	"github.com/kittipos/namecard-bff-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	_ = config.LoadDotEnv(".env") // absent .env is fine
	cfg := config.Load()

	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	shutdownTracer, err := observability.InitTracer(cfg.OTLPEndpoint, "namecard-bff")
	if err != nil {
		logger.Warn("tracer init failed, continuing without export", zap.Error(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(ctx); err != nil {
				logger.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	metrics := observability.NewMetrics()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	resCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}
	breaker := resilience.NewCircuitBreaker("supabase")

	sb := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		breaker,
		resCfg,
		logger,
	)

	cardCache := cache.New[*domain.BusinessCard](cfg.CacheTTL)
	trackingBulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	svcs := handler.Services{
		Cards:     service.NewCardsService(sb, sb, cardCache, metrics, logger, cfg.TrackingTimeout, trackingBulkhead),
		VCard:     service.NewVCardService(sb, sb, metrics, logger, cfg.TrackingTimeout, trackingBulkhead),
		Templates: service.NewTemplatesService(sb, logger),
		Directory: service.NewDirectoryService(sb, logger),
		Settings:  service.NewSettingsService(sb, logger),
	}

	router := handler.NewRouter(cfg, svcs, metrics, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

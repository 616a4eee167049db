package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/config"
	"github.com/mana-finance/mana-backend-go/internal/domain"
	"github.com/mana-finance/mana-backend-go/internal/handler"
	"github.com/mana-finance/mana-backend-go/internal/infra/cache"
	"github.com/mana-finance/mana-backend-go/internal/infra/observability"
	"github.com/mana-finance/mana-backend-go/internal/infra/resilience"
	"github.com/mana-finance/mana-backend-go/internal/infra/supabase"
	"github.com/mana-finance/mana-backend-go/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = godotenv.Load()

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Int("invoice_months_back", cfg.InvoiceMonthsBack),
		zap.Int("invoice_months_forward", cfg.InvoiceMonthsForward),
	)

	if cfg.SupabaseURL == "" {
		logger.Fatal("SUPABASE_URL is required")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "mana-backend")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Caches ---
	cardCache := cache.New[[]domain.Card](cfg.CacheTTL)
	statsCache := cache.New[*domain.MonthlyStats](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("supabase")

	// --- Store ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	store := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		cb,
		resilienceCfg,
		logger,
	)

	// --- Services ---
	financeSvc := service.NewFinanceService(store, cardCache, metrics, logger)
	dashboardSvc := service.NewDashboardService(store, statsCache, metrics, logger)
	invoiceSvc := service.NewInvoiceService(store, metrics, logger, cfg.InvoiceMonthsBack, cfg.InvoiceMonthsForward)
	budgetSvc := service.NewBudgetService(store, metrics, logger)
	goalSvc := service.NewGoalService(store, metrics, logger)
	healthSvc := service.NewHealthService(store, budgetSvc, metrics, logger)
	authSvc := service.NewAuthService(store, cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Services{
		Auth:      authSvc,
		Finance:   financeSvc,
		Dashboard: dashboardSvc,
		Invoices:  invoiceSvc,
		Budgets:   budgetSvc,
		Goals:     goalSvc,
		Health:    healthSvc,
		Metrics:   metrics,
	}, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

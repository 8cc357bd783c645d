package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"bursar/internal/api"
	"bursar/internal/api/handlers"
	"bursar/internal/api/middleware"
	"bursar/internal/engine/accounts"
	"bursar/internal/engine/receipt"
	"bursar/internal/pkg/logger"
	"bursar/internal/platform/audit"
	"bursar/internal/platform/auth"
	"bursar/internal/platform/config"
	"bursar/internal/platform/database"
	"bursar/internal/platform/metrics"
	"bursar/internal/platform/repositories"
	"bursar/internal/web"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if closer := logger.Init(cfg.Logging); closer != nil {
		defer closer.Close()
	}

	// Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(context.Background(), db, cfg.Database.Driver); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	// Repositories and services
	userRepo := repositories.NewUserRepository(db, cfg.Database.Driver)
	accountSvc := accounts.NewService(userRepo)

	tokenSvc := auth.NewTokenService(cfg.Session)
	sessions := auth.NewSessionManager(tokenSvc, cfg.Session)

	store, err := receipt.NewArtifactStore(cfg.Storage.ScratchDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Storage.ScratchDir).Msg("failed to prepare scratch directory")
	}
	if _, err := os.Stat(cfg.Receipt.LogoPath); err != nil {
		log.Warn().Str("path", cfg.Receipt.LogoPath).Msg("receipt logo not found, rendering without it")
	}
	receiptSvc := receipt.NewService(store, receipt.NewRenderer(cfg.Receipt.LogoPath))

	views, err := web.Parse()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}
	m := metrics.New()
	auditLog := audit.NewLogger(log.Logger)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.AuthPerMinute)
	defer limiter.Close()

	// Router
	deps := &api.Dependencies{
		AuthHandler:    handlers.NewAuthHandler(accountSvc, sessions, views, m, auditLog),
		ReceiptHandler: handlers.NewReceiptHandler(receiptSvc, views, m, auditLog, cfg.Server.MaxUploadBytes),
		HealthHandler:  handlers.NewHealthHandler(db),
		MetricsHandler: handlers.NewMetricsHandler(m),
		AuthMiddleware: middleware.NewAuthMiddleware(sessions, accountSvc),
		RateLimiter:    limiter,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      middleware.Logging(log.Logger, router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

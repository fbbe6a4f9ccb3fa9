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

	"rfid-card-wallet/config"
	"rfid-card-wallet/internal/adapter/bus"
	httpHandler "rfid-card-wallet/internal/adapter/http/handler"
	"rfid-card-wallet/internal/adapter/notify"
	pgStorage "rfid-card-wallet/internal/adapter/storage/postgres"
	"rfid-card-wallet/internal/core/ports"
	"rfid-card-wallet/internal/service"
	"rfid-card-wallet/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("team_id", cfg.Bus.TeamID).
		Msg("Starting RFID Card Wallet backend")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Initialize Redis client for the device bus
	rdb, err := bus.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize repositories
	cardRepo := pgStorage.NewCardRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	productRepo := pgStorage.NewProductRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize device bus and observer hub (owned here, injected below)
	channels := cfg.Bus.Channels()
	publisher := bus.NewPublisher(rdb, channels, log)
	hub := notify.NewHub(cfg.Notify.ClientBuffer, log)
	defer hub.Close()

	// Initialize services
	outbox := service.NewOutbox(publisher, hub, log)
	walletSvc := service.NewWalletService(cardRepo, txRepo, productRepo, transactor, outbox, log)
	obsSvc := service.NewObservationService(cardRepo, hub, log)
	reportingSvc := service.NewReportingService(cardRepo, txRepo, productRepo)

	// Seed demo catalog (best-effort)
	if cfg.Catalog.SeedDemo {
		seeder := service.NewCatalogSeeder(productRepo, log)
		if err := seeder.Seed(ctx); err != nil {
			log.Warn().Err(err).Msg("Demo catalog seeding failed")
		}
	}

	// Start the device bus consumer
	consumer := bus.NewConsumer(rdb, channels, obsSvc, log)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Device bus consumer stopped")
		}
	}()

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := bus.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		ReportingSvc:   reportingSvc,
		Hub:            hub,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop the bus consumer and wait for it to drain
	cancel()
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Bus consumer did not stop in time")
	}

	log.Info().Msg("Server exited")
}

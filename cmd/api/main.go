// @title Crypto Quote Service API
// @version 1.0
// @description Cached cryptocurrency prices with per API key rate limiting and a scheduled refresh from CoinGecko.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"crypto-quote-service/internal/application/services"
	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/infrastructure/config"
	"crypto-quote-service/internal/infrastructure/logging"
	"crypto-quote-service/internal/infrastructure/metrics"
	"crypto-quote-service/internal/infrastructure/provider/coingecko"
	"crypto-quote-service/internal/infrastructure/repositories/kvstore"
	"crypto-quote-service/internal/infrastructure/scheduler"
	"crypto-quote-service/internal/infrastructure/web/handlers"
	"crypto-quote-service/internal/infrastructure/web/server"
)

const (
	serviceName    = "crypto-quote-service"
	serviceVersion = "1.0.0"
)

func main() {
	// .env es opcional; las variables del entorno real tienen prioridad
	envFileErr := godotenv.Load()

	environment := config.GetEnvironment()
	cfg, err := config.NewLoader().LoadForEnvironment(environment)
	if err != nil {
		fatal(context.Background(), "Failed to load configuration", err)
	}

	if err := initLogging(cfg, environment); err != nil {
		fatal(context.Background(), "Failed to initialize logging", err)
	}

	ctx := logging.WithRequestID(context.Background(), "startup")
	if envFileErr != nil {
		logging.Debug(ctx, "No .env file loaded", logging.Fields{"reason": envFileErr.Error()})
	}

	if err := config.NewValidator().Validate(cfg); err != nil {
		fatal(ctx, "Invalid configuration", err)
	}

	logging.Info(ctx, "Starting crypto quote service", logging.Fields{
		"environment":    environment,
		"version":        serviceVersion,
		"store_backend":  cfg.Store.Backend,
		"symbol_count":   len(cfg.Business.SupportedSymbols),
		"refresh_cron":   cfg.Refresh.Schedule,
		"quota_per_min":  cfg.RateLimit.Limit,
		"provider_url":   cfg.Provider.BaseURL,
		"provider_keyed": cfg.Provider.APIKey != "",
	})
	metrics.SetApplicationInfo(serviceVersion, runtime.Version())

	// 1. Almacén compartido
	store, err := kvstore.NewFactory().CreateStore(ctx, storeConfig(cfg.Store))
	if err != nil {
		fatal(ctx, "Failed to create store", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.WarnWithError(ctx, "Error closing store", err, nil)
		}
	}()

	// 2. Repositorios y núcleo
	universe := entities.NewSymbolUniverse(cfg.Business.SupportedSymbols)
	priceRepository := kvstore.NewPriceRepository(store)
	credentialRepository := kvstore.NewCredentialRepository(store)
	quotaRepository := kvstore.NewQuotaRepository(store)

	provider := coingecko.NewClient(cfg.Provider)
	cache := services.NewCacheManager(priceRepository)
	auth := services.NewAuthRateLimiter(credentialRepository, quotaRepository, services.QuotaConfig{
		Limit:      int64(cfg.RateLimit.Limit),
		Window:     cfg.RateLimit.Window,
		CounterTTL: cfg.Store.QuotaTTL,
	})
	quotes := services.NewQuoteService(auth, cache, provider, universe, services.QuoteConfig{
		FreshnessThreshold: cfg.Cache.FreshnessThreshold,
		SnapshotTTL:        cfg.Store.SnapshotTTL,
	})
	refresher := services.NewRefresher(provider, cache, universe, cfg.Store.SnapshotTTL)
	staleAfter := cfg.Refresh.Interval * time.Duration(cfg.Refresh.StaleMultiplier)
	health := services.NewHealthService(cache, store, universe, cfg.Cache.FreshnessThreshold, staleAfter)

	// 3. Precarga antes de aceptar tráfico
	if cfg.Refresh.WarmupOnStart {
		warmupCtx, cancel := context.WithTimeout(ctx, cfg.Refresh.RunTimeout)
		if err := refresher.Warmup(warmupCtx); err != nil {
			logging.WarnWithError(ctx, "Cache warm-up failed, serving stale data or 503 until the next refresh", err, nil)
		} else {
			logging.Info(ctx, "Cache warmed up", logging.Fields{logging.FieldSymbolCount: universe.Len()})
		}
		cancel()
	}

	// 4. Refresh programado
	var refreshScheduler *scheduler.RefreshScheduler
	if cfg.Refresh.Enabled {
		refreshScheduler, err = scheduler.New(refresher, scheduler.Config{
			Schedule:   cfg.Refresh.Schedule,
			RunTimeout: cfg.Refresh.RunTimeout,
		})
		if err != nil {
			fatal(ctx, "Failed to create refresh scheduler", err)
		}
		refreshScheduler.Start(ctx)
		logging.Info(ctx, "Scheduled refresh started", logging.Fields{
			"schedule": cfg.Refresh.Schedule,
			"next_run": refreshScheduler.NextRun().Format(time.RFC3339),
		})
	} else {
		logging.Warn(ctx, "Scheduled refresh disabled", nil)
	}

	// 5. HTTP
	router := server.NewRouter(server.Handlers{
		Prices: handlers.NewPricesHandler(quotes),
		Admin:  handlers.NewAdminHandler(auth, refresher),
		Health: handlers.NewHealthHandler(health),
	}, cfg.Auth)
	srv := server.NewServer(router, cfg.Server)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logging.Info(ctx, "Shutdown signal received", logging.Fields{"signal": sig.String()})
	case err := <-serverErr:
		logging.ErrorWithError(ctx, "HTTP server failed", err, nil)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if refreshScheduler != nil {
		if err := refreshScheduler.Stop(shutdownCtx); err != nil {
			logging.WarnWithError(ctx, "Refresh scheduler did not stop in time", err, nil)
		}
	}
	if err := srv.Stop(shutdownCtx); err != nil {
		logging.ErrorWithError(ctx, "Server forced to shutdown", err, nil)
	}

	logging.Info(ctx, "Server exited", nil)
}

func initLogging(cfg *config.Config, environment string) error {
	loggerConfig := logging.NewConfig(serviceName, serviceVersion, environment).
		WithLevel(logging.LogLevelFromString(cfg.Logging.Level)).
		WithFormat(logging.LogFormatFromString(cfg.Logging.Format)).
		WithSource(environment == "development")
	return logging.InitializeGlobalLoggers(loggerConfig)
}

func storeConfig(cfg config.StoreConfig) kvstore.Config {
	return kvstore.Config{
		Backend:         kvstore.Backend(cfg.Backend),
		Addr:            cfg.Redis.Addr,
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		PoolSize:        cfg.Redis.PoolSize,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
	}
}

func fatal(ctx context.Context, message string, err error) {
	logging.ErrorWithError(ctx, message, err, nil)
	os.Exit(1)
}

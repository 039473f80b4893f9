// cmd/insight-server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"aq-insight/internal/analytics"
	"aq-insight/internal/common/config"
	"aq-insight/internal/common/logger"
	"aq-insight/internal/common/observability"
	"aq-insight/internal/forecast"
	"aq-insight/internal/health"
	"aq-insight/internal/nlp"
	"aq-insight/internal/refdata"
	"aq-insight/internal/regions"
	"aq-insight/internal/service"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting insight server...")

	obs := observability.New("aq-insight")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Reference data ---
	var provider refdata.Provider
	switch cfg.Refdata.Source {
	case "postgres":
		store, err := refdata.NewPostgresStore(cfg.Refdata.PostgresURL, log)
		if err != nil {
			zapLog.Fatal("postgres store failed", zap.Error(err))
		}
		if err := store.Ping(ctx); err != nil {
			zapLog.Fatal("postgres ping failed", zap.Error(err))
		}
		defer store.Close()
		provider = store
		zapLog.Info("PostgreSQL reference data connected")
	default:
		store, err := refdata.NewFileStore(refdata.FileStoreOptions{
			HistoryPath:   cfg.Refdata.HistoryPath,
			BaselinePath:  cfg.Refdata.BaselinePath,
			AgeDetailPath: cfg.Refdata.AgeDetailPath,
			SchemaDir:     cfg.Refdata.SchemaDir,
			Validate:      cfg.Refdata.ValidateOnStart,
		}, log)
		if err != nil {
			zapLog.Fatal("file store failed", zap.Error(err))
		}
		provider = store
		zapLog.Info("File reference data loaded", zap.String("history", cfg.Refdata.HistoryPath))
	}

	infos, err := provider.Countries(ctx)
	if err != nil {
		zapLog.Fatal("country listing failed", zap.Error(err))
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}

	// --- Pipeline components ---
	resolver := regions.NewResolver(names, log)
	parser := nlp.NewParser(names, resolver, log)
	if cfg.Analysis.CurrentYear != 0 {
		parser.SetReferenceYear(cfg.Analysis.CurrentYear)
		zapLog.Info("Reference year pinned", zap.Int("year", cfg.Analysis.CurrentYear))
	}
	dispatcher := nlp.NewDispatcher(log)

	model, err := forecast.LoadModel(cfg.Refdata.ModelPath)
	if err != nil {
		zapLog.Fatal("model load failed", zap.Error(err))
	}
	forecaster := forecast.NewForecaster(provider, model, cfg.Forecast.FloorPM25, cfg.Forecast.MaxHorizonYears, log)
	engine := health.NewEngine(provider, log)
	exec := analytics.New(forecaster, engine, log)

	// --- Optional forecast cache ---
	var cache *service.ForecastCache
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			zapLog.Warn("redis unreachable, running without cache", zap.Error(err))
		} else {
			cache = service.NewForecastCache(client, cfg.Redis.TTL, log)
			defer client.Close()
			zapLog.Info("Redis forecast cache connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	svc := service.New(service.Options{
		Parser:      parser,
		Dispatcher:  dispatcher,
		Regions:     resolver,
		Forecaster:  forecaster,
		Health:      engine,
		Analytics:   exec,
		Provider:    provider,
		Cache:       cache,
		Obs:         obs,
		Logger:      log,
		CurrentYear: cfg.Analysis.CurrentYear,
	})

	// --- HTTP server ---
	api := newAPIServer(svc, log)
	mux := http.NewServeMux()
	api.register(mux)
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP shutdown error", zap.Error(err))
	}

	zapLog.Info("Insight server stopped gracefully")
}

package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/api"
	"github.com/alexivanou/weather-favorites-api/internal/cache"
	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/alexivanou/weather-favorites-api/internal/database"
	"github.com/alexivanou/weather-favorites-api/internal/metrics"
	"github.com/alexivanou/weather-favorites-api/internal/repository"
	"github.com/alexivanou/weather-favorites-api/internal/service"
	"github.com/alexivanou/weather-favorites-api/internal/stats"
	"github.com/alexivanou/weather-favorites-api/internal/weather"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB.Type); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	store, err := cache.New(ctx, cfg.Cache, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	if cfg.Weather.APIKey == "" {
		logger.Warn("WEATHER_API_KEY is not set, upstream requests will be rejected")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(registry)

	client := weather.NewClient(cfg.Weather, store, logger, weather.WithMetrics(recorder))
	repos := repository.NewRepositories(db, cfg.DB.Type)
	svc := service.NewService(client, repos, cfg.History.PerPage, recorder, logger)
	statsCollector := stats.NewCollector(db, cfg.DB.Type, stats.WithCache(string(cfg.Cache.Driver), registry))

	router := api.NewRouter(api.Dependencies{
		Service:            svc,
		Users:              repos.User,
		Stats:              statsCollector,
		Gatherer:           registry,
		Locale:             cfg.Locale,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		Logger:             logger,
	})

	srv := api.NewServer(cfg.Server, router)

	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Server.Port),
			zap.Duration("write_timeout", cfg.Server.WriteTimeout),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

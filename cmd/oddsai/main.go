package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"oddsai/internal/cache"
	"oddsai/internal/config"
	"oddsai/internal/database"
	"oddsai/internal/handlers"
	"oddsai/internal/logger"
	"oddsai/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	log := logger.New(cfg.Log.Level)
	slog.SetDefault(log)

	// money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn := cfg.Database.DSN()
	if cfg.Database.AutoMigrate {
		version, err := database.RunMigrations(dsn)
		if err != nil {
			return err
		}
		log.Info("Database schema up to date", "version", version)
	}

	pool, err := database.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("Connected to database", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	repo := database.NewPostgresRepository(pool, log)

	var responses service.ResponseCache = cache.Noop{}
	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()
		responses = cache.NewRedisCache(client)
		log.Info("Connected to Redis", "ttl", cfg.Redis.ResponseTTL())
	}

	profitService := service.NewProfitService(log, repo, repo, responses, service.ProfitOptions{
		ResponseTTL:    cfg.Redis.ResponseTTL(),
		FixtureInfoTTL: cfg.Cache.FixtureInfoTTL(),
		Location:       cfg.Profit.Location(),
	})
	matchService := service.NewMatchService(log, repo)

	h := handlers.NewHandler(log, repo, profitService, matchService)
	router := handlers.NewRouter(h, handlers.RouterOptions{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/recipe-parser/internal/api"
	"github.com/user/recipe-parser/internal/config"
	"github.com/user/recipe-parser/internal/extractor"
	"github.com/user/recipe-parser/internal/fetcher"
	"github.com/user/recipe-parser/internal/monitoring"
	"github.com/user/recipe-parser/internal/proxy"
	"github.com/user/recipe-parser/internal/recipebook"
	"github.com/user/recipe-parser/internal/storage"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func main() {
	// Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	// Initialize structured logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	identity := fetcher.Identity{
		UserAgent:      cfg.UserAgent,
		Accept:         cfg.Accept,
		AcceptLanguage: cfg.AcceptLanguage,
	}

	// Initialize the page fetcher
	var pageFetcher extractor.Fetcher
	switch cfg.FetchMode {
	case config.FetchModeBrowser:
		bf := fetcher.NewBrowserFetcher(cfg.FetchTimeout(), logger)
		defer bf.Close()
		pageFetcher = bf
	default:
		proxyManager, err := proxy.NewManager(cfg.Proxies())
		if err != nil {
			logger.Fatal("invalid proxy configuration", zap.Error(err))
		}
		opts := []fetcher.Option{fetcher.WithTimeout(cfg.FetchTimeout()), fetcher.WithLogger(logger)}
		if proxyManager.Enabled() {
			opts = append(opts, fetcher.WithProxy(proxyManager.Proxy))
		}
		pageFetcher = fetcher.NewHTTPFetcher(opts...)
	}

	checks := map[string]api.Pinger{}

	// Optional status log
	var (
		statuses api.StatusReader
		recorder extractor.StatusRecorder
	)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		redisStore := storage.NewRedisStore(client, cfg.StatusTTL())
		statuses, recorder = redisStore, redisStore
		checks["redis"] = redisStore
	}

	core := extractor.New(pageFetcher, nil, identity, logger)
	service := extractor.NewTracked(core, metrics, recorder, logger)

	// Optional recipe bookmarks
	var book api.RecipeBook
	if cfg.PostgresURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pgStore, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err == nil {
			err = pgStore.EnsureSchema(ctx)
		}
		cancel()
		if err != nil {
			logger.Fatal("failed to initialize postgres", zap.Error(err))
		}
		defer pgStore.Close()
		book = recipebook.New(pgStore, service, logger)
		checks["postgres"] = pgStore
	}

	// Initialize API Server
	// Metadata lookups bypass the tracked service so they don't overwrite extraction status.
	server := api.NewServer(cfg, service, core, statuses, book, checks, metrics, logger)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started",
		zap.String("port", cfg.ServerPort),
		zap.String("fetch_mode", cfg.FetchMode),
		zap.Bool("status_log", statuses != nil),
		zap.Bool("bookmarks", book != nil),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

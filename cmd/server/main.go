package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huvtsp/alumni/api"
	"github.com/huvtsp/alumni/internal/app"
	"github.com/huvtsp/alumni/internal/config"
	"github.com/huvtsp/alumni/internal/jobs"
	"github.com/huvtsp/alumni/internal/snapshot"
	"github.com/huvtsp/alumni/pkg/ollama"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	ollama.SetLogger(logger)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fatal(logger, "failed to load config", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal(logger, "invalid config", err)
	}

	logger.Info("starting alumni server", slog.String("version", version), slog.String("build_time", buildTime))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fatal(logger, "failed to build application", err)
	}

	refresher := snapshot.NewRefresher(a.Store, cfg.Search.RefreshSpec, logger)
	if err := refresher.Start(ctx); err != nil {
		a.Close()
		fatal(logger, "failed to start snapshot refresher", err)
	}

	deps := api.NewDeps(a.Repo, a.Search, a.Schemas)

	var pool *jobs.WorkerPool
	if cfg.Embedding.Enabled {
		emb, err := a.Embedder()
		if err != nil {
			refresher.Stop()
			a.Close()
			fatal(logger, "failed to build embedder", err)
		}
		pool = jobs.NewWorkerPool(a.Repo, map[string]jobs.Handler{
			jobs.TypeMemberEmbed: emb.Handler(),
		}, logger, cfg.Workers)
		pool.Start(ctx)
		deps.Jobs = a.Repo
		logger.Info("embedding worker pool started", slog.Int("workers", cfg.Workers), slog.String("model", cfg.Embedding.Model))
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.SetupRoutes(cfg, version, buildTime, deps),
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}

	if pool != nil {
		pool.Stop()
	}
	refresher.Stop()
	if err := a.Close(); err != nil {
		logger.Error("error closing resources", slog.Any("error", err))
	}

	logger.Info("server exited")
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	os.Exit(1)
}

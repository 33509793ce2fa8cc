// Package app assembles the long lived collaborators shared by the server
// and the operator CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	dbfs "github.com/huvtsp/alumni/db"
	"github.com/huvtsp/alumni/internal/cache"
	"github.com/huvtsp/alumni/internal/config"
	"github.com/huvtsp/alumni/internal/db"
	"github.com/huvtsp/alumni/internal/embed"
	"github.com/huvtsp/alumni/internal/match"
	"github.com/huvtsp/alumni/internal/repository/sqlite"
	"github.com/huvtsp/alumni/internal/schema"
	"github.com/huvtsp/alumni/internal/search"
	"github.com/huvtsp/alumni/internal/snapshot"
	"github.com/huvtsp/alumni/pkg/ollama"
)

type App struct {
	Config     *config.Config
	DB         *db.DB
	Repo       *sqlite.SQLiteRepo
	Cache      cache.Cache
	Store      *snapshot.Store
	Aggregator *match.Aggregator
	Search     *search.Service
	Schemas    *schema.Loader
	Logger     *slog.Logger

	ollama *ollama.Client
}

// New opens the database and builds the search stack described by cfg.
// The database is migrated first when cfg.MigrateOnStart is set.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	var err error
	if a.DB, err = db.New(ctx, cfg.DatabasePath); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, a.DB, dbfs.Migrations, nil); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	a.Repo = sqlite.New(a.DB, logger)

	opts := cache.DefaultOptions()
	opts.DefaultTTL = cfg.Search.CacheTTL
	opts.RedisAddr = cfg.Redis.Addr
	opts.RedisPassword = cfg.Redis.Password
	opts.RedisDB = cfg.Redis.DB
	if a.Cache, err = cache.New(ctx, opts); err != nil {
		a.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}

	a.Aggregator, err = match.NewAggregator(
		match.WithPoolSize(cfg.Search.Workers),
		match.WithParallelThreshold(cfg.Search.ParallelThreshold),
		match.WithResultCap(cfg.Search.ResultCap),
		match.WithLogger(logger),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build aggregator: %w", err)
	}

	var procOpts []match.ProcessorOption
	if cfg.Search.LegacyCatchAll {
		procOpts = append(procOpts, match.WithLegacyCatchAll())
	}

	a.Store = snapshot.NewStore(a.Repo, logger)
	a.Search, err = search.NewService(a.Store, a.Aggregator,
		search.WithProcessor(match.NewProcessor(procOpts...)),
		search.WithCache(a.Cache, cfg.Search.CacheTTL),
		search.WithEvents(a.Repo),
		search.WithLogger(logger),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build search service: %w", err)
	}

	if a.Schemas, err = schema.NewDefault(); err != nil {
		a.Close()
		return nil, fmt.Errorf("load schemas: %w", err)
	}
	return a, nil
}

// Embedder builds the member embedder over the configured Ollama instance.
// The client is created once and closed with the App.
func (a *App) Embedder() (*embed.Embedder, error) {
	if a.ollama == nil {
		c, err := ollama.NewDefaultClient(a.Config.Ollama)
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
		a.ollama = c
	}
	return embed.New(a.ollama, a.Repo, a.Config.Embedding.Model, a.Logger)
}

// Close releases everything New opened. It is safe on a partially built App.
func (a *App) Close() error {
	var errs []error
	if a.Aggregator != nil {
		a.Aggregator.Release()
	}
	if a.ollama != nil {
		errs = append(errs, a.ollama.Close())
	}
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

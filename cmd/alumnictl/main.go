package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	dbfs "github.com/huvtsp/alumni/db"
	"github.com/huvtsp/alumni/internal/app"
	"github.com/huvtsp/alumni/internal/config"
	"github.com/huvtsp/alumni/internal/db"
	"github.com/huvtsp/alumni/internal/match"
	"github.com/huvtsp/alumni/internal/search"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "alumnictl",
		Usage: "Operate the alumni directory from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config YAML file",
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Database path, overrides database_path from the config",
				EnvVars: []string{"ALUMNICTL_DB"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "search",
				Usage:  "Run a unified search and print the ranked results as JSON",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Free text query", Required: true},
					&cli.StringFlag{Name: "intent", Usage: "Force an intent (general, find_person, find_project, find_organization, location_based, pod_based, skill_based)"},
					&cli.StringFlag{Name: "region", Usage: "Only members in this region code"},
					&cli.StringFlag{Name: "session", Usage: "Only members of this session"},
					&cli.StringFlag{Name: "pod", Usage: "Only members of this pod"},
					&cli.StringSliceFlag{Name: "skill", Usage: "Extra skill term, repeatable"},
					&cli.StringSliceFlag{Name: "location", Usage: "Extra location term, repeatable"},
					&cli.StringSliceFlag{Name: "company", Usage: "Extra company term, repeatable"},
					&cli.StringFlag{Name: "project-type", Usage: "Only projects of this type code"},
					&cli.StringFlag{Name: "project-stage", Usage: "Only projects at this stage code"},
				},
			},
			{
				Name:   "process",
				Usage:  "Print how a query is read without touching the database",
				Action: processCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Required: true},
					&cli.BoolFlag{Name: "legacy-catch-all", Usage: "Classify every query that is not person seeking as find_project"},
				},
			},
			{
				Name:   "suggest",
				Usage:  "Print example queries related to a query",
				Action: suggestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}},
				},
			},
			{
				Name:   "embed",
				Usage:  "Embed every member profile through Ollama",
				Action: embedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "model", Usage: "Embedding model, overrides embedding.model"},
				},
			},
			{
				Name:   "migrate",
				Usage:  "Apply pending migrations",
				Action: migrateCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "seed", Usage: "Also apply the demo network seed"},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.String("log-level"))
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p := c.String("db"); p != "" {
		cfg.DatabasePath = p
	}
	return cfg, nil
}

func withApp(c *cli.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx := c.Context
	a, err := app.New(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func searchCommand(c *cli.Context) error {
	req := search.Request{
		Query:     c.String("query"),
		Intent:    c.String("intent"),
		Skills:    c.StringSlice("skill"),
		Locations: c.StringSlice("location"),
		Companies: c.StringSlice("company"),
		Members: match.MemberFilter{
			Region:  c.String("region"),
			Session: c.String("session"),
			Pod:     c.String("pod"),
		},
		Projects: match.ProjectFilter{
			Type:  c.String("project-type"),
			Stage: c.String("project-stage"),
		},
	}
	return withApp(c, func(ctx context.Context, a *app.App) error {
		resp, err := a.Search.Search(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(c, resp)
	})
}

func processCommand(c *cli.Context) error {
	var opts []match.ProcessorOption
	if c.Bool("legacy-catch-all") {
		opts = append(opts, match.WithLegacyCatchAll())
	}
	return printJSON(c, match.NewProcessor(opts...).Process(c.String("query")))
}

func suggestCommand(c *cli.Context) error {
	for _, s := range match.Suggest(c.String("query")) {
		fmt.Fprintln(c.App.Writer, s)
	}
	return nil
}

func embedCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, a *app.App) error {
		if m := c.String("model"); m != "" {
			a.Config.Embedding.Model = m
		}
		emb, err := a.Embedder()
		if err != nil {
			return err
		}
		sum, err := emb.EmbedAll(ctx)
		if err != nil {
			return err
		}
		return printJSON(c, sum)
	})
}

func migrateCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx := c.Context
	d, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer d.Close()

	if c.Bool("seed") {
		err = db.Migrate(ctx, d, dbfs.Migrations, dbfs.SeedFiles)
	} else {
		err = db.Migrate(ctx, d, dbfs.Migrations, nil)
	}
	if err != nil {
		return err
	}

	applied, err := db.Applied(ctx, d)
	if err != nil {
		return err
	}
	for _, v := range applied {
		fmt.Fprintln(c.App.Writer, v)
	}
	return nil
}

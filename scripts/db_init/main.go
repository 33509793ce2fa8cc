package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"

	dbfs "github.com/huvtsp/alumni/db"
	"github.com/huvtsp/alumni/internal/config"
	"github.com/huvtsp/alumni/internal/db"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	seed := flag.Bool("seed", true, "Apply the demo network seed")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	var seedFS fs.FS
	if *seed {
		seedFS = dbfs.SeedFiles
	}
	if err := db.Migrate(ctx, database, dbfs.Migrations, seedFS); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database %s initialized.\n", cfg.DatabasePath)
}

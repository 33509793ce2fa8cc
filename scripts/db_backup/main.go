package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/huvtsp/alumni/internal/config"
	"github.com/huvtsp/alumni/internal/db"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	out := flag.String("out", "", "Backup file, defaults to <database_path>.bak")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	dst := *out
	if dst == "" {
		dst = cfg.DatabasePath + ".bak"
	}
	// VACUUM INTO refuses to overwrite
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if _, err := database.Exec(ctx, `VACUUM INTO ?`, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database backed up to %s.\n", dst)
}

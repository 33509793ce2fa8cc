package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/huvtsp/alumni/internal/config"
	"github.com/huvtsp/alumni/internal/db"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	from := flag.String("from", "", "Backup file, defaults to <database_path>.bak")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	src := *from
	if src == "" {
		src = cfg.DatabasePath + ".bak"
	}

	if err := check(ctx, src); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	if err := copyFile(src, cfg.DatabasePath); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database restored from %s.\n", src)
}

// check refuses backups that sqlite does not consider intact.
func check(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	d, err := db.New(ctx, path)
	if err != nil {
		return err
	}
	defer d.Close()

	var res string
	if err := d.QueryRow(ctx, `PRAGMA integrity_check`).Scan(&res); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if res != "ok" {
		return fmt.Errorf("integrity check failed: %s", res)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

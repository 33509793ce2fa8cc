package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migrate applies migrations and optional seed files.
// It creates a `schema_migrations` table to track applied versions and runs
// every `migrations/*.sql` file of migrationFS not yet recorded, in name
// order. Seed files under `seed/*.sql` of seedFS are tracked the same way
// with a "seed/" version prefix, so each runs once. A nil seedFS skips seeding.
func Migrate(ctx context.Context, d *DB, migrationFS fs.FS, seedFS fs.FS) error {
	// ensure migrations table exists
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	if err := applyDir(ctx, d, migrationFS, "migrations", ""); err != nil {
		return err
	}
	if seedFS == nil {
		return nil
	}
	err := applyDir(ctx, d, seedFS, "seed", "seed/")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func applyDir(ctx context.Context, d *DB, fsys fs.FS, dir, versionPrefix string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read %s dir: %w", dir, err)
	}

	// collect .sql files and sort
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		// use filename (without extension) as version key
		version := versionPrefix + strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		b, err := fs.ReadFile(fsys, path.Join(dir, fname))
		if err != nil {
			return fmt.Errorf("read %s: %w", version, err)
		}
		if _, err := d.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec %s: %w", version, err)
		}
		if _, err := d.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
			return fmt.Errorf("record %s: %w", version, err)
		}
	}
	return nil
}

// Applied lists recorded versions in application order.
func Applied(ctx context.Context, d *DB) ([]string, error) {
	rows, err := d.QueryRows(ctx, `SELECT version FROM schema_migrations ORDER BY applied, version`)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

package db_test

import (
	"context"
	"testing"
	"testing/fstest"

	dbfs "github.com/huvtsp/alumni/db"
	"github.com/huvtsp/alumni/internal/db"
)

// Note: this test uses an in-memory sqlite database and the embedded
// migrations to validate idempotent behavior of Migrate.
func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, "file:migrate_idempotent?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// Run again to ensure idempotency
	if err := db.Migrate(ctx, d, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	versions, err := db.Applied(ctx, d)
	if err != nil {
		t.Fatalf("applied: %v", err)
	}
	if len(versions) != 2 || versions[0] != "0001_init" || versions[1] != "seed/0001_demo_network" {
		t.Fatalf("unexpected versions %v", versions)
	}

	var name string
	r1 := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name='network_members'`)
	if err := r1.Scan(&name); err != nil {
		t.Fatalf("expected network_members table exists: %v", err)
	}

	var members int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM network_members`).Scan(&members); err != nil {
		t.Fatalf("count members: %v", err)
	}
	if members != 5 {
		t.Fatalf("expected 5 seeded members, got %d", members)
	}
}

func TestMigrate_NoSeed(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, "file:migrate_no_seed?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, dbfs.Migrations, nil); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	// an fs without a seed directory is accepted too
	if err := db.Migrate(ctx, d, dbfs.Migrations, fstest.MapFS{}); err != nil {
		t.Fatalf("migrate with empty seed fs failed: %v", err)
	}

	var members int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM network_members`).Scan(&members); err != nil {
		t.Fatalf("count members: %v", err)
	}
	if members != 0 {
		t.Fatalf("expected empty members table, got %d", members)
	}
}

func TestMigrate_BadSQL(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, "file:migrate_bad?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	bad := fstest.MapFS{
		"migrations/0001_bad.sql": &fstest.MapFile{Data: []byte("CREATE TABLE (")},
	}
	if err := db.Migrate(ctx, d, bad, nil); err == nil {
		t.Fatalf("expected error for malformed migration")
	}

	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed migration must not be recorded, got %d", count)
	}
}

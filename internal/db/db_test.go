package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	dbpkg "github.com/huvtsp/alumni/internal/db"
)

func TestNew_Close_GetConn(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Use in-memory SQLite
	d, err := dbpkg.New(ctx, "file:new_close?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	conn := d.GetConn()
	if conn == nil {
		t.Fatalf("expected non-nil sql.DB from GetConn")
	}

	// Close should not error
	if err := d.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestExec_QueryRow_QueryRows(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, "file:exec_query?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer d.Close()

	// create table
	_, err = d.Exec(ctx, `CREATE TABLE IF NOT EXISTS items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT);`)
	if err != nil {
		t.Fatalf("Exec create table returned error: %v", err)
	}

	// insert
	res, err := d.Exec(ctx, `INSERT INTO items (name) VALUES (?), (?)`, "foo", "bar")
	if err != nil {
		t.Fatalf("Exec insert returned error: %v", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("LastInsertId returned error: %v", err)
	}
	if lastID == 0 {
		t.Fatalf("expected last insert id > 0")
	}

	// query
	row := d.QueryRow(ctx, `SELECT name FROM items WHERE id = ?`, 1)
	var name string
	if err := row.Scan(&name); err != nil {
		t.Fatalf("QueryRow scan returned error: %v", err)
	}
	if name != "foo" {
		t.Fatalf("expected name 'foo' got %q", name)
	}

	rows, err := d.QueryRows(ctx, `SELECT name FROM items ORDER BY id`)
	if err != nil {
		t.Fatalf("QueryRows returned error: %v", err)
	}
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("rows scan: %v", err)
		}
		names = append(names, n)
	}
	rows.Close()
	if len(names) != 2 || names[1] != "bar" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, "file:in_tx?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(ctx, `CREATE TABLE items (name TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	err = d.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('x')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	err = d.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('y')`)
		return err
	})
	if err != nil {
		t.Fatalf("InTx commit: %v", err)
	}

	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM items`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 committed row, got %d", count)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	d, err := dbpkg.New(ctx, "file:fk?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer d.Close()

	var on int
	if err := d.QueryRow(ctx, `PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if on != 1 {
		t.Fatalf("expected foreign_keys on, got %d", on)
	}
}

func TestNew_BadDSN(t *testing.T) {
	ctx := context.Background()
	// the parent directory does not exist, so the file cannot be created
	_, err := dbpkg.New(ctx, filepath.Join(t.TempDir(), "missing", "alumni.db"))
	if err == nil {
		t.Fatalf("expected error for bad DSN, got nil")
	}
}

package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenSQLiteAndMigrateIsIdempotent(t *testing.T) {
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db, DriverSQLite); err != nil {
			t.Fatalf("Migrate run %d failed: %v", i+1, err)
		}
	}

	for _, table := range []string{"users", "exercises", "propositions", "formalizations", "solutions"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	var fk int
	if err := db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("PRAGMA foreign_keys failed: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if err := Migrate(context.Background(), nil, "mysql"); err == nil {
		t.Fatal("expected Migrate error for unsupported driver")
	}
}

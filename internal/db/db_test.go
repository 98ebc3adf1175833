package db

import (
	"os"
	"testing"
)

func intPtr(i int) *int {
	return &i
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	fname := t.Name() + ".db"
	_ = os.Remove(fname)

	db, err := NewDB(fname)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	return db
}

func cleanupTestDB(t *testing.T, db *DB) {
	t.Helper()
	fname := t.Name() + ".db"
	db.Close()
	_ = os.Remove(fname)
	_ = os.Remove(fname + "-shm")
	_ = os.Remove(fname + "-wal")
}

// TestNewDB_CreatesSchema verifies that opening a fresh database runs
// the embedded migrations and leaves both roster tables in place.
func TestNewDB_CreatesSchema(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	for _, table := range []string{"hero", "team", "schema_migrations"} {
		var count int
		err := db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("failed to check for table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("expected table %s to exist, found %d", table, count)
		}
	}
}

// TestOpenDB_NoSchema verifies that OpenDB does not create any tables.
func TestOpenDB_NoSchema(t *testing.T) {
	fname := t.Name() + ".db"
	_ = os.Remove(fname)

	db, err := OpenDB(fname)
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer cleanupTestDB(t, db)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	if err != nil {
		t.Fatalf("failed to count tables: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no tables after OpenDB, found %d", count)
	}
}

// TestForeignKeysEnabled verifies the foreign_keys pragma survives the
// connection pool.
func TestForeignKeysEnabled(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	var enabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("failed to read foreign_keys pragma: %v", err)
	}
	if enabled != 1 {
		t.Errorf("expected foreign_keys=1, got %d", enabled)
	}
}

func TestPath(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	if got, want := db.Path(), t.Name()+".db"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

// Package store opens the relational store backing the loader and reporter.
// SQLite (pure Go) is the default; DuckDB is available for the same local
// file-based workflow.
package store

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
	_ "modernc.org/sqlite"              // sqlite driver (pure Go)
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverDuckDB = "duckdb"
)

// Memory is the in-memory database path, used by tests.
const Memory = ":memory:"

// Config selects the storage engine and database location.
type Config struct {
	// Driver is sqlite (default) or duckdb.
	Driver string

	// Path is the database file, or ":memory:".
	Path string
}

// Open opens the store and verifies the connection. The caller owns the
// handle and must close it on every exit path.
func Open(cfg Config) (*sql.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	var db *sql.DB
	var err error
	switch driver {
	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = Memory
		}
		// Foreign keys are off by default in SQLite; the loader's integrity
		// checks depend on them.
		db, err = sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)")
		if err == nil && path == Memory {
			// Each pooled connection would otherwise see its own empty
			// in-memory database.
			db.SetMaxOpenConns(1)
		}
	case DriverDuckDB:
		db, err = sql.Open("duckdb", cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s store: %w", driver, err)
	}
	return db, nil
}

// Exists reports whether a file-backed store is present on disk.
func Exists(path string) bool {
	if path == "" || path == Memory {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

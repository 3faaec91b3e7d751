// Package db keeps the built marker/map inventory in DuckDB. The
// inventory is reporting surface for the HTTP API; the build-scoped
// registry itself stays in memory and is never persisted.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

var (
	instance *sql.DB
	once     sync.Once
	initErr  error
)

// Config holds database configuration.
type Config struct {
	DataDir string
	DBName  string
}

// Get returns the singleton DuckDB connection, creating the schema on
// first open.
func Get(cfg Config) (*sql.DB, error) {
	once.Do(func() {
		dir := filepath.Join(cfg.DataDir, "duckdb")
		if err := os.MkdirAll(dir, 0755); err != nil {
			initErr = fmt.Errorf("creating duckdb directory: %w", err)
			return
		}

		dbPath := filepath.Join(dir, cfg.DBName+".duckdb")
		instance, initErr = sql.Open("duckdb", dbPath)
		if initErr != nil {
			return
		}
		initErr = migrate(instance)
	})
	return instance, initErr
}

// Close closes the database connection.
func Close() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}

func migrate(conn *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS maps (
			name TEXT,
			page TEXT,
			image TEXT,
			height DOUBLE,
			min_zoom DOUBLE,
			max_zoom DOUBLE,
			default_zoom DOUBLE,
			zoom_delta DOUBLE,
			scale DOUBLE,
			unit TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS markers (
			seq BIGINT,
			map_name TEXT,
			name TEXT,
			link TEXT,
			x DOUBLE,
			y DOUBLE,
			icon TEXT,
			colour TEXT,
			min_zoom DOUBLE
		)`,
	}
	for _, s := range stmts {
		if _, err := conn.Exec(s); err != nil {
			return fmt.Errorf("migrating inventory schema: %w", err)
		}
	}
	return nil
}

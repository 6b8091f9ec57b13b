// Package db manages the SQLite report database
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New creates a new database connection and initializes the schema.
func New(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := db.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// configure sets up database pragmas. The report is a single-file artifact,
// so the rollback journal is used instead of WAL.
func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=DELETE",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createSchema() error {
	if err := db.createStationStatisticsTable(); err != nil {
		return err
	}
	if err := db.createRunsTable(); err != nil {
		return err
	}
	return db.createSummaryTable()
}

func (db *DB) createStationStatisticsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS ` + tableStationStatistics + ` (
		station TEXT PRIMARY KEY,
		run_count INTEGER NOT NULL DEFAULT 0,
		average_seconds REAL NOT NULL DEFAULT 0,
		skipped_count INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createRunsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS ` + tableRuns + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		destination TEXT NOT NULL,
		departed_at TEXT NOT NULL,
		arrived_at TEXT NOT NULL,
		duration_seconds REAL NOT NULL,
		source_file TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_destination ON ` + tableRuns + `(destination);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createSummaryTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS ` + tableSummary + ` (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	return db.DB.Close()
}

// Vacuum performs database maintenance to reclaim space.
func (db *DB) Vacuum() error {
	_, err := db.ExecContext(context.Background(), "VACUUM")
	return err
}

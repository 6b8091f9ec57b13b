package db

import (
	"context"
	"fmt"
)

// migrate brings an existing report database up to schemaVersion. Version 0
// files were written before source_file was recorded on runs.
func (db *DB) migrate() error {
	var version int
	if err := db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	hasColumn, err := db.columnExists(tableRuns, "source_file")
	if err != nil {
		return err
	}
	if !hasColumn {
		if _, err := db.ExecContext(context.Background(), "ALTER TABLE "+tableRuns+" ADD COLUMN source_file TEXT"); err != nil {
			return fmt.Errorf("failed to add source_file column: %w", err)
		}
	}

	if _, err := db.ExecContext(context.Background(), fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return nil
}

func (db *DB) columnExists(table, column string) (bool, error) {
	rows, err := db.QueryContext(context.Background(), "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

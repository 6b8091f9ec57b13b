package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/j-veylop/journal-runstats/internal/models"
)

// SaveReport replaces the database contents with report in one transaction,
// so writing the same report twice yields the same rows.
func (db *DB) SaveReport(ctx context.Context, report *models.Report) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{tableStationStatistics, tableRuns, tableSummary} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	// Restart run ids at 1
	if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", tableRuns); err != nil {
		return fmt.Errorf("failed to reset run ids: %w", err)
	}

	if err := insertStationStatistics(ctx, tx, report.Stations); err != nil {
		return err
	}
	if err := insertRuns(ctx, tx, report.Intervals); err != nil {
		return err
	}

	summary := map[string]string{
		SummaryKeyOrigin:     report.Origin,
		SummaryKeyDepartures: strconv.Itoa(report.Departures),
		SummaryKeyFiles:      strconv.Itoa(report.FilesProcessed),
	}
	for key, value := range summary {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+tableSummary+" (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("failed to insert summary %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}
	return nil
}

func insertStationStatistics(ctx context.Context, tx *sql.Tx, stats []models.StationStats) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO `+tableStationStatistics+` (station, run_count, average_seconds, skipped_count)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare station insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range stats {
		if _, err := stmt.ExecContext(ctx, s.Station, s.RunCount, s.AverageSeconds, s.SkippedCount); err != nil {
			return fmt.Errorf("failed to insert station %s: %w", s.Station, err)
		}
	}
	return nil
}

func insertRuns(ctx context.Context, tx *sql.Tx, intervals []models.Interval) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO `+tableRuns+` (destination, departed_at, arrived_at, duration_seconds, source_file)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare run insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, iv := range intervals {
		if _, err := stmt.ExecContext(ctx,
			iv.Destination,
			iv.Departed.UTC().Format(sqlTimeFormat),
			iv.Arrived.UTC().Format(sqlTimeFormat),
			iv.Seconds(),
			nullString(iv.SourceFile),
		); err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
	}
	return nil
}

// GetStationStatistics returns all stored station rows ordered by station.
func (db *DB) GetStationStatistics(ctx context.Context) ([]models.StationStats, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT station, run_count, average_seconds, skipped_count
		FROM `+tableStationStatistics+`
		ORDER BY station
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query station statistics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []models.StationStats
	for rows.Next() {
		var s models.StationStats
		if err := rows.Scan(&s.Station, &s.RunCount, &s.AverageSeconds, &s.SkippedCount); err != nil {
			return nil, fmt.Errorf("failed to scan station statistics: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// GetRuns returns all stored runs in insertion order.
func (db *DB) GetRuns(ctx context.Context) ([]models.Interval, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT destination, departed_at, arrived_at, source_file
		FROM `+tableRuns+`
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []models.Interval
	for rows.Next() {
		var iv models.Interval
		var departed, arrived string
		var source sql.NullString
		if err := rows.Scan(&iv.Destination, &departed, &arrived, &source); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if iv.Departed, err = parseSQLTime(departed); err != nil {
			return nil, err
		}
		if iv.Arrived, err = parseSQLTime(arrived); err != nil {
			return nil, err
		}
		iv.SourceFile = source.String
		runs = append(runs, iv)
	}
	return runs, rows.Err()
}

// GetSummary returns the key/value summary rows.
func (db *DB) GetSummary(ctx context.Context) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM "+tableSummary)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summary := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summary[key] = value
	}
	return summary, rows.Err()
}

func parseSQLTime(s string) (time.Time, error) {
	t, err := time.Parse(sqlTimeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored time %q: %w", s, err)
	}
	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

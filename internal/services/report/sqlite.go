package report

import (
	"context"
	"fmt"

	"github.com/j-veylop/journal-runstats/internal/db"
	"github.com/j-veylop/journal-runstats/internal/logger"
	"github.com/j-veylop/journal-runstats/internal/models"
)

// SQLiteSink stores the report in a SQLite database file.
type SQLiteSink struct {
	path string
}

// NewSQLiteSink creates a SQLite sink writing to path.
func NewSQLiteSink(path string) *SQLiteSink {
	return &SQLiteSink{path: path}
}

// Path returns the database file path.
func (s *SQLiteSink) Path() string {
	return s.path
}

// Write opens (or creates) the database, replaces its contents and
// compacts the file.
func (s *SQLiteSink) Write(ctx context.Context, report *models.Report) error {
	database, err := db.New(s.path)
	if err != nil {
		return err
	}

	if err := database.SaveReport(ctx, report); err != nil {
		_ = database.Close()
		return err
	}
	if err := database.Vacuum(); err != nil {
		logger.Warn("failed to compact report database", "path", s.path, "error", err)
	}
	if err := database.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

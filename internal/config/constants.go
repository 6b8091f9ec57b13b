// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
)

// Defaults for the run definition. These are the values the tool was built
// around; each can be overridden through the environment or CLI flags.
const (
	DefaultLogDir           = "."
	DefaultFilePattern      = `^(log|Journal\.\d{4}-?\d{2}-?\d{2}T\d{6}\.\d{2}\.log)$`
	DefaultOriginStation    = "Orbital Construction Site: Schweickart Town"
	DefaultDepartureEvent   = "Undocked"
	DefaultArrivalEvent     = "Docked"
	DefaultCSVOutput        = "run_statistics.csv"
	DefaultSQLiteOutput     = "run_statistics.db"
	DefaultOutlierThreshold = 0.5
	DefaultLogLevel         = "info"
)

// OutputFormat selects the report sink.
type OutputFormat string

const (
	FormatCSV    OutputFormat = "csv"
	FormatSQLite OutputFormat = "sqlite"
)

// DefaultOutputFor returns the default output filename for a format.
func DefaultOutputFor(format OutputFormat) string {
	if format == FormatSQLite {
		return DefaultSQLiteOutput
	}
	return DefaultCSVOutput
}

// DefaultJournalDir returns the directory the game writes its journals to,
// or "" when the home directory cannot be resolved.
func DefaultJournalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Saved Games", "Frontier Developments", "Elite Dangerous")
}

package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/j-veylop/journal-runstats/internal/logger"
	"github.com/j-veylop/journal-runstats/internal/models"
)

// CSVSink writes the statistics table as CSV.
type CSVSink struct {
	path string
}

// NewCSVSink creates a CSV sink writing to path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Path returns the output file path.
func (s *CSVSink) Path() string {
	return s.path
}

// Write renders the table to a temp file next to the target, then renames it
// into place so a failed run never leaves a half-written report.
func (s *CSVSink) Write(_ context.Context, report *models.Report) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := WriteCSV(tmp, report.Stations); err != nil {
		_ = tmp.Close()
		removeTemp(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		removeTemp(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		removeTemp(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		removeTemp(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Error("failed to remove temp file", "path", path, "error", err)
	}
}

// WriteCSV writes the header and one row per station to w. Rows end in
// CRLF, matching the spreadsheets the report is usually opened in.
func WriteCSV(w io.Writer, stats []models.StationStats) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, st := range stats {
		row := []string{
			st.Station,
			strconv.Itoa(st.RunCount),
			FormatSeconds(st.AverageSeconds),
			strconv.Itoa(st.SkippedCount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", st.Station, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatSeconds renders an average as the shortest round-tripping decimal,
// always with a fractional part ("300.0", "0.0", "123.456"). Magnitudes of
// 1e16 and above, or below 1e-4, switch to exponent form ("1e+16", "1.5e-05").
func FormatSeconds(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if abs := math.Abs(v); abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

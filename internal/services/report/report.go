// Package report writes finalized station statistics to the output artifact
// and prints the console summary.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/j-veylop/journal-runstats/internal/config"
	"github.com/j-veylop/journal-runstats/internal/models"
)

// Header is the fixed column order of the statistics table.
var Header = []string{"Station", "Amounts of runs", "Average time (seconds)", "Skipped runs"}

// ErrNoStatistics is returned by Emit when no destination has statistics and
// therefore no file was written.
var ErrNoStatistics = errors.New("no valid runs found")

// Sink persists a report to a single output file.
type Sink interface {
	Write(ctx context.Context, report *models.Report) error
	Path() string
}

// NewSink returns the sink for format writing to path.
func NewSink(format config.OutputFormat, path string) (Sink, error) {
	switch format {
	case config.FormatCSV:
		return NewCSVSink(path), nil
	case config.FormatSQLite:
		return NewSQLiteSink(path), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// Emit writes the report through sink when it has statistics, then prints
// the outcome and the departure count to out. When there is nothing to
// write, the file is left untouched and ErrNoStatistics is returned after
// the messages are printed.
func Emit(ctx context.Context, out io.Writer, sink Sink, report *models.Report) error {
	var result error
	if report.HasStatistics() {
		if err := sink.Write(ctx, report); err != nil {
			return fmt.Errorf("failed to write %s: %w", sink.Path(), err)
		}
		fmt.Fprintf(out, "Successfully created %s with the run statistics.\n", sink.Path())
	} else {
		fmt.Fprintln(out, "No valid runs were found to generate a statistics file.")
		result = ErrNoStatistics
	}

	fmt.Fprintf(out, "\nTotal '%s' events from '%s': %d\n", report.DepartureTag, report.Origin, report.Departures)
	return result
}

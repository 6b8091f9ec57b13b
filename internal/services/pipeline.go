package services

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/j-veylop/journal-runstats/internal/config"
	"github.com/j-veylop/journal-runstats/internal/journal"
	"github.com/j-veylop/journal-runstats/internal/logger"
	"github.com/j-veylop/journal-runstats/internal/models"
	"github.com/j-veylop/journal-runstats/internal/services/aggregate"
	"github.com/j-veylop/journal-runstats/internal/services/runs"
)

// ErrNoLogFiles is returned when no file in the log directory matches the
// filename pattern.
var ErrNoLogFiles = errors.New("no matching log files found")

// Observer receives progress after each journal file is consumed.
type Observer func(models.FileProgress)

// DiscoverJournals lists the journals in cfg.LogDir matching cfg.FilePattern
// in processing order. It returns ErrNoLogFiles when nothing matches.
func DiscoverJournals(cfg *config.Config) ([]string, error) {
	pattern, err := cfg.Pattern()
	if err != nil {
		return nil, err
	}

	files, err := journal.Discover(cfg.LogDir, pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoLogFiles
	}
	logger.Debug("discovered journals", "dir", cfg.LogDir, "count", len(files))
	return files, nil
}

// Analyze runs one batch over cfg.LogDir: DiscoverJournals followed by
// AnalyzeFiles.
func Analyze(ctx context.Context, cfg *config.Config, observe Observer) (*models.Report, error) {
	files, err := DiscoverJournals(cfg)
	if err != nil {
		return nil, err
	}
	return AnalyzeFiles(ctx, cfg, files, observe)
}

// AnalyzeFiles reconstructs runs file by file, in the given order, and
// returns the finalized report. Line-level problems are logged and counted.
// An unreadable journal aborts the batch, as does cancelling ctx between
// files.
func AnalyzeFiles(ctx context.Context, cfg *config.Config, files []string, observe Observer) (*models.Report, error) {
	parser := journal.NewParser(cfg.DepartureEvent, cfg.ArrivalEvent)
	tracker := runs.NewTracker(cfg.OriginStation)
	acc := aggregate.NewAccumulator()
	parseErrors := 0

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := filepath.Base(path)
		tracker.Reset(name)
		fileErrors := 0

		err := journal.ReadLines(path, func(line string) {
			ev, err := parser.Parse(name, line)
			if err != nil {
				if errors.Is(err, journal.ErrMissingTimestamp) {
					return
				}
				logger.Warn(err.Error(), "file", name)
				fileErrors++
				return
			}

			tr := tracker.Observe(ev)
			if tr.Departed {
				acc.AddDeparture()
			}
			if tr.Closed != nil {
				acc.AddInterval(*tr.Closed)
			}
		})
		if err != nil {
			return nil, err
		}
		if _, pending := tracker.Pending(); pending {
			logger.Debug("run left open at end of file", "file", name)
		}

		parseErrors += fileErrors
		if observe != nil {
			observe(models.FileProgress{
				Name:        name,
				Index:       i + 1,
				Total:       len(files),
				Departures:  acc.Departures(),
				Intervals:   acc.IntervalCount(),
				ParseErrors: parseErrors,
			})
		}
	}

	report := &models.Report{
		Origin:         cfg.OriginStation,
		DepartureTag:   cfg.DepartureEvent,
		Stations:       acc.Finalize(cfg.OutlierThreshold),
		Intervals:      acc.Intervals(),
		Departures:     acc.Departures(),
		FilesProcessed: len(files),
		ParseErrors:    parseErrors,
	}
	logger.Info("analysis complete",
		"files", report.FilesProcessed,
		"departures", report.Departures,
		"runs", len(report.Intervals),
		"stations", len(report.Stations),
		"parse_errors", report.ParseErrors,
	)
	return report, nil
}

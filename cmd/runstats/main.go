// Package main is the entry point for runstats. It rebuilds runs from game
// journals, writes per-destination duration statistics and reports the
// departure count.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/j-veylop/journal-runstats/internal/config"
	"github.com/j-veylop/journal-runstats/internal/journal"
	"github.com/j-veylop/journal-runstats/internal/logger"
	"github.com/j-veylop/journal-runstats/internal/services"
)

type options struct {
	dir        string
	journalDir bool
	pattern    string
	origin     string
	output     string
	format     string
	threshold  float64
	plain      bool
	chart      bool
	watch      bool
	notify     bool
	seedSample bool
	verbose    bool
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "runstats",
	Short: "Per-destination run statistics from game journals",
	Long: `runstats scans a directory of JSON-lines journals, rebuilds every run that
departs the origin station and docks somewhere else, and writes the average
run time per destination (outliers removed) to run_statistics.csv.

Settings are read from .env (current directory, then ~/.config/runstats/.env)
and RUNSTATS_* environment variables; flags override both.

Examples:
  runstats --dir ./journals
  runstats --journal-dir --format sqlite --chart
  runstats --seed-sample --dir /tmp/sample
  runstats --watch --notify`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runStats,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&opts.dir, "dir", "d", config.DefaultLogDir, "Log directory")
	f.BoolVar(&opts.journalDir, "journal-dir", false, "Use the standard Elite Dangerous journal directory")
	f.StringVarP(&opts.pattern, "pattern", "p", config.DefaultFilePattern, "Filename regexp, matched from the start of the name")
	f.StringVar(&opts.origin, "origin", config.DefaultOriginStation, "Origin station name")
	f.StringVarP(&opts.output, "output", "o", config.DefaultCSVOutput, "Output file")
	f.StringVarP(&opts.format, "format", "f", string(config.FormatCSV), "Output format: csv or sqlite")
	f.Float64Var(&opts.threshold, "threshold", config.DefaultOutlierThreshold, "Outlier threshold as a fraction of the mean")
	f.BoolVar(&opts.plain, "plain", false, "Disable the interactive progress view")
	f.BoolVar(&opts.chart, "chart", false, "Print a chart of run durations after the report")
	f.BoolVar(&opts.watch, "watch", false, "Re-run whenever journals change, until interrupted")
	f.BoolVar(&opts.notify, "notify", false, "Send a desktop notification after each run")
	f.BoolVar(&opts.seedSample, "seed-sample", false, "Write two sample journals into the log directory first")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	rootCmd.MarkFlagsMutuallyExclusive("dir", "journal-dir")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := applyFlags(cmd.Flags(), cfg, opts); err != nil {
		return err
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	logger.Setup(os.Stderr, level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if opts.seedSample {
		written, err := journal.WriteSample(cfg.LogDir)
		if err != nil {
			return err
		}
		if len(written) == 0 {
			logger.Info("sample journals already present", "dir", cfg.LogDir)
		}
		for _, path := range written {
			logger.Info("wrote sample journal", "path", path)
		}
	}

	mgr := services.NewManager(cfg)
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	r := newRunner(mgr, cmd.OutOrStdout(), cmd.ErrOrStderr())
	r.interactive = !opts.plain && isTerminal(os.Stderr)
	r.progress = isTerminal(os.Stderr)
	r.summary = isTerminal(os.Stdout)
	r.chart = opts.chart
	r.logLevel = level

	if err := r.runOnce(ctx); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	return mgr.Watch(ctx, func(files []string) {
		logger.Info("journals changed, re-running", "files", files)
		if err := r.runOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("analysis failed", "error", err)
		}
	})
}

// applyFlags overrides cfg with every flag set on the command line and
// validates the result.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config, o options) error {
	if flags.Changed("dir") {
		cfg.LogDir = o.dir
	}
	if o.journalDir {
		dir := config.DefaultJournalDir()
		if dir == "" {
			return errors.New("cannot resolve the journal directory: no home directory")
		}
		cfg.LogDir = dir
	}
	if flags.Changed("pattern") {
		cfg.FilePattern = o.pattern
	}
	if flags.Changed("origin") {
		cfg.OriginStation = o.origin
	}
	if flags.Changed("format") {
		prev := cfg.OutputFormat
		cfg.OutputFormat = config.OutputFormat(o.format)
		// Follow the format with the default filename unless one was chosen
		if !flags.Changed("output") && cfg.OutputPath == config.DefaultOutputFor(prev) {
			cfg.OutputPath = config.DefaultOutputFor(cfg.OutputFormat)
		}
	}
	if flags.Changed("output") {
		cfg.OutputPath = o.output
	}
	if flags.Changed("threshold") {
		cfg.OutlierThreshold = o.threshold
	}
	if o.notify {
		cfg.Notify = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

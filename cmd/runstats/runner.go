package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"github.com/j-veylop/journal-runstats/internal/app"
	"github.com/j-veylop/journal-runstats/internal/logger"
	"github.com/j-veylop/journal-runstats/internal/models"
	"github.com/j-veylop/journal-runstats/internal/services"
	"github.com/j-veylop/journal-runstats/internal/services/report"
	"github.com/j-veylop/journal-runstats/internal/ui/components"
)

const (
	fallbackWidth = 80
	chartHeight   = 10
)

// runner performs one complete batch per call and prints its outcome.
type runner struct {
	mgr    *services.Manager
	stdout io.Writer
	stderr io.Writer

	interactive bool // Bubble Tea progress view on stderr
	progress    bool // plain \r progress line on stderr
	summary     bool // station table after the report
	chart       bool
	width       int
	logLevel    string
}

func newRunner(mgr *services.Manager, stdout, stderr io.Writer) *runner {
	return &runner{
		mgr:    mgr,
		stdout: stdout,
		stderr: stderr,
		width:  terminalWidth(os.Stderr),
	}
}

// runOnce discovers the journals, analyzes them and emits the report. Only
// fatal conditions are returned; empty results are reported on stdout.
func (r *runner) runOnce(ctx context.Context) error {
	cfg := r.mgr.Config()

	files, err := services.DiscoverJournals(cfg)
	if errors.Is(err, services.ErrNoLogFiles) {
		fmt.Fprintln(r.stdout, "No matching log files found.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(r.stdout, "Processing log files...")

	var rep *models.Report
	if r.interactive {
		rep, err = r.analyzeInteractive(ctx, files)
	} else {
		rep, err = r.analyzePlain(ctx, files)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("analysis interrupted: %w", err)
		}
		return err
	}

	sink, err := report.NewSink(cfg.OutputFormat, cfg.OutputPath)
	if err != nil {
		return err
	}
	if err := report.Emit(ctx, r.stdout, sink, rep); err != nil && !errors.Is(err, report.ErrNoStatistics) {
		return err
	}

	if r.summary {
		fmt.Fprintln(r.stdout)
		fmt.Fprintln(r.stdout, components.RenderSummary(rep))
	}
	if r.chart {
		fmt.Fprintln(r.stdout)
		fmt.Fprintln(r.stdout, components.RenderDurationChart(rep.Durations(), r.width-10, chartHeight, "Run durations (s)"))
		if bars := components.RenderStationBars(rep.Stations, r.width); bars != "" {
			fmt.Fprintln(r.stdout)
			fmt.Fprintln(r.stdout, bars)
		}
	}
	return nil
}

// analyzePlain runs the batch in the foreground, redrawing a single
// progress line on stderr when it is a terminal.
func (r *runner) analyzePlain(ctx context.Context, files []string) (*models.Report, error) {
	var observe services.Observer
	if r.progress {
		observe = func(p models.FileProgress) {
			fmt.Fprint(r.stderr, "\r"+ansi.EraseEntireLine+components.PlainProgressLine(p, r.width))
		}
	}

	rep, err := r.mgr.AnalyzeFiles(ctx, files, observe)
	if r.progress {
		fmt.Fprint(r.stderr, "\r"+ansi.EraseEntireLine)
	}
	return rep, err
}

// analyzeInteractive runs the batch under the Bubble Tea progress view.
// Log output is held back until the view has exited.
func (r *runner) analyzeInteractive(ctx context.Context, files []string) (*models.Report, error) {
	var logs bytes.Buffer
	prev := logger.Logger
	logger.Setup(&logs, r.logLevel)
	defer func() {
		logger.Logger = prev
		_, _ = r.stderr.Write(logs.Bytes())
	}()

	model := app.NewModel(ctx, r.mgr, files)
	p := tea.NewProgram(model, tea.WithOutput(r.stderr), tea.WithoutSignalHandler())
	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("error running progress view: %w", err)
	}

	state := model.GetState()
	if state.Interrupted() {
		return nil, context.Canceled
	}
	return state.Result()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func terminalWidth(f *os.File) int {
	w, _, err := term.GetSize(f.Fd())
	if err != nil || w <= 0 {
		return fallbackWidth
	}
	return w
}

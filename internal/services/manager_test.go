package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/journal-runstats/internal/config"
	"github.com/j-veylop/journal-runstats/internal/journal"
	"github.com/j-veylop/journal-runstats/internal/logger"
	"github.com/j-veylop/journal-runstats/internal/models"
	"github.com/j-veylop/journal-runstats/internal/services/report"
)

const origin = "Orbital Construction Site: Schweickart Town"

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.LogDir = dir
	cfg.OutputPath = filepath.Join(dir, "run_statistics.csv")
	return cfg
}

func writeJournal(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
}

// captureLog routes the global logger into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := logger.Logger
	var buf bytes.Buffer
	logger.Setup(&buf, "debug")
	t.Cleanup(func() { logger.Logger = prev })
	return &buf
}

func TestAnalyze_SampleData(t *testing.T) {
	dir := t.TempDir()
	if _, err := journal.WriteSample(dir); err != nil {
		t.Fatalf("WriteSample() failed: %v", err)
	}
	captureLog(t)

	var progress []models.FileProgress
	rep, err := Analyze(context.Background(), testConfig(dir), func(p models.FileProgress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if rep.Departures != 4 {
		t.Errorf("Departures = %d, want 4", rep.Departures)
	}
	if rep.FilesProcessed != 2 {
		t.Errorf("FilesProcessed = %d, want 2", rep.FilesProcessed)
	}

	want := []models.StationStats{
		{Station: "Alpha Colony", RunCount: 2, AverageSeconds: 300, SkippedCount: 0},
		{Station: "Beta Outpost", RunCount: 0, AverageSeconds: 0, SkippedCount: 2},
	}
	if len(rep.Stations) != len(want) {
		t.Fatalf("Stations = %+v, want %+v", rep.Stations, want)
	}
	for i := range want {
		if rep.Stations[i] != want[i] {
			t.Errorf("Stations[%d] = %+v, want %+v", i, rep.Stations[i], want[i])
		}
	}

	if len(progress) != 2 {
		t.Fatalf("observer called %d times, want 2", len(progress))
	}
	last := progress[1]
	if last.Index != 2 || last.Total != 2 || last.Departures != 4 || last.Intervals != 4 {
		t.Errorf("final progress = %+v", last)
	}
}

func TestAnalyze_NoMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	writeJournal(t, dir, "test_log_1.json", `{"timestamp": "2025-08-02T12:05:00Z", "event": "Undocked"}`)

	_, err := Analyze(context.Background(), testConfig(dir), nil)
	if !errors.Is(err, ErrNoLogFiles) {
		t.Errorf("Analyze() error = %v, want ErrNoLogFiles", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "run_statistics.csv")); !os.IsNotExist(statErr) {
		t.Error("no output file should exist")
	}
}

func TestAnalyze_MissingDirectory(t *testing.T) {
	_, err := Analyze(context.Background(), testConfig(filepath.Join(t.TempDir(), "missing")), nil)
	if err == nil || errors.Is(err, ErrNoLogFiles) {
		t.Errorf("Analyze() error = %v, want a fatal directory error", err)
	}
}

func TestAnalyze_InvalidPattern(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.FilePattern = "("
	if _, err := Analyze(context.Background(), cfg, nil); err == nil {
		t.Error("Analyze() should reject an invalid pattern")
	}
}

func TestAnalyze_LineErrors(t *testing.T) {
	dir := t.TempDir()
	writeJournal(t, dir, "log",
		`{"timestamp": "2025-08-02T12:00:00Z", "event": "Undocked", "StationName": "`+origin+`"}`,
		`not json`,
		``,
		`{"event": "Docked", "StationName": "Alpha Colony"}`,
		`{"timestamp": "2025-08-02 12:03:00", "event": "Docked", "StationName": "Alpha Colony"}`,
		`{"timestamp": "2025-08-02T12:05:00Z", "event": "Docked", "StationName": "Alpha Colony"}`,
	)
	logs := captureLog(t)

	rep, err := Analyze(context.Background(), testConfig(dir), nil)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	// Bad JSON, the blank line and the bad timestamp are reported; the
	// record without a timestamp is skipped silently.
	if rep.ParseErrors != 3 {
		t.Errorf("ParseErrors = %d, want 3", rep.ParseErrors)
	}
	if len(rep.Stations) != 1 || rep.Stations[0].AverageSeconds != 300 {
		t.Errorf("Stations = %+v, want one Alpha Colony run of 300s", rep.Stations)
	}

	out := logs.String()
	if !strings.Contains(out, "failed to parse JSON in file log") {
		t.Errorf("missing JSON diagnostic in log:\n%s", out)
	}
	if !strings.Contains(out, "timestamp parsing failed in file log") {
		t.Errorf("missing timestamp diagnostic in log:\n%s", out)
	}
}

func TestAnalyze_BadDepartureTimestampNotCounted(t *testing.T) {
	dir := t.TempDir()
	writeJournal(t, dir, "log",
		`{"timestamp": "2025-08-02T12:00:00Z", "event": "Undocked", "StationName": "`+origin+`"}`,
		`{"timestamp": "2025-08-02 12:01:00", "event": "Undocked", "StationName": "`+origin+`"}`,
		`{"timestamp": "2025-08-02T12:05:00Z", "event": "Docked", "StationName": "Alpha Colony"}`,
	)
	captureLog(t)

	rep, err := Analyze(context.Background(), testConfig(dir), nil)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if rep.Departures != 1 {
		t.Errorf("Departures = %d, want 1", rep.Departures)
	}
	if rep.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", rep.ParseErrors)
	}
	// The rejected departure leaves the earlier one pending.
	if len(rep.Stations) != 1 || rep.Stations[0].AverageSeconds != 300 {
		t.Errorf("Stations = %+v, want one Alpha Colony run of 300s", rep.Stations)
	}
}

func TestAnalyze_ExactKeysOnly(t *testing.T) {
	dir := t.TempDir()
	writeJournal(t, dir, "log",
		`{"Timestamp": "2025-08-02T11:00:00Z", "event": "Undocked", "StationName": "`+origin+`"}`,
		`{"timestamp": "2025-08-02T12:00:00Z", "event": "Undocked", "StationName": "`+origin+`"}`,
		`{"timestamp": "2025-08-02T12:05:00Z", "event": "Docked", "StationName": "Alpha Colony", "stationName": ""}`,
	)
	captureLog(t)

	rep, err := Analyze(context.Background(), testConfig(dir), nil)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if rep.Departures != 1 || rep.ParseErrors != 0 {
		t.Errorf("Departures = %d, ParseErrors = %d, want 1 and 0", rep.Departures, rep.ParseErrors)
	}
	if len(rep.Stations) != 1 || rep.Stations[0].AverageSeconds != 300 {
		t.Errorf("Stations = %+v, want one Alpha Colony run of 300s", rep.Stations)
	}
}

func TestAnalyze_RunsDoNotSpanFiles(t *testing.T) {
	dir := t.TempDir()
	writeJournal(t, dir, "Journal.2025-08-01T100000.01.log",
		`{"timestamp": "2025-08-01T10:00:00Z", "event": "Undocked", "StationName": "`+origin+`"}`,
	)
	writeJournal(t, dir, "Journal.2025-08-01T110000.01.log",
		`{"timestamp": "2025-08-01T11:00:00Z", "event": "Docked", "StationName": "Alpha Colony"}`,
	)
	captureLog(t)

	rep, err := Analyze(context.Background(), testConfig(dir), nil)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if rep.Departures != 1 {
		t.Errorf("Departures = %d, want 1", rep.Departures)
	}
	if rep.HasStatistics() {
		t.Errorf("a departure in one file must not close in the next: %+v", rep.Stations)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	dir := t.TempDir()
	if _, err := journal.WriteSample(dir); err != nil {
		t.Fatalf("WriteSample() failed: %v", err)
	}
	captureLog(t)
	cfg := testConfig(dir)

	render := func() []byte {
		rep, err := Analyze(context.Background(), cfg, nil)
		if err != nil {
			t.Fatalf("Analyze() failed: %v", err)
		}
		var buf bytes.Buffer
		if err := report.WriteCSV(&buf, rep.Stations); err != nil {
			t.Fatalf("WriteCSV() failed: %v", err)
		}
		return buf.Bytes()
	}

	if first, second := render(), render(); !bytes.Equal(first, second) {
		t.Errorf("output differs between runs:\n%s\n---\n%s", first, second)
	}
}

func TestAnalyze_Cancelled(t *testing.T) {
	dir := t.TempDir()
	if _, err := journal.WriteSample(dir); err != nil {
		t.Fatalf("WriteSample() failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Analyze(ctx, testConfig(dir), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Analyze() error = %v, want context.Canceled", err)
	}
}

func TestManager_Subscription(t *testing.T) {
	dir := t.TempDir()
	if _, err := journal.WriteSample(dir); err != nil {
		t.Fatalf("WriteSample() failed: %v", err)
	}
	captureLog(t)

	mgr := NewManager(testConfig(dir))
	defer mgr.Close()

	ch := mgr.Subscribe()

	if _, err := mgr.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	msg := <-ch
	ev, ok := msg.(ProgressEvent)
	if !ok {
		t.Fatalf("first event = %T, want ProgressEvent", msg)
	}
	if ev.Progress.Index != 1 || ev.Progress.Total != 2 {
		t.Errorf("first progress = %+v", ev.Progress)
	}
	if len(ch) != 1 {
		t.Errorf("expected one more queued event, got %d", len(ch))
	}

	mgr.Unsubscribe(ch)
	if _, open := <-ch; open {
		t.Error("channel should be closed after Unsubscribe")
	}
}

func TestManager_ErrorEvent(t *testing.T) {
	mgr := NewManager(testConfig(filepath.Join(t.TempDir(), "missing")))
	defer mgr.Close()
	ch := mgr.Subscribe()

	if _, err := mgr.Analyze(context.Background()); err == nil {
		t.Fatal("Analyze() should fail for a missing directory")
	}

	select {
	case ev := <-ch:
		if e, ok := ev.(ErrorEvent); !ok || e.Service != "analysis" {
			t.Errorf("event = %#v, want analysis ErrorEvent", ev)
		}
	default:
		t.Error("expected an ErrorEvent")
	}
}

func TestManager_Notify(t *testing.T) {
	dir := t.TempDir()
	if _, err := journal.WriteSample(dir); err != nil {
		t.Fatalf("WriteSample() failed: %v", err)
	}
	captureLog(t)

	var titles, bodies []string
	orig := notify
	notify = func(title, body string) error {
		titles = append(titles, title)
		bodies = append(bodies, body)
		return nil
	}
	defer func() { notify = orig }()

	cfg := testConfig(dir)
	cfg.Notify = true
	mgr := NewManager(cfg)
	defer mgr.Close()

	if _, err := mgr.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if len(titles) != 1 {
		t.Fatalf("notifications = %d, want 1", len(titles))
	}
	if !strings.Contains(bodies[0], "4 departures") {
		t.Errorf("body = %q", bodies[0])
	}
}

func TestManager_Watch(t *testing.T) {
	dir := t.TempDir()
	captureLog(t)
	cfg := testConfig(dir)
	cfg.WatchDebounce = 20 * time.Millisecond
	mgr := NewManager(cfg)
	defer mgr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan []string, 1)
	done := make(chan error, 1)
	go func() {
		done <- mgr.Watch(ctx, func(files []string) {
			select {
			case changed <- files:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeJournal(t, dir, "log", `{}`)

	select {
	case files := <-changed:
		if len(files) != 1 || files[0] != "log" {
			t.Errorf("files = %v, want [log]", files)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change callback")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}

func TestManager_CloseIdempotent(t *testing.T) {
	mgr := NewManager(config.Default())
	ch := mgr.Subscribe()

	if err := mgr.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if _, open := <-ch; open {
		t.Error("subscriber channel should be closed")
	}

	late := mgr.Subscribe()
	if _, open := <-late; open {
		t.Error("subscribing after Close should yield a closed channel")
	}
}

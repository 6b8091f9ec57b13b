package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/journal-runstats/internal/models"
)

func sampleStats() []models.StationStats {
	return []models.StationStats{
		{Station: "Alpha Colony", RunCount: 2, AverageSeconds: 300, SkippedCount: 0},
		{Station: "Beta Outpost", RunCount: 0, AverageSeconds: 0, SkippedCount: 2},
	}
}

func TestSpinner(t *testing.T) {
	s := NewSpinner("Init")

	s.SetLabel("Processing log files...")
	if s.Label() != "Processing log files..." {
		t.Errorf("Label = %s", s.Label())
	}
	if !strings.Contains(s.View(), "Processing log files...") {
		t.Error("View should include the label")
	}
	if s.Tick() == nil {
		t.Error("Tick should return command")
	}

	_, cmd := s.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Update should return command for tick")
	}

	s.SetLabel("")
	if s.View() == "" {
		t.Error("View without label returned empty")
	}
}

func TestProgressBar_View(t *testing.T) {
	bar := NewProgressBar()
	p := models.FileProgress{Name: "Journal.2025-08-02T120500.01.log", Index: 1, Total: 2}

	view := bar.View(p, 80)
	plain := ansi.Strip(view)
	if !strings.Contains(plain, "1/2") {
		t.Errorf("view missing counter: %q", plain)
	}
	if !strings.Contains(plain, "50%") {
		t.Errorf("view missing percent: %q", plain)
	}
	if lipgloss.Width(view) > 80 {
		t.Errorf("view width %d exceeds 80", lipgloss.Width(view))
	}
}

func TestProgressBar_NarrowTruncatesName(t *testing.T) {
	bar := NewProgressBar()
	p := models.FileProgress{Name: strings.Repeat("x", 200), Index: 3, Total: 3}

	view := bar.View(p, 60)
	if lipgloss.Width(view) > 60 {
		t.Errorf("view width %d exceeds 60", lipgloss.Width(view))
	}
}

func TestPlainProgressLine(t *testing.T) {
	tests := []struct {
		name  string
		p     models.FileProgress
		width int
		want  string
	}{
		{
			name:  "half",
			p:     models.FileProgress{Index: 1, Total: 2},
			width: 30,
			want:  "[#####.....] 1/2  50%",
		},
		{
			name:  "done with errors",
			p:     models.FileProgress{Index: 4, Total: 4, ParseErrors: 2},
			width: 30,
			want:  "[##########] 4/4 100% (2 bad l",
		},
		{
			name:  "with name",
			p:     models.FileProgress{Name: "log", Index: 0, Total: 1},
			width: 60,
			want:  "[....................] 0/1   0% log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlainProgressLine(tt.p, tt.width)
			if got != tt.want {
				t.Errorf("PlainProgressLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDurationChart(t *testing.T) {
	if s := RenderDurationChart(nil, 40, 5, ""); !strings.Contains(s, "No data") {
		t.Errorf("empty chart = %q", s)
	}
	if s := RenderDurationChart([]float64{300}, 40, 5, "runs"); s == "" {
		t.Error("single point chart returned empty")
	}
	s := RenderDurationChart([]float64{300, 600, 450}, 40, 5, "Run durations (s)")
	if !strings.Contains(s, "Run durations (s)") {
		t.Errorf("chart missing caption:\n%s", s)
	}
}

func TestRenderStationBars(t *testing.T) {
	if RenderStationBars(nil, 60) != "" {
		t.Error("no stations should render nothing")
	}

	out := ansi.Strip(RenderStationBars(sampleStats(), 60))
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "Alpha Colony") || !strings.Contains(lines[0], "300.0s") {
		t.Errorf("first line = %q", lines[0])
	}
	if strings.Contains(lines[1], "█") {
		t.Errorf("zero average should have no bar: %q", lines[1])
	}
}

func TestRenderStationTable(t *testing.T) {
	out := ansi.Strip(RenderStationTable(sampleStats()))

	for _, want := range []string{"Station", "Amounts of runs", "Alpha Colony", "300.0", "Beta Outpost", "0.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	rep := &models.Report{
		Stations:       sampleStats(),
		Intervals:      make([]models.Interval, 4),
		FilesProcessed: 2,
		ParseErrors:    1,
	}

	out := ansi.Strip(RenderSummary(rep))
	if !strings.Contains(out, "2 files, 4 runs, 2 skipped as outliers, 1 bad lines") {
		t.Errorf("summary footer missing:\n%s", out)
	}
	if !strings.Contains(out, "Alpha Colony") {
		t.Errorf("summary missing table:\n%s", out)
	}

	empty := ansi.Strip(RenderSummary(&models.Report{FilesProcessed: 1}))
	if strings.Contains(empty, "Station") {
		t.Errorf("empty report should not render a table:\n%s", empty)
	}
}

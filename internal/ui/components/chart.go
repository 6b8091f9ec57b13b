package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/journal-runstats/internal/models"
	"github.com/j-veylop/journal-runstats/internal/ui/styles"
)

// ChartLineColor is the series color of duration charts.
var ChartLineColor = asciigraph.MediumPurple

// RenderDurationChart plots run durations in the order the runs completed.
func RenderDurationChart(durations []float64, width, height int, caption string) string {
	if len(durations) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	// asciigraph needs two points to draw a line
	data := durations
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(ChartLineColor),
	)
}

// RenderStationBars draws one horizontal bar per station, scaled to the
// longest average.
func RenderStationBars(stats []models.StationStats, width int) string {
	if len(stats) == 0 {
		return ""
	}

	maxVal := 0.0
	maxLabelLen := 0
	for _, st := range stats {
		if st.AverageSeconds > maxVal {
			maxVal = st.AverageSeconds
		}
		if w := ansi.StringWidth(st.Station); w > maxLabelLen {
			maxLabelLen = w
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Long station names would leave no room for bars
	if maxLabelLen > width/3 {
		maxLabelLen = width / 3
	}

	barWidth := width - maxLabelLen - 12
	if barWidth < 10 {
		barWidth = 10
	}

	barStyle := lipgloss.NewStyle().Foreground(styles.Secondary)
	lines := make([]string, 0, len(stats))
	for _, st := range stats {
		label := ansi.Truncate(st.Station, maxLabelLen, "…")
		label = strings.Repeat(" ", maxLabelLen-ansi.StringWidth(label)) + label

		barLen := int(st.AverageSeconds / maxVal * float64(barWidth))
		if barLen < 0 {
			barLen = 0
		}

		bar := barStyle.Render(strings.Repeat("█", barLen))
		lines = append(lines, fmt.Sprintf("%s │%s %.1fs", label, bar, st.AverageSeconds))
	}

	return strings.Join(lines, "\n")
}

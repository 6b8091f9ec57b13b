// Package components provides reusable UI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/journal-runstats/internal/models"
	"github.com/j-veylop/journal-runstats/internal/ui/styles"
)

const minBarWidth = 10

// ProgressBar renders file-level progress of an analysis run.
type ProgressBar struct {
	progress progress.Model
}

// NewProgressBar creates a gradient progress bar.
func NewProgressBar() ProgressBar {
	p := progress.New(
		progress.WithScaledGradient(styles.GradientStart, styles.GradientEnd),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return ProgressBar{progress: p}
}

// View renders the bar and counters for p on one line of the given width,
// followed by the current file name truncated to fit.
func (b ProgressBar) View(p models.FileProgress, width int) string {
	barWidth := width / 2
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	b.progress.Width = barWidth

	bar := b.progress.ViewAs(p.Percent() / 100)
	counter := styles.ProgressLabelStyle.Render(fmt.Sprintf(" %d/%d", p.Index, p.Total))
	percent := styles.ProgressPercentStyle.Render(fmt.Sprintf("%.0f%%", p.Percent()))

	line := lipgloss.JoinHorizontal(lipgloss.Center, bar, counter, " ", percent)

	nameWidth := width - lipgloss.Width(line) - 1
	if nameWidth > 3 && p.Name != "" {
		line += " " + styles.HelpStyle.Render(ansi.Truncate(p.Name, nameWidth, "…"))
	}
	return line
}

// PlainProgressLine renders progress without colors for terminals where a
// Bubble Tea program is not wanted. The result never exceeds width cells.
func PlainProgressLine(p models.FileProgress, width int) string {
	barWidth := width / 3
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	filled := int(float64(barWidth) * p.Percent() / 100)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	line := fmt.Sprintf("[%s%s] %d/%d %3.0f%%",
		strings.Repeat("#", filled),
		strings.Repeat(".", barWidth-filled),
		p.Index, p.Total, p.Percent())

	if p.ParseErrors > 0 {
		line += fmt.Sprintf(" (%d bad lines)", p.ParseErrors)
	}

	nameWidth := width - ansi.StringWidth(line) - 1
	if nameWidth > 3 && p.Name != "" {
		line += " " + ansi.Truncate(p.Name, nameWidth, "…")
	}
	return ansi.Truncate(line, width, "")
}

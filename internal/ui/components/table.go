package components

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/j-veylop/journal-runstats/internal/models"
	"github.com/j-veylop/journal-runstats/internal/services/report"
	"github.com/j-veylop/journal-runstats/internal/ui/styles"
)

// RenderStationTable renders the statistics as a bordered table using the
// same columns and number formatting as the CSV output.
func RenderStationTable(stats []models.StationStats) string {
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []string{
			st.Station,
			strconv.Itoa(st.RunCount),
			report.FormatSeconds(st.AverageSeconds),
			strconv.Itoa(st.SkippedCount),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.TableBorderStyle).
		Headers(report.Header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.TableHeaderStyle
			case col == 0:
				return styles.TableCellStyle
			case col == 3:
				st := stats[row]
				return styles.GetSkipStyle(st.SkippedCount, st.RunCount+st.SkippedCount)
			default:
				return styles.TableNumberStyle
			}
		})

	return t.Render()
}

// RenderSummary renders the table with a one-line footer describing the batch.
func RenderSummary(rep *models.Report) string {
	footer := styles.HelpStyle.Render(fmt.Sprintf("%d files, %d runs, %d skipped as outliers, %d bad lines",
		rep.FilesProcessed, len(rep.Intervals), rep.TotalSkipped(), rep.ParseErrors))

	if !rep.HasStatistics() {
		return footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, RenderStationTable(rep.Stations), footer)
}

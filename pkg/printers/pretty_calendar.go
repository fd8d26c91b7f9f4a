package printers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/fatih/color"

	"tableflip.dev/timeline/pkg/entry"
	"tableflip.dev/timeline/pkg/glyph"
	"tableflip.dev/timeline/pkg/stats"
	"tableflip.dev/timeline/pkg/track"
)

// HeatmapRow is how many days one heatmap line holds.
const HeatmapRow = 30

// Swatch renders name on a block of hex, picking a readable text color.
// Without color it is just the name.
func Swatch(hex, name string) string {
	if color.NoColor || hex == "" {
		return name
	}
	fg := "#FFFFFF"
	if !track.IsDark(hex) {
		fg = "#000000"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(fg)).
		Render(" " + name + " ")
}

// Summary prints the header of the statistics view.
func (pp *PrettyPrint) Summary(s stats.Summary) {
	tbl := newTable()
	tbl.AddRow(Bold("Events"), s.TotalEvents)
	tbl.AddRow(Bold("Tracks"), s.TotalTracks)
	tbl.AddRow(Bold("Streak"), fmt.Sprintf("%s %d/%d days", glyph.Streak.Render(color.NoColor), s.StreakDays, stats.WeekDays))
	_, _ = fmt.Fprintln(pp.Writer(), tbl)
	pp.NewLine()
}

// Heatmap prints one track's cells oldest first, HeatmapRow days a line.
func (pp *PrettyPrint) Heatmap(ts stats.TrackStats, cells []stats.Cell) {
	c := color.New(color.Faint)
	_, _ = fmt.Fprint(pp.Writer(), Swatch(ts.Color, ts.Name))
	_, _ = c.Fprintf(pp.Writer(), "  %d total, %d this week, %d of %d days\n",
		ts.Total, ts.Weekly, stats.ActiveDays(cells), len(cells))

	on := lipgloss.NewStyle().Foreground(lipgloss.Color(cellColor(ts.Color)))
	off := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var line strings.Builder
	count := 0
	for i := len(cells) - 1; i >= 0; i-- {
		cell := cells[i]
		switch {
		case color.NoColor && cell.Active:
			line.WriteString(glyph.Active.Render(true))
		case color.NoColor:
			line.WriteString(glyph.Inactive.Render(true))
		case cell.Active:
			line.WriteString(on.Render(glyph.Active.String()))
		default:
			line.WriteString(off.Render(glyph.Inactive.String()))
		}
		count++
		if count%HeatmapRow == 0 || i == 0 {
			_, _ = fmt.Fprintln(pp.Writer(), line.String())
			line.Reset()
		} else {
			line.WriteString(" ")
		}
	}
	if len(cells) > 0 {
		_, _ = c.Fprintf(pp.Writer(), "%s to %s\n", cells[len(cells)-1].Date, cells[0].Date)
	}
	pp.NewLine()
}

func cellColor(hex string) string {
	if hex == "" {
		return entry.DefaultColor
	}
	return hex
}

package stats

import (
	"time"

	"tableflip.dev/timeline/pkg/entry"
)

// HeatmapDays is the default heatmap window.
const HeatmapDays = 60

// Cell is one day of a track heatmap.
type Cell struct {
	// ID is "<track>-<date>" and is unique within one heatmap.
	ID     string
	Date   string
	Active bool
}

// Heatmap marks, for each of the last days calendar days (today first),
// whether the track had any entry on that day. A non-positive days uses
// HeatmapDays.
func Heatmap(entries []entry.Entry, name string, now time.Time, days int) []Cell {
	if days <= 0 {
		days = HeatmapDays
	}
	active := make(map[string]bool)
	for _, e := range entries {
		if e.Track == name {
			active[e.Date] = true
		}
	}
	dates := LastDays(now, days)
	cells := make([]Cell, len(dates))
	for i, d := range dates {
		cells[i] = Cell{
			ID:     name + "-" + d,
			Date:   d,
			Active: active[d],
		}
	}
	return cells
}

// ActiveDays counts the active cells.
func ActiveDays(cells []Cell) int {
	n := 0
	for _, c := range cells {
		if c.Active {
			n++
		}
	}
	return n
}

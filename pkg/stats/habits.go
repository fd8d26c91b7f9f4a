package stats

import (
	"sort"
	"time"

	"tableflip.dev/timeline/pkg/entry"
	"tableflip.dev/timeline/pkg/track"
)

// Streak counts how many of the last seven days have at least one entry on
// any track. The result is always between 0 and 7.
func Streak(entries []entry.Entry, now time.Time) int {
	window := daySet(LastDays(now, WeekDays))
	seen := make(map[string]bool)
	for _, e := range entries {
		if window[e.Date] {
			seen[e.Date] = true
		}
	}
	return len(seen)
}

// TrackStats are the counts shown on a track card.
type TrackStats struct {
	Name   string
	Color  string
	Total  int
	Weekly int
}

// ForTrack counts the entries filed under name, overall and in the last
// seven days.
func ForTrack(entries []entry.Entry, name string, now time.Time) TrackStats {
	window := daySet(LastDays(now, WeekDays))
	s := TrackStats{Name: name}
	for _, e := range entries {
		if e.Track != name {
			continue
		}
		s.Total++
		if window[e.Date] {
			s.Weekly++
		}
	}
	return s
}

// PerTrack returns ForTrack for every track, busiest first. Ties keep the
// track order.
func PerTrack(entries []entry.Entry, tracks []track.Track, now time.Time) []TrackStats {
	out := make([]TrackStats, 0, len(tracks))
	for _, t := range tracks {
		s := ForTrack(entries, t.Name, now)
		s.Color = t.Color
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

// Summary is the header of the statistics view.
type Summary struct {
	TotalEvents int
	TotalTracks int
	StreakDays  int
}

func Summarize(entries []entry.Entry, tracks []track.Track, now time.Time) Summary {
	return Summary{
		TotalEvents: len(entries),
		TotalTracks: len(tracks),
		StreakDays:  Streak(entries, now),
	}
}

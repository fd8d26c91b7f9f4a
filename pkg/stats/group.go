// Package stats derives views over the timeline: date groups, streaks,
// per-track counts and calendar heatmaps. Every function is pure; callers
// pass the snapshots and the current instant.
package stats

import (
	"fmt"
	"sort"
	"time"

	"tableflip.dev/timeline/pkg/entry"
)

// WeekDays is the window used for streaks and weekly counts.
const WeekDays = 7

// Group is every entry that shares one date string.
type Group struct {
	Date    string
	Entries []entry.Entry
}

// GroupByDate partitions entries by their exact date string. Groups are
// ordered most recent first; dates that fail to parse sort last. Entries
// keep their input order inside a group.
func GroupByDate(entries []entry.Entry) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, e := range entries {
		i, ok := index[e.Date]
		if !ok {
			i = len(groups)
			index[e.Date] = i
			groups = append(groups, Group{Date: e.Date})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}

	parsed := make(map[string]time.Time, len(groups))
	for _, g := range groups {
		if t, err := entry.ParseDate(g.Date); err == nil {
			parsed[g.Date] = t
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ti, iok := parsed[groups[i].Date]
		tj, jok := parsed[groups[j].Date]
		switch {
		case iok && jok:
			return ti.After(tj)
		case iok:
			return true
		default:
			return false
		}
	})
	return groups
}

// RelativeLabel names a group date: Today, Yesterday, or the date itself.
func RelativeLabel(date string, now time.Time) string {
	day, err := entry.ParseDate(date)
	if err != nil {
		return date
	}
	switch entry.DaysBetween(day, now) {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return date
	}
}

// DaysAgo renders the distance from date to now in days.
func DaysAgo(date string, now time.Time) string {
	day, err := entry.ParseDate(date)
	if err != nil {
		return date
	}
	switch n := entry.DaysBetween(day, now); n {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", n)
	}
}

// LastDays returns the date strings of the n most recent calendar days,
// today first.
func LastDays(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	days := make([]string, n)
	for i := range days {
		days[i] = entry.FormatDate(entry.AddDays(now, -i))
	}
	return days
}

func daySet(days []string) map[string]bool {
	set := make(map[string]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

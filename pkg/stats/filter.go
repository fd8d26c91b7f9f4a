package stats

import (
	"strings"
	"time"

	"tableflip.dev/timeline/pkg/entry"
	"tableflip.dev/timeline/pkg/track"
)

// TrackSelector picks a single track by name. A nil selector, AnyTrack,
// matches every track.
type TrackSelector *string

// AnyTrack matches entries of every track.
var AnyTrack TrackSelector

// OnlyTrack selects the track called name.
func OnlyTrack(name string) TrackSelector {
	return &name
}

// Filter narrows the timeline. Zero values match everything.
type Filter struct {
	Track TrackSelector
	// Search matches entry content, ignoring case.
	Search string
	// Date matches the stored date string exactly.
	Date string
}

// Match reports whether e passes every set criterion.
func (f Filter) Match(e entry.Entry) bool {
	if f.Track != nil && e.Track != *f.Track {
		return false
	}
	if f.Date != "" && e.Date != f.Date {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(e.Content), q) {
			return false
		}
	}
	return true
}

// Apply keeps the matching entries in order.
func (f Filter) Apply(entries []entry.Entry) []entry.Entry {
	out := make([]entry.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Orphans returns entries whose track name no longer belongs to any track.
func Orphans(entries []entry.Entry, tracks []track.Track) []entry.Entry {
	known := make(map[string]bool, len(tracks))
	for _, t := range tracks {
		known[t.Name] = true
	}
	var out []entry.Entry
	for _, e := range entries {
		if !known[e.Track] {
			out = append(out, e)
		}
	}
	return out
}

// Comparison sets two entries side by side, older first.
type Comparison struct {
	Older     entry.Entry
	Newer     entry.Entry
	SameTrack bool
	// DaysApart is the calendar day gap; -1 when a date cannot be parsed.
	DaysApart int
	Elapsed   time.Duration
}

// Pair compares two entries.
func Pair(a, b entry.Entry) Comparison {
	if a.Timestamp > b.Timestamp {
		a, b = b, a
	}
	c := Comparison{
		Older:     a,
		Newer:     b,
		SameTrack: a.Track == b.Track,
		DaysApart: -1,
		Elapsed:   b.Created().Sub(a.Created()),
	}
	da, errA := a.Day()
	db, errB := b.Day()
	if errA == nil && errB == nil {
		n := entry.DaysBetween(da, db)
		if n < 0 {
			n = -n
		}
		c.DaysApart = n
	}
	return c
}

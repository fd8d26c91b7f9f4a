package app

import (
	"sync"

	"tableflip.dev/timeline/pkg/bus"
	"tableflip.dev/timeline/pkg/entry"
	"tableflip.dev/timeline/pkg/stats"
)

// TrackReport is one track's counts and heatmap.
type TrackReport struct {
	stats.TrackStats
	Cells  []stats.Cell
	Active int
}

// ReportResult is everything the statistics view shows.
type ReportResult struct {
	Day     string
	Days    int
	Summary stats.Summary
	Tracks  []TrackReport
}

// Report derives the statistics view for the last days calendar days. A
// non-positive days uses the configured heatmap window. Results are cached
// until the stores change or the day rolls over.
func (s *Service) Report(days int) ReportResult {
	if days <= 0 {
		days = s.HeatmapDays
	}
	now := s.Now()
	day := entry.FormatDate(now)
	if r, ok := s.cache.get(day, days); ok {
		return r
	}

	entries := s.Timeline.Items()
	tracks := s.Tracks.Tracks()
	result := ReportResult{
		Day:     day,
		Days:    days,
		Summary: stats.Summarize(entries, tracks, now),
	}
	for _, ts := range stats.PerTrack(entries, tracks, now) {
		cells := stats.Heatmap(entries, ts.Name, now, days)
		result.Tracks = append(result.Tracks, TrackReport{
			TrackStats: ts,
			Cells:      cells,
			Active:     stats.ActiveDays(cells),
		})
	}
	s.cache.put(result)
	return result
}

// statsCache holds the last report and drops it whenever a store announces
// a change on the bus.
type statsCache struct {
	mu     sync.Mutex
	result *ReportResult
	subs   []bus.Subscription
}

func newStatsCache(b *bus.Bus) *statsCache {
	c := &statsCache{}
	for _, topic := range []bus.Topic{
		bus.TracksChanged,
		bus.TimelineChanged,
		bus.TrackChanged,
		bus.TrackDeleted,
		bus.EntriesChanged,
	} {
		c.subs = append(c.subs, b.On(topic, func(any) { c.invalidate() }))
	}
	return c
}

func (c *statsCache) get(day string, days int) (ReportResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil || c.result.Day != day || c.result.Days != days {
		return ReportResult{}, false
	}
	return *c.result, true
}

func (c *statsCache) put(r ReportResult) {
	c.mu.Lock()
	c.result = &r
	c.mu.Unlock()
}

func (c *statsCache) invalidate() {
	c.mu.Lock()
	c.result = nil
	c.mu.Unlock()
}

// detach stops listening for changes.
func (c *statsCache) detach(b *bus.Bus) {
	for _, sub := range c.subs {
		b.Off(sub)
	}
	c.subs = nil
}


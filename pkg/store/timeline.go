package store

import (
	"context"
	"encoding/json"
	"sync"

	"tableflip.dev/timeline/pkg/bus"
	"tableflip.dev/timeline/pkg/entry"
	"tableflip.dev/timeline/pkg/kv"
	"tableflip.dev/timeline/pkg/logging"
)

// Timeline owns the entry collection, newest first.
type Timeline struct {
	mu    sync.Mutex
	kv    kv.Store
	bus   *bus.Bus
	log   logging.Logger
	items []entry.Entry
}

// NewTimeline returns an empty timeline store; call Load to read it.
func NewTimeline(s kv.Store, b *bus.Bus, log logging.Logger) *Timeline {
	return &Timeline{
		kv:  s,
		bus: b,
		log: log.With("store", "timeline"),
	}
}

// Load reads the persisted entries. Missing or unreadable data leaves the
// timeline empty; it is treated as "no data yet".
func (t *Timeline) Load(ctx context.Context) {
	items, err := t.readPersisted(ctx)
	if err != nil {
		t.log.Warn(ctx, "load entries", "err", err)
		items = nil
	}
	t.mu.Lock()
	t.items = items
	t.mu.Unlock()
}

// Items returns a copy of the entries, newest first.
func (t *Timeline) Items() []entry.Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]entry.Entry(nil), t.items...)
}

// Len is the number of entries.
func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// Get finds an entry by id.
func (t *Timeline) Get(id string) (entry.Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.items {
		if e.ID == id {
			return e, true
		}
	}
	return entry.Entry{}, false
}

// Add prepends e and persists the whole collection.
func (t *Timeline) Add(ctx context.Context, e entry.Entry) error {
	t.mu.Lock()
	next := make([]entry.Entry, 0, len(t.items)+1)
	next = append(next, e)
	next = append(next, t.items...)
	err := t.commit(ctx, next)
	t.mu.Unlock()
	if err != nil {
		return err
	}
	t.bus.Emit(bus.EntriesChanged, nil)
	return nil
}

// Delete removes the entry with id. An unknown id is not an error.
func (t *Timeline) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	next := make([]entry.Entry, 0, len(t.items))
	for _, e := range t.items {
		if e.ID != id {
			next = append(next, e)
		}
	}
	err := t.commit(ctx, next)
	t.mu.Unlock()
	if err != nil {
		return err
	}
	t.bus.Emit(bus.EntriesChanged, nil)
	return nil
}

// Replace swaps the whole collection, e.g. when importing a backup.
func (t *Timeline) Replace(ctx context.Context, items []entry.Entry) error {
	t.mu.Lock()
	err := t.commit(ctx, append([]entry.Entry(nil), items...))
	t.mu.Unlock()
	if err != nil {
		return err
	}
	t.bus.Emit(bus.EntriesChanged, nil)
	return nil
}

// Clear drops every entry and removes the persisted record itself.
func (t *Timeline) Clear(ctx context.Context) error {
	t.mu.Lock()
	err := remove(ctx, t.kv, EntriesKey)
	if err == nil {
		t.items = nil
	}
	t.mu.Unlock()
	if err != nil {
		return err
	}
	t.bus.Emit(bus.EntriesChanged, nil)
	return nil
}

// RetagTrack rewrites every entry filed under oldName to newName. It works
// from the persisted collection and always writes it back, even when nothing
// matched. It returns the number of rewritten entries.
func (t *Timeline) RetagTrack(ctx context.Context, oldName, newName string) (int, error) {
	change, err := t.retag(ctx, oldName, newName)
	if err != nil {
		return 0, err
	}
	t.bus.Emit(bus.TimelineChanged, change)
	return change.Count, nil
}

// RemoveTrack deletes every entry filed under name and returns how many
// were removed.
func (t *Timeline) RemoveTrack(ctx context.Context, name string) (int, error) {
	change, err := t.dropTrack(ctx, name)
	if err != nil {
		return 0, err
	}
	t.bus.Emit(bus.TimelineChanged, change)
	return change.Count, nil
}

// retag is RetagTrack without the notification, for callers that hold
// their own lock and emit once it is released.
func (t *Timeline) retag(ctx context.Context, oldName, newName string) (bus.TimelineChange, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	items, err := t.readPersisted(ctx)
	if err != nil {
		return bus.TimelineChange{}, err
	}
	count := 0
	for i := range items {
		if items[i].Track == oldName {
			items[i].Track = newName
			count++
		}
	}
	if err := t.commit(ctx, items); err != nil {
		return bus.TimelineChange{}, err
	}
	t.log.Debug(ctx, "retagged entries", "from", oldName, "to", newName, "count", count)
	return bus.TimelineChange{
		Reason:  bus.ReasonRename,
		OldName: oldName,
		NewName: newName,
		Count:   count,
	}, nil
}

// dropTrack is RemoveTrack without the notification.
func (t *Timeline) dropTrack(ctx context.Context, name string) (bus.TimelineChange, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	items, err := t.readPersisted(ctx)
	if err != nil {
		return bus.TimelineChange{}, err
	}
	kept := make([]entry.Entry, 0, len(items))
	for _, e := range items {
		if e.Track != name {
			kept = append(kept, e)
		}
	}
	if err := t.commit(ctx, kept); err != nil {
		return bus.TimelineChange{}, err
	}
	return bus.TimelineChange{
		Reason:    bus.ReasonDelete,
		TrackName: name,
		Count:     len(items) - len(kept),
	}, nil
}

// CountTrack counts persisted entries filed under name.
func (t *Timeline) CountTrack(ctx context.Context, name string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	items, err := t.readPersisted(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range items {
		if e.Track == name {
			n++
		}
	}
	return n, nil
}

// commit persists items and, only on success, makes them the snapshot.
// Callers hold t.mu.
func (t *Timeline) commit(ctx context.Context, items []entry.Entry) error {
	if items == nil {
		items = []entry.Entry{}
	}
	if err := writeJSON(ctx, t.kv, EntriesKey, items); err != nil {
		return err
	}
	t.items = items
	return nil
}

func (t *Timeline) readPersisted(ctx context.Context) ([]entry.Entry, error) {
	raw, found, err := read(ctx, t.kv, EntriesKey)
	if err != nil || !found {
		return nil, err
	}
	var items []entry.Entry
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &StorageError{Op: "decode", Key: EntriesKey, Err: err}
	}
	return items, nil
}

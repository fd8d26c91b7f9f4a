package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"tableflip.dev/timeline/pkg/bus"
	"tableflip.dev/timeline/pkg/kv"
	"tableflip.dev/timeline/pkg/logging"
	"tableflip.dev/timeline/pkg/track"
)

// Tracks owns the set of tracks and keeps the timeline consistent with
// renames and deletions. Lock order is always Tracks, then Timeline.
type Tracks struct {
	mu       sync.Mutex
	kv       kv.Store
	bus      *bus.Bus
	log      logging.Logger
	timeline *Timeline
	tracks   []track.Track

	// Now is the clock used for timestamps.
	Now func() time.Time
}

// Patch lists the fields Update changes; nil fields are left alone.
type Patch struct {
	Name  *string
	Color *string
}

// NewTracks returns an empty track store bound to timeline.
func NewTracks(s kv.Store, b *bus.Bus, log logging.Logger, timeline *Timeline) *Tracks {
	return &Tracks{
		kv:       s,
		bus:      b,
		log:      log.With("store", "tracks"),
		timeline: timeline,
		Now:      time.Now,
	}
}

// Load reads persisted tracks and backfills legacy records, writing the
// upgraded list back so ids and colors stay put. It never fails; unreadable
// data leaves the store empty.
func (s *Tracks) Load(ctx context.Context) {
	var tracks []track.Track
	raw, found, err := read(ctx, s.kv, TracksKey)
	switch {
	case err != nil:
		s.log.Warn(ctx, "load tracks", "err", err)
	case found:
		var migrated bool
		tracks, migrated, err = track.UnmarshalList([]byte(raw), s.Now())
		if err != nil {
			s.log.Warn(ctx, "decode tracks", "err", err)
			tracks = nil
			break
		}
		if migrated {
			if err := writeJSON(ctx, s.kv, TracksKey, tracks); err != nil {
				s.log.Warn(ctx, "save migrated tracks", "err", err)
			}
		}
	}
	s.mu.Lock()
	s.tracks = tracks
	s.mu.Unlock()
}

// Tracks returns a copy of the tracks in creation order.
func (s *Tracks) Tracks() []track.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]track.Track(nil), s.tracks...)
}

// GetByID finds a track by id.
func (s *Tracks) GetByID(id string) (track.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tracks[i], true
	}
	return track.Track{}, false
}

// GetByName finds a track by name, ignoring case.
func (s *Tracks) GetByName(name string) (track.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tracks {
		if track.SameName(t.Name, name) {
			return t, true
		}
	}
	return track.Track{}, false
}

// Add creates a track. An empty color picks one from the palette.
func (s *Tracks) Add(ctx context.Context, name, color string) (track.Track, error) {
	name, err := track.CleanName(name)
	if err != nil {
		return track.Track{}, Invalid("name", err)
	}
	color, err = track.CleanColor(color)
	if err != nil {
		return track.Track{}, Invalid("color", err)
	}

	s.mu.Lock()
	if s.nameTaken(name, "") {
		s.mu.Unlock()
		return track.Track{}, duplicateName(name)
	}
	t := *track.New(name, color, s.Now())
	next := append(append(make([]track.Track, 0, len(s.tracks)+1), s.tracks...), t)
	err = s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return track.Track{}, err
	}

	s.log.Info(ctx, "track added", "id", t.ID, "name", t.Name)
	s.bus.Emit(bus.TracksChanged, nil)
	return t, nil
}

// Update renames and/or recolors a track. A rename is first applied to every
// entry filed under the old name, then the track itself is written.
func (s *Tracks) Update(ctx context.Context, id string, p Patch) (track.Track, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return track.Track{}, notFound("track", id)
	}
	current := s.tracks[i]
	updated := current

	if p.Name != nil {
		name, err := track.CleanName(*p.Name)
		if err != nil {
			s.mu.Unlock()
			return track.Track{}, Invalid("name", err)
		}
		if name != current.Name && s.nameTaken(name, id) {
			s.mu.Unlock()
			return track.Track{}, duplicateName(name)
		}
		updated.Name = name
	}
	if p.Color != nil {
		color, err := track.CleanColor(*p.Color)
		if err != nil {
			s.mu.Unlock()
			return track.Track{}, Invalid("color", err)
		}
		if color != "" {
			updated.Color = color
		}
	}

	renamed := updated.Name != current.Name
	var change bus.TimelineChange
	if renamed {
		var err error
		if change, err = s.timeline.retag(ctx, current.Name, updated.Name); err != nil {
			s.mu.Unlock()
			return track.Track{}, err
		}
	}

	updated.UpdatedAt = s.Now().UTC()
	next := append([]track.Track(nil), s.tracks...)
	next[i] = updated
	if err := s.commit(ctx, next); err != nil {
		if renamed {
			s.compensateRename(ctx, updated.Name, current.Name)
		}
		s.mu.Unlock()
		return track.Track{}, err
	}
	s.mu.Unlock()

	if renamed {
		s.bus.Emit(bus.TimelineChanged, change)
	}
	s.bus.Emit(bus.TracksChanged, nil)
	s.bus.Emit(bus.TrackChanged, bus.TrackEvent{TrackID: id, Name: updated.Name, Color: updated.Color})
	return updated, nil
}

// compensateRename puts entries back under the old name when the track
// record could not be written, so they are not left pointing at a name no
// track owns.
func (s *Tracks) compensateRename(ctx context.Context, from, to string) {
	if _, err := s.timeline.retag(ctx, from, to); err != nil {
		s.log.Error(ctx, "revert entry rename", "from", from, "to", to, "err", err)
	}
}

// Remove deletes a track and every entry filed under it.
func (s *Tracks) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return notFound("track", id)
	}
	doomed := s.tracks[i]

	change, err := s.timeline.dropTrack(ctx, doomed.Name)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	next := make([]track.Track, 0, len(s.tracks)-1)
	next = append(next, s.tracks[:i]...)
	next = append(next, s.tracks[i+1:]...)
	err = s.commit(ctx, next)
	s.mu.Unlock()
	s.bus.Emit(bus.TimelineChanged, change)
	if err != nil {
		// The entries are already gone; the track survives with none.
		s.log.Error(ctx, "remove track after cascade", "id", id, "err", err)
		return err
	}

	s.log.Info(ctx, "track removed", "id", id, "name", doomed.Name, "entries", change.Count)
	s.bus.Emit(bus.TracksChanged, nil)
	s.bus.Emit(bus.TrackDeleted, bus.TrackEvent{TrackID: id, Name: doomed.Name, Color: doomed.Color})
	return nil
}

// Clear drops every track. Entries are left untouched.
func (s *Tracks) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := remove(ctx, s.kv, TracksKey)
	if err == nil {
		s.tracks = nil
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.bus.Emit(bus.TracksChanged, nil)
	s.bus.Emit(bus.TimelineChanged, bus.TimelineChange{Reason: bus.ReasonClear})
	return nil
}

// StatsFor counts the entries filed under the track's current name. Unknown
// ids and read failures count as zero.
func (s *Tracks) StatsFor(ctx context.Context, id string) int {
	t, ok := s.GetByID(id)
	if !ok {
		return 0
	}
	n, err := s.timeline.CountTrack(ctx, t.Name)
	if err != nil {
		s.log.Warn(ctx, "track stats", "id", id, "err", err)
		return 0
	}
	return n
}

func (s *Tracks) indexOf(id string) int {
	for i, t := range s.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nameTaken reports whether another track (not exceptID) already uses name.
func (s *Tracks) nameTaken(name, exceptID string) bool {
	name = strings.TrimSpace(name)
	for _, t := range s.tracks {
		if t.ID != exceptID && track.SameName(t.Name, name) {
			return true
		}
	}
	return false
}

func (s *Tracks) commit(ctx context.Context, tracks []track.Track) error {
	if tracks == nil {
		tracks = []track.Track{}
	}
	if err := writeJSON(ctx, s.kv, TracksKey, tracks); err != nil {
		return err
	}
	s.tracks = tracks
	return nil
}

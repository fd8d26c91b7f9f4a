package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/timeline/pkg/bus"
	"tableflip.dev/timeline/pkg/entry"
	"tableflip.dev/timeline/pkg/kv"
	"tableflip.dev/timeline/pkg/logging"
)

type fixture struct {
	kv       *kv.Memory
	bus      *bus.Bus
	timeline *Timeline
	tracks   *Tracks
	profiles *Profiles
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := kv.NewMemory()
	b := bus.New()
	log := logging.Nop()
	tl := NewTimeline(m, b, log)
	f := &fixture{
		kv:       m,
		bus:      b,
		timeline: tl,
		tracks:   NewTracks(m, b, log, tl),
		profiles: NewProfiles(m, b, log),
	}
	ctx := context.Background()
	f.timeline.Load(ctx)
	f.tracks.Load(ctx)
	f.profiles.Load(ctx)
	return f
}

func (f *fixture) addEntry(t *testing.T, trackName, content string, daysAgo int) entry.Entry {
	t.Helper()
	now := time.Now()
	on := now.AddDate(0, 0, -daysAgo)
	e, err := entry.New(entry.Params{Track: trackName, Content: content, On: &on}, now)
	require.NoError(t, err)
	require.NoError(t, f.timeline.Add(context.Background(), *e))
	return *e
}

func (f *fixture) names() map[string]int {
	counts := make(map[string]int)
	for _, e := range f.timeline.Items() {
		counts[e.Track]++
	}
	return counts
}

func TestDuplicateTrackNameIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tracks.Add(ctx, "Workout", "#FF0000")
	require.NoError(t, err)

	_, err = f.tracks.Add(ctx, "workout", "#00FF00")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateName))
	assert.True(t, IsValidation(err))
	assert.Len(t, f.tracks.Tracks(), 1)
}

func TestAddTrackValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tracks.Add(ctx, "   ", "")
	assert.True(t, IsValidation(err))

	_, err = f.tracks.Add(ctx, "Gym", "not-a-color")
	assert.True(t, IsValidation(err))

	tr, err := f.tracks.Add(ctx, "  Gym ", "")
	require.NoError(t, err)
	assert.Equal(t, "Gym", tr.Name)
	assert.NotEmpty(t, tr.Color)
}

func TestTrackStatsRenameAndCascadeDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gym, err := f.tracks.Add(ctx, "Gym", "#EF4444")
	require.NoError(t, err)
	f.addEntry(t, "Gym", "legs", 0)
	f.addEntry(t, "Gym", "arms", 1)
	f.addEntry(t, "Gym", "cardio", 3)
	f.addEntry(t, "Other", "unrelated", 0)

	// stats
	assert.Equal(t, 3, f.tracks.StatsFor(ctx, gym.ID))

	// rename moves every entry
	newName := "Fitness"
	_, err = f.tracks.Update(ctx, gym.ID, Patch{Name: &newName})
	require.NoError(t, err)
	counts := f.names()
	assert.Equal(t, 3, counts["Fitness"])
	assert.Zero(t, counts["Gym"])
	_, ok := f.tracks.GetByName("Gym")
	assert.False(t, ok)
	fitness, ok := f.tracks.GetByName("Fitness")
	require.True(t, ok)
	assert.Equal(t, gym.ID, fitness.ID)

	// delete takes the entries with it
	before := f.timeline.Len()
	require.NoError(t, f.tracks.Remove(ctx, gym.ID))
	assert.Equal(t, before-3, f.timeline.Len())
	_, ok = f.tracks.GetByID(gym.ID)
	assert.False(t, ok)
	for _, e := range f.timeline.Items() {
		assert.NotEqual(t, "Fitness", e.Track)
	}
}

func TestRenamePersistsEntriesBeforeTrack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gym, err := f.tracks.Add(ctx, "Gym", "")
	require.NoError(t, err)
	f.addEntry(t, "Gym", "legs", 0)

	var order []string
	f.bus.On(bus.TimelineChanged, func(p any) {
		change := p.(bus.TimelineChange)
		order = append(order, string(change.Reason))
		// Entries and the track record are both written before anyone hears.
		raw, _ := f.kv.Get(ctx, EntriesKey)
		assert.Contains(t, raw, `"track":"Fitness"`)
		tracks, _ := f.kv.Get(ctx, TracksKey)
		assert.Contains(t, tracks, `"name":"Fitness"`)
	})
	f.bus.On(bus.TracksChanged, func(any) { order = append(order, "tracks") })
	f.bus.On(bus.TrackChanged, func(p any) {
		order = append(order, "track:"+p.(bus.TrackEvent).Name)
	})

	newName := "Fitness"
	_, err = f.tracks.Update(ctx, gym.ID, Patch{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, []string{"rename", "tracks", "track:Fitness"}, order)

	// A reload sees the same state.
	reloaded := newFixtureFrom(t, f.kv)
	assert.Equal(t, 1, reloaded.names()["Fitness"])
	_, ok := reloaded.tracks.GetByName("fitness")
	assert.True(t, ok)
}

func TestTimelineHandlersCanReadTracks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gym, err := f.tracks.Add(ctx, "Gym", "")
	require.NoError(t, err)
	f.addEntry(t, "Gym", "legs", 0)

	var seen []string
	f.bus.On(bus.TimelineChanged, func(any) {
		for _, tr := range f.tracks.Tracks() {
			seen = append(seen, tr.Name)
		}
		_, _ = f.tracks.GetByName("Fitness")
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		name := "Fitness"
		_, err := f.tracks.Update(ctx, gym.ID, Patch{Name: &name})
		assert.NoError(t, err)
		assert.NoError(t, f.tracks.Remove(ctx, gym.ID))
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("a timeline handler reading tracks blocked the cascade")
	}
	// The rename is visible to the handler; the delete already dropped the track.
	assert.Equal(t, []string{"Fitness"}, seen)
}

func newFixtureFrom(t *testing.T, m *kv.Memory) *fixture {
	t.Helper()
	b := bus.New()
	log := logging.Nop()
	tl := NewTimeline(m, b, log)
	f := &fixture{kv: m, bus: b, timeline: tl, tracks: NewTracks(m, b, log, tl), profiles: NewProfiles(m, b, log)}
	ctx := context.Background()
	f.timeline.Load(ctx)
	f.tracks.Load(ctx)
	f.profiles.Load(ctx)
	return f
}

func TestUpdateErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gym, err := f.tracks.Add(ctx, "Gym", "")
	require.NoError(t, err)
	_, err = f.tracks.Add(ctx, "Reading", "")
	require.NoError(t, err)

	name := "reading"
	_, err = f.tracks.Update(ctx, gym.ID, Patch{Name: &name})
	assert.True(t, errors.Is(err, ErrDuplicateName))

	_, err = f.tracks.Update(ctx, "missing", Patch{Name: &name})
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(f.tracks.Remove(ctx, "missing"), ErrNotFound))
}

func TestUpdateCaseOnlyRenameAndRecolor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f.tracks.Now = func() time.Time { return now }

	gym, err := f.tracks.Add(ctx, "gym", "#EF4444")
	require.NoError(t, err)
	f.addEntry(t, "gym", "legs", 0)

	now = now.Add(time.Hour)
	name, color := "GYM", "#10b981"
	updated, err := f.tracks.Update(ctx, gym.ID, Patch{Name: &name, Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "GYM", updated.Name)
	assert.Equal(t, "#10B981", updated.Color)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.Equal(t, 1, f.names()["GYM"])

	// Entry color is a creation snapshot and does not follow the track.
	assert.Equal(t, entry.DefaultColor, f.timeline.Items()[0].Color)
}

func TestRenameToSameNameIsHarmless(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gym, err := f.tracks.Add(ctx, "Gym", "")
	require.NoError(t, err)
	f.addEntry(t, "Gym", "legs", 0)

	n, err := f.timeline.RetagTrack(ctx, "Gym", "Gym")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = f.timeline.RetagTrack(ctx, "Nobody", "Somebody")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, f.tracks.StatsFor(ctx, gym.ID))
}

func TestRenameRevertsEntriesWhenTrackWriteFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gym, err := f.tracks.Add(ctx, "Gym", "")
	require.NoError(t, err)
	f.addEntry(t, "Gym", "legs", 0)

	f.kv.FailOn(kv.OpSet, TracksKey, errors.New("disk full"))
	name := "Fitness"
	_, err = f.tracks.Update(ctx, gym.ID, Patch{Name: &name})
	require.Error(t, err)
	assert.True(t, IsStorage(err))

	assert.Equal(t, 1, f.names()["Gym"])
	current, ok := f.tracks.GetByID(gym.ID)
	require.True(t, ok)
	assert.Equal(t, "Gym", current.Name)
}

func TestWriteFailureLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEntry(t, "Gym", "legs", 0)

	f.kv.FailOn(kv.OpSet, EntriesKey, errors.New("quota"))
	e, err := entry.New(entry.Params{Track: "Gym", Content: "arms"}, time.Now())
	require.NoError(t, err)

	err = f.timeline.Add(ctx, *e)
	require.Error(t, err)
	assert.True(t, IsStorage(err))
	assert.Equal(t, 1, f.timeline.Len())

	err = f.timeline.Delete(ctx, f.timeline.Items()[0].ID)
	require.Error(t, err)
	assert.Equal(t, 1, f.timeline.Len())

	_, err = f.tracks.Add(ctx, "Gym", "")
	require.NoError(t, err)
	f.kv.FailOn(kv.OpSet, TracksKey, errors.New("quota"))
	_, err = f.tracks.Add(ctx, "Reading", "")
	require.Error(t, err)
	assert.Len(t, f.tracks.Tracks(), 1)
}

func TestCascadeReadFailureKeepsTrack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gym, err := f.tracks.Add(ctx, "Gym", "")
	require.NoError(t, err)
	f.addEntry(t, "Gym", "legs", 0)

	f.kv.FailOn(kv.OpGet, EntriesKey, errors.New("io"))
	require.Error(t, f.tracks.Remove(ctx, gym.ID))
	_, ok := f.tracks.GetByID(gym.ID)
	assert.True(t, ok)
	assert.Zero(t, f.tracks.StatsFor(ctx, gym.ID))
}

func TestDeleteUnknownEntryIsNoop(t *testing.T) {
	f := newFixture(t)
	f.addEntry(t, "Gym", "legs", 0)
	require.NoError(t, f.timeline.Delete(context.Background(), "nope"))
	assert.Equal(t, 1, f.timeline.Len())
}

func TestNewestFirstAndImmutability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.addEntry(t, "Gym", "first", 0)
	second := f.addEntry(t, "Gym", "second", 0)

	items := f.timeline.Items()
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)

	// Snapshots are copies.
	items[0].Content = "tampered"
	got, ok := f.timeline.Get(second.ID)
	require.True(t, ok)
	assert.Equal(t, "second", got.Content)

	gym, err := f.tracks.Add(ctx, "Gym", "")
	require.NoError(t, err)
	name := "Fitness"
	_, err = f.tracks.Update(ctx, gym.ID, Patch{Name: &name})
	require.NoError(t, err)
	got, _ = f.timeline.Get(first.ID)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, first.Type, got.Type)
	assert.Equal(t, first.Content, got.Content)
	assert.Equal(t, first.Date, got.Date)
	assert.Equal(t, first.Timestamp, got.Timestamp)
}

func TestClearIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEntry(t, "Gym", "legs", 0)
	_, err := f.tracks.Add(ctx, "Gym", "")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, f.timeline.Clear(ctx))
		require.NoError(t, f.tracks.Clear(ctx))
		require.NoError(t, f.profiles.Clear(ctx))
		assert.Zero(t, f.timeline.Len())
		assert.Empty(t, f.tracks.Tracks())
		assert.Equal(t, "user", f.profiles.Profile().Username)
	}
	_, err = f.kv.Get(ctx, EntriesKey)
	assert.True(t, errors.Is(err, kv.ErrNotFound), "clear removes the record instead of storing []")
}

func TestClearTracksKeepsEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.tracks.Add(ctx, "Gym", "")
	require.NoError(t, err)
	f.addEntry(t, "Gym", "legs", 0)

	var reasons []bus.Reason
	f.bus.On(bus.TimelineChanged, func(p any) { reasons = append(reasons, p.(bus.TimelineChange).Reason) })
	require.NoError(t, f.tracks.Clear(ctx))
	assert.Equal(t, 1, f.timeline.Len())
	assert.Equal(t, []bus.Reason{bus.ReasonClear}, reasons)
}

func TestLoadFailsSoft(t *testing.T) {
	m := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, EntriesKey, "{corrupt"))
	require.NoError(t, m.Set(ctx, TracksKey, `[{"name":"Gym"}]`))

	f := newFixtureFrom(t, m)
	assert.Zero(t, f.timeline.Len())
	tracks := f.tracks.Tracks()
	require.Len(t, tracks, 1)
	assert.NotEmpty(t, tracks[0].ID)
	assert.NotEmpty(t, tracks[0].Color)
}

func TestLegacyTracksAreWrittenBackOnce(t *testing.T) {
	m := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, TracksKey, `["Gym","gym","Reading"]`))

	first := newFixtureFrom(t, m).tracks.Tracks()
	require.Len(t, first, 2)
	assert.Equal(t, "Gym", first[0].Name)
	assert.Equal(t, "Reading", first[1].Name)

	second := newFixtureFrom(t, m).tracks.Tracks()
	assert.Equal(t, first, second, "ids and colors survive a reload")
}

func TestUniquenessHoldsUnderManyOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	names := []string{"Gym", "gym", "GYM", "Reading", "reading ", "Run", "RUN"}
	var ids []string
	for _, n := range names {
		if tr, err := f.tracks.Add(ctx, n, ""); err == nil {
			ids = append(ids, tr.ID)
		}
	}
	for _, id := range ids {
		for _, n := range names {
			n := n
			_, _ = f.tracks.Update(ctx, id, Patch{Name: &n})
		}
	}
	seen := make(map[string]bool)
	for _, tr := range f.tracks.Tracks() {
		key := strings.ToLower(tr.Name)
		assert.False(t, seen[key], "duplicate name %q", tr.Name)
		seen[key] = true
	}
}

func TestConcurrentAddsAreAllPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := entry.New(entry.Params{Track: "Gym", Content: fmt.Sprintf("entry %d", i)}, time.Now())
			if err != nil {
				t.Error(err)
				return
			}
			if err := f.timeline.Add(ctx, *e); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, f.timeline.Len())
	reloaded := newFixtureFrom(t, f.kv)
	assert.Equal(t, n, reloaded.timeline.Len())
}

func TestProfileIdentityValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profiles.UpdateIdentity(ctx, "", "bob")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "name")

	_, err = f.profiles.UpdateIdentity(ctx, "Bob", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3")

	p, err := f.profiles.UpdateIdentity(ctx, "Bob", "Bob_1")
	require.NoError(t, err)
	assert.Equal(t, "bob_1", p.Username)

	reloaded := newFixtureFrom(t, f.kv)
	assert.Equal(t, "Bob", reloaded.profiles.Profile().Name)
	assert.Equal(t, p.ID, reloaded.profiles.Profile().ID)
}

func TestProfileDefaultsAndAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	def := f.profiles.Profile()
	assert.Equal(t, "Your Name", def.Name)
	_, err := f.kv.Get(ctx, ProfileKey)
	require.NoError(t, err, "default profile is persisted on first load")

	_, err = f.profiles.UpdateAvatar(ctx, "/data/images/me.jpg")
	require.NoError(t, err)
	raw, err := f.kv.Get(ctx, AvatarKey)
	require.NoError(t, err)
	assert.Equal(t, "/data/images/me.jpg", raw)

	// The avatar key wins over the record.
	require.NoError(t, f.kv.Set(ctx, AvatarKey, "/data/images/other.jpg"))
	reloaded := newFixtureFrom(t, f.kv)
	assert.Equal(t, "/data/images/other.jpg", reloaded.profiles.Profile().AvatarURL)

	require.NoError(t, reloaded.profiles.Clear(ctx))
	_, err = f.kv.Get(ctx, AvatarKey)
	assert.True(t, errors.Is(err, kv.ErrNotFound))
	assert.Empty(t, reloaded.profiles.Profile().AvatarURL)
	assert.NotEqual(t, def.ID, reloaded.profiles.Profile().ID)
}

func TestAvatarIsRestoredWhenRecordWriteFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.profiles.UpdateAvatar(ctx, "/data/images/me.jpg")
	require.NoError(t, err)

	f.kv.FailOn(kv.OpSet, ProfileKey, errors.New("disk full"))
	_, err = f.profiles.UpdateAvatar(ctx, "/data/images/new.jpg")
	require.Error(t, err)
	assert.True(t, IsStorage(err))
	f.kv.Heal()

	raw, err := f.kv.Get(ctx, AvatarKey)
	require.NoError(t, err)
	assert.Equal(t, "/data/images/me.jpg", raw)
	reloaded := newFixtureFrom(t, f.kv)
	assert.Equal(t, "/data/images/me.jpg", reloaded.profiles.Profile().AvatarURL)
}

func TestFirstAvatarIsRemovedWhenRecordWriteFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.kv.FailOn(kv.OpSet, ProfileKey, errors.New("disk full"))
	_, err := f.profiles.UpdateAvatar(ctx, "/data/images/me.jpg")
	require.Error(t, err)
	f.kv.Heal()

	_, err = f.kv.Get(ctx, AvatarKey)
	assert.True(t, errors.Is(err, kv.ErrNotFound))
}

func TestProfileReadErrorUsesUnsavedFallback(t *testing.T) {
	m := kv.NewMemory()
	m.FailOn(kv.OpGet, ProfileKey, errors.New("io"))
	f := newFixtureFrom(t, m)

	assert.Equal(t, "User", f.profiles.Profile().Name)
	m.Heal()
	_, err := m.Get(context.Background(), ProfileKey)
	assert.True(t, errors.Is(err, kv.ErrNotFound), "fallback must not be persisted")
}

func TestSetupFlag(t *testing.T) {
	m := kv.NewMemory()
	ctx := context.Background()
	s := NewSetup(m)
	assert.False(t, s.Done(ctx))
	require.NoError(t, s.MarkDone(ctx))
	assert.True(t, s.Done(ctx))
	require.NoError(t, s.Reset(ctx))
	assert.False(t, s.Done(ctx))
}

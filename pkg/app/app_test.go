package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/timeline/pkg/config"
	"tableflip.dev/timeline/pkg/entry"
	"tableflip.dev/timeline/pkg/kv"
	"tableflip.dev/timeline/pkg/logging"
	"tableflip.dev/timeline/pkg/media"
	"tableflip.dev/timeline/pkg/stats"
	"tableflip.dev/timeline/pkg/store"
)

type harness struct {
	svc *Service
	kv  *kv.Memory
	fs  afero.Fs
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	m := kv.NewMemory()
	fs := afero.NewMemMapFs()
	svc := New(m, media.NewLibrary(fs, "/data/images"), logging.Nop())
	svc.Load(context.Background())
	t.Cleanup(func() { _ = svc.Close() })
	return &harness{svc: svc, kv: m, fs: fs}
}

func (h *harness) track(t *testing.T, name string) {
	t.Helper()
	_, err := h.svc.Tracks.Add(context.Background(), name, "#3B82F6")
	require.NoError(t, err)
}

func TestAddEntryRejectsMissingTrackOrContent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.track(t, "Gym")

	_, err := h.svc.AddEntry(ctx, NewEntry{Track: stats.AnyTrack, Content: "legs"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNoTrack))
	assert.True(t, store.IsValidation(err))

	_, err = h.svc.AddEntry(ctx, NewEntry{Track: stats.OnlyTrack("Gym"), Content: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrEmptyEntry))

	_, err = h.svc.AddEntry(ctx, NewEntry{Track: stats.OnlyTrack("Nope"), Content: "legs"})
	assert.True(t, errors.Is(err, store.ErrNotFound))

	assert.Zero(t, h.svc.Timeline.Len(), "rejected adds must not persist anything")
}

func TestAddEntryUsesTrackSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.track(t, "Gym")

	e, err := h.svc.AddEntry(ctx, NewEntry{Track: stats.OnlyTrack("gym"), Content: " legs "})
	require.NoError(t, err)
	assert.Equal(t, "Gym", e.Track)
	assert.Equal(t, "#3B82F6", e.Color)
	assert.Equal(t, "legs", e.Content)
	assert.Equal(t, entry.TypeText, e.Type)
	assert.Equal(t, 1, h.svc.Timeline.Len())
}

func TestAddEntryCopiesImage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.track(t, "Gym")
	require.NoError(t, afero.WriteFile(h.fs, "/camera/IMG_1.jpg", []byte("img"), 0644))

	e, err := h.svc.AddEntry(ctx, NewEntry{Track: stats.OnlyTrack("Gym"), ImagePath: "/camera/IMG_1.jpg"})
	require.NoError(t, err)
	assert.Equal(t, entry.TypeImage, e.Type)
	assert.Equal(t, "/data/images", filepath.Dir(e.Image))
	assert.True(t, h.svc.Doctor().Healthy())

	require.NoError(t, h.fs.Remove(e.Image))
	d := h.svc.Doctor()
	require.Len(t, d.MissingImages, 1)
	assert.Equal(t, e.ID, d.MissingImages[0].ID)
}

func TestAddEntryOnDay(t *testing.T) {
	h := newHarness(t)
	h.track(t, "Gym")
	on := time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local)

	e, err := h.svc.AddEntry(context.Background(), NewEntry{Track: stats.OnlyTrack("Gym"), Content: "leap", On: &on})
	require.NoError(t, err)
	assert.Equal(t, "2/29/2024", e.Date)
}

func TestDeleteAndCompare(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.track(t, "Gym")

	clock := time.Date(2025, 5, 1, 9, 0, 0, 0, time.Local)
	h.svc.Now = func() time.Time { return clock }
	a, err := h.svc.AddEntry(ctx, NewEntry{Track: stats.OnlyTrack("Gym"), Content: "before"})
	require.NoError(t, err)
	clock = clock.AddDate(0, 0, 14)
	b, err := h.svc.AddEntry(ctx, NewEntry{Track: stats.OnlyTrack("Gym"), Content: "after"})
	require.NoError(t, err)

	c, err := h.svc.Compare(b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, c.Older.ID)
	assert.Equal(t, 14, c.DaysApart)
	assert.True(t, c.SameTrack)

	_, err = h.svc.Compare(a.ID, "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	assert.True(t, errors.Is(h.svc.DeleteEntry(ctx, "missing"), store.ErrNotFound))
	require.NoError(t, h.svc.DeleteEntry(ctx, a.ID))
	assert.Equal(t, 1, h.svc.Timeline.Len())
}

func TestGroupsFilter(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.track(t, "Gym")
	h.track(t, "Read")
	for _, p := range []NewEntry{
		{Track: stats.OnlyTrack("Gym"), Content: "legs"},
		{Track: stats.OnlyTrack("Read"), Content: "Dune"},
		{Track: stats.OnlyTrack("Gym"), Content: "arms"},
	} {
		_, err := h.svc.AddEntry(ctx, p)
		require.NoError(t, err)
	}

	groups := h.svc.Groups(stats.Filter{})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Entries, 3)
	assert.Equal(t, "arms", groups[0].Entries[0].Content)

	groups = h.svc.Groups(stats.Filter{Track: stats.OnlyTrack("Read")})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Entries, 1)

	assert.Empty(t, h.svc.Groups(stats.Filter{Search: "nothing"}))
}

func TestReportIsInvalidatedByStoreChanges(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.track(t, "Gym")

	r := h.svc.Report(0)
	assert.Equal(t, stats.HeatmapDays, r.Days)
	assert.Zero(t, r.Summary.TotalEvents)
	require.Len(t, r.Tracks, 1)
	assert.Len(t, r.Tracks[0].Cells, stats.HeatmapDays)

	_, err := h.svc.AddEntry(ctx, NewEntry{Track: stats.OnlyTrack("Gym"), Content: "legs"})
	require.NoError(t, err)
	r = h.svc.Report(0)
	assert.Equal(t, 1, r.Summary.TotalEvents)
	assert.Equal(t, 1, r.Summary.StreakDays)
	assert.Equal(t, 1, r.Tracks[0].Weekly)
	assert.Equal(t, 1, r.Tracks[0].Active)

	gym, _ := h.svc.Tracks.GetByName("Gym")
	name := "Fitness"
	_, err = h.svc.Tracks.Update(ctx, gym.ID, store.Patch{Name: &name})
	require.NoError(t, err)
	r = h.svc.Report(7)
	assert.Equal(t, "Fitness", r.Tracks[0].Name)
	assert.Equal(t, 1, r.Tracks[0].Total)
	assert.Len(t, r.Tracks[0].Cells, 7)
}

func TestResetAll(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.track(t, "Gym")
	_, err := h.svc.AddEntry(ctx, NewEntry{Track: stats.OnlyTrack("Gym"), Content: "legs"})
	require.NoError(t, err)
	require.NoError(t, h.svc.SetIdentity(ctx, "Ada", "ada"))
	assert.True(t, h.svc.Setup.Done(ctx))

	require.NoError(t, h.svc.ResetAll(ctx))
	assert.Zero(t, h.svc.Timeline.Len())
	assert.Empty(t, h.svc.Tracks.Tracks())
	assert.Equal(t, "User", h.svc.Profiles.Profile().Name)
	assert.False(t, h.svc.Setup.Done(ctx))

	require.NoError(t, h.svc.ResetAll(ctx))
}

func TestResetAllKeepsGoingAfterFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.track(t, "Gym")
	require.NoError(t, h.svc.Setup.MarkDone(ctx))

	h.kv.FailOn(kv.OpRemove, store.EntriesKey, errors.New("locked"))
	err := h.svc.ResetAll(ctx)
	require.Error(t, err)
	assert.True(t, store.IsStorage(err))
	assert.Empty(t, h.svc.Tracks.Tracks())
	assert.False(t, h.svc.Setup.Done(ctx))
}

func TestExportImport(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			src := newHarness(t)
			ctx := context.Background()
			src.track(t, "Gym")
			src.track(t, "Read")
			_, err := src.svc.AddEntry(ctx, NewEntry{Track: stats.OnlyTrack("Gym"), Content: "legs"})
			require.NoError(t, err)
			_, err = src.svc.AddEntry(ctx, NewEntry{Track: stats.OnlyTrack("Read"), Content: "Dune"})
			require.NoError(t, err)
			require.NoError(t, src.svc.SetIdentity(ctx, "Ada", "Ada_L"))

			var buf bytes.Buffer
			require.NoError(t, src.svc.Export(&buf, format))

			dst := newHarness(t)
			dst.track(t, "gym")
			b, err := DecodeBackup(&buf)
			require.NoError(t, err)
			res, err := dst.svc.Import(ctx, b)
			require.NoError(t, err)
			assert.Equal(t, 1, res.Tracks)
			assert.Equal(t, 2, res.Entries)
			assert.Equal(t, 1, res.Skipped)

			items := dst.svc.Timeline.Items()
			require.Len(t, items, 2)
			assert.Equal(t, "Dune", items[0].Content)
			assert.Equal(t, "gym", items[1].Track, "entries follow the stored track spelling")
			assert.Empty(t, stats.Orphans(items, dst.svc.Tracks.Tracks()))
			assert.Equal(t, "ada_l", dst.svc.Profiles.Profile().Username)

			// Importing again changes nothing.
			res, err = dst.svc.Import(ctx, b)
			require.NoError(t, err)
			assert.Zero(t, res.Entries)
			assert.Len(t, dst.svc.Timeline.Items(), 2)
		})
	}
}

func TestImportSkipsEntriesWithoutTrack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.track(t, "Gym")
	now := time.Now()

	lost, err := entry.New(entry.Params{Track: "Knitting", Content: "scarf"}, now)
	require.NoError(t, err)
	kept, err := entry.New(entry.Params{Track: "GYM", Content: "legs"}, now.Add(time.Minute))
	require.NoError(t, err)

	res, err := h.svc.Import(ctx, &Backup{Version: BackupVersion, Entries: []entry.Entry{*lost, *kept}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Entries)
	assert.Equal(t, 1, res.Skipped)

	items := h.svc.Timeline.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Gym", items[0].Track)
	assert.Empty(t, stats.Orphans(items, h.svc.Tracks.Tracks()))
}

func TestDecodeBackupRejectsNewerVersion(t *testing.T) {
	_, err := DecodeBackup(strings.NewReader(`{"version": 99}`))
	require.Error(t, err)
	_, err = DecodeBackup(strings.NewReader("version: [\n"))
	require.Error(t, err)
}

func TestDoctorFindsOrphans(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	e, err := entry.New(entry.Params{Track: "Ghost", Content: "boo"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, h.svc.Timeline.Add(ctx, *e))

	d := h.svc.Doctor()
	assert.False(t, d.Healthy())
	require.Len(t, d.Orphans, 1)
	assert.Equal(t, "Ghost", d.Orphans[0].Track)
}

func TestOpenWithDiskv(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Static{Path: filepath.Join(dir, "db")}
	ctx := context.Background()

	svc, err := Open(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	_, err = svc.Tracks.Add(ctx, "Gym", "")
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	again, err := Open(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	defer again.Close()
	_, ok := again.Tracks.GetByName("gym")
	assert.True(t, ok)
	assert.Equal(t, "Your Name", again.Profiles.Profile().Name)
}

func TestWatchNeedsDiskv(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Watch(context.Background())
	assert.Error(t, err)
}

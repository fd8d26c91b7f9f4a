// Package app wires the stores together and exposes the operations the CLI
// shares: adding entries, comparing them, statistics, backups and reset.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"

	"tableflip.dev/timeline/pkg/bus"
	"tableflip.dev/timeline/pkg/config"
	"tableflip.dev/timeline/pkg/entry"
	"tableflip.dev/timeline/pkg/kv"
	"tableflip.dev/timeline/pkg/logging"
	"tableflip.dev/timeline/pkg/media"
	"tableflip.dev/timeline/pkg/stats"
	"tableflip.dev/timeline/pkg/store"
)

// ErrNoMedia is returned when an image is attached but no image library is
// configured.
var ErrNoMedia = errors.New("app: no image library configured")

// Service provides high-level operations over the timeline, track and
// profile stores so CLIs share the same logic.
type Service struct {
	KV       kv.Store
	Bus      *bus.Bus
	Log      logging.Logger
	Timeline *store.Timeline
	Tracks   *store.Tracks
	Profiles *store.Profiles
	Setup    *store.Setup
	Media    *media.Library

	// BasePath is the diskv directory, used by Watch.
	BasePath string
	// HeatmapDays is the default stats window.
	HeatmapDays int
	// Now is the clock used for new entries and derived views.
	Now func() time.Time

	cache *statsCache
}

// New builds a Service over s. lib may be nil when images are not used.
func New(s kv.Store, lib *media.Library, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	b := bus.New()
	timeline := store.NewTimeline(s, b, log)
	svc := &Service{
		KV:          s,
		Bus:         b,
		Log:         log,
		Timeline:    timeline,
		Tracks:      store.NewTracks(s, b, log, timeline),
		Profiles:    store.NewProfiles(s, b, log),
		Setup:       store.NewSetup(s),
		Media:       lib,
		HeatmapDays: stats.HeatmapDays,
		Now:         time.Now,
	}
	svc.cache = newStatsCache(b)
	return svc
}

// Open builds and loads a Service from cfg using the configured backend.
func Open(ctx context.Context, cfg config.Config, log logging.Logger) (*Service, error) {
	s, err := kv.Open(cfg.Backend(), cfg.BasePath())
	if err != nil {
		return nil, err
	}
	svc := New(s, media.NewLibrary(afero.NewOsFs(), cfg.ImagesPath()), log)
	svc.BasePath = cfg.BasePath()
	svc.HeatmapDays = cfg.HeatmapDays()
	svc.Load(ctx)
	return svc, nil
}

// Close detaches from the bus and releases the key-value backend when it
// holds resources.
func (s *Service) Close() error {
	s.cache.detach(s.Bus)
	if c, ok := s.KV.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Load reads every store. Unreadable data is logged and treated as empty.
func (s *Service) Load(ctx context.Context) {
	s.Tracks.Load(ctx)
	s.Timeline.Load(ctx)
	s.Profiles.Load(ctx)
	s.cache.invalidate()
}

// NewEntry is the input of AddEntry.
type NewEntry struct {
	// Track must name an existing track; AnyTrack is rejected.
	Track   stats.TrackSelector
	Content string
	// ImagePath is a picked file; it is copied into the image library.
	ImagePath string
	// On overrides the calendar day.
	On *time.Time
}

// AddEntry validates e, copies its image, and prepends it to the timeline.
func (s *Service) AddEntry(ctx context.Context, e NewEntry) (entry.Entry, error) {
	if e.Track == stats.AnyTrack || strings.TrimSpace(*e.Track) == "" {
		return entry.Entry{}, store.Invalid("track", store.ErrNoTrack)
	}
	content := strings.TrimSpace(e.Content)
	imagePath := strings.TrimSpace(e.ImagePath)
	if content == "" && imagePath == "" {
		return entry.Entry{}, store.Invalid("content", store.ErrEmptyEntry)
	}
	t, ok := s.Tracks.GetByName(*e.Track)
	if !ok {
		return entry.Entry{}, fmt.Errorf("track %q: %w", *e.Track, store.ErrNotFound)
	}

	var image string
	if imagePath != "" {
		if s.Media == nil {
			return entry.Entry{}, ErrNoMedia
		}
		durable, err := s.Media.Import(imagePath)
		if err != nil {
			return entry.Entry{}, err
		}
		image = durable
	}

	created, err := entry.New(entry.Params{
		Track:   t.Name,
		Color:   t.Color,
		Content: content,
		Image:   image,
		On:      e.On,
	}, s.Now())
	if err != nil {
		return entry.Entry{}, store.Invalid("content", store.ErrEmptyEntry)
	}
	if err := s.Timeline.Add(ctx, *created); err != nil {
		return entry.Entry{}, err
	}
	return *created, nil
}

// DeleteEntry removes an entry; unlike the store it reports unknown ids.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	if _, ok := s.Timeline.Get(id); !ok {
		return fmt.Errorf("entry %q: %w", id, store.ErrNotFound)
	}
	return s.Timeline.Delete(ctx, id)
}

// Groups returns the filtered timeline grouped by day, most recent first.
func (s *Service) Groups(f stats.Filter) []stats.Group {
	return stats.GroupByDate(f.Apply(s.Timeline.Items()))
}

// Compare sets two entries side by side.
func (s *Service) Compare(aID, bID string) (stats.Comparison, error) {
	a, ok := s.Timeline.Get(aID)
	if !ok {
		return stats.Comparison{}, fmt.Errorf("entry %q: %w", aID, store.ErrNotFound)
	}
	b, ok := s.Timeline.Get(bID)
	if !ok {
		return stats.Comparison{}, fmt.Errorf("entry %q: %w", bID, store.ErrNotFound)
	}
	return stats.Pair(a, b), nil
}

// SetIdentity updates the profile and marks first-run setup as done.
func (s *Service) SetIdentity(ctx context.Context, name, username string) error {
	if _, err := s.Profiles.UpdateIdentity(ctx, name, username); err != nil {
		return err
	}
	return s.Setup.MarkDone(ctx)
}

// SetAvatar copies path into the image library and stores it on the
// profile. An empty path clears the avatar.
func (s *Service) SetAvatar(ctx context.Context, path string) error {
	uri := ""
	if path != "" {
		if s.Media == nil {
			return ErrNoMedia
		}
		var err error
		if uri, err = s.Media.Import(path); err != nil {
			return err
		}
	}
	_, err := s.Profiles.UpdateAvatar(ctx, uri)
	return err
}

// ResetAll clears entries, tracks, the profile and the setup flag. Every
// step runs even when an earlier one fails; the failures are joined.
func (s *Service) ResetAll(ctx context.Context) error {
	err := errors.Join(
		s.Timeline.Clear(ctx),
		s.Tracks.Clear(ctx),
		s.Profiles.Clear(ctx),
		s.Setup.Reset(ctx),
	)
	if err != nil {
		s.Log.Error(ctx, "reset", "err", err)
		return err
	}
	s.Log.Info(ctx, "reset complete")
	return nil
}

// Watch reports keys changed on disk by another process. Only the diskv
// backend can be watched.
func (s *Service) Watch(ctx context.Context) (<-chan kv.Event, error) {
	if _, ok := s.KV.(*kv.Diskv); !ok || s.BasePath == "" {
		return nil, errors.New("app: watch needs the diskv backend")
	}
	return kv.Watch(ctx, s.BasePath)
}

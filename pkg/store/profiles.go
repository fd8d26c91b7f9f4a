package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"tableflip.dev/timeline/pkg/bus"
	"tableflip.dev/timeline/pkg/kv"
	"tableflip.dev/timeline/pkg/logging"
	"tableflip.dev/timeline/pkg/profile"
)

// Profiles owns the single user profile. After Load there is always one.
type Profiles struct {
	mu      sync.Mutex
	kv      kv.Store
	bus     *bus.Bus
	log     logging.Logger
	profile profile.Profile
	loaded  bool

	// Now is the clock used for timestamps.
	Now func() time.Time
}

// NewProfiles returns a profile store; call Load before reading it.
func NewProfiles(s kv.Store, b *bus.Bus, log logging.Logger) *Profiles {
	return &Profiles{
		kv:  s,
		bus: b,
		log: log.With("store", "profile"),
		Now: time.Now,
	}
}

// Load reads the profile. When none is stored a default is created and
// persisted. When reading fails an unsaved fallback is used so the storage
// problem is not papered over on disk.
func (s *Profiles) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
}

func (s *Profiles) loadLocked(ctx context.Context) {
	s.loaded = true
	p, err := s.readPersisted(ctx)
	if err != nil {
		s.log.Warn(ctx, "load profile", "err", err)
		s.profile = profile.Fallback(s.Now())
		return
	}
	if p != nil {
		s.profile = *p
		return
	}

	def := profile.Default(s.Now())
	if err := writeJSON(ctx, s.kv, ProfileKey, def); err != nil {
		s.log.Warn(ctx, "save default profile", "err", err)
		s.profile = profile.Fallback(s.Now())
		return
	}
	s.profile = def
}

// Profile returns the current profile.
func (s *Profiles) Profile() profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// UpdateIdentity validates and stores a new name and username. The
// username is stored lowercased.
func (s *Profiles) UpdateIdentity(ctx context.Context, name, username string) (profile.Profile, error) {
	name, username, problem := profile.ValidateIdentity(name, username)
	if problem != nil {
		return profile.Profile{}, &ValidationError{Field: problem.Field, Rule: problem.Rule}
	}

	s.mu.Lock()
	if !s.loaded {
		s.loadLocked(ctx)
	}
	updated := s.profile
	updated.Name = name
	updated.Username = username
	updated.UpdatedAt = s.Now().UTC()
	err := s.commit(ctx, updated)
	s.mu.Unlock()
	if err != nil {
		return profile.Profile{}, err
	}
	s.bus.Emit(bus.ProfileChanged, nil)
	return updated, nil
}

// UpdateAvatar stores the avatar reference under its own key and mirrors it
// into the profile record. An empty uri clears the avatar.
func (s *Profiles) UpdateAvatar(ctx context.Context, uri string) (profile.Profile, error) {
	s.mu.Lock()
	if !s.loaded {
		s.loadLocked(ctx)
	}
	previous, hadAvatar, err := read(ctx, s.kv, AvatarKey)
	if err != nil {
		s.mu.Unlock()
		return profile.Profile{}, err
	}
	if err := s.kv.Set(ctx, AvatarKey, uri); err != nil {
		s.mu.Unlock()
		return profile.Profile{}, &StorageError{Op: "write", Key: AvatarKey, Err: err}
	}
	updated := s.profile
	updated.AvatarURL = uri
	updated.UpdatedAt = s.Now().UTC()
	if err := s.commit(ctx, updated); err != nil {
		s.restoreAvatar(ctx, previous, hadAvatar)
		s.mu.Unlock()
		return profile.Profile{}, err
	}
	s.mu.Unlock()
	s.bus.Emit(bus.ProfileChanged, nil)
	return updated, nil
}

// restoreAvatar puts the avatar key back the way it was, since the key wins
// over the record on the next Load.
func (s *Profiles) restoreAvatar(ctx context.Context, previous string, existed bool) {
	var err error
	if existed {
		err = s.kv.Set(ctx, AvatarKey, previous)
	} else {
		err = s.kv.Remove(ctx, AvatarKey)
	}
	if err != nil {
		s.log.Error(ctx, "restore avatar", "err", err)
	}
}

// Clear removes the stored profile and avatar, then persists a fresh
// default so the profile is never absent.
func (s *Profiles) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := remove(ctx, s.kv, ProfileKey); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := remove(ctx, s.kv, AvatarKey); err != nil {
		s.mu.Unlock()
		return err
	}
	s.loaded = true
	err := s.commit(ctx, profile.Reset(s.Now()))
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.bus.Emit(bus.ProfileChanged, nil)
	return nil
}

func (s *Profiles) commit(ctx context.Context, p profile.Profile) error {
	if err := writeJSON(ctx, s.kv, ProfileKey, p); err != nil {
		return err
	}
	s.profile = p
	return nil
}

// readPersisted returns nil, nil when no profile is stored. The avatar key
// wins over the avatar copied into the record.
func (s *Profiles) readPersisted(ctx context.Context) (*profile.Profile, error) {
	raw, found, err := read(ctx, s.kv, ProfileKey)
	if err != nil || !found {
		return nil, err
	}
	avatar, _, err := read(ctx, s.kv, AvatarKey)
	if err != nil {
		return nil, err
	}
	var p profile.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, &StorageError{Op: "decode", Key: ProfileKey, Err: err}
	}
	if avatar != "" {
		p.AvatarURL = avatar
	}
	return &p, nil
}

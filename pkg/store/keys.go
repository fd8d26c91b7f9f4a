// Package store holds the timeline, tracks and profile stores. Each keeps an
// in-memory snapshot that is only replaced after the key-value write it
// depends on succeeds.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"tableflip.dev/timeline/pkg/kv"
)

// Storage keys. The names match data written by earlier releases.
const (
	EntriesKey  = "USERITEMS"
	TracksKey   = "USER_TRACKS"
	ProfileKey  = "USER_PROFILE"
	AvatarKey   = "USER_AVATAR"
	UserDataKey = "userdataAvailable"
)

// read returns the raw value for key; found is false when the key is absent.
func read(ctx context.Context, s kv.Store, key string) (string, bool, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Op: "read", Key: key, Err: err}
	}
	return v, true, nil
}

func writeJSON(ctx context.Context, s kv.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return &StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := s.Set(ctx, key, string(b)); err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}

func remove(ctx context.Context, s kv.Store, key string) error {
	if err := s.Remove(ctx, key); err != nil {
		return &StorageError{Op: "remove", Key: key, Err: err}
	}
	return nil
}

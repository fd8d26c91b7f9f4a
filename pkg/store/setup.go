package store

import (
	"context"

	"tableflip.dev/timeline/pkg/kv"
)

// Setup tracks whether first-run setup finished.
type Setup struct {
	kv kv.Store
}

func NewSetup(s kv.Store) *Setup {
	return &Setup{kv: s}
}

// Done reports whether setup completed. Read errors count as not done.
func (s *Setup) Done(ctx context.Context) bool {
	v, _, err := read(ctx, s.kv, UserDataKey)
	return err == nil && v == "true"
}

func (s *Setup) MarkDone(ctx context.Context) error {
	if err := s.kv.Set(ctx, UserDataKey, "true"); err != nil {
		return &StorageError{Op: "write", Key: UserDataKey, Err: err}
	}
	return nil
}

func (s *Setup) Reset(ctx context.Context) error {
	return remove(ctx, s.kv, UserDataKey)
}

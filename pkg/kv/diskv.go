package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Diskv stores one file per key under a base directory.
type Diskv struct {
	d        *diskv.Diskv
	basePath string
}

// NewDiskv creates a diskv backed store rooted at basePath.
func NewDiskv(basePath string) (*Diskv, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("kv: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("kv: ensure base path: %w", err)
	}
	return &Diskv{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		basePath: basePath,
	}, nil
}

// BasePath is the directory holding the key files.
func (s *Diskv) BasePath() string {
	return s.basePath
}

// Get reads straight from disk so writes by another process are seen.
func (s *Diskv) Get(_ context.Context, key string) (string, error) {
	rc, err := s.d.ReadStream(key, true)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	defer rc.Close()
	val, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func (s *Diskv) Set(_ context.Context, key, value string) error {
	return s.d.Write(key, []byte(value))
}

func (s *Diskv) Remove(_ context.Context, key string) error {
	if err := s.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Diskv) Clear(ctx context.Context) error {
	keys := make([]string, 0)
	for key := range s.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	for _, key := range keys {
		if err := s.Remove(ctx, key); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// Package kv provides the string key-value persistence the stores are built on.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is an asynchronous string key-value store. Every operation may fail.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Clear removes every key.
	Clear(ctx context.Context) error
}

// Backend names accepted by Open.
const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
)

// Open returns the store for the named backend rooted at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendDiskv:
		return NewDiskv(path)
	case BackendSQLite:
		return NewSQLite(path)
	default:
		return nil, errors.New("kv: unknown backend " + backend)
	}
}

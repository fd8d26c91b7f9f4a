package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id matches no record.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is wrapped by the ValidationError returned when a
	// track name collides case-insensitively with another track.
	ErrDuplicateName = errors.New("duplicate track name")
	// ErrNoTrack is reported when an entry is added without choosing a
	// specific track.
	ErrNoTrack = errors.New("choose a track for this entry")
	// ErrEmptyEntry is reported when an entry has neither text nor image.
	ErrEmptyEntry = errors.New("add some text or an image")
)

// ValidationError reports user input that breaks a rule. Rule is a human
// readable sentence naming the rule.
type ValidationError struct {
	Field string
	Rule  string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Rule
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid wraps err as a ValidationError on field, using err's message as
// the rule.
func Invalid(field string, err error) error {
	return &ValidationError{Field: field, Rule: err.Error(), Err: err}
}

func duplicateName(name string) error {
	return &ValidationError{
		Field: "name",
		Rule:  fmt.Sprintf("a track named %q already exists", name),
		Err:   ErrDuplicateName,
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// StorageError wraps a failed key-value operation.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}

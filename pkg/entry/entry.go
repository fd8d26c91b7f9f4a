// Package entry defines timeline entries, the immutable records users add
// under a track.
package entry

import (
	"errors"
	"strings"
	"time"
)

// Type says which media an entry carries. It is derived at creation.
type Type string

const (
	TypeText      Type = "text"
	TypeImage     Type = "image"
	TypeTextImage Type = "text_image"
)

// ErrEmpty is returned by New when neither content nor an image is given.
var ErrEmpty = errors.New("entry: content or image required")

// DefaultColor is used when the owning track has no color.
const DefaultColor = "#4caf50"

// Entry is a single dated timeline event. Fields are never mutated after
// New returns; the only lifecycle event is deletion.
type Entry struct {
	ID        string `json:"id" yaml:"id"`
	Type      Type   `json:"type" yaml:"type"`
	Content   string `json:"content" yaml:"content"`
	Track     string `json:"track" yaml:"track"`
	Color     string `json:"color" yaml:"color"`
	Image     string `json:"image,omitempty" yaml:"image,omitempty"`
	Date      string `json:"date" yaml:"date"`
	Time      string `json:"time" yaml:"time"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
}

// Params are the inputs of New.
type Params struct {
	Track   string
	Color   string
	Content string
	// Image must already point at a durable local copy.
	Image string
	// On overrides the calendar day of the entry; the time of day and the
	// timestamp always come from now.
	On *time.Time
}

// New builds an entry created at now.
func New(p Params, now time.Time) (*Entry, error) {
	typ, err := DeriveType(p.Content, p.Image)
	if err != nil {
		return nil, err
	}
	color := p.Color
	if color == "" {
		color = DefaultColor
	}
	day := now
	if p.On != nil {
		day = *p.On
	}
	return &Entry{
		ID:        NewID(now),
		Type:      typ,
		Content:   p.Content,
		Track:     p.Track,
		Color:     color,
		Image:     p.Image,
		Date:      FormatDate(day),
		Time:      FormatTime(now),
		Timestamp: now.UnixMilli(),
	}, nil
}

// DeriveType picks the entry type from what is present.
func DeriveType(content, image string) (Type, error) {
	hasText := content != ""
	hasImage := strings.TrimSpace(image) != ""
	switch {
	case hasText && hasImage:
		return TypeTextImage, nil
	case hasImage:
		return TypeImage, nil
	case hasText:
		return TypeText, nil
	default:
		return "", ErrEmpty
	}
}

// HasImage reports whether the entry references an image file.
func (e *Entry) HasImage() bool {
	return e.Image != ""
}

// Day parses the entry date.
func (e *Entry) Day() (time.Time, error) {
	return ParseDate(e.Date)
}

// Created is the creation instant.
func (e *Entry) Created() time.Time {
	return time.UnixMilli(e.Timestamp)
}

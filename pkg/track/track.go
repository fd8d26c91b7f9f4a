// Package track defines the user-defined categories entries are filed under.
package track

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/timeline/pkg/entry"
)

// MaxNameLength bounds track names, counted in runes.
const MaxNameLength = 20

// Palette is the fixed set random track colors are drawn from. Repeats are
// intentional; they weight the draw.
var Palette = []string{
	"#EF4444", "#F97316", "#F59E0B", "#10B981", "#06B6D4",
	"#3B82F6", "#8B5CF6", "#EC4899", "#6366F1", "#14B8A6",
	"#84CC16", "#F43F5E", "#8B5CF6", "#EC4899", "#0EA5E9",
}

// Track is a named, colored category.
type Track struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Color     string    `json:"color" yaml:"color"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// New returns a track created at now. An empty color draws from Palette.
func New(name, color string, now time.Time) *Track {
	if color == "" {
		color = RandomColor()
	}
	return &Track{
		ID:        entry.NewID(now),
		Name:      name,
		Color:     color,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// RandomColor picks a palette color.
func RandomColor() string {
	return Palette[rand.Intn(len(Palette))]
}

// SameName compares names the way uniqueness is enforced: case-insensitively.
func SameName(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Name validation errors.
var (
	ErrNameRequired = errors.New("track name is required")
	ErrNameTooLong  = fmt.Errorf("track name must be at most %d characters", MaxNameLength)
)

// CleanName trims and validates a user supplied name.
func CleanName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrNameRequired
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// CleanColor validates a hex color such as "#FF0000". Empty is allowed and
// means "pick one".
func CleanColor(raw string) (string, error) {
	c := strings.TrimSpace(raw)
	if c == "" {
		return "", nil
	}
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	if _, err := colorful.Hex(c); err != nil {
		return "", fmt.Errorf("invalid color %q", raw)
	}
	return strings.ToUpper(c), nil
}

// IsDark reports whether text drawn on this color should be light.
func IsDark(hex string) bool {
	c, err := colorful.Hex(hex)
	if err != nil {
		return false
	}
	l, _, _ := c.Lab()
	return l < 0.6
}

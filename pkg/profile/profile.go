// Package profile holds the single user identity record.
package profile

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"tableflip.dev/timeline/pkg/entry"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Profile is the user's identity.
type Profile struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Username  string    `json:"username" yaml:"username"`
	AvatarURL string    `json:"avatarUrl" yaml:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

func newProfile(name, username string, now time.Time) Profile {
	return Profile{
		ID:        entry.NewID(now),
		Name:      name,
		Username:  username,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// Default is synthesized the first time the app loads.
func Default(now time.Time) Profile {
	return newProfile("Your Name", "yourusername", now)
}

// Fallback is used in memory when the stored profile cannot be read.
func Fallback(now time.Time) Profile {
	return newProfile("User", "user", now)
}

// Reset is persisted after the profile is cleared.
func Reset(now time.Time) Profile {
	return newProfile("User", "user", now)
}

// Problem describes one violated identity rule.
type Problem struct {
	Field string
	Rule  string
}

// ValidateIdentity checks name and username, reporting the first rule
// broken. On success it returns the cleaned name and lowercased username.
func ValidateIdentity(name, username string) (string, string, *Problem) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	switch {
	case name == "":
		return "", "", &Problem{Field: "name", Rule: "name is required"}
	case username == "":
		return "", "", &Problem{Field: "username", Rule: "username is required"}
	case !usernamePattern.MatchString(username):
		return "", "", &Problem{Field: "username", Rule: "username can only contain letters, numbers, and underscores"}
	case utf8.RuneCountInString(username) < MinUsernameLength:
		return "", "", &Problem{Field: "username", Rule: "username must be at least 3 characters"}
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		return "", "", &Problem{Field: "username", Rule: "username must be at most 20 characters"}
	}
	return name, strings.ToLower(username), nil
}

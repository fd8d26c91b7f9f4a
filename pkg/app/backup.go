package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"tableflip.dev/timeline/pkg/entry"
	"tableflip.dev/timeline/pkg/profile"
	"tableflip.dev/timeline/pkg/track"
)

// Format is a backup encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// BackupVersion is written into every export.
const BackupVersion = 1

// Backup is a full export of the user's data.
type Backup struct {
	Version    int             `json:"version" yaml:"version"`
	ExportedAt int64           `json:"exportedAt" yaml:"exportedAt"`
	Profile    profile.Profile `json:"profile" yaml:"profile"`
	Tracks     []track.Track   `json:"tracks" yaml:"tracks"`
	Entries    []entry.Entry   `json:"entries" yaml:"entries"`
}

// Backup snapshots every store.
func (s *Service) Backup() Backup {
	return Backup{
		Version:    BackupVersion,
		ExportedAt: s.Now().UnixMilli(),
		Profile:    s.Profiles.Profile(),
		Tracks:     s.Tracks.Tracks(),
		Entries:    s.Timeline.Items(),
	}
}

// Export writes a backup to w.
func (s *Service) Export(w io.Writer, f Format) error {
	b := s.Backup()
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("app: encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	default:
		return fmt.Errorf("app: unknown export format %q", f)
	}
}

// DecodeBackup reads a backup written by Export in either format.
func DecodeBackup(r io.Reader) (*Backup, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("app: read backup: %w", err)
	}
	var b Backup
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &b)
	} else {
		err = yaml.Unmarshal(trimmed, &b)
	}
	if err != nil {
		return nil, fmt.Errorf("app: decode backup: %w", err)
	}
	if b.Version > BackupVersion {
		return nil, fmt.Errorf("app: backup version %d is newer than %d", b.Version, BackupVersion)
	}
	return &b, nil
}

// ImportResult counts what an import changed.
type ImportResult struct {
	Tracks  int
	Entries int
	Skipped int
}

// Import merges b into the stores. Tracks are matched by name and entries
// by id; existing records win. Each imported entry is filed under the
// stored spelling of its track, and entries whose track exists nowhere are
// skipped. The profile identity is taken from the backup when it is valid.
func (s *Service) Import(ctx context.Context, b *Backup) (ImportResult, error) {
	var res ImportResult
	for _, t := range b.Tracks {
		if _, ok := s.Tracks.GetByName(t.Name); ok {
			res.Skipped++
			continue
		}
		if _, err := s.Tracks.Add(ctx, t.Name, t.Color); err != nil {
			return res, fmt.Errorf("app: import track %q: %w", t.Name, err)
		}
		res.Tracks++
	}

	current := s.Timeline.Items()
	seen := make(map[string]bool, len(current))
	for _, e := range current {
		seen[e.ID] = true
	}
	merged := current
	for _, e := range b.Entries {
		if e.ID == "" || seen[e.ID] {
			res.Skipped++
			continue
		}
		owner, ok := s.Tracks.GetByName(e.Track)
		if !ok {
			res.Skipped++
			continue
		}
		e.Track = owner.Name
		seen[e.ID] = true
		merged = append(merged, e)
		res.Entries++
	}
	if res.Entries > 0 {
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].Timestamp > merged[j].Timestamp
		})
		if err := s.Timeline.Replace(ctx, merged); err != nil {
			return res, err
		}
	}

	if _, _, problem := profile.ValidateIdentity(b.Profile.Name, b.Profile.Username); problem == nil {
		if err := s.SetIdentity(ctx, b.Profile.Name, b.Profile.Username); err != nil {
			return res, err
		}
	}
	return res, nil
}

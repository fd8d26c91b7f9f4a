package track

import (
	"encoding/json"
	"strings"
	"time"

	"tableflip.dev/timeline/pkg/entry"
)

// record is the on-disk shape, tolerant of legacy data where any of the
// fields may be missing.
type record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// UnmarshalList decodes persisted tracks and backfills missing ids, colors
// and timestamps. Legacy arrays of plain names are upgraded as well, and a
// name repeated in another case keeps only its first track. migrated reports
// whether the result differs from data and should be written back.
func UnmarshalList(data []byte, now time.Time) (tracks []Track, migrated bool, err error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []Track{}, false, nil
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		// Fallback for legacy format (array of strings).
		var legacy []string
		if err2 := json.Unmarshal(data, &legacy); err2 != nil {
			return nil, false, err
		}
		records = make([]record, 0, len(legacy))
		for _, name := range legacy {
			records = append(records, record{Name: name})
		}
		migrated = true
	}

	tracks = make([]Track, 0, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		if name == "" || taken(tracks, name) {
			migrated = true
			continue
		}
		if name != r.Name || r.ID == "" || r.Color == "" || r.CreatedAt == "" || r.UpdatedAt == "" {
			migrated = true
		}
		t := Track{
			ID:        r.ID,
			Name:      name,
			Color:     r.Color,
			CreatedAt: parseStamp(r.CreatedAt, now),
			UpdatedAt: parseStamp(r.UpdatedAt, now),
		}
		if t.ID == "" {
			t.ID = entry.NewID(now)
		}
		if t.Color == "" {
			t.Color = RandomColor()
		}
		tracks = append(tracks, t)
	}
	return tracks, migrated, nil
}

func taken(tracks []Track, name string) bool {
	for _, t := range tracks {
		if SameName(t.Name, name) {
			return true
		}
	}
	return false
}

func parseStamp(v string, fallback time.Time) time.Time {
	if v == "" {
		return fallback.UTC()
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return fallback.UTC()
	}
	return t
}

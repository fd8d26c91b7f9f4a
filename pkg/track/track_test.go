package track

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewAssignsPaletteColor(t *testing.T) {
	now := time.Now()
	tr := New("Workout", "", now)
	if tr.ID == "" {
		t.Fatal("expected an id")
	}
	found := false
	for _, c := range Palette {
		if c == tr.Color {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected palette color, got %q", tr.Color)
	}
	if !tr.CreatedAt.Equal(tr.UpdatedAt) {
		t.Fatal("expected created and updated to match on creation")
	}
}

func TestCleanName(t *testing.T) {
	if got, err := CleanName("  Gym  "); err != nil || got != "Gym" {
		t.Fatalf("expected trimmed name, got %q, %v", got, err)
	}
	if _, err := CleanName("   "); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := CleanName(strings.Repeat("a", MaxNameLength+1)); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
	if _, err := CleanName(strings.Repeat("é", MaxNameLength)); err != nil {
		t.Fatalf("rune count should be used: %v", err)
	}
}

func TestCleanColor(t *testing.T) {
	cases := map[string]string{
		"#ff0000": "#FF0000",
		"00FF00":  "#00FF00",
		"":        "",
	}
	for in, want := range cases {
		got, err := CleanColor(in)
		if err != nil {
			t.Fatalf("CleanColor(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("CleanColor(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := CleanColor("red"); err == nil {
		t.Fatal("expected error for named color")
	}
}

func TestSameName(t *testing.T) {
	if !SameName("Workout", "workout") {
		t.Fatal("expected case-insensitive match")
	}
	if SameName("Workout", "Workouts") {
		t.Fatal("unexpected match")
	}
}

func TestUnmarshalListBackfillsLegacyRecords(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	data := []byte(`[
		{"name":"Gym"},
		{"id":"t1","name":"Reading","color":"#3B82F6","createdAt":"2024-05-01T10:00:00.000Z","updatedAt":"2024-06-01T10:00:00.000Z"},
		{"name":""}
	]`)
	tracks, migrated, err := UnmarshalList(data, now)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !migrated {
		t.Fatal("expected backfilled data to be reported as migrated")
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	gym := tracks[0]
	if gym.ID == "" || gym.Color == "" || !gym.CreatedAt.Equal(now) || !gym.UpdatedAt.Equal(now) {
		t.Fatalf("expected backfilled fields, got %+v", gym)
	}
	reading := tracks[1]
	if reading.ID != "t1" || reading.Color != "#3B82F6" {
		t.Fatalf("expected existing fields kept, got %+v", reading)
	}
	if reading.CreatedAt.Year() != 2024 {
		t.Fatalf("expected parsed createdAt, got %v", reading.CreatedAt)
	}
}

func TestUnmarshalListLegacyNames(t *testing.T) {
	tracks, _, err := UnmarshalList([]byte(`["Gym","Reading"]`), time.Now())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(tracks) != 2 || tracks[1].Name != "Reading" {
		t.Fatalf("unexpected tracks %+v", tracks)
	}
}

func TestUnmarshalListCorrupt(t *testing.T) {
	if _, _, err := UnmarshalList([]byte(`{not json`), time.Now()); err == nil {
		t.Fatal("expected error for corrupt data")
	}
	tracks, _, err := UnmarshalList(nil, time.Now())
	if err != nil || len(tracks) != 0 {
		t.Fatalf("expected empty list, got %v, %v", tracks, err)
	}
}

func TestUnmarshalListDropsDuplicateNames(t *testing.T) {
	data := []byte(`[
		{"id":"t1","name":"Gym","color":"#EF4444","createdAt":"2024-05-01T10:00:00Z","updatedAt":"2024-05-01T10:00:00Z"},
		{"id":"t2","name":"gym","color":"#3B82F6","createdAt":"2024-05-02T10:00:00Z","updatedAt":"2024-05-02T10:00:00Z"}
	]`)
	tracks, migrated, err := UnmarshalList(data, time.Now())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != "t1" {
		t.Fatalf("expected only the first Gym, got %+v", tracks)
	}
	if !migrated {
		t.Fatal("expected dropping a duplicate to be reported as migrated")
	}
}

func TestUnmarshalListCurrentDataIsNotMigrated(t *testing.T) {
	data := []byte(`[{"id":"t1","name":"Gym","color":"#EF4444","createdAt":"2024-05-01T10:00:00Z","updatedAt":"2024-05-01T10:00:00Z"}]`)
	_, migrated, err := UnmarshalList(data, time.Now())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if migrated {
		t.Fatal("expected complete records to load as they are")
	}
}

package entry

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEntryJSONMatchesBrowserLayout(t *testing.T) {
	raw := `{"id":"1709285400000","title":"Morning","content":"hello *world*","createdAt":"2024-03-01T09:30:00.000Z","updatedAt":"2024-03-01T09:45:12.345Z","color":"teal","folderId":"f-1"}`

	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.ID != "1709285400000" || e.Color != Teal || e.FolderID != FolderRef("f-1") {
		t.Fatalf("unexpected entry: %+v", e)
	}
	want := time.Date(2024, time.March, 1, 9, 45, 12, 345000000, time.UTC)
	if !e.UpdatedAt.Equal(want) {
		t.Fatalf("expected updatedAt %v, got %v", want, e.UpdatedAt.Time)
	}

	out, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != raw {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", out, raw)
	}
}

func TestEntryJSONOmitsOptionalFields(t *testing.T) {
	e := Entry{ID: "a", CreatedAt: At(time.Unix(0, 0)), UpdatedAt: At(time.Unix(0, 0))}
	out, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "color") || strings.Contains(string(out), "folderId") {
		t.Fatalf("expected optional fields omitted, got %s", out)
	}
}

func TestTouchNeverPrecedesCreated(t *testing.T) {
	created := At(time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC))
	e := Entry{CreatedAt: created, UpdatedAt: created}

	e.Touch(At(created.Add(-time.Hour)))
	if !e.UpdatedAt.Equal(created.Time) {
		t.Fatalf("expected updatedAt clamped to createdAt, got %v", e.UpdatedAt)
	}

	later := At(created.Add(time.Minute))
	e.Touch(later)
	if !e.UpdatedAt.Equal(later.Time) {
		t.Fatalf("expected updatedAt %v, got %v", later, e.UpdatedAt)
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := (Entry{}).DisplayTitle(); got != "Untitled" {
		t.Fatalf("expected Untitled, got %q", got)
	}
	if got := (Entry{Title: "Plans"}).DisplayTitle(); got != "Plans" {
		t.Fatalf("expected Plans, got %q", got)
	}
}

func TestNewAssignsDistinctIDs(t *testing.T) {
	a, b := New(), New()
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
	if !a.CreatedAt.Equal(a.UpdatedAt.Time) {
		t.Fatalf("expected equal timestamps on a new entry")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "Red", want: Red},
		{in: " fuchsia ", want: Fuchsia},
		{in: "", want: ""},
		{in: "mauve", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPaletteAndDefaults(t *testing.T) {
	if n := len(Palette()); n != 18 {
		t.Fatalf("expected 18 colors, got %d", n)
	}
	if got := Color("").OrDefault(); got != Gray {
		t.Fatalf("expected gray default, got %q", got)
	}
	if got := Color("mauve").String(); got != "gray" {
		t.Fatalf("expected unknown color to render gray, got %q", got)
	}
	if got := Gray.Next(); got != Red {
		t.Fatalf("expected palette to wrap to red, got %q", got)
	}
	if got := Color("").Next(); got != Red {
		t.Fatalf("expected unset color to start at red, got %q", got)
	}
	if Blue.Hex() != "#3b82f6" {
		t.Fatalf("unexpected blue hex %q", Blue.Hex())
	}
}

func TestTimestampDecodingIsLenient(t *testing.T) {
	want := time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)
	tests := map[string]struct {
		raw  string
		want time.Time
	}{
		"browser":      {raw: `"2024-03-01T09:30:00.000Z"`, want: want},
		"offset":       {raw: `"2024-03-01T11:30:00+02:00"`, want: want},
		"no zone":      {raw: `"2024-03-01T09:30:00"`, want: want},
		"space":        {raw: `"2024-03-01 09:30"`, want: want},
		"date only":    {raw: `"2024-03-01"`, want: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		"empty":        {raw: `""`},
		"null":         {raw: `null`},
		"garbage":      {raw: `"next week"`},
		"not a string": {raw: `1709285400000`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tc.raw), &ts); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.raw, err)
			}
			if !ts.Equal(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, ts.Time)
			}
		})
	}
}

func TestTimestampDate(t *testing.T) {
	ts := At(time.Date(2024, time.March, 1, 23, 30, 0, 0, time.FixedZone("", -2*60*60)))
	if got := ts.Date(); got != "2024-03-02" {
		t.Fatalf("expected UTC day 2024-03-02, got %q", got)
	}
}

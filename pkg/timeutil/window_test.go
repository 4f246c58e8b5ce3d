package timeutil

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		label   string
		wantErr bool
	}{
		{in: "3d", want: 3 * day, label: "3d"},
		{in: "1w2d6h30m", want: week + 2*day + 6*time.Hour + 30*time.Minute, label: "1w2d6h30m"},
		{in: "2 weeks", want: 2 * week, label: "2w"},
		{in: "36h", want: 36 * time.Hour, label: "1d12h"},
		{in: "", wantErr: true},
		{in: "week", wantErr: true},
		{in: "5y", wantErr: true},
		{in: "0d", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseWindow(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseWindow(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if tc.wantErr {
			continue
		}
		if time.Duration(got) != tc.want {
			t.Errorf("ParseWindow(%q) = %v, want %v", tc.in, time.Duration(got), tc.want)
		}
		if got.String() != tc.label {
			t.Errorf("ParseWindow(%q).String() = %q, want %q", tc.in, got.String(), tc.label)
		}
	}
}

func TestSince(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	w, err := ParseWindow("1w")
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Since(now); !got.Equal(time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("Since() = %v", got)
	}
}

package folder

import (
	"testing"

	"tableflip.dev/journal/pkg/entry"
)

func TestLabelResolvesWeakReferences(t *testing.T) {
	folders := []Folder{{ID: "f1", Name: "Work"}, {ID: "f2", Name: "Home"}}

	tests := []struct {
		name string
		ref  entry.FolderRef
		want string
	}{
		{name: "known", ref: "f2", want: "Home"},
		{name: "unset", ref: entry.Unfiled, want: UnfiledLabel},
		{name: "dangling", ref: "gone", want: UnfiledLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(folders, tt.ref); got != tt.want {
				t.Fatalf("Label(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Work \t"); got != "Work" {
		t.Fatalf("expected trimmed name, got %q", got)
	}
	if got := NormalizeName("   "); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
}

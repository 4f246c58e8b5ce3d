package export

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/journal/pkg/entry"
)

var created = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

func testEntry(title, content string) entry.Entry {
	return entry.Entry{
		ID:        entry.NewID(),
		Title:     title,
		Content:   content,
		CreatedAt: entry.At(created),
		UpdatedAt: entry.At(created.Add(90 * time.Minute)),
	}
}

func TestFormatUntitledKeepsMarkup(t *testing.T) {
	out := Format(testEntry("", "hello *world*"))

	assert.Contains(t, out, "Untitled Entry")
	assert.Contains(t, out, "hello *world*")
}

func TestFormatLayout(t *testing.T) {
	out := FormatIn(testEntry("Morning pages", "line one\nline two"), time.UTC)

	want := "# Morning pages\n\n" +
		"**Created:** March 1, 2024 9:30 AM\n" +
		"**Updated:** March 1, 2024 11:00 AM\n\n" +
		"line one\nline two\n"
	assert.Equal(t, want, out)
}

func TestFormatManySplitsBackInOrder(t *testing.T) {
	entries := []entry.Entry{
		testEntry("first", "a"),
		testEntry("", "b"),
		testEntry("third", "c\n\nwith paragraphs"),
	}

	blocks := Split(FormatManyIn(entries, time.UTC))

	require.Len(t, blocks, len(entries))
	for i, e := range entries {
		assert.Equal(t, FormatIn(e, time.UTC), blocks[i])
	}
	assert.Contains(t, blocks[1], UntitledTitle)
}

func TestFormatManyEmpty(t *testing.T) {
	assert.Equal(t, "", FormatMany(nil))
	assert.Nil(t, Split(""))
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Hello, World!":        "hello-world",
		"  --Already--slugged": "already-slugged",
		"Ünïcode Title 2024":   "n-code-title-2024",
		"!!!":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), "Slug(%q)", in)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "2024-03-01-trip-to-the-coast.md", Filename(testEntry("Trip to the Coast", "")))
	assert.Equal(t, "2024-03-01-untitled.md", Filename(testEntry("", "")))
	assert.Equal(t, "2024-03-01-untitled.md", Filename(testEntry("???", "")))
}

func TestBundleFilename(t *testing.T) {
	assert.Equal(t, "journal-export-2024-03-01.md", BundleFilename(created))
}

func newMemExporter() (*Exporter, afero.Fs) {
	fs := afero.NewMemMapFs()
	return &Exporter{
		Downloader: &DirDownloader{Fs: fs, Dir: "out"},
		Now:        func() time.Time { return created },
	}, fs
}

func TestExporterAllWritesCombinedFile(t *testing.T) {
	x, fs := newMemExporter()
	entries := []entry.Entry{testEntry("one", "1"), testEntry("two", "2")}

	name, err := x.All(entries)
	require.NoError(t, err)
	assert.Equal(t, "journal-export-2024-03-01.md", name)

	data, err := afero.ReadFile(fs, "out/"+name)
	require.NoError(t, err)
	assert.Equal(t, FormatMany(entries), string(data))
}

func TestExporterEachDeduplicatesNames(t *testing.T) {
	x, fs := newMemExporter()
	entries := []entry.Entry{testEntry("Same", "1"), testEntry("Same", "2"), testEntry("Other", "3")}

	names, err := x.Each(entries)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01-same.md", "2024-03-01-same-2.md", "2024-03-01-other.md"}, names)

	data, err := afero.ReadFile(fs, "out/2024-03-01-same-2.md")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "2\n"))
}

func TestExporterEmptyHasNoSideEffects(t *testing.T) {
	calls := 0
	x := &Exporter{Downloader: DownloaderFunc(func(string, string) error {
		calls++
		return nil
	})}

	_, err := x.All(nil)
	assert.True(t, errors.Is(err, ErrNothingToExport))
	_, err = x.Each([]entry.Entry{})
	assert.True(t, errors.Is(err, ErrNothingToExport))
	assert.Zero(t, calls)
}

func TestExporterEntryPropagatesDownloadErrors(t *testing.T) {
	boom := errors.New("read-only filesystem")
	x := &Exporter{Downloader: DownloaderFunc(func(string, string) error { return boom })}

	_, err := x.Entry(testEntry("x", ""))
	assert.ErrorIs(t, err, boom)
}

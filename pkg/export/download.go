package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"tableflip.dev/journal/pkg/entry"
)

// Downloader delivers an exported document to the user.
type Downloader interface {
	Download(content, filename string) error
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(content, filename string) error

func (f DownloaderFunc) Download(content, filename string) error {
	return f(content, filename)
}

// DirDownloader writes documents into Dir on Fs, creating Dir if needed.
type DirDownloader struct {
	Fs  afero.Fs
	Dir string
}

// NewDirDownloader writes into dir on the OS filesystem.
func NewDirDownloader(dir string) *DirDownloader {
	return &DirDownloader{Fs: afero.NewOsFs(), Dir: dir}
}

func (d *DirDownloader) Download(content, filename string) error {
	fs := d.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}

// Exporter formats entries and passes the documents to Downloader.
type Exporter struct {
	Downloader Downloader
	Now        func() time.Time
}

func (x *Exporter) now() time.Time {
	if x.Now == nil {
		return time.Now()
	}
	return x.Now()
}

// Entry exports a single entry and returns the file name used.
func (x *Exporter) Entry(e entry.Entry) (string, error) {
	name := Filename(e)
	if err := x.Downloader.Download(Format(e), name); err != nil {
		return "", err
	}
	return name, nil
}

// All exports entries as one combined document.
func (x *Exporter) All(entries []entry.Entry) (string, error) {
	if len(entries) == 0 {
		return "", ErrNothingToExport
	}
	name := BundleFilename(x.now())
	if err := x.Downloader.Download(FormatMany(entries), name); err != nil {
		return "", err
	}
	return name, nil
}

// Each exports every entry as its own document, stopping at the first
// failure. Entries that would share a file name get a numeric suffix.
func (x *Exporter) Each(entries []entry.Entry) ([]string, error) {
	if len(entries) == 0 {
		return nil, ErrNothingToExport
	}
	names := make([]string, 0, len(entries))
	used := make(map[string]bool, len(entries))
	for _, e := range entries {
		name := Filename(e)
		stem := strings.TrimSuffix(name, fileExt)
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d%s", stem, n, fileExt)
		}
		used[name] = true
		if err := x.Downloader.Download(Format(e), name); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

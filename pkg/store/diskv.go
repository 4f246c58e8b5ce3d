package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const (
	fileExt = ".json"
	tempDir = ".tmp"
)

// Load creates a Store backed by diskv using the provided config.
func Load(cfg Config) (*Disk, error) {
	if cfg == nil || cfg.BasePath() == "" {
		return nil, errors.New("store: base path required")
	}

	basePath := cfg.BasePath()
	if err := os.MkdirAll(filepath.Join(basePath, tempDir), 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDir),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
	}), basePath: basePath}, nil
}

// Disk stores each collection as one JSON file under a base directory.
// Writes go through a temp file and rename, so a reader never observes a
// partially written collection.
type Disk struct {
	d        *diskv.Diskv
	basePath string
}

// BasePath is the directory holding the collection files.
func (p *Disk) BasePath() string {
	return p.basePath
}

func (p *Disk) Read(c Collection) ([]byte, error) {
	// Read directly from disk so changes made by other processes are seen.
	rc, err := p.d.ReadStream(string(c), true)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *Disk) Write(c Collection, data []byte) error {
	return p.d.Write(string(c), data)
}

// Path returns the file backing collection c.
func (p *Disk) Path(c Collection) string {
	return filepath.Join(p.basePath, string(c)+fileExt)
}

func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: key + fileExt,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.TrimSuffix(pathKey.FileName, fileExt)
}

// collectionForFile maps a file name inside the base path back to its
// collection.
func collectionForFile(name string) (Collection, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	key := Collection(strings.TrimSuffix(base, fileExt))
	for _, c := range Collections() {
		if c == key {
			return c, true
		}
	}
	return "", false
}

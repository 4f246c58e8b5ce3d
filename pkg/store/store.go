// Package store persists the journal collections as JSON documents in a
// key-value store.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Collection names one persisted record list.
type Collection string

const (
	// Entries holds every journal entry, newest insertion first.
	Entries Collection = "journal-entries"
	// Folders holds the folder list in creation order.
	Folders Collection = "journal-folders"
)

// Collections lists the known collections.
func Collections() []Collection {
	return []Collection{Entries, Folders}
}

// Store is a synchronous key-value store holding one serialized document per
// collection.
type Store interface {
	// Read returns the raw document, or nil with no error when the
	// collection has never been written.
	Read(c Collection) ([]byte, error)
	// Write replaces the whole document in a single call.
	Write(c Collection, data []byte) error
}

// Watcher is implemented by stores that can report changes made outside the
// current process.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// ReadAll decodes the collection as a list of T. Missing, unreadable or
// corrupt data yields an empty list; the stored bytes are never touched.
func ReadAll[T any](s Store, c Collection) []T {
	data, err := s.Read(c)
	if err != nil {
		log.Warn().Err(err).Str("collection", string(c)).Msg("store: read failed, treating collection as empty")
		return []T{}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn().Err(err).Str("collection", string(c)).Msg("store: corrupt collection, treating as empty")
		return []T{}
	}
	if records == nil {
		return []T{}
	}
	return records
}

// WriteAll serializes records as a JSON array and overwrites the collection.
func WriteAll[T any](s Store, c Collection, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", c, err)
	}
	if err := s.Write(c, data); err != nil {
		return fmt.Errorf("store: write %s: %w", c, err)
	}
	return nil
}

// Memory is a Store kept entirely in process memory.
type Memory struct {
	mu   sync.Mutex
	docs map[Collection][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[Collection][]byte)}
}

func (m *Memory) Read(c Collection) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[c]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(data), nil
}

func (m *Memory) Write(c Collection, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[c] = bytes.Clone(data)
	return nil
}

// Watch never reports changes: nothing outside the process can modify
// memory. The channel closes when ctx is done.
func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	events := make(chan Event)
	go func() {
		<-ctx.Done()
		close(events)
	}()
	return events, nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/veles/schedulebot/internal/schedule"
)

// FileStore persists the whole schedule mapping as a single JSON document:
// top level keyed by cache key, each value keyed by day name, each day keyed
// by zero-padded time label mapping to a [subject, room] pair.
//
// Every Put rewrites the whole document, so all operations are serialized
// behind a mutex and the document is replaced atomically (temp file +
// rename): concurrent puts for different students both persist.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore opens the store at path, creating an empty document on first
// run if the file does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(map[string]schedule.Week{}); err != nil {
			return nil, fmt.Errorf("bootstrap schedule store: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat schedule store: %w", err)
	}

	// Fail on unreadable documents at startup instead of on first request.
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Has reports whether a schedule is cached for the key.
func (s *FileStore) Has(ctx context.Context, key Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := doc[key.String()]
	return ok, nil
}

// Get returns the cached schedule or ErrNotFound.
func (s *FileStore) Get(ctx context.Context, key Key) (schedule.Week, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return schedule.Week{}, err
	}
	week, ok := doc[key.String()]
	if !ok {
		return schedule.Week{}, fmt.Errorf("%w: %s", ErrNotFound, key.String())
	}
	return week, nil
}

// Put caches a schedule, overwriting any previous entry for the key.
func (s *FileStore) Put(ctx context.Context, key Key, week schedule.Week) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc[key.String()] = week
	return s.write(doc)
}

// Close is a no-op; the file is not held open between operations.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() (map[string]schedule.Week, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read schedule store: %w", err)
	}

	doc := map[string]schedule.Week{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc map[string]schedule.Week) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode schedule store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".schedule-*.json")
	if err != nil {
		return fmt.Errorf("write schedule store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write schedule store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write schedule store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace schedule store: %w", err)
	}
	return nil
}

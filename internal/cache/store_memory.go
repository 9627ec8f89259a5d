package cache

import (
	"context"
	"sort"
	"sync"
)

type memoryStore struct {
	mu       sync.RWMutex
	versions map[string]map[string]*Entry
}

// NewMemoryStore returns an in-process Store for single-instance
// deployments and tests.
func NewMemoryStore() Store {
	return &memoryStore{versions: make(map[string]map[string]*Entry)}
}

func (s *memoryStore) Get(_ context.Context, version, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.versions[version]
	if !ok {
		return nil, nil
	}
	entry, ok := entries[key]
	if !ok {
		return nil, nil
	}
	return entry.Clone(), nil
}

func (s *memoryStore) Set(_ context.Context, version, key string, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.versions[version]
	if !ok {
		entries = make(map[string]*Entry)
		s.versions[version] = entries
	}
	entries[key] = entry.Clone()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, version, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entries, ok := s.versions[version]; ok {
		delete(entries, key)
		if len(entries) == 0 {
			delete(s.versions, version)
		}
	}
	return nil
}

func (s *memoryStore) ListVersions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions := make([]string, 0, len(s.versions))
	for v := range s.versions {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions, nil
}

func (s *memoryStore) DeleteVersion(_ context.Context, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.versions, version)
	return nil
}

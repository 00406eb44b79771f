package sync

import (
	"fmt"
	"strings"

	"limitless-sync/internal"
)

// memStore is an in-memory Store for orchestrator tests. It counts
// writes and can be told to fail writes for specific paths.
type memStore struct {
	files     map[string]string
	writes    int
	failWrite map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		files:     make(map[string]string),
		failWrite: make(map[string]bool),
	}
}

func (s *memStore) Exists(path string) bool {
	_, ok := s.files[path]
	return ok
}

func (s *memStore) Read(path string) (string, error) {
	content, ok := s.files[path]
	if !ok {
		return "", internal.ErrNotExist
	}
	return content, nil
}

func (s *memStore) Write(path string, content string) error {
	if s.failWrite[path] {
		return fmt.Errorf("simulated write failure for %s", path)
	}
	s.files[path] = content
	s.writes++
	return nil
}

func (s *memStore) List(folder string) ([]string, error) {
	prefix := folder + "/"
	var names []string
	for path := range s.files {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		if !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}
	return names, nil
}

func (s *memStore) EnsureFolder(folder string) error {
	return nil
}

package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Storage = (*FileStorage)(nil)

// FileStorage persists entries as a single JSON document on disk so a
// session survives process restarts.
type FileStorage struct {
	path   string
	values map[string]string
	lock   sync.Mutex
}

// NewFileStorage opens (or creates on first write) the document at path.
func NewFileStorage(path string) (*FileStorage, error) {
	s := &FileStorage{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[NewFileStorage] read")
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			return nil, errors.Wrap(err, "[NewFileStorage] parse")
		}
	}
	return s, nil
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	value, ok := s.values[key]
	return value, ok
}

func (s *FileStorage) Set(key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

func (s *FileStorage) Remove(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flushLocked()
}

func (s *FileStorage) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStorage] encode")
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrap(err, "[FileStorage] create directory")
		}
	}
	// Tokens on disk: owner-only permissions.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStorage] write")
	}
	return nil
}

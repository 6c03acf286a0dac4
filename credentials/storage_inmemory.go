package credentials

import "sync"

var _ Storage = (*InMemoryStorage)(nil)

// InMemoryStorage is a map-backed Storage for tests and short-lived tools.
type InMemoryStorage struct {
	values map[string]string
	lock   sync.RWMutex
}

// NewInMemoryStorage returns an empty in-memory Storage.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{values: make(map[string]string)}
}

func (s *InMemoryStorage) Get(key string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

func (s *InMemoryStorage) Set(key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values[key] = value
	return nil
}

func (s *InMemoryStorage) Remove(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.values, key)
	return nil
}

// Len returns the number of stored entries.
func (s *InMemoryStorage) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.values)
}

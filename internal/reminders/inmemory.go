package reminders

import (
	"context"
	"sync"
)

// InMemoryStore keeps reminders in process memory for local/dev use and tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Reminder
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make([]Reminder, 0)}
}

func (s *InMemoryStore) LoadAll(_ context.Context) ([]Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.records), nil
}

func (s *InMemoryStore) SaveAll(_ context.Context, reminders []Reminder) error {
	if err := ValidateAll(reminders); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = cloneAll(reminders)
	return nil
}

func (s *InMemoryStore) Close() error { return nil }

package memory

import (
	"context"
	"sync"

	"school-quiz-bot/internal/domain"
)

// ReadingStore keeps reading results in memory, one per user.
type ReadingStore struct {
	mu      sync.RWMutex
	results map[int64][]byte
}

func NewReadingStore() *ReadingStore {
	return &ReadingStore{results: make(map[int64][]byte)}
}

func (s *ReadingStore) SaveResult(_ context.Context, userID int64, _ string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[userID] = payload
	return nil
}

func (s *ReadingStore) GetResult(_ context.Context, userID int64) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.results[userID]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return payload, nil
}

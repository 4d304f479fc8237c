package memory

import (
	"context"
	"sync"

	"school-quiz-bot/internal/domain"
)

// UserStore is an in-memory user registry for tests and for running the bot
// without Postgres.
type UserStore struct {
	mu          sync.RWMutex
	users       map[int64]domain.User
	credentials map[string]int64 // "login\x00password" -> telegram ID
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:       make(map[int64]domain.User),
		credentials: make(map[string]int64),
	}
}

func (s *UserStore) UpsertUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.TelegramID]; ok {
		return nil
	}
	s.users[user.TelegramID] = user
	return nil
}

func (s *UserStore) GetUser(_ context.Context, telegramID int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[telegramID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) CommitResult(_ context.Context, telegramID int64, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[telegramID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Score = score
	s.users[telegramID] = user
	return nil
}

// SetCredentials attaches web login credentials to a registered user.
func (s *UserStore) SetCredentials(telegramID int64, login, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[login+"\x00"+password] = telegramID
}

func (s *UserStore) Login(_ context.Context, login, password string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.credentials[login+"\x00"+password]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) ListTelegramIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	return ids, nil
}

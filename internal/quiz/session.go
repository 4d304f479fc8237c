package quiz

import (
	"sync"

	"github.com/google/uuid"

	"school-quiz-bot/internal/domain"
)

// session is one user's in-progress quiz run. It is created by Start,
// mutated only under its own mutex, and removed from the engine's table the
// moment the question list is exhausted.
type session struct {
	// id distinguishes this run from any replacement started for the same
	// user; timer callbacks carry it and become no-ops when it is stale.
	id     uuid.UUID
	userID int64

	// mu serializes answer events and timer fires for this session. When a
	// goroutine needs both this mutex and the engine's table mutex, it must
	// take this one first.
	mu sync.Mutex

	questions []domain.Question
	current   int
	score     int
	resolved  map[int]bool
	timer     *Timer
	done      bool
}

func newSession(userID int64, questions []domain.Question) *session {
	return &session{
		id:        uuid.New(),
		userID:    userID,
		questions: questions,
		resolved:  make(map[int]bool),
	}
}

// finished reports whether every slot has been resolved.
func (s *session) finished() bool {
	return s.current >= len(s.questions)
}

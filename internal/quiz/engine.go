package quiz

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"school-quiz-bot/internal/domain"
)

// Presenter delivers questions and results to the user's chat.
type Presenter interface {
	PresentQuestion(ctx context.Context, userID int64, slot, total int, prompt string, options []string) error
	PresentFinalScore(ctx context.Context, userID int64, score, total int) error
}

// ResultSink durably records a finished run. A failing sink is logged but
// never reopens the session.
type ResultSink interface {
	CommitResult(ctx context.Context, userID int64, score int) error
}

// MultiSink fans a final score out to several sinks. Every sink runs; the
// first error is returned.
type MultiSink []ResultSink

func (m MultiSink) CommitResult(ctx context.Context, userID int64, score int) error {
	var first error
	for _, sink := range m {
		if err := sink.CommitResult(ctx, userID, score); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Engine drives one quiz session per user: it sequences questions, arms the
// per-question timer, resolves the race between answers and timeouts, and
// finalizes the result exactly once.
type Engine struct {
	bank      *Bank
	timers    *TimerManager
	presenter Presenter
	sink      ResultSink
	length    int
	window    time.Duration

	mu       sync.RWMutex
	sessions map[int64]*session
}

func NewEngine(bank *Bank, timers *TimerManager, presenter Presenter, sink ResultSink, length int, window time.Duration) *Engine {
	return &Engine{
		bank:      bank,
		timers:    timers,
		presenter: presenter,
		sink:      sink,
		length:    length,
		window:    window,
		sessions:  make(map[int64]*session),
	}
}

// Start begins a quiz run for the user. Any session already in progress is
// discarded first, including its pending timer; no score carries over.
func (e *Engine) Start(ctx context.Context, userID int64) error {
	questions, err := e.bank.Draw(e.length)
	if err != nil {
		return err
	}
	s := newSession(userID, questions)

	e.mu.Lock()
	old := e.sessions[userID]
	e.sessions[userID] = s
	e.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.done = true
		e.timers.Cancel(old.timer)
		old.timer = nil
		old.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e.presentLocked(ctx, s)
	return nil
}

// Answer resolves the current slot with the user's chosen option. Late or
// duplicate answers are rejected without touching session state.
func (e *Engine) Answer(ctx context.Context, userID int64, slot, option int) error {
	e.mu.RLock()
	s, ok := e.sessions[userID]
	e.mu.RUnlock()
	if !ok {
		return domain.ErrNoActiveSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return domain.ErrNoActiveSession
	}
	if slot != s.current || s.resolved[slot] {
		return domain.ErrSlotMismatch
	}
	q := s.questions[slot]
	if option < 0 || option >= len(q.Options) {
		return domain.ErrOptionOutOfRange
	}

	e.timers.Cancel(s.timer)
	s.timer = nil
	s.resolved[slot] = true
	if option == q.Correct {
		s.score++
	}
	s.current = slot + 1
	e.presentLocked(ctx, s)
	return nil
}

// Active reports whether the user has a session in progress.
func (e *Engine) Active(userID int64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.sessions[userID]
	return ok
}

// Shutdown cancels all pending timers and marks every session done. No
// session state is mutated after it returns.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	sessions := make([]*session, 0, len(e.sessions))
	for _, s := range e.sessions {
		sessions = append(sessions, s)
	}
	e.sessions = make(map[int64]*session)
	e.mu.Unlock()

	for _, s := range sessions {
		s.mu.Lock()
		s.done = true
		e.timers.Cancel(s.timer)
		s.timer = nil
		s.mu.Unlock()
	}
	e.timers.Shutdown()
}

// expire is the timer-fire path. It runs on the timer goroutine and takes
// effect only if the session generation and slot still match; an answer that
// raced ahead, a restart, or finalization all make it a no-op.
func (e *Engine) expire(gen uuid.UUID, userID int64, slot int) {
	e.mu.RLock()
	s, ok := e.sessions[userID]
	e.mu.RUnlock()
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || s.id != gen || slot != s.current || s.resolved[slot] {
		return
	}
	s.timer = nil
	s.resolved[slot] = true
	s.current = slot + 1

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	e.presentLocked(ctx, s)
}

// presentLocked sends the current question and arms its timer, or finalizes
// when the list is exhausted. The caller holds s.mu. Outbound failures are
// logged and do not stall the run: the timer still advances the session.
func (e *Engine) presentLocked(ctx context.Context, s *session) {
	if s.done {
		// The session was replaced or shut down before this present ran.
		// Arming here would steal the live session's timer slot.
		return
	}
	if s.finished() {
		e.finalizeLocked(ctx, s)
		return
	}

	q := s.questions[s.current]
	if err := e.presenter.PresentQuestion(ctx, s.userID, s.current, len(s.questions), q.Prompt, q.Options); err != nil {
		log.Printf("present question %d to user %d: %v", s.current, s.userID, err)
	}

	gen, slot := s.id, s.current
	s.timer = e.timers.Arm(s.userID, slot, e.window, func() {
		e.expire(gen, s.userID, slot)
	})
}

// finalizeLocked reports the score, hands it to the sink, and removes the
// session. It runs at most once per session: the done flag flips before any
// blocking call, so late events observe a dead session.
func (e *Engine) finalizeLocked(ctx context.Context, s *session) {
	s.done = true

	total := len(s.questions)
	if err := e.presenter.PresentFinalScore(ctx, s.userID, s.score, total); err != nil {
		log.Printf("present final score to user %d: %v", s.userID, err)
	}
	if err := e.sink.CommitResult(ctx, s.userID, s.score); err != nil {
		log.Printf("commit result for user %d (score %d/%d): %v", s.userID, s.score, total, err)
	}

	e.mu.Lock()
	if e.sessions[s.userID] == s {
		delete(e.sessions, s.userID)
	}
	e.mu.Unlock()
}

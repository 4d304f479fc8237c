package quiz

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"school-quiz-bot/internal/domain"
)

// Bank is the immutable question collection, loaded once at process start.
type Bank struct {
	questions []domain.Question

	mu  sync.Mutex // guards rnd; Draw is called from concurrent sessions
	rnd *rand.Rand
}

// NewBank validates the questions and builds a bank from them.
func NewBank(questions []domain.Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}
	for i, q := range questions {
		if !q.Valid() {
			return nil, fmt.Errorf("question %d: correct option %d out of range (have %d options)", i, q.Correct, len(q.Options))
		}
	}
	return &Bank{
		questions: questions,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// LoadBank reads a JSON array of questions from path.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	return NewBank(questions)
}

// Len reports the number of questions in the bank.
func (b *Bank) Len() int { return len(b.questions) }

// Draw returns count distinct questions in random order. The bank is never
// mutated; asking for more questions than the bank holds is a configuration
// error and fails instead of truncating.
func (b *Bank) Draw(count int) ([]domain.Question, error) {
	if count > len(b.questions) {
		return nil, fmt.Errorf("%w: want %d, bank has %d", domain.ErrBankTooSmall, count, len(b.questions))
	}
	b.mu.Lock()
	perm := b.rnd.Perm(len(b.questions))
	b.mu.Unlock()

	drawn := make([]domain.Question, count)
	for i := 0; i < count; i++ {
		drawn[i] = b.questions[perm[i]]
	}
	return drawn, nil
}

package reading

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"school-quiz-bot/internal/domain"
)

// Part holds the answer key for one section of a reading mock.
type Part struct {
	Answers []string `json:"answers"`
}

// Part5 mixes a summary-completion section with multiple choice.
type Part5 struct {
	Summary Part `json:"summary"`
	MC      Part `json:"mc"`
}

// Mock is the answer-key view of one reading assessment. The full document
// (passages, question text) is kept as raw JSON for the API.
type Mock struct {
	ID    string `json:"id"`
	Part1 Part   `json:"part1"`
	Part2 Part   `json:"part2"`
	Part3 Part   `json:"part3"`
	Part4 Part   `json:"part4"`
	Part5 Part5  `json:"part5"`
}

// Library is the immutable set of reading mocks loaded at start.
type Library struct {
	raws []json.RawMessage
	byID map[string]Mock

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLibrary parses a JSON array of mock documents.
func NewLibrary(data []byte) (*Library, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse reading mocks: %w", err)
	}
	byID := make(map[string]Mock, len(raws))
	for i, raw := range raws {
		var mock Mock
		if err := json.Unmarshal(raw, &mock); err != nil {
			return nil, fmt.Errorf("parse reading mock %d: %w", i, err)
		}
		if mock.ID == "" {
			return nil, fmt.Errorf("reading mock %d has no id", i)
		}
		byID[mock.ID] = mock
	}
	return &Library{
		raws: raws,
		byID: byID,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// LoadLibrary reads mocks from a JSON file.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reading mocks: %w", err)
	}
	return NewLibrary(data)
}

// All returns the full mock documents.
func (l *Library) All() []json.RawMessage { return l.raws }

// Random draws one mock document.
func (l *Library) Random() (json.RawMessage, error) {
	if len(l.raws) == 0 {
		return nil, domain.ErrMockNotFound
	}
	l.mu.Lock()
	idx := l.rnd.Intn(len(l.raws))
	l.mu.Unlock()
	return l.raws[idx], nil
}

// Find returns the answer key for a mock ID.
func (l *Library) Find(id string) (Mock, bool) {
	mock, ok := l.byID[id]
	return mock, ok
}

// Len reports the number of mocks.
func (l *Library) Len() int { return len(l.raws) }

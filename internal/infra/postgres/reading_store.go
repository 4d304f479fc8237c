package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"school-quiz-bot/internal/domain"
)

// ReadingStore persists reading-test results as JSONB, one row per user;
// a re-take replaces the previous result.
type ReadingStore struct {
	pool *pgxpool.Pool
}

func NewReadingStore(pool *pgxpool.Pool) *ReadingStore {
	return &ReadingStore{pool: pool}
}

func (s *ReadingStore) SaveResult(ctx context.Context, userID int64, mockID string, payload []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO reading_results (user_id, mock_id, payload) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET mock_id = EXCLUDED.mock_id, payload = EXCLUDED.payload, created_at = now()`,
		userID, mockID, payload)
	if err != nil {
		return fmt.Errorf("save reading result: %w", err)
	}
	return nil
}

// GetResult returns the stored payload for a user, or ErrResultNotFound
// when the user has not taken a reading test yet.
func (s *ReadingStore) GetResult(ctx context.Context, userID int64) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM reading_results WHERE user_id = $1`, userID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reading result: %w", err)
	}
	return payload, nil
}

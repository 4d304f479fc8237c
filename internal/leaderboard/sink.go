package leaderboard

import (
	"context"

	"school-quiz-bot/internal/domain"
)

// UserDirectory resolves display data for scoreboard rows.
type UserDirectory interface {
	GetUser(ctx context.Context, telegramID int64) (domain.User, error)
}

// Sink adapts the board to the engine's result sink so a finished run lands
// on the scoreboard alongside the durable store.
type Sink struct {
	board *Board
	users UserDirectory
	total int
}

func NewSink(board *Board, users UserDirectory, total int) *Sink {
	return &Sink{board: board, users: users, total: total}
}

func (s *Sink) CommitResult(ctx context.Context, userID int64, score int) error {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		// unregistered users still show up, just without a name
		user = domain.User{TelegramID: userID}
	}
	s.board.Record(ctx, user, score, s.total)
	return nil
}

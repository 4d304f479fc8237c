package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"school-quiz-bot/internal/domain"
)

// UserStore persists registered users and their final quiz scores.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// UpsertUser registers a user. Re-registering an existing telegram ID keeps
// the original row.
func (s *UserStore) UpsertUser(ctx context.Context, user domain.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (telegram_id, full_name, class) VALUES ($1, $2, $3)
		 ON CONFLICT (telegram_id) DO NOTHING`,
		user.TelegramID, user.FullName, user.Class)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUser looks a user up by telegram ID.
func (s *UserStore) GetUser(ctx context.Context, telegramID int64) (domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx,
		`SELECT telegram_id, full_name, class, score FROM users WHERE telegram_id = $1`,
		telegramID).Scan(&user.TelegramID, &user.FullName, &user.Class, &user.Score)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// CommitResult writes the final score of a finished quiz run.
func (s *UserStore) CommitResult(ctx context.Context, telegramID int64, score int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET score = $1 WHERE telegram_id = $2`, score, telegramID)
	if err != nil {
		return fmt.Errorf("commit result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Login authenticates the credentials issued for the web reading tests.
func (s *UserStore) Login(ctx context.Context, login, password string) (domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx,
		`SELECT telegram_id, full_name, class, score FROM users WHERE login = $1 AND password = $2`,
		login, password).Scan(&user.TelegramID, &user.FullName, &user.Class, &user.Score)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("login: %w", err)
	}
	return user, nil
}

// ListTelegramIDs returns every registered user ID, for broadcast fan-out.
func (s *UserStore) ListTelegramIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT telegram_id FROM users ORDER BY telegram_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package leaderboard

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"school-quiz-bot/internal/domain"
)

// Entry is one row of the scoreboard.
type Entry struct {
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
	Class    string `json:"class"`
	Score    int    `json:"score"`
	Total    int    `json:"total"`
}

// Snapshot is an ordered view of the scoreboard at one point in time.
type Snapshot struct {
	Entries   []Entry   `json:"entries"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const redisKey = "quiz:leaderboard"

// Board keeps the in-process scoreboard and fans updates out to
// subscribers. When a redis client is supplied, final scores are mirrored
// into a ZSET best-effort; the board works without one.
type Board struct {
	client *redis.Client
	now    func() time.Time

	mu          sync.RWMutex
	entries     map[int64]Entry
	subscribers map[chan Snapshot]struct{}
}

func New(client *redis.Client) *Board {
	return NewWithClock(client, time.Now)
}

// NewWithClock allows deterministic timestamps in tests.
func NewWithClock(client *redis.Client, now func() time.Time) *Board {
	return &Board{
		client:      client,
		now:         now,
		entries:     make(map[int64]Entry),
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// Record stores a user's final score and notifies subscribers.
func (b *Board) Record(ctx context.Context, user domain.User, score, total int) Snapshot {
	b.mu.Lock()
	b.entries[user.TelegramID] = Entry{
		UserID:   user.TelegramID,
		FullName: user.FullName,
		Class:    user.Class,
		Score:    score,
		Total:    total,
	}
	snapshot := b.broadcastLocked()
	b.mu.Unlock()

	if b.client != nil {
		// best-effort mirror; the in-process board stays authoritative
		_ = b.client.ZAdd(ctx, redisKey, redis.Z{
			Score:  float64(score),
			Member: strconv.FormatInt(user.TelegramID, 10),
		}).Err()
	}
	return snapshot
}

// Snapshot returns the current ordered scoreboard.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

// Subscribe returns a channel fed with scoreboard updates, starting with the
// current state. The caller must invoke cancel to avoid leaks.
func (b *Board) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	initial := b.snapshotLocked()
	b.mu.Unlock()

	ch <- initial

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *Board) broadcastLocked() Snapshot {
	snapshot := b.snapshotLocked()
	for ch := range b.subscribers {
		select {
		case ch <- snapshot:
		default:
			// drop the stale update so a slow reader never blocks the board
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
	return snapshot
}

func (b *Board) snapshotLocked() Snapshot {
	entries := make([]Entry, 0, len(b.entries))
	for _, entry := range b.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].FullName < entries[j].FullName
	})
	return Snapshot{Entries: entries, UpdatedAt: b.now()}
}

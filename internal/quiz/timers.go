package quiz

import (
	"sync"
	"time"
)

// TimerKey identifies the single pending timeout a user may have for a slot.
type TimerKey struct {
	UserID int64
	Slot   int
}

// Timer is the handle for one armed timeout.
type Timer struct {
	key TimerKey
	t   *time.Timer
}

// TimerManager owns at most one pending timeout per (user, slot). Arming a
// key that already has a live timer replaces it. Cancelling after the timer
// has fired is a no-op.
type TimerManager struct {
	mu    sync.Mutex
	armed map[TimerKey]*Timer
}

func NewTimerManager() *TimerManager {
	return &TimerManager{armed: make(map[TimerKey]*Timer)}
}

// Arm schedules fire to run after d. The callback runs on its own goroutine
// and must re-validate session state before touching it.
func (m *TimerManager) Arm(userID int64, slot int, d time.Duration, fire func()) *Timer {
	key := TimerKey{UserID: userID, Slot: slot}

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.armed[key]; ok {
		prev.t.Stop()
	}
	handle := &Timer{key: key}
	handle.t = time.AfterFunc(d, func() {
		m.release(key, handle)
		fire()
	})
	m.armed[key] = handle
	return handle
}

// Cancel stops the timer behind the handle. It tolerates handles that have
// already fired or been replaced.
func (m *TimerManager) Cancel(handle *Timer) {
	if handle == nil {
		return
	}
	handle.t.Stop()
	m.release(handle.key, handle)
}

// Shutdown stops every pending timer. No callbacks run after it returns
// unless they were already in flight.
func (m *TimerManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, handle := range m.armed {
		handle.t.Stop()
		delete(m.armed, key)
	}
}

// Pending reports the number of armed timers.
func (m *TimerManager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.armed)
}

func (m *TimerManager) release(key TimerKey, handle *Timer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.armed[key] == handle {
		delete(m.armed, key)
	}
}

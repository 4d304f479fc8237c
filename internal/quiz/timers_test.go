package quiz

import (
	"testing"
	"time"
)

func TestTimerFires(t *testing.T) {
	m := NewTimerManager()
	fired := make(chan struct{})

	m.Arm(1, 0, 10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("timer never fired")
	}
	waitForPending(t, m, 0)
}

func TestCancelPreventsFire(t *testing.T) {
	m := NewTimerManager()
	fired := make(chan struct{})

	handle := m.Arm(1, 0, 20*time.Millisecond, func() { close(fired) })
	m.Cancel(handle)

	select {
	case <-fired:
		t.Fatalf("cancelled timer fired")
	case <-time.After(60 * time.Millisecond):
	}
	if m.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", m.Pending())
	}
}

func TestRearmReplacesPriorTimer(t *testing.T) {
	m := NewTimerManager()
	first := make(chan struct{})
	second := make(chan struct{})

	m.Arm(1, 0, 20*time.Millisecond, func() { close(first) })
	m.Arm(1, 0, 20*time.Millisecond, func() { close(second) })

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatalf("replacement timer never fired")
	}
	select {
	case <-first:
		t.Fatalf("replaced timer fired")
	case <-time.After(40 * time.Millisecond):
	}
}

func TestCancelAfterFireIsNoop(t *testing.T) {
	m := NewTimerManager()
	fired := make(chan struct{})

	handle := m.Arm(1, 0, 5*time.Millisecond, func() { close(fired) })
	<-fired

	m.Cancel(handle) // must not panic or disturb other state
	if m.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", m.Pending())
	}
}

func TestDifferentSlotsAreIndependent(t *testing.T) {
	m := NewTimerManager()
	a := make(chan struct{})
	b := make(chan struct{})

	m.Arm(1, 0, 10*time.Millisecond, func() { close(a) })
	m.Arm(1, 1, 10*time.Millisecond, func() { close(b) })
	if m.Pending() != 2 {
		t.Fatalf("expected 2 pending timers, got %d", m.Pending())
	}

	<-a
	<-b
}

func TestShutdownCancelsEverything(t *testing.T) {
	m := NewTimerManager()
	fired := make(chan struct{}, 2)

	m.Arm(1, 0, 20*time.Millisecond, func() { fired <- struct{}{} })
	m.Arm(2, 0, 20*time.Millisecond, func() { fired <- struct{}{} })
	m.Shutdown()

	select {
	case <-fired:
		t.Fatalf("timer fired after shutdown")
	case <-time.After(60 * time.Millisecond):
	}
	if m.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", m.Pending())
	}
}

func waitForPending(t *testing.T, m *TimerManager, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if m.Pending() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("pending timers: got %d, want %d", m.Pending(), want)
}

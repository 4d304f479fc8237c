package domain

import "errors"

var (
	// ErrNoActiveSession is returned for events arriving after a session
	// finished or before one was started.
	ErrNoActiveSession = errors.New("no active quiz session")
	// ErrSlotMismatch rejects an answer for a question that is not the
	// current one (already resolved, or not yet presented).
	ErrSlotMismatch = errors.New("question already answered")
	// ErrOptionOutOfRange indicates a malformed answer event.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrBankTooSmall means the bank cannot cover the configured quiz length.
	ErrBankTooSmall = errors.New("question bank smaller than requested quiz length")
	// ErrUserNotFound is returned when a user has not registered yet.
	ErrUserNotFound = errors.New("user not found")
	// ErrMockNotFound indicates an unknown reading mock ID.
	ErrMockNotFound = errors.New("reading mock not found")
	// ErrResultNotFound is returned when a user has no stored reading result.
	ErrResultNotFound = errors.New("reading result not found")
)

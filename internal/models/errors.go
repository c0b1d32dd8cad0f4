package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAlreadyRunning is returned when a session is started while another one is live
	ErrAlreadyRunning = errors.New("a session is already running")

	// ErrNotRunning reports that no session is live. Stop and elapsed queries treat it as a no-op.
	ErrNotRunning = errors.New("no session is running")

	// ErrInvalidInterval is returned when an interval ends at or before its start
	ErrInvalidInterval = errors.New("end must be after start")

	// ErrDuplicateName is returned when a discipline name is already taken
	ErrDuplicateName = errors.New("discipline name already exists")

	// ErrEmptyName is returned when a discipline name is blank
	ErrEmptyName = errors.New("discipline name must not be empty")

	// ErrNotFound is returned when a record is missing from the store
	ErrNotFound = errors.New("record not found")

	// ErrSessionActive is returned when the live session is edited or deleted through the historical path
	ErrSessionActive = errors.New("session is currently running; stop it first")

	// ErrNotBound is returned when the timer is used before recovery ran
	ErrNotBound = errors.New("timer not bound: recovery has not run")

	// ErrOverlap matches any *OverlapError
	ErrOverlap = errors.New("session overlaps an existing session")

	// ErrPersistence matches any *PersistenceError
	ErrPersistence = errors.New("persistence failure")
)

// Conflict describes the existing session a candidate interval collided with
type Conflict struct {
	SessionID      uint
	DisciplineName string
	Start          time.Time
	End            time.Time
}

// OverlapError carries the first conflicting session found
type OverlapError struct {
	Conflict Conflict
}

func (e *OverlapError) Error() string {
	name := e.Conflict.DisciplineName
	if name == "" {
		name = "unknown discipline"
	}
	return fmt.Sprintf("conflicts with session #%d: %s (%s – %s)",
		e.Conflict.SessionID, name,
		e.Conflict.Start.Format("02.01.2006, 15:04"),
		e.Conflict.End.Format("02.01.2006, 15:04"))
}

// Is lets errors.Is(err, ErrOverlap) match
func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlap
}

// PersistenceError wraps a store failure with the operation that hit it
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrPersistence) match
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Persistence wraps err as a *PersistenceError, passing nil through
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

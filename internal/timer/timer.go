// Package timer implements the session state machine: at most one session
// runs at a time, and its elapsed time is pulled on demand.
package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/balkashynov/vibetrack/internal/clock"
	"github.com/balkashynov/vibetrack/internal/metrics"
	"github.com/balkashynov/vibetrack/internal/models"
	"github.com/balkashynov/vibetrack/internal/recovery"
)

// Store is the part of the entity store the timer writes to
type Store interface {
	GetDiscipline(ctx context.Context, id uint) (*models.Discipline, error)
	CreateSession(ctx context.Context, session *models.Session) error
	// UpdateRunningSession writes only while the row is still live and
	// returns models.ErrNotRunning otherwise
	UpdateRunningSession(ctx context.Context, session *models.Session) error
}

// Pointer persists and recovers the active-session pointer
type Pointer interface {
	Recover(ctx context.Context) (recovery.Result, error)
	Persist(ctx context.Context, session *models.Session) error
	Clear(ctx context.Context) error
}

// Validator checks a candidate interval against other sessions
type Validator interface {
	Validate(ctx context.Context, start, end time.Time, excludeID uint, now time.Time) error
}

// Timer is the session state machine. It is Idle when active is nil.
type Timer struct {
	mu sync.RWMutex

	store     Store
	pointer   Pointer
	validator Validator
	clock     clock.Clock
	logger    zerolog.Logger

	bound  bool
	active *models.Session
}

// New creates an unbound timer; call Bind before anything else
func New(store Store, pointer Pointer, validator Validator, clk clock.Clock, logger zerolog.Logger) *Timer {
	return &Timer{
		store:     store,
		pointer:   pointer,
		validator: validator,
		clock:     clk,
		logger:    logger.With().Str("component", "timer").Logger(),
	}
}

// Bind runs recovery once and sets the initial state from its result.
// Later calls do nothing.
func (t *Timer) Bind(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bound {
		return nil
	}

	result, err := t.pointer.Recover(ctx)
	if err != nil {
		return err
	}

	t.active = result.Session
	t.bound = true
	return nil
}

// Start begins a new session for disciplineID
func (t *Timer) Start(ctx context.Context, disciplineID uint) (*models.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.bound {
		return nil, models.ErrNotBound
	}
	if t.active != nil {
		return nil, models.ErrAlreadyRunning
	}

	discipline, err := t.store.GetDiscipline(ctx, disciplineID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("discipline %d: %w", disciplineID, err)
		}
		return nil, t.persistenceFailure("start", err)
	}

	now := t.now()
	session := &models.Session{
		DisciplineID:            discipline.ID,
		StartedAt:               now,
		RunningSegmentStartedAt: &now,
		IsRunning:               true,
	}

	if err := t.store.CreateSession(ctx, session); err != nil {
		// Another process won the race for the single running slot
		if errors.Is(err, models.ErrAlreadyRunning) {
			return nil, err
		}
		return nil, t.persistenceFailure("start", err)
	}
	session.Discipline = *discipline

	t.active = session
	metrics.SessionsStarted.Inc()

	if err := t.pointer.Persist(ctx, session); err != nil {
		t.logger.Warn().Err(err).Uint("session_id", session.ID).Msg("Failed to persist active session pointer")
	}

	t.logger.Info().
		Uint("session_id", session.ID).
		Str("discipline", discipline.Name).
		Time("started_at", session.StartedAt).
		Msg("Session started")

	return copySession(session), nil
}

// Stop finalizes the running session and returns it.
// Stopping while idle is a no-op returning nil, nil.
// On a failed write the timer stays Running. If another process already
// finalized the session, the timer goes Idle and returns models.ErrNotRunning.
func (t *Timer) Stop(ctx context.Context) (*models.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.bound {
		return nil, models.ErrNotBound
	}
	if t.active == nil {
		return nil, nil
	}

	finalized := copySession(t.active)
	finalized.Finalize(t.now())

	if err := t.store.UpdateRunningSession(ctx, finalized); err != nil {
		if errors.Is(err, models.ErrNotRunning) {
			return nil, t.lost(err)
		}
		return nil, t.persistenceFailure("stop", err)
	}

	t.active = nil
	metrics.SessionsStopped.Inc()

	if err := t.pointer.Clear(ctx); err != nil {
		t.logger.Warn().Err(err).Uint("session_id", finalized.ID).Msg("Failed to clear active session pointer")
	}

	t.logger.Info().
		Uint("session_id", finalized.ID).
		Int("duration_seconds", finalized.DurationSeconds).
		Msg("Session stopped")

	return copySession(finalized), nil
}

// Adjust moves the running session's start to startedAt.
// The new interval up to now must not overlap any other session.
func (t *Timer) Adjust(ctx context.Context, startedAt time.Time) (*models.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.bound {
		return nil, models.ErrNotBound
	}
	if t.active == nil {
		return nil, models.ErrNotRunning
	}

	now := t.now()
	startedAt = startedAt.UTC().Truncate(time.Second)
	if startedAt.After(now) {
		return nil, fmt.Errorf("start %s is in the future: %w", startedAt.Format(time.RFC3339), models.ErrInvalidInterval)
	}

	if now.After(startedAt) {
		if err := t.validator.Validate(ctx, startedAt, now, t.active.ID, now); err != nil {
			return nil, err
		}
	}

	adjusted := copySession(t.active)
	adjusted.StartedAt = startedAt
	adjusted.RunningSegmentStartedAt = &startedAt

	if err := t.store.UpdateRunningSession(ctx, adjusted); err != nil {
		if errors.Is(err, models.ErrNotRunning) {
			return nil, t.lost(err)
		}
		return nil, t.persistenceFailure("adjust", err)
	}

	t.active = adjusted
	t.logger.Info().
		Uint("session_id", adjusted.ID).
		Time("started_at", startedAt).
		Msg("Session start adjusted")

	return copySession(adjusted), nil
}

// ElapsedSeconds returns the running session's whole seconds since its start, or 0 when idle
func (t *Timer) ElapsedSeconds() int {
	return t.ElapsedAt(t.clock.Now())
}

// ElapsedAt is ElapsedSeconds at a caller-sampled now
func (t *Timer) ElapsedAt(now time.Time) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.active == nil {
		return 0
	}
	return models.SecondsBetween(t.active.StartedAt, now)
}

// Active returns a copy of the running session, or nil when idle
func (t *Timer) Active() *models.Session {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.active == nil {
		return nil
	}
	return copySession(t.active)
}

// Running reports whether a session is live
func (t *Timer) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active != nil
}

func (t *Timer) now() time.Time {
	return t.clock.Now().UTC().Truncate(time.Second)
}

// lost drops a session that another process finalized meanwhile.
// The pointer is left alone: it may already name that process's session.
func (t *Timer) lost(err error) error {
	t.logger.Warn().
		Uint("session_id", t.active.ID).
		Msg("Session was finalized elsewhere, going idle")
	t.active = nil
	return err
}

func (t *Timer) persistenceFailure(op string, err error) error {
	metrics.PersistenceFailures.WithLabelValues(op).Inc()
	t.logger.Error().Err(err).Str("op", op).Msg("Store write failed")
	return models.Persistence(op+" session", err)
}

// copySession returns a copy that shares no pointers with s
func copySession(s *models.Session) *models.Session {
	c := *s
	if s.EndedAt != nil {
		end := *s.EndedAt
		c.EndedAt = &end
	}
	if s.RunningSegmentStartedAt != nil {
		seg := *s.RunningSegmentStartedAt
		c.RunningSegmentStartedAt = &seg
	}
	return &c
}

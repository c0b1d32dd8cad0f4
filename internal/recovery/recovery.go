// Package recovery keeps a small pointer to the live session so it can be
// resumed after the process restarts.
//
// The pointer is only a hint for locating the record to resume. The session
// record in the store is always trusted over it.
package recovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/balkashynov/vibetrack/internal/metrics"
	"github.com/balkashynov/vibetrack/internal/models"
)

// DefaultKey is the versioned key the pointer is stored under
const DefaultKey = "active_timer_state_v1"

// Pointer identifies the live session
type Pointer struct {
	SessionID    uint `json:"session_id"`
	DisciplineID uint `json:"discipline_id"`
}

// KV is the key/value backend holding the pointer.
// Get returns models.ErrNotFound for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// SessionSource is the part of the entity store recovery reads from
type SessionSource interface {
	GetSession(ctx context.Context, id uint) (*models.Session, error)
	GetRunningSession(ctx context.Context) (*models.Session, error)
}

// Outcome describes what Recover decided
type Outcome string

const (
	OutcomeIdle      Outcome = "idle"      // no pointer, nothing running
	OutcomeResumed   Outcome = "resumed"   // pointer led to an open session
	OutcomeDiscarded Outcome = "discarded" // pointer was stale and removed
	OutcomeAdopted   Outcome = "adopted"   // open session found without a usable pointer
)

// Result is the state recovery hands to the timer
type Result struct {
	Session *models.Session
	Outcome Outcome
}

// Manager persists and reconciles the active-session pointer
type Manager struct {
	kv       KV
	sessions SessionSource
	key      string
	logger   zerolog.Logger
}

// NewManager creates a recovery manager. An empty key falls back to DefaultKey.
func NewManager(kv KV, sessions SessionSource, key string, logger zerolog.Logger) *Manager {
	if key == "" {
		key = DefaultKey
	}
	return &Manager{
		kv:       kv,
		sessions: sessions,
		key:      key,
		logger:   logger.With().Str("component", "recovery").Logger(),
	}
}

// Recover reconciles the pointer against the store.
//
// An open session behind the pointer is resumed with its original start.
// A pointer to a missing or finalized session is discarded. Either way the
// store is then checked for an open session that lost its pointer, which
// happens when the session write succeeded but the pointer write did not.
func (m *Manager) Recover(ctx context.Context) (Result, error) {
	result, err := m.recover(ctx)
	if err != nil {
		return Result{}, err
	}

	metrics.RecoveryOutcomes.WithLabelValues(string(result.Outcome)).Inc()

	event := m.logger.Info().Str("outcome", string(result.Outcome))
	if result.Session != nil {
		event = event.Uint("session_id", result.Session.ID).Time("started_at", result.Session.StartedAt)
	}
	event.Msg("Recovery finished")

	return result, nil
}

func (m *Manager) recover(ctx context.Context) (Result, error) {
	outcome := OutcomeIdle

	pointer, err := m.Load(ctx)
	if err != nil {
		// The store scan below still finds an open session
		m.logger.Warn().Err(err).Msg("Failed to read active session pointer")
	}

	if pointer != nil {
		session, err := m.sessions.GetSession(ctx, pointer.SessionID)
		switch {
		case err == nil && !session.Finalized():
			return Result{Session: session, Outcome: OutcomeResumed}, nil
		case err == nil || errors.Is(err, models.ErrNotFound):
			m.logger.Info().
				Uint("session_id", pointer.SessionID).
				Bool("missing", err != nil).
				Msg("Discarding stale active session pointer")
			if err := m.Clear(ctx); err != nil {
				m.logger.Warn().Err(err).Msg("Failed to discard stale pointer")
			}
			outcome = OutcomeDiscarded
		default:
			return Result{}, models.Persistence("fetch pointed session", err)
		}
	}

	orphan, err := m.sessions.GetRunningSession(ctx)
	if err != nil {
		return Result{}, models.Persistence("find running session", err)
	}
	if orphan == nil {
		return Result{Outcome: outcome}, nil
	}

	if err := m.Persist(ctx, orphan); err != nil {
		m.logger.Warn().Err(err).Uint("session_id", orphan.ID).Msg("Failed to rewrite pointer for adopted session")
	}
	return Result{Session: orphan, Outcome: OutcomeAdopted}, nil
}

// Load reads the pointer; a missing pointer is nil, nil.
// An undecodable pointer is removed and reported as missing.
func (m *Manager) Load(ctx context.Context) (*Pointer, error) {
	data, err := m.kv.Get(ctx, m.key)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pointer %q: %w", m.key, err)
	}

	var pointer Pointer
	if err := json.Unmarshal(data, &pointer); err != nil || pointer.SessionID == 0 {
		m.logger.Warn().Err(err).Str("key", m.key).Msg("Dropping unreadable active session pointer")
		if err := m.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &pointer, nil
}

// Persist writes the pointer for a live session
func (m *Manager) Persist(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(Pointer{SessionID: session.ID, DisciplineID: session.DisciplineID})
	if err != nil {
		return err
	}
	if err := m.kv.Put(ctx, m.key, data); err != nil {
		return fmt.Errorf("write pointer %q: %w", m.key, err)
	}
	return nil
}

// Clear removes the pointer
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.kv.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("delete pointer %q: %w", m.key, err)
	}
	return nil
}

// Package journal manages historical sessions entered or corrected by hand.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/balkashynov/vibetrack/internal/clock"
	"github.com/balkashynov/vibetrack/internal/metrics"
	"github.com/balkashynov/vibetrack/internal/models"
	"github.com/balkashynov/vibetrack/internal/stats"
)

// Store is the part of the entity store the journal uses
type Store interface {
	GetDiscipline(ctx context.Context, id uint) (*models.Discipline, error)
	GetSession(ctx context.Context, id uint) (*models.Session, error)
	CreateSession(ctx context.Context, session *models.Session) error
	UpdateSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, id uint) error
	SessionsStartingIn(ctx context.Context, start, end time.Time) ([]models.Session, error)
}

// Validator checks a candidate interval against other sessions
type Validator interface {
	Validate(ctx context.Context, start, end time.Time, excludeID uint, now time.Time) error
}

// Journal creates, edits and lists finalized sessions
type Journal struct {
	store     Store
	validator Validator
	clock     clock.Clock
	loc       *time.Location
	logger    zerolog.Logger
}

// New creates a journal; days are computed in loc
func New(store Store, validator Validator, clk clock.Clock, loc *time.Location, logger zerolog.Logger) *Journal {
	if loc == nil {
		loc = time.Local
	}
	return &Journal{
		store:     store,
		validator: validator,
		clock:     clk,
		loc:       loc,
		logger:    logger.With().Str("component", "journal").Logger(),
	}
}

// Entry is a session as shown in a day timeline
type Entry struct {
	Session models.Session
	End     time.Time
	Seconds int
	Live    bool
}

// Add records a finished session for disciplineID over [start, end)
func (j *Journal) Add(ctx context.Context, disciplineID uint, start, end time.Time) (*models.Session, error) {
	start, end = normalize(start), normalize(end)
	if !end.After(start) {
		return nil, models.ErrInvalidInterval
	}

	discipline, err := j.discipline(ctx, disciplineID)
	if err != nil {
		return nil, err
	}

	if err := j.validate(ctx, start, end, 0); err != nil {
		return nil, err
	}

	session := &models.Session{DisciplineID: discipline.ID, StartedAt: start}
	session.Finalize(end)

	if err := j.store.CreateSession(ctx, session); err != nil {
		return nil, j.persistenceFailure("add", err)
	}
	session.Discipline = *discipline

	j.logger.Info().
		Uint("session_id", session.ID).
		Str("discipline", discipline.Name).
		Int("duration_seconds", session.DurationSeconds).
		Msg("Session added")

	return session, nil
}

// Edit moves a finalized session to [start, end) and optionally to another
// discipline; disciplineID 0 keeps the current one.
func (j *Journal) Edit(ctx context.Context, id uint, start, end time.Time, disciplineID uint) (*models.Session, error) {
	session, err := j.finalizedSession(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end = normalize(start), normalize(end)
	if !end.After(start) {
		return nil, models.ErrInvalidInterval
	}

	if disciplineID != 0 && disciplineID != session.DisciplineID {
		discipline, err := j.discipline(ctx, disciplineID)
		if err != nil {
			return nil, err
		}
		session.DisciplineID = discipline.ID
		session.Discipline = *discipline
	}

	if err := j.validate(ctx, start, end, session.ID); err != nil {
		return nil, err
	}

	session.StartedAt = start
	session.Finalize(end)

	if err := j.store.UpdateSession(ctx, session); err != nil {
		return nil, j.persistenceFailure("edit", err)
	}

	j.logger.Info().
		Uint("session_id", session.ID).
		Int("duration_seconds", session.DurationSeconds).
		Msg("Session edited")

	return session, nil
}

// Delete removes a finalized session
func (j *Journal) Delete(ctx context.Context, id uint) error {
	if _, err := j.finalizedSession(ctx, id); err != nil {
		return err
	}

	if err := j.store.DeleteSession(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return j.persistenceFailure("delete", err)
	}

	j.logger.Info().Uint("session_id", id).Msg("Session deleted")
	return nil
}

// Day lists every session starting on the day containing date, live one
// included, with durations taken at a single sampled now
func (j *Journal) Day(ctx context.Context, date time.Time) ([]Entry, error) {
	r := stats.DayRange(date, j.loc)
	sessions, err := j.store.SessionsStartingIn(ctx, r.Start, r.End)
	if err != nil {
		return nil, models.Persistence("list day sessions", err)
	}

	now := j.clock.Now()
	entries := make([]Entry, len(sessions))
	for i, s := range sessions {
		entries[i] = Entry{
			Session: s,
			End:     models.EffectiveEnd(s, now),
			Seconds: models.EffectiveDuration(s, now),
			Live:    s.Live(),
		}
	}
	return entries, nil
}

func (j *Journal) validate(ctx context.Context, start, end time.Time, excludeID uint) error {
	err := j.validator.Validate(ctx, start, end, excludeID, j.clock.Now())
	var overlap *models.OverlapError
	if errors.As(err, &overlap) {
		j.logger.Debug().
			Uint("conflict_session_id", overlap.Conflict.SessionID).
			Time("start", start).
			Time("end", end).
			Msg("Rejected overlapping session")
	}
	return err
}

func (j *Journal) discipline(ctx context.Context, id uint) (*models.Discipline, error) {
	discipline, err := j.store.GetDiscipline(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("discipline %d: %w", id, err)
		}
		return nil, models.Persistence("fetch discipline", err)
	}
	return discipline, nil
}

// finalizedSession fetches id and refuses open sessions, which belong to the timer
func (j *Journal) finalizedSession(ctx context.Context, id uint) (*models.Session, error) {
	session, err := j.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("session %d: %w", id, err)
		}
		return nil, models.Persistence("fetch session", err)
	}
	if !session.Finalized() {
		return nil, models.ErrSessionActive
	}
	return session, nil
}

func (j *Journal) persistenceFailure(op string, err error) error {
	metrics.PersistenceFailures.WithLabelValues(op).Inc()
	j.logger.Error().Err(err).Str("op", op).Msg("Store write failed")
	return models.Persistence(op+" session", err)
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

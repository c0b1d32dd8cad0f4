package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/balkashynov/vibetrack/internal/models"
)

// CreateSession inserts a new session record
func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	normalizeSessionTimes(session)
	if err := session.Validate(); err != nil {
		return err
	}

	err := s.conn(ctx).Omit(clause.Associations).Create(session).Error
	if isUniqueViolation(err) {
		return models.ErrAlreadyRunning
	}
	return err
}

// UpdateSession saves every column of an existing session
func (s *Store) UpdateSession(ctx context.Context, session *models.Session) error {
	if session.ID == 0 {
		return fmt.Errorf("update session without id: %w", models.ErrNotFound)
	}
	normalizeSessionTimes(session)
	if err := session.Validate(); err != nil {
		return err
	}

	err := s.conn(ctx).Omit(clause.Associations).Save(session).Error
	if isUniqueViolation(err) {
		return models.ErrAlreadyRunning
	}
	return err
}

// UpdateRunningSession saves session only while its row is still live.
// It returns models.ErrNotRunning when another writer has already
// finalized or removed the row, leaving that row untouched.
func (s *Store) UpdateRunningSession(ctx context.Context, session *models.Session) error {
	if session.ID == 0 {
		return fmt.Errorf("update session without id: %w", models.ErrNotFound)
	}
	normalizeSessionTimes(session)
	if err := session.Validate(); err != nil {
		return err
	}

	result := s.conn(ctx).
		Model(&models.Session{}).
		Where("id = ? AND is_running AND ended_at IS NULL", session.ID).
		Updates(map[string]any{
			"started_at":                 session.StartedAt,
			"ended_at":                   session.EndedAt,
			"duration_seconds":           session.DurationSeconds,
			"accumulated_seconds":        session.AccumulatedSeconds,
			"running_segment_started_at": session.RunningSegmentStartedAt,
			"is_running":                 session.IsRunning,
		})
	if isUniqueViolation(result.Error) {
		return models.ErrAlreadyRunning
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session %d is no longer running: %w", session.ID, models.ErrNotRunning)
	}
	return nil
}

// DeleteSession removes a session by ID
func (s *Store) DeleteSession(ctx context.Context, id uint) error {
	result := s.conn(ctx).Delete(&models.Session{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetSession retrieves a session by ID together with its discipline
func (s *Store) GetSession(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	err := s.conn(ctx).Preload("Discipline").First(&session, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

// GetRunningSession returns the live session, if any.
// No live session is not an error: it returns nil, nil.
func (s *Store) GetRunningSession(ctx context.Context) (*models.Session, error) {
	var session models.Session
	err := s.conn(ctx).
		Where("is_running AND ended_at IS NULL").
		Preload("Discipline").
		Order("started_at DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(notFound(err), models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// FinalizedSessionsIn returns ended sessions whose start lies in [start, end)
func (s *Store) FinalizedSessionsIn(ctx context.Context, start, end time.Time) ([]models.Session, error) {
	var sessions []models.Session

	err := s.conn(ctx).
		Where("ended_at IS NOT NULL AND started_at >= ? AND started_at < ?", start.UTC(), end.UTC()).
		Preload("Discipline").
		Order("started_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// SessionsStartingIn returns every session, live or ended, whose start lies in [start, end)
func (s *Store) SessionsStartingIn(ctx context.Context, start, end time.Time) ([]models.Session, error) {
	var sessions []models.Session

	err := s.conn(ctx).
		Where("started_at >= ? AND started_at < ?", start.UTC(), end.UTC()).
		Preload("Discipline").
		Order("started_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// SessionsIntersecting returns candidates that may intersect [start, end).
// Open-ended records are always included; callers decide their effective end.
func (s *Store) SessionsIntersecting(ctx context.Context, start, end time.Time) ([]models.Session, error) {
	var sessions []models.Session

	err := s.conn(ctx).
		Where("started_at < ? AND (ended_at IS NULL OR ended_at > ?)", end.UTC(), start.UTC()).
		Preload("Discipline").
		Order("started_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// normalizeSessionTimes stores whole-second UTC timestamps so text comparisons in sqlite stay ordered
func normalizeSessionTimes(session *models.Session) {
	session.StartedAt = session.StartedAt.UTC().Truncate(time.Second)
	if session.EndedAt != nil {
		t := session.EndedAt.UTC().Truncate(time.Second)
		session.EndedAt = &t
	}
	if session.RunningSegmentStartedAt != nil {
		t := session.RunningSegmentStartedAt.UTC().Truncate(time.Second)
		session.RunningSegmentStartedAt = &t
	}
}

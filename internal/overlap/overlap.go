// Package overlap rejects manually entered intervals that collide with
// existing sessions of any discipline.
package overlap

import (
	"context"
	"time"

	"github.com/balkashynov/vibetrack/internal/metrics"
	"github.com/balkashynov/vibetrack/internal/models"
)

// Check returns the first session in sessions that intersects candidate, or nil.
//
// Sessions are compared as half-open intervals, so touching endpoints never
// conflict. A zero-length session still conflicts with any candidate that
// strictly contains its instant. A session with ID excludeID is skipped; zero excludes nothing.
// Live sessions reach now.
func Check(candidate models.Interval, excludeID uint, sessions []models.Session, now time.Time) *models.Conflict {
	for _, s := range sessions {
		if excludeID != 0 && s.ID == excludeID {
			continue
		}

		end := models.EffectiveEnd(s, now)
		existing := models.Interval{Start: s.StartedAt, End: end}
		if candidate.Overlaps(existing) {
			return &models.Conflict{
				SessionID:      s.ID,
				DisciplineName: s.Discipline.Name,
				Start:          s.StartedAt,
				End:            end,
			}
		}
	}
	return nil
}

// SessionFinder loads the sessions that may intersect a range
type SessionFinder interface {
	SessionsIntersecting(ctx context.Context, start, end time.Time) ([]models.Session, error)
}

// Validator checks candidate intervals against the store
type Validator struct {
	store SessionFinder
}

// NewValidator creates a store-backed validator
func NewValidator(store SessionFinder) *Validator {
	return &Validator{store: store}
}

// Validate returns models.ErrInvalidInterval for an empty or inverted
// interval, a *models.OverlapError for the first conflict, or nil.
func (v *Validator) Validate(ctx context.Context, start, end time.Time, excludeID uint, now time.Time) error {
	candidate, err := models.NewInterval(start, end)
	if err != nil {
		return err
	}

	sessions, err := v.store.SessionsIntersecting(ctx, start, end)
	if err != nil {
		return models.Persistence("load overlapping sessions", err)
	}

	if conflict := Check(candidate, excludeID, sessions, now); conflict != nil {
		metrics.OverlapConflicts.Inc()
		return &models.OverlapError{Conflict: *conflict}
	}
	return nil
}

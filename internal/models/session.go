package models

import (
	"fmt"
	"time"
)

// Session represents one interval of tracked time attributed to a discipline
type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DisciplineID uint       `gorm:"not null;index" json:"discipline_id"`
	StartedAt    time.Time  `gorm:"not null;index" json:"started_at"`
	EndedAt      *time.Time `gorm:"index" json:"ended_at"`

	DurationSeconds         int        `json:"duration_seconds"` // fixed when the session is finalized
	AccumulatedSeconds      int        `gorm:"not null;default:0" json:"accumulated_seconds"`
	RunningSegmentStartedAt *time.Time `json:"running_segment_started_at"`
	IsRunning               bool       `gorm:"not null;default:false;index" json:"is_running"`

	// Relationships
	Discipline Discipline `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"discipline"`
}

// Finalized reports whether the session has an end timestamp
func (s Session) Finalized() bool {
	return s.EndedAt != nil
}

// Live reports whether the session is the running, not-yet-ended kind
func (s Session) Live() bool {
	return s.IsRunning && s.EndedAt == nil
}

// EffectiveDuration returns the whole seconds a session accounts for at now.
//
// A finalized session is measured end minus start. A running session banks
// AccumulatedSeconds plus its live segment; anything else falls back to
// AccumulatedSeconds alone.
func EffectiveDuration(s Session, now time.Time) int {
	if s.EndedAt != nil {
		return SecondsBetween(s.StartedAt, *s.EndedAt)
	}
	if s.IsRunning && s.RunningSegmentStartedAt != nil {
		return s.AccumulatedSeconds + SecondsBetween(*s.RunningSegmentStartedAt, now)
	}
	return s.AccumulatedSeconds
}

// EffectiveEnd returns the end used when comparing intervals.
// A live session always reaches the present.
func EffectiveEnd(s Session, now time.Time) time.Time {
	switch {
	case s.EndedAt != nil:
		return *s.EndedAt
	case s.IsRunning:
		return now
	default:
		return s.StartedAt.Add(time.Duration(max(0, s.AccumulatedSeconds)) * time.Second)
	}
}

// SecondsBetween returns whole seconds from a to b, clamped at zero
func SecondsBetween(a, b time.Time) int {
	d := b.Sub(a)
	if d <= 0 {
		return 0
	}
	return int(d / time.Second)
}

// Validate checks the record-level invariants of a session
func (s Session) Validate() error {
	if s.DisciplineID == 0 {
		return fmt.Errorf("session has no discipline: %w", ErrNotFound)
	}
	if s.AccumulatedSeconds < 0 {
		return fmt.Errorf("accumulated seconds must not be negative: %w", ErrInvalidInterval)
	}
	if s.EndedAt == nil {
		return nil
	}
	// Zero length is allowed: a stop within the start second
	if s.EndedAt.Before(s.StartedAt) {
		return ErrInvalidInterval
	}
	if s.IsRunning || s.RunningSegmentStartedAt != nil {
		return fmt.Errorf("finalized session %d still marked running: %w", s.ID, ErrInvalidInterval)
	}
	return nil
}

// Finalize closes the session at end, recomputing the duration from its start.
// Banked pause segments are kept as accounting metadata only.
func (s *Session) Finalize(end time.Time) {
	duration := SecondsBetween(s.StartedAt, end)
	s.EndedAt = &end
	s.DurationSeconds = duration
	s.AccumulatedSeconds = duration
	s.IsRunning = false
	s.RunningSegmentStartedAt = nil
}

// Interval is a half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval, rejecting end <= start
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Seconds returns the whole-second length of the interval
func (i Interval) Seconds() int {
	return SecondsBetween(i.Start, i.End)
}

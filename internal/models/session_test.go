package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return t0.Add(d) }

func ptr(t time.Time) *time.Time { return &t }

func TestEffectiveDuration(t *testing.T) {
	now := at(2 * time.Hour)

	tests := []struct {
		name    string
		session Session
		want    int
	}{
		{
			name:    "finalized uses end minus start",
			session: Session{StartedAt: t0, EndedAt: ptr(at(90 * time.Minute)), AccumulatedSeconds: 10},
			want:    5400,
		},
		{
			name:    "running adds live segment to banked seconds",
			session: Session{StartedAt: t0, IsRunning: true, AccumulatedSeconds: 60, RunningSegmentStartedAt: ptr(at(time.Hour))},
			want:    60 + 3600,
		},
		{
			name:    "neither running nor ended falls back to banked seconds",
			session: Session{StartedAt: t0, AccumulatedSeconds: 300},
			want:    300,
		},
		{
			name:    "end before start clamps to zero",
			session: Session{StartedAt: t0, EndedAt: ptr(at(-time.Minute))},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveDuration(tt.session, now))
		})
	}
}

func TestEffectiveEnd(t *testing.T) {
	now := at(3 * time.Hour)

	assert.Equal(t, at(time.Hour), EffectiveEnd(Session{StartedAt: t0, EndedAt: ptr(at(time.Hour))}, now))
	assert.Equal(t, now, EffectiveEnd(Session{StartedAt: t0, IsRunning: true}, now))
	assert.Equal(t, at(10*time.Minute), EffectiveEnd(Session{StartedAt: t0, AccumulatedSeconds: 600}, now))
}

func TestSessionFinalize(t *testing.T) {
	s := Session{
		StartedAt:               t0,
		IsRunning:               true,
		AccumulatedSeconds:      30,
		RunningSegmentStartedAt: ptr(at(time.Minute)),
	}

	s.Finalize(at(125 * time.Second))

	require.NotNil(t, s.EndedAt)
	assert.Equal(t, at(125*time.Second), *s.EndedAt)
	assert.Equal(t, 125, s.DurationSeconds)
	assert.Equal(t, 125, s.AccumulatedSeconds)
	assert.False(t, s.IsRunning)
	assert.Nil(t, s.RunningSegmentStartedAt)
	assert.NoError(t, s.Validate())
}

func TestSessionValidate(t *testing.T) {
	assert.ErrorIs(t, Session{StartedAt: t0}.Validate(), ErrNotFound)
	assert.ErrorIs(t, Session{DisciplineID: 1, StartedAt: t0, EndedAt: ptr(at(-time.Second))}.Validate(), ErrInvalidInterval)
	assert.ErrorIs(t, Session{DisciplineID: 1, StartedAt: t0, AccumulatedSeconds: -1}.Validate(), ErrInvalidInterval)
	assert.ErrorIs(t, Session{DisciplineID: 1, StartedAt: t0, EndedAt: ptr(at(time.Minute)), IsRunning: true}.Validate(), ErrInvalidInterval)

	assert.NoError(t, Session{DisciplineID: 1, StartedAt: t0, EndedAt: ptr(t0)}.Validate())
	assert.NoError(t, Session{DisciplineID: 1, StartedAt: t0, IsRunning: true, RunningSegmentStartedAt: ptr(t0)}.Validate())
}

func TestIntervalOverlaps(t *testing.T) {
	nine, _ := NewInterval(at(0), at(time.Hour))
	ten, _ := NewInterval(at(time.Hour), at(2*time.Hour))
	half, _ := NewInterval(at(30*time.Minute), at(90*time.Minute))

	assert.False(t, nine.Overlaps(ten), "touching endpoints do not overlap")
	assert.False(t, ten.Overlaps(nine))
	assert.True(t, nine.Overlaps(half))
	assert.True(t, half.Overlaps(nine))
	assert.True(t, nine.Overlaps(nine))

	_, err := NewInterval(t0, t0)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestErrorKinds(t *testing.T) {
	overlap := &OverlapError{Conflict: Conflict{SessionID: 4, DisciplineName: "Math", Start: t0, End: at(time.Hour)}}
	assert.ErrorIs(t, overlap, ErrOverlap)
	assert.Contains(t, overlap.Error(), "#4: Math")

	cause := errors.New("disk full")
	err := Persistence("stop session", cause)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, Persistence("noop", nil))

	name, err := NormalizeName("  Math ")
	require.NoError(t, err)
	assert.Equal(t, "Math", name)
	_, err = NormalizeName("   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

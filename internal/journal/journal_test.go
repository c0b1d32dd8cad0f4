package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/vibetrack/internal/clock"
	"github.com/balkashynov/vibetrack/internal/db"
	"github.com/balkashynov/vibetrack/internal/models"
	"github.com/balkashynov/vibetrack/internal/overlap"
)

var day = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type fixture struct {
	store   *db.Store
	clock   *clock.Manual
	journal *Journal
	math    *models.Discipline
	physics *models.Discipline
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := db.Open(filepath.Join(t.TempDir(), "vibetrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	math, err := store.CreateDiscipline(ctx, "Math", "")
	require.NoError(t, err)
	physics, err := store.CreateDiscipline(ctx, "Physics", "")
	require.NoError(t, err)

	clk := clock.NewManual(at(18, 0))
	return &fixture{
		store:   store,
		clock:   clk,
		journal: New(store, overlap.NewValidator(store), clk, time.UTC, zerolog.Nop()),
		math:    math,
		physics: physics,
	}
}

func TestJournal_Add(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	session, err := f.journal.Add(ctx, f.math.ID, at(8, 0), at(9, 0))
	require.NoError(t, err)
	assert.Equal(t, 3600, session.DurationSeconds)
	assert.Equal(t, 3600, session.AccumulatedSeconds)
	assert.False(t, session.IsRunning)
	assert.Nil(t, session.RunningSegmentStartedAt)
	require.NotNil(t, session.EndedAt)
	assert.Equal(t, "Math", session.Discipline.Name)

	// Touching is fine, across disciplines too
	_, err = f.journal.Add(ctx, f.physics.ID, at(9, 0), at(9, 30))
	require.NoError(t, err)

	_, err = f.journal.Add(ctx, f.physics.ID, at(8, 30), at(8, 45))
	var overlapErr *models.OverlapError
	require.ErrorAs(t, err, &overlapErr)
	assert.Equal(t, "Math", overlapErr.Conflict.DisciplineName)

	_, err = f.journal.Add(ctx, f.math.ID, at(10, 0), at(10, 0))
	assert.ErrorIs(t, err, models.ErrInvalidInterval)

	_, err = f.journal.Add(ctx, 999, at(11, 0), at(12, 0))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestJournal_AddConflictsWithLiveSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	start := at(17, 0)
	live := &models.Session{DisciplineID: f.math.ID, StartedAt: start, RunningSegmentStartedAt: &start, IsRunning: true}
	require.NoError(t, f.store.CreateSession(ctx, live))

	_, err := f.journal.Add(ctx, f.physics.ID, at(17, 30), at(17, 45))
	assert.ErrorIs(t, err, models.ErrOverlap)

	// After "now" the live session has not reached it yet
	_, err = f.journal.Add(ctx, f.physics.ID, at(18, 0), at(18, 30))
	assert.NoError(t, err)
}

func TestJournal_Edit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.journal.Add(ctx, f.math.ID, at(8, 0), at(9, 0))
	require.NoError(t, err)
	second, err := f.journal.Add(ctx, f.math.ID, at(10, 0), at(11, 0))
	require.NoError(t, err)

	// Overlapping only itself is allowed
	edited, err := f.journal.Edit(ctx, first.ID, at(8, 30), at(9, 45), 0)
	require.NoError(t, err)
	assert.Equal(t, 75*60, edited.DurationSeconds)
	assert.Equal(t, f.math.ID, edited.DisciplineID)

	_, err = f.journal.Edit(ctx, first.ID, at(8, 30), at(10, 15), 0)
	assert.ErrorIs(t, err, models.ErrOverlap)

	moved, err := f.journal.Edit(ctx, second.ID, at(10, 0), at(11, 0), f.physics.ID)
	require.NoError(t, err)
	assert.Equal(t, f.physics.ID, moved.DisciplineID)
	assert.Equal(t, "Physics", moved.Discipline.Name)

	stored, err := f.store.GetSession(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, f.physics.ID, stored.DisciplineID)

	_, err = f.journal.Edit(ctx, first.ID, at(9, 0), at(8, 0), 0)
	assert.ErrorIs(t, err, models.ErrInvalidInterval)

	_, err = f.journal.Edit(ctx, 999, at(12, 0), at(13, 0), 0)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestJournal_LiveSessionIsRefused(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	start := at(17, 0)
	live := &models.Session{DisciplineID: f.math.ID, StartedAt: start, RunningSegmentStartedAt: &start, IsRunning: true}
	require.NoError(t, f.store.CreateSession(ctx, live))

	_, err := f.journal.Edit(ctx, live.ID, at(16, 0), at(17, 0), 0)
	assert.ErrorIs(t, err, models.ErrSessionActive)

	// A live row has no end yet, so callers may pass an empty range
	_, err = f.journal.Edit(ctx, live.ID, start, start, 0)
	assert.ErrorIs(t, err, models.ErrSessionActive)

	assert.ErrorIs(t, f.journal.Delete(ctx, live.ID), models.ErrSessionActive)
}

func TestJournal_Delete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	session, err := f.journal.Add(ctx, f.math.ID, at(8, 0), at(9, 0))
	require.NoError(t, err)

	require.NoError(t, f.journal.Delete(ctx, session.ID))
	assert.ErrorIs(t, f.journal.Delete(ctx, session.ID), models.ErrNotFound)
}

func TestJournal_Day(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.journal.Add(ctx, f.physics.ID, at(10, 0), at(10, 30))
	require.NoError(t, err)
	_, err = f.journal.Add(ctx, f.math.ID, at(8, 0), at(9, 0))
	require.NoError(t, err)
	_, err = f.journal.Add(ctx, f.math.ID, at(-2, 0), at(-1, 0)) // the day before
	require.NoError(t, err)

	start := at(17, 0)
	live := &models.Session{DisciplineID: f.math.ID, StartedAt: start, RunningSegmentStartedAt: &start, IsRunning: true}
	require.NoError(t, f.store.CreateSession(ctx, live))

	entries, err := f.journal.Day(ctx, at(12, 0))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Math", entries[0].Session.Discipline.Name)
	assert.Equal(t, 3600, entries[0].Seconds)
	assert.False(t, entries[0].Live)

	assert.Equal(t, "Physics", entries[1].Session.Discipline.Name)
	assert.Equal(t, 1800, entries[1].Seconds)

	assert.True(t, entries[2].Live)
	assert.Equal(t, 3600, entries[2].Seconds)
	assert.WithinDuration(t, at(18, 0), entries[2].End, 0)
}

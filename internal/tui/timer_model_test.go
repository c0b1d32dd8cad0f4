package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/vibetrack/internal/models"
)

type fakeSource struct {
	elapsed int
	session *models.Session
}

func (f *fakeSource) ElapsedSeconds() int      { return f.elapsed }
func (f *fakeSource) Active() *models.Session { return f.session }

func runningSource() *fakeSource {
	return &fakeSource{
		elapsed: 125,
		session: &models.Session{
			ID:         1,
			StartedAt:  time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
			IsRunning:  true,
			Discipline: models.Discipline{ID: 1, Name: "Calculus", ColorTag: "#EF4444"},
		},
	}
}

func press(m TimerModel, keys string) (TimerModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return next.(TimerModel), cmd
}

func TestTimerModel_TickPullsElapsed(t *testing.T) {
	src := runningSource()
	m := NewTimerModel(src, Totals{})
	assert.Equal(t, 125, m.elapsed)
	assert.NotNil(t, m.Init())

	src.elapsed = 126
	next, cmd := m.Update(timerTickMsg{})
	assert.Equal(t, 126, next.(TimerModel).elapsed)
	assert.NotNil(t, cmd)
}

func TestTimerModel_IdleHasNoTicker(t *testing.T) {
	m := NewTimerModel(&fakeSource{}, Totals{})
	assert.Nil(t, m.Init())

	next, cmd := m.Update(timerTickMsg{})
	assert.Nil(t, cmd)

	next, _ = next.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, next.View(), "No session running")
}

func TestTimerModel_Keys(t *testing.T) {
	m, cmd := press(NewTimerModel(runningSource(), Totals{}), "s")
	assert.True(t, m.stopping)
	require.NotNil(t, cmd)

	m, _ = press(NewTimerModel(runningSource(), Totals{}), "q")
	assert.True(t, m.exiting)
	assert.False(t, m.stopping)

	// Stopping when idle is just leaving
	m, _ = press(NewTimerModel(&fakeSource{}, Totals{}), "s")
	assert.False(t, m.stopping)
}

func TestTimerModel_View(t *testing.T) {
	m := NewTimerModel(runningSource(), Totals{TodaySeconds: 3600, WeekSeconds: 7200})
	assert.Equal(t, "Loading...", m.View())

	for _, width := range []int{60, 120} {
		next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: 30})
		assert.Contains(t, next.View(), "Calculus", "width %d", width)
	}
}

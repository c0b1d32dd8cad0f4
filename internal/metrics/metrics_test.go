package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector(func(context.Context) (Snapshot, error) {
		return Snapshot{
			Today: []DisciplineSeconds{
				{Name: "Math", Seconds: 3600},
				{Name: "Physics", Seconds: 1800},
			},
			WeekSeconds:    7200,
			Running:        true,
			ElapsedSeconds: 125,
		}, nil
	}, zerolog.Nop())

	expected := `
# HELP vibetrack_today_seconds Seconds tracked today per discipline, including the live session
# TYPE vibetrack_today_seconds gauge
vibetrack_today_seconds{discipline="Math"} 3600
vibetrack_today_seconds{discipline="Physics"} 1800
# HELP vibetrack_timer_running 1 if a session is currently running
# TYPE vibetrack_timer_running gauge
vibetrack_timer_running 1
# HELP vibetrack_timer_elapsed_seconds Elapsed seconds of the live session
# TYPE vibetrack_timer_elapsed_seconds gauge
vibetrack_timer_elapsed_seconds 125
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"vibetrack_today_seconds", "vibetrack_timer_running", "vibetrack_timer_elapsed_seconds"))
	assert.Equal(t, 5, testutil.CollectAndCount(c))
}

func TestCollector_SnapshotError(t *testing.T) {
	c := NewCollector(func(context.Context) (Snapshot, error) {
		return Snapshot{}, errors.New("database is locked")
	}, zerolog.Nop())

	assert.Equal(t, 0, testutil.CollectAndCount(c))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(RecoveryOutcomes.WithLabelValues("resumed"))
	RecoveryOutcomes.WithLabelValues("resumed").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RecoveryOutcomes.WithLabelValues("resumed")))
}

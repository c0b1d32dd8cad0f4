package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 13, 15, 42, 10, 0, time.UTC) // Wednesday

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)},
		{"today", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)},
		{" Yesterday ", time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)},
		{"15/12/2024", time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)},
		{"1/2/2024", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"3 days ago", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"1 week ago", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, now, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"tomorrowish", "2023-02-29", "31/04/2024", "2024-13-01", "01/01/1999", "9999 days ago"} {
		_, err := ParseDate(input, now, time.UTC)
		assert.Error(t, err, input)
	}
}

func TestParseDate_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)

	// 15:42 UTC is already the next day in Tokyo
	got, err := ParseDate("today", now, tokyo)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, tokyo), got)
}

func TestParseClock(t *testing.T) {
	day := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)

	got, err := ParseClock("9:05", day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 13, 9, 5, 0, 0, time.UTC), got)

	got, err = ParseClock("23:59:59", day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 13, 23, 59, 59, 0, time.UTC), got)

	for _, input := range []string{"24:00", "12:60", "12:00:61", "noon", "1205"} {
		_, err := ParseClock(input, day)
		assert.Error(t, err, input)
	}
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("08:30", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 13, 8, 30, 0, 0, time.UTC), got)

	got, err = ParseDateTime("yesterday 22:15", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 12, 22, 15, 0, 0, time.UTC), got)

	got, err = ParseDateTime("2 days ago 07:00", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 11, 7, 0, 0, 0, time.UTC), got)

	_, err = ParseDateTime("someday 07:00", now, time.UTC)
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"1h30m", 90 * time.Minute},
		{"90m", 90 * time.Minute},
		{"1.5s", time.Second},
		{"45 minutes", 45 * time.Minute},
		{"2 hours", 2 * time.Hour},
		{"30 sec", 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, input := range []string{"", "0m", "-5m", "25 hours", "0 minutes", "soon"} {
		_, err := ParseDuration(input)
		assert.Error(t, err, input)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "00:02:05", FormatHMS(125))
	assert.Equal(t, "26:00:01", FormatHMS(26*3600+1))
	assert.Equal(t, "00:00:00", FormatHMS(-3))

	assert.Equal(t, "5m", FormatHM(300))
	assert.Equal(t, "1h 05m", FormatHM(3900))
	assert.Equal(t, "0m", FormatHM(59))
}

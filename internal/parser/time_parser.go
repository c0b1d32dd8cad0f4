package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateRegex     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoDateRegex  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	daysAgoRegex  = regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks)\s+ago$`)
	clockRegex    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	durationRegex = regexp.MustCompile(`^(\d+)\s*(s|sec|secs|second|seconds|m|min|mins|minute|minutes|h|hour|hours)$`)
)

// ParseDate parses a calendar day relative to now.
// Supported formats:
// - today, yesterday
// - dd/mm/yyyy (e.g., "15/12/2024")
// - yyyy-mm-dd (e.g., "2024-12-15")
// - X days ago, X weeks ago
//
// The result is local midnight in loc.
func ParseDate(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	today := midnight(now.In(loc))

	switch input {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if matches := dateRegex.FindStringSubmatch(input); matches != nil {
		return buildDate(matches[3], matches[2], matches[1], loc)
	}
	if matches := isoDateRegex.FindStringSubmatch(input); matches != nil {
		return buildDate(matches[1], matches[2], matches[3], loc)
	}
	if matches := daysAgoRegex.FindStringSubmatch(input); matches != nil {
		amount, _ := strconv.Atoi(matches[1])
		if strings.HasPrefix(matches[2], "week") {
			amount *= 7
		}
		if amount > 3660 {
			return time.Time{}, fmt.Errorf("too far in the past")
		}
		return today.AddDate(0, 0, -amount), nil
	}

	return time.Time{}, fmt.Errorf("invalid date format. Use: today, yesterday, dd/mm/yyyy, yyyy-mm-dd, or X days ago")
}

// ParseClock parses HH:MM or HH:MM:SS as a time on day
func ParseClock(input string, day time.Time) (time.Time, error) {
	matches := clockRegex.FindStringSubmatch(strings.TrimSpace(input))
	if matches == nil {
		return time.Time{}, fmt.Errorf("invalid time format. Use: HH:MM or HH:MM:SS")
	}

	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])
	second := 0
	if matches[3] != "" {
		second, _ = strconv.Atoi(matches[3])
	}

	if hour > 23 {
		return time.Time{}, fmt.Errorf("hour must be between 0 and 23")
	}
	if minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("minutes and seconds must be between 0 and 59")
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, day.Location()), nil
}

// ParseDateTime parses "<date> <HH:MM>" or a bare "HH:MM" meaning today
func ParseDateTime(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)

	datePart, clockPart := "today", input
	if i := strings.LastIndex(input, " "); i >= 0 {
		datePart, clockPart = input[:i], input[i+1:]
	}

	day, err := ParseDate(datePart, now, loc)
	if err != nil {
		return time.Time{}, err
	}
	return ParseClock(clockPart, day)
}

// ParseDuration parses Go durations ("1h30m") and "X minutes" style input
func ParseDuration(input string) (time.Duration, error) {
	input = strings.ToLower(strings.TrimSpace(input))

	if d, err := time.ParseDuration(input); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return d.Truncate(time.Second), nil
	}

	matches := durationRegex.FindStringSubmatch(input)
	if matches == nil {
		return 0, fmt.Errorf("invalid duration. Use: 1h30m, 90m, or 45 minutes")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil || amount < 1 {
		return 0, fmt.Errorf("duration must be positive")
	}

	switch matches[2][0] {
	case 'h':
		if amount > 24 {
			return 0, fmt.Errorf("hours must be between 1 and 24")
		}
		return time.Duration(amount) * time.Hour, nil
	case 'm':
		return time.Duration(amount) * time.Minute, nil
	default:
		return time.Duration(amount) * time.Second, nil
	}
}

// FormatHMS formats whole seconds as HH:MM:SS
func FormatHMS(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// FormatHM formats whole seconds as "1h 05m", or "5m" under an hour
func FormatHM(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m := seconds/3600, seconds%3600/60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

func buildDate(y, m, d string, loc *time.Location) (time.Time, error) {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return time.Time{}, fmt.Errorf("year must be between 2000 and 2100")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	// Check if date is valid (handles leap years, etc.)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return date, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

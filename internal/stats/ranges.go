package stats

import "time"

// Range is a half-open time range [Start, End)
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in [Start, End)
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// DayStart returns local midnight of the day containing date
func DayStart(date time.Time, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// DayRange returns the calendar day containing date
func DayRange(date time.Time, loc *time.Location) Range {
	start := DayStart(date, loc)
	return Range{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekStart returns the Monday midnight on or before date (ISO-8601 weeks)
func WeekStart(date time.Time, loc *time.Location) time.Time {
	start := DayStart(date, loc)
	offset := (int(start.Weekday()) + 6) % 7
	return start.AddDate(0, 0, -offset)
}

// WeekRange returns the Monday-based week containing date
func WeekRange(date time.Time, loc *time.Location) Range {
	start := WeekStart(date, loc)
	return Range{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthRange returns the calendar month containing date
func MonthRange(date time.Time, loc *time.Location) Range {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, loc)
	return Range{Start: start, End: start.AddDate(0, 1, 0)}
}

// dayBounds returns days+1 consecutive local midnights starting at start
func dayBounds(start time.Time, days int) []time.Time {
	bounds := make([]time.Time, days+1)
	for i := range bounds {
		bounds[i] = start.AddDate(0, 0, i)
	}
	return bounds
}

// daysIn counts the calendar days in r
func daysIn(r Range) int {
	n := 0
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

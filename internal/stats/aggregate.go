package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/balkashynov/vibetrack/internal/models"
)

// DaySummary condenses the finalized sessions of one day
type DaySummary struct {
	TotalSeconds   int
	LongestSeconds int
	SessionCount   int
	FirstStart     time.Time // zero when SessionCount is 0
	LastEnd        time.Time
}

// DisciplineTotal is the time attributed to one discipline
type DisciplineTotal struct {
	DisciplineID uint
	Name         string
	ColorTag     string
	Seconds      int
}

// RankedDiscipline is a DisciplineTotal with its 1-based position
type RankedDiscipline struct {
	Rank int
	DisciplineTotal
}

// Bucket is one slot of a stacked chart
type Bucket struct {
	Index        int
	Start        time.Time
	TotalSeconds int
	Disciplines  []DisciplineTotal
}

// DayPoint is the total of one calendar day
type DayPoint struct {
	Date    time.Time
	Seconds int
}

// sessionSeconds is the effective duration of a finalized session
func sessionSeconds(s models.Session) int {
	if s.EndedAt == nil {
		return 0
	}
	return models.EffectiveDuration(s, *s.EndedAt)
}

// Summarize computes the day summary of finalized sessions
func Summarize(sessions []models.Session) DaySummary {
	var sum DaySummary
	for _, s := range sessions {
		if !s.Finalized() {
			continue
		}
		seconds := sessionSeconds(s)
		sum.TotalSeconds += seconds
		sum.LongestSeconds = max(sum.LongestSeconds, seconds)
		if sum.SessionCount == 0 || s.StartedAt.Before(sum.FirstStart) {
			sum.FirstStart = s.StartedAt
		}
		if sum.SessionCount == 0 || s.EndedAt.After(sum.LastEnd) {
			sum.LastEnd = *s.EndedAt
		}
		sum.SessionCount++
	}
	return sum
}

// Breakdown sums finalized seconds per discipline, largest first.
// Ties are ordered by discipline id so equal input gives equal output.
func Breakdown(sessions []models.Session) []DisciplineTotal {
	index := make(map[uint]int)
	totals := []DisciplineTotal{}

	for _, s := range sessions {
		if !s.Finalized() {
			continue
		}
		i, ok := index[s.DisciplineID]
		if !ok {
			i = len(totals)
			index[s.DisciplineID] = i
			totals = append(totals, DisciplineTotal{
				DisciplineID: s.DisciplineID,
				Name:         s.Discipline.Name,
				ColorTag:     s.Discipline.ColorTag,
			})
		}
		totals[i].Seconds += sessionSeconds(s)
	}

	slices.SortFunc(totals, func(a, b DisciplineTotal) int {
		if c := cmp.Compare(b.Seconds, a.Seconds); c != 0 {
			return c
		}
		return cmp.Compare(a.DisciplineID, b.DisciplineID)
	})
	return totals
}

// Rank numbers a breakdown and keeps the first n entries; n <= 0 keeps all
func Rank(totals []DisciplineTotal, n int) []RankedDiscipline {
	if n > 0 && len(totals) > n {
		totals = totals[:n]
	}
	ranked := make([]RankedDiscipline, len(totals))
	for i, t := range totals {
		ranked[i] = RankedDiscipline{Rank: i + 1, DisciplineTotal: t}
	}
	return ranked
}

// StackByDay buckets sessions by the local day they start on.
// Every one of the days buckets is present, empty ones with zero total.
func StackByDay(sessions []models.Session, start time.Time, days int) []Bucket {
	bounds := dayBounds(start, days)
	groups := make([][]models.Session, days)

	for _, s := range sessions {
		for i := 0; i < days; i++ {
			if !s.StartedAt.Before(bounds[i]) && s.StartedAt.Before(bounds[i+1]) {
				groups[i] = append(groups[i], s)
				break
			}
		}
	}

	buckets := make([]Bucket, days)
	for i := range buckets {
		buckets[i] = newBucket(i, bounds[i], groups[i])
	}
	return buckets
}

// StackByHour buckets sessions by the local hour they start in. Always 24 buckets.
func StackByHour(sessions []models.Session, dayStart time.Time) []Bucket {
	loc := dayStart.Location()
	groups := make([][]models.Session, 24)

	for _, s := range sessions {
		h := s.StartedAt.In(loc).Hour()
		groups[h] = append(groups[h], s)
	}

	buckets := make([]Bucket, 24)
	for h := range buckets {
		start := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), h, 0, 0, 0, loc)
		buckets[h] = newBucket(h, start, groups[h])
	}
	return buckets
}

func newBucket(index int, start time.Time, sessions []models.Session) Bucket {
	b := Bucket{Index: index, Start: start, Disciplines: Breakdown(sessions)}
	for _, d := range b.Disciplines {
		b.TotalSeconds += d.Seconds
	}
	return b
}

// TotalsByDay is StackByDay without the per-discipline split
func TotalsByDay(sessions []models.Session, start time.Time, days int) []DayPoint {
	buckets := StackByDay(sessions, start, days)
	points := make([]DayPoint, len(buckets))
	for i, b := range buckets {
		points[i] = DayPoint{Date: b.Start, Seconds: b.TotalSeconds}
	}
	return points
}

// SumBuckets adds the totals of all buckets
func SumBuckets(buckets []Bucket) int {
	total := 0
	for _, b := range buckets {
		total += b.TotalSeconds
	}
	return total
}

// DailyAverage is a week total over seven days, truncated
func DailyAverage(weekTotal int) int {
	return weekTotal / 7
}

// DeltaPercent compares two daily averages.
// The result is truncated toward zero; ok is false when previous is 0.
func DeltaPercent(current, previous int) (percent int, ok bool) {
	if previous == 0 {
		return 0, false
	}
	return int(float64(current-previous) / float64(previous) * 100), true
}

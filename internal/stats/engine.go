// Package stats computes read-side aggregates over finalized sessions.
//
// Every query takes explicit dates; the engine keeps no notion of "today".
// Store failures are returned, never reported as zero totals.
package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/balkashynov/vibetrack/internal/models"
)

// Store fetches finalized sessions whose start lies in [start, end)
type Store interface {
	FinalizedSessionsIn(ctx context.Context, start, end time.Time) ([]models.Session, error)
}

// Engine answers aggregate queries in one time zone
type Engine struct {
	store Store
	loc   *time.Location
}

// NewEngine creates an engine; a nil location means time.Local
func NewEngine(store Store, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{store: store, loc: loc}
}

// Location returns the zone days and weeks are computed in
func (e *Engine) Location() *time.Location {
	return e.loc
}

func (e *Engine) DayRange(date time.Time) Range   { return DayRange(date, e.loc) }
func (e *Engine) WeekRange(date time.Time) Range  { return WeekRange(date, e.loc) }
func (e *Engine) MonthRange(date time.Time) Range { return MonthRange(date, e.loc) }

func (e *Engine) fetch(ctx context.Context, r Range) ([]models.Session, error) {
	sessions, err := e.store.FinalizedSessionsIn(ctx, r.Start, r.End)
	if err != nil {
		return nil, models.Persistence(fmt.Sprintf("fetch sessions %s..%s", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly)), err)
	}
	return sessions, nil
}

// DaySummary summarizes the day containing date
func (e *Engine) DaySummary(ctx context.Context, date time.Time) (DaySummary, error) {
	sessions, err := e.fetch(ctx, e.DayRange(date))
	if err != nil {
		return DaySummary{}, err
	}
	return Summarize(sessions), nil
}

// DisciplineBreakdown sums seconds per discipline over [start, end)
func (e *Engine) DisciplineBreakdown(ctx context.Context, start, end time.Time) ([]DisciplineTotal, error) {
	sessions, err := e.fetch(ctx, Range{Start: start, End: end})
	if err != nil {
		return nil, err
	}
	return Breakdown(sessions), nil
}

// WeekStacks returns seven day buckets for the week containing weekStart
func (e *Engine) WeekStacks(ctx context.Context, weekStart time.Time) ([]Bucket, error) {
	r := e.WeekRange(weekStart)
	sessions, err := e.fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	return StackByDay(sessions, r.Start, 7), nil
}

// DayHourStacks returns 24 hour buckets for the day containing date
func (e *Engine) DayHourStacks(ctx context.Context, date time.Time) ([]Bucket, error) {
	r := e.DayRange(date)
	sessions, err := e.fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	return StackByHour(sessions, r.Start), nil
}

// WeekTotalSeconds sums the week's day buckets
func (e *Engine) WeekTotalSeconds(ctx context.Context, weekStart time.Time) (int, error) {
	stacks, err := e.WeekStacks(ctx, weekStart)
	if err != nil {
		return 0, err
	}
	return SumBuckets(stacks), nil
}

// WeekDailyAverageSeconds is the week total divided by seven
func (e *Engine) WeekDailyAverageSeconds(ctx context.Context, weekStart time.Time) (int, error) {
	total, err := e.WeekTotalSeconds(ctx, weekStart)
	if err != nil {
		return 0, err
	}
	return DailyAverage(total), nil
}

// WeekDeltaPercent compares the week's daily average with the week before.
// ok is false when the previous week has nothing tracked.
func (e *Engine) WeekDeltaPercent(ctx context.Context, weekStart time.Time) (percent int, ok bool, err error) {
	current, err := e.WeekDailyAverageSeconds(ctx, weekStart)
	if err != nil {
		return 0, false, err
	}
	previous, err := e.WeekDailyAverageSeconds(ctx, e.previousWeek(weekStart))
	if err != nil {
		return 0, false, err
	}
	percent, ok = DeltaPercent(current, previous)
	return percent, ok, nil
}

// TopDisciplines ranks disciplines over [start, end); n <= 0 returns all
func (e *Engine) TopDisciplines(ctx context.Context, start, end time.Time, n int) ([]RankedDiscipline, error) {
	totals, err := e.DisciplineBreakdown(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return Rank(totals, n), nil
}

// TopDisciplinesForWeek ranks disciplines over the week containing weekStart
func (e *Engine) TopDisciplinesForWeek(ctx context.Context, weekStart time.Time, n int) ([]RankedDiscipline, error) {
	r := e.WeekRange(weekStart)
	return e.TopDisciplines(ctx, r.Start, r.End, n)
}

// TopDisciplinesForDay ranks disciplines over the day containing date
func (e *Engine) TopDisciplinesForDay(ctx context.Context, date time.Time, n int) ([]RankedDiscipline, error) {
	r := e.DayRange(date)
	return e.TopDisciplines(ctx, r.Start, r.End, n)
}

// TodayTotalSeconds is the finalized total of date's day plus, when active
// started within that day, its elapsed seconds at now
func (e *Engine) TodayTotalSeconds(ctx context.Context, date, now time.Time, active *models.Session) (int, error) {
	r := e.DayRange(date)
	sessions, err := e.fetch(ctx, r)
	if err != nil {
		return 0, err
	}

	total := Summarize(sessions).TotalSeconds
	if active != nil && !active.Finalized() && r.Contains(active.StartedAt) {
		total += models.SecondsBetween(active.StartedAt, now)
	}
	return total, nil
}

// WeekTotals returns seven dense day totals
func (e *Engine) WeekTotals(ctx context.Context, weekStart time.Time) ([]DayPoint, error) {
	r := e.WeekRange(weekStart)
	sessions, err := e.fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	return TotalsByDay(sessions, r.Start, 7), nil
}

// MonthTotals returns one dense point per day of the month containing date
func (e *Engine) MonthTotals(ctx context.Context, date time.Time) ([]DayPoint, error) {
	r := e.MonthRange(date)
	sessions, err := e.fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	return TotalsByDay(sessions, r.Start, daysIn(r)), nil
}

// WeekReport bundles the week view
type WeekReport struct {
	Range                  Range
	Stacks                 []Bucket
	TotalSeconds           int
	DailyAverageSeconds    int
	PreviousAverageSeconds int
	DeltaPercent           int
	HasDelta               bool
	Top                    []RankedDiscipline
}

// WeekReport loads the week and the week before concurrently and derives
// every week statistic from that single pair of reads
func (e *Engine) WeekReport(ctx context.Context, weekStart time.Time, topN int) (*WeekReport, error) {
	current := e.WeekRange(weekStart)
	previous := e.WeekRange(e.previousWeek(weekStart))

	var currentSessions, previousSessions []models.Session
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		currentSessions, err = e.fetch(gctx, current)
		return err
	})
	g.Go(func() error {
		var err error
		previousSessions, err = e.fetch(gctx, previous)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &WeekReport{
		Range:  current,
		Stacks: StackByDay(currentSessions, current.Start, 7),
		Top:    Rank(Breakdown(currentSessions), topN),
	}
	report.TotalSeconds = SumBuckets(report.Stacks)
	report.DailyAverageSeconds = DailyAverage(report.TotalSeconds)
	report.PreviousAverageSeconds = DailyAverage(SumBuckets(StackByDay(previousSessions, previous.Start, 7)))
	report.DeltaPercent, report.HasDelta = DeltaPercent(report.DailyAverageSeconds, report.PreviousAverageSeconds)

	return report, nil
}

func (e *Engine) previousWeek(weekStart time.Time) time.Time {
	return WeekStart(weekStart, e.loc).AddDate(0, 0, -7)
}

package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/balkashynov/vibetrack/internal/parser"
	"github.com/balkashynov/vibetrack/internal/stats"
	"github.com/balkashynov/vibetrack/internal/tui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tracked time statistics",
	Long: `Show statistics over finalized sessions. Weeks start on Monday.

Each subcommand takes an optional date (today, yesterday, dd/mm/yyyy, yyyy-mm-dd, X days ago).`,
}

var statsDayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Day summary, discipline breakdown and hourly chart",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		ctx := cmd.Context()
		now := app.Clock.Now()
		day, err := argDate(args, app)
		if err != nil {
			printError(err)
			return
		}

		summary, err := app.Stats.DaySummary(ctx, day)
		if err != nil {
			printError(err)
			return
		}
		r := app.Stats.DayRange(day)
		breakdown, err := app.Stats.DisciplineBreakdown(ctx, r.Start, r.End)
		if err != nil {
			printError(err)
			return
		}
		hours, err := app.Stats.DayHourStacks(ctx, day)
		if err != nil {
			printError(err)
			return
		}

		loc := app.Stats.Location()
		fmt.Printf("%s\n\n", day.Format("Monday, 02.01.2006"))
		fmt.Printf("Total:     %s in %d session(s)\n", parser.FormatHM(summary.TotalSeconds), summary.SessionCount)
		if summary.SessionCount > 0 {
			fmt.Printf("Longest:   %s\n", parser.FormatHM(summary.LongestSeconds))
			fmt.Printf("Span:      %s – %s\n", summary.FirstStart.In(loc).Format("15:04"), summary.LastEnd.In(loc).Format("15:04"))
		}
		if r.Contains(now) {
			today, err := app.Stats.TodayTotalSeconds(ctx, day, now, app.Timer.Active())
			if err != nil {
				printError(err)
				return
			}
			fmt.Printf("With live: %s\n", parser.FormatHM(today))
		}

		if len(breakdown) == 0 {
			return
		}

		fmt.Println()
		printBreakdown(breakdown)

		fmt.Println()
		printStacks(hours, 3600, func(b stats.Bucket) string {
			return b.Start.Format("15:00")
		})
	}),
}

var statsWeekCmd = &cobra.Command{
	Use:   "week [date]",
	Short: "Weekly timesheet with average and change from last week",
	Long: `Show a weekly timesheet of tracked time per discipline and day.

Example output:
  Discipline        Mon    Tue    Wed    Thu    Fri    Sat    Sun    Total
  Math             1:30   2:00      -   0:45      -      -      -     4:15
  Physics             -   1:00   1:00      -      -      -      -     2:00`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		day, err := argDate(args, app)
		if err != nil {
			printError(err)
			return
		}

		top, _ := cmd.Flags().GetInt("top")
		report, err := app.Stats.WeekReport(cmd.Context(), day, top)
		if err != nil {
			printError(err)
			return
		}

		if report.TotalSeconds == 0 {
			fmt.Println("No time tracked this week.")
		} else {
			displayTimesheet(report)
		}

		fmt.Printf("\nWeek of %s to %s\n",
			report.Range.Start.Format("Jan 2"),
			report.Range.Start.AddDate(0, 0, 6).Format("Jan 2, 2006"))
		fmt.Printf("Total:         %s\n", parser.FormatHM(report.TotalSeconds))
		fmt.Printf("Daily average: %s\n", parser.FormatHM(report.DailyAverageSeconds))
		if report.HasDelta {
			fmt.Printf("vs last week:  %+d%%\n", report.DeltaPercent)
		} else {
			fmt.Println("vs last week:  no comparison available")
		}

		if len(report.Top) > 0 {
			fmt.Println()
			printRanked(report.Top)
		}
	}),
}

var statsMonthCmd = &cobra.Command{
	Use:   "month [date]",
	Short: "Daily totals for a month",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		day, err := argDate(args, app)
		if err != nil {
			printError(err)
			return
		}

		points, err := app.Stats.MonthTotals(cmd.Context(), day)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("%s\n\n", day.Format("January 2006"))

		peak, total := 0, 0
		for _, p := range points {
			peak = max(peak, p.Seconds)
			total += p.Seconds
		}
		for _, p := range points {
			fmt.Printf("%s  %-30s %s\n", p.Date.Format("Mon 02"), bar(p.Seconds, peak, 30, tui.ColorAccentMain), formatCell(p.Seconds))
		}
		fmt.Printf("\nTotal: %s\n", parser.FormatHM(total))
	}),
}

var statsTopCmd = &cobra.Command{
	Use:   "top [date]",
	Short: "Rank disciplines over a day or week",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		day, err := argDate(args, app)
		if err != nil {
			printError(err)
			return
		}

		n, _ := cmd.Flags().GetInt("limit")
		byDay, _ := cmd.Flags().GetBool("day")

		var ranked []stats.RankedDiscipline
		if byDay {
			ranked, err = app.Stats.TopDisciplinesForDay(cmd.Context(), day, n)
		} else {
			ranked, err = app.Stats.TopDisciplinesForWeek(cmd.Context(), day, n)
		}
		if err != nil {
			printError(err)
			return
		}

		if len(ranked) == 0 {
			fmt.Println("No time tracked.")
			return
		}
		printRanked(ranked)
	}),
}

// argDate parses the optional date argument
func argDate(args []string, app *App) (time.Time, error) {
	input := ""
	if len(args) == 1 {
		input = args[0]
	}
	return parser.ParseDate(input, app.Clock.Now(), app.Stats.Location())
}

// displayTimesheet outputs the week as a discipline × day table
func displayTimesheet(report *stats.WeekReport) {
	type row struct {
		name  string
		days  [7]int
		total int
	}

	var rows []*row
	byID := make(map[uint]*row)
	for i, bucket := range report.Stacks {
		for _, d := range bucket.Disciplines {
			r, ok := byID[d.DisciplineID]
			if !ok {
				r = &row{name: d.Name}
				byID[d.DisciplineID] = r
				rows = append(rows, r)
			}
			r.days[i] += d.Seconds
			r.total += d.Seconds
		}
	}

	nameWidth := 16
	for _, r := range rows {
		nameWidth = max(nameWidth, len(r.name))
	}
	nameWidth = min(nameWidth, 32)

	dayNames := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	fmt.Printf("%-*s", nameWidth, "Discipline")
	for _, name := range dayNames {
		fmt.Printf("  %5s", name)
	}
	fmt.Printf("  %6s\n", "Total")

	separator := strings.Repeat("-", nameWidth) + strings.Repeat("  -----", 7) + "  ------"
	fmt.Println(separator)

	for _, r := range rows {
		name := r.name
		if len(name) > nameWidth {
			name = name[:nameWidth-3] + "..."
		}
		fmt.Printf("%-*s", nameWidth, name)
		for _, seconds := range r.days {
			fmt.Printf("  %5s", formatCell(seconds))
		}
		fmt.Printf("  %6s\n", formatCell(r.total))
	}

	fmt.Println(separator)
	fmt.Printf("%-*s", nameWidth, "Total")
	for _, bucket := range report.Stacks {
		fmt.Printf("  %5s", formatCell(bucket.TotalSeconds))
	}
	fmt.Printf("  %6s\n", formatCell(report.TotalSeconds))
}

func printBreakdown(totals []stats.DisciplineTotal) {
	peak := 0
	if len(totals) > 0 {
		peak = totals[0].Seconds
	}
	for _, t := range totals {
		fmt.Printf("%-20s %-30s %s\n", t.Name, bar(t.Seconds, peak, 30, t.ColorTag), parser.FormatHM(t.Seconds))
	}
}

func printRanked(ranked []stats.RankedDiscipline) {
	for _, r := range ranked {
		fmt.Printf("%2d. %s %-20s %s\n", r.Rank, tui.Swatch(r.ColorTag), r.Name, parser.FormatHM(r.Seconds))
	}
}

// printStacks draws one stacked bar per non-empty bucket, scaled to scale seconds
func printStacks(buckets []stats.Bucket, scale int, label func(stats.Bucket) string) {
	const width = 30
	for _, b := range buckets {
		if b.TotalSeconds == 0 {
			continue
		}
		var sb strings.Builder
		for _, d := range b.Disciplines {
			sb.WriteString(bar(d.Seconds, scale, width, d.ColorTag))
		}
		fmt.Printf("%s  %s %s\n", label(b), sb.String(), formatCell(b.TotalSeconds))
	}
}

// bar renders seconds/peak of width cells in the given color
func bar(seconds, peak, width int, color string) string {
	if peak <= 0 || seconds <= 0 {
		return ""
	}
	cells := max(1, seconds*width/peak)
	return lipgloss.NewStyle().Foreground(tui.DisciplineColor(color)).Render(strings.Repeat("█", min(cells, width)))
}

// formatCell formats seconds as H:MM, or "-" for nothing
func formatCell(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%02d", seconds/3600, seconds%3600/60)
}

func init() {
	statsWeekCmd.Flags().Int("top", 5, "number of top disciplines to show")
	statsTopCmd.Flags().IntP("limit", "n", 5, "number of disciplines to show (0 for all)")
	statsTopCmd.Flags().Bool("day", false, "rank over the day instead of the week")

	statsCmd.AddCommand(statsDayCmd)
	statsCmd.AddCommand(statsWeekCmd)
	statsCmd.AddCommand(statsMonthCmd)
	statsCmd.AddCommand(statsTopCmd)
}

package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/vibetrack/internal/parser"
	"github.com/balkashynov/vibetrack/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start <discipline>",
	Short: "Start tracking time on a discipline",
	Long: `Start tracking time on a discipline. Opens the live timer by default, use --no-ui for a simple start.

The discipline can be given by id, by name, or by any unambiguous fuzzy fragment of its name.

Examples:
  vibetrack start Math         # Start timer with interactive UI
  vibetrack start 3 --no-ui    # Start timer without UI`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		ctx := cmd.Context()
		discipline, err := resolveDiscipline(ctx, app.Store, args[0])
		if err != nil {
			printError(err)
			return
		}

		session, err := app.Timer.Start(ctx, discipline.ID)
		if err != nil {
			printError(err)
			return
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			fmt.Printf("⏱️  Started tracking time for %s\n", session.Discipline.Name)
			fmt.Printf("Started at: %s\n", session.StartedAt.In(app.Stats.Location()).Format("15:04:05"))
			return
		}

		runLiveTimer(ctx, app)
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop tracking time",
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		session, err := app.Timer.Stop(cmd.Context())
		if err != nil {
			printError(err)
			return
		}

		if session == nil {
			fmt.Println("No active time tracking session")
			return
		}

		fmt.Printf("⏹️  Stopped tracking time for %s\n", session.Discipline.Name)
		fmt.Printf("Session duration: %s\n", parser.FormatHMS(session.DurationSeconds))
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current time tracking status",
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		now := app.Clock.Now()
		active := app.Timer.Active()

		today, err := app.Stats.TodayTotalSeconds(cmd.Context(), now, now, active)
		if err != nil {
			printError(err)
			return
		}

		if active == nil {
			fmt.Println("No active time tracking session")
			fmt.Printf("Today: %s\n", parser.FormatHM(today))
			return
		}

		loc := app.Stats.Location()
		fmt.Printf("⏱️  Currently tracking: %s %s\n", tui.Swatch(active.Discipline.ColorTag), active.Discipline.Name)
		fmt.Printf("Started at: %s (%s)\n", active.StartedAt.In(loc).Format("15:04:05"), humanize.RelTime(active.StartedAt, now, "ago", "from now"))
		fmt.Printf("Elapsed time: %s\n", parser.FormatHMS(app.Timer.ElapsedAt(now)))
		fmt.Printf("Today: %s\n", parser.FormatHM(today))
	}),
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live timer for the running session",
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		if !app.Timer.Running() {
			fmt.Println("No active time tracking session")
			return
		}
		runLiveTimer(cmd.Context(), app)
	}),
}

var adjustCmd = &cobra.Command{
	Use:   "adjust <time>",
	Short: "Move the running session's start time",
	Long: `Move the running session's start time, for when you forgot to start the timer.

The time is HH:MM (today) or "<date> HH:MM". The new range must not overlap another session.

Examples:
  vibetrack adjust 09:15
  vibetrack adjust "yesterday 23:40"`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		startedAt, err := parser.ParseDateTime(args[0], app.Clock.Now(), app.Stats.Location())
		if err != nil {
			printError(err)
			return
		}

		session, err := app.Timer.Adjust(cmd.Context(), startedAt)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("⏱️  %s now started at %s\n", session.Discipline.Name, session.StartedAt.In(app.Stats.Location()).Format("02.01.2006 15:04:05"))
		fmt.Printf("Elapsed time: %s\n", parser.FormatHMS(app.Timer.ElapsedSeconds()))
	}),
}

// runLiveTimer opens the timer TUI with today's and this week's finalized totals
func runLiveTimer(ctx context.Context, app *App) {
	now := app.Clock.Now()

	today, err := app.Stats.DaySummary(ctx, now)
	if err != nil {
		printError(err)
		return
	}
	week, err := app.Stats.WeekTotalSeconds(ctx, now)
	if err != nil {
		printError(err)
		return
	}

	totals := tui.Totals{TodaySeconds: today.TotalSeconds, WeekSeconds: week}
	if err := tui.RunTimerTUI(ctx, app.Timer, totals); err != nil {
		printError(err)
	}
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Start timer without interactive UI")
}

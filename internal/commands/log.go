package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/vibetrack/internal/parser"
	"github.com/balkashynov/vibetrack/internal/tui"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Add, fix, and list past sessions",
}

var logAddCmd = &cobra.Command{
	Use:   "add <discipline>",
	Short: "Record a finished session",
	Long: `Record a session you did not time live. Give --from and either --to or --for.

Examples:
  vibetrack log add Math --from 09:00 --to 10:30
  vibetrack log add Physics --date yesterday --from 14:00 --for 45m`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		ctx := cmd.Context()
		discipline, err := resolveDiscipline(ctx, app.Store, args[0])
		if err != nil {
			printError(err)
			return
		}

		day, err := flagDate(cmd, app)
		if err != nil {
			printError(err)
			return
		}

		from, _ := cmd.Flags().GetString("from")
		if from == "" {
			fmt.Println("Error: --from is required")
			return
		}
		start, err := parser.ParseClock(from, day)
		if err != nil {
			printError(err)
			return
		}

		end, err := flagEnd(cmd, day, start)
		if err != nil {
			printError(err)
			return
		}
		if end.IsZero() {
			fmt.Println("Error: give --to or --for")
			return
		}

		session, err := app.Journal.Add(ctx, discipline.ID, start, end)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("✅ Logged %s for %s - session #%d\n", parser.FormatHM(session.DurationSeconds), discipline.Name, session.ID)
	}),
}

var logEditCmd = &cobra.Command{
	Use:   "edit <session-id>",
	Short: "Change a past session's time range or discipline",
	Long: `Change a past session. Flags left out keep their current value.

Examples:
  vibetrack log edit 12 --to 11:00
  vibetrack log edit 12 --discipline Physics`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		ctx := cmd.Context()
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid session ID '%s'\n", args[0])
			return
		}

		session, err := app.Store.GetSession(ctx, uint(id))
		if err != nil {
			printError(err)
			return
		}

		loc := app.Stats.Location()
		start := session.StartedAt.In(loc)
		end := start
		if session.EndedAt != nil {
			end = session.EndedAt.In(loc)
		}

		day := start
		if cmd.Flags().Changed("date") {
			if day, err = flagDate(cmd, app); err != nil {
				printError(err)
				return
			}
			// Keep the clock times, move the day
			start = time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), start.Second(), 0, loc)
			end = start.Add(end.Sub(session.StartedAt.In(loc)))
		}

		if from, _ := cmd.Flags().GetString("from"); from != "" {
			length := end.Sub(start)
			if start, err = parser.ParseClock(from, day); err != nil {
				printError(err)
				return
			}
			end = start.Add(length)
		}

		newEnd, err := flagEnd(cmd, day, start)
		if err != nil {
			printError(err)
			return
		}
		if !newEnd.IsZero() {
			end = newEnd
		}

		var disciplineID uint
		if name, _ := cmd.Flags().GetString("discipline"); name != "" {
			discipline, err := resolveDiscipline(ctx, app.Store, name)
			if err != nil {
				printError(err)
				return
			}
			disciplineID = discipline.ID
		}

		updated, err := app.Journal.Edit(ctx, session.ID, start, end, disciplineID)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("✏️  Session #%d: %s %s – %s (%s)\n",
			updated.ID,
			updated.Discipline.Name,
			updated.StartedAt.In(loc).Format("02.01.2006 15:04"),
			updated.EndedAt.In(loc).Format("15:04"),
			parser.FormatHM(updated.DurationSeconds))
	}),
}

var logRemoveCmd = &cobra.Command{
	Use:   "rm <session-id>",
	Short: "Delete a past session",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			fmt.Printf("Error: invalid session ID '%s'\n", args[0])
			return
		}

		if err := app.Journal.Delete(cmd.Context(), uint(id)); err != nil {
			printError(err)
			return
		}

		fmt.Printf("🗑️  Deleted session #%d\n", id)
	}),
}

var logListCmd = &cobra.Command{
	Use:     "ls [date]",
	Aliases: []string{"list"},
	Short:   "List the sessions of a day",
	Args:    cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		loc := app.Stats.Location()
		input := ""
		if len(args) == 1 {
			input = args[0]
		}
		day, err := parser.ParseDate(input, app.Clock.Now(), loc)
		if err != nil {
			printError(err)
			return
		}

		entries, err := app.Journal.Day(cmd.Context(), day)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("%s\n\n", day.Format("Monday, 02.01.2006"))
		if len(entries) == 0 {
			fmt.Println("No sessions.")
			return
		}

		total := 0
		for _, e := range entries {
			end := e.End.In(loc).Format("15:04")
			if e.Live {
				end = "now  "
			}
			fmt.Printf("#%-5d %s – %s  %8s  %s %s\n",
				e.Session.ID,
				e.Session.StartedAt.In(loc).Format("15:04"),
				end,
				parser.FormatHM(e.Seconds),
				tui.Swatch(e.Session.Discipline.ColorTag),
				e.Session.Discipline.Name)
			total += e.Seconds
		}
		fmt.Printf("\nTotal: %s\n", parser.FormatHM(total))
	}),
}

// flagDate parses --date as a day, defaulting to today
func flagDate(cmd *cobra.Command, app *App) (time.Time, error) {
	input, _ := cmd.Flags().GetString("date")
	return parser.ParseDate(input, app.Clock.Now(), app.Stats.Location())
}

// flagEnd resolves --to or --for against start; zero when neither is set.
// A --to earlier than start rolls to the next day.
func flagEnd(cmd *cobra.Command, day, start time.Time) (time.Time, error) {
	to, _ := cmd.Flags().GetString("to")
	length, _ := cmd.Flags().GetString("for")

	switch {
	case to != "" && length != "":
		return time.Time{}, fmt.Errorf("use either --to or --for, not both")
	case to != "":
		end, err := parser.ParseClock(to, day)
		if err != nil {
			return time.Time{}, err
		}
		if end.Before(start) {
			end = end.AddDate(0, 0, 1)
		}
		return end, nil
	case length != "":
		d, err := parser.ParseDuration(length)
		if err != nil {
			return time.Time{}, err
		}
		return start.Add(d), nil
	}
	return time.Time{}, nil
}

func init() {
	for _, c := range []*cobra.Command{logAddCmd, logEditCmd} {
		c.Flags().String("date", "", "day of the session (today, yesterday, dd/mm/yyyy, yyyy-mm-dd, X days ago)")
		c.Flags().String("from", "", "start time HH:MM")
		c.Flags().String("to", "", "end time HH:MM")
		c.Flags().String("for", "", "duration, e.g. 1h30m or 45 minutes")
	}
	logEditCmd.Flags().String("discipline", "", "move the session to another discipline")

	logCmd.AddCommand(logAddCmd)
	logCmd.AddCommand(logEditCmd)
	logCmd.AddCommand(logRemoveCmd)
	logCmd.AddCommand(logListCmd)
}

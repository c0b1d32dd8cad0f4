package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:         "help",
	Short:       "Show comprehensive help for vibetrack",
	Long:        `Display detailed help for all vibetrack commands and flags.`,
	Annotations: map[string]string{skipApp: ""},
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
vibetrack - CLI time tracker for study disciplines

COMMANDS:

  discipline add <name>           Create a discipline
    --color                       Color tag #RRGGBB
  discipline ls                   List disciplines in display order
  discipline edit <discipline>    Rename or recolor
    --name, --color
  discipline rm <discipline>      Delete a discipline and all its sessions
  discipline mv <discipline> <n>  Move to position n

    <discipline> is an id, a name, or an unambiguous fuzzy fragment:
      vibetrack start calc        # matches "Calculus"

  start <discipline>              Start the timer (one session at a time)
    --no-ui                       Start without the live timer view
  stop                            Stop and save the running session
  status                          Show the running session and today's total
  watch                           Reopen the live timer view
  adjust <time>                   Move the running session's start
                                  e.g. 09:15 or "yesterday 23:40"

    Live timer keys:
      s             Stop & save
      esc/q         Exit, keep running
      ctrl+c        Force quit

  log add <discipline>            Record a finished session
    --date                        today|yesterday|dd/mm/yyyy|yyyy-mm-dd|X days ago
    --from HH:MM                  Start (required)
    --to HH:MM | --for 1h30m      End or length
  log edit <session-id>           Change a past session (same flags, plus --discipline)
  log rm <session-id>             Delete a past session
  log ls [date]                   List a day's sessions

    Sessions may touch but never overlap, across all disciplines.

  stats day [date]                Summary, breakdown, hourly chart
  stats week [date]               Timesheet, daily average, change vs last week
    --top                         Number of top disciplines
  stats month [date]              Daily totals for the month
  stats top [date]                Rank disciplines over the week
    -n, --limit                   How many (0 for all)
    --day                         Rank over the day instead

  serve                           Prometheus metrics on /metrics
    --listen                      Address (default 127.0.0.1:9477)

  version                         Print version information
  help                            Show this help

GLOBAL FLAGS:
  --config <file>                 Config file (default ~/.vibetrack/config.yaml)
  --log-stderr                    Log to stderr instead of ~/.vibetrack/vibetrack.log

Settings can also be given as VIBETRACK_* environment variables,
e.g. VIBETRACK_RECOVERY_BACKEND=redis.

`)
}

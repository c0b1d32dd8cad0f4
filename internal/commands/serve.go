package commands

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/balkashynov/vibetrack/internal/metrics"
	"github.com/balkashynov/vibetrack/internal/models"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose tracked totals as Prometheus metrics",
	Long: `Serve /metrics and /health until interrupted.

Totals are read from the store on every scrape, so sessions started and stopped
by other vibetrack invocations show up without restarting the server.`,
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		listen, _ := cmd.Flags().GetString("listen")
		if listen == "" {
			listen = app.Config.Server.Listen
		}

		collector := metrics.NewCollector(snapshotFunc(app), app.Logger)
		if err := prometheus.Register(collector); err != nil {
			printError(err)
			return
		}
		defer prometheus.Unregister(collector)

		fmt.Printf("📈 Serving metrics on http://%s/metrics\n", listen)
		if err := metrics.NewServer(listen, app.Logger).Run(cmd.Context()); err != nil {
			printError(err)
		}
	}),
}

// snapshotFunc reads the running session from the store rather than the
// timer, which only knows what this process saw at startup
func snapshotFunc(app *App) metrics.SnapshotFunc {
	return func(ctx context.Context) (metrics.Snapshot, error) {
		now := app.Clock.Now()

		active, err := app.Store.GetRunningSession(ctx)
		if err != nil {
			return metrics.Snapshot{}, models.Persistence("find running session", err)
		}

		r := app.Stats.DayRange(now)
		breakdown, err := app.Stats.DisciplineBreakdown(ctx, r.Start, r.End)
		if err != nil {
			return metrics.Snapshot{}, err
		}
		week, err := app.Stats.WeekTotalSeconds(ctx, now)
		if err != nil {
			return metrics.Snapshot{}, err
		}

		snap := metrics.Snapshot{WeekSeconds: week}
		for _, d := range breakdown {
			snap.Today = append(snap.Today, metrics.DisciplineSeconds{Name: d.Name, Seconds: d.Seconds})
		}

		if active != nil {
			snap.Running = true
			snap.ElapsedSeconds = models.SecondsBetween(active.StartedAt, now)
			if r.Contains(active.StartedAt) {
				snap.Today = addSeconds(snap.Today, active.Discipline.Name, snap.ElapsedSeconds)
			}
		}

		return snap, nil
	}
}

func addSeconds(totals []metrics.DisciplineSeconds, name string, seconds int) []metrics.DisciplineSeconds {
	for i := range totals {
		if totals[i].Name == name {
			totals[i].Seconds += seconds
			return totals
		}
	}
	return append(totals, metrics.DisciplineSeconds{Name: name, Seconds: seconds})
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default from config, 127.0.0.1:9477)")
}

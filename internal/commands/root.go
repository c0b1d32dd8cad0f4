package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/balkashynov/vibetrack/internal/models"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// skipApp marks commands that run without opening the store
const skipApp = "skip-app"

var (
	configPath  string
	logToStderr bool
)

var rootCmd = &cobra.Command{
	Use:   "vibetrack",
	Short: "A CLI time tracker for study disciplines",
	Long: `vibetrack tracks time per discipline with a single live timer.
Start and stop sessions, fix history by hand, and see daily and weekly stats from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := cmd.Annotations[skipApp]; ok {
			return nil
		}
		app, err := newApp(cmd.Context(), configPath, logToStderr)
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app, ok := cmd.Context().Value(appKey{}).(*App); ok {
			app.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{skipApp: ""},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vibetrack %s (commit %s, built %s)\n", version, commit, date)
	},
}

// appFrom returns the App built for this invocation
func appFrom(cmd *cobra.Command) *App {
	return cmd.Context().Value(appKey{}).(*App)
}

// withApp adapts a command body that needs the App
func withApp(fn func(*cobra.Command, *App, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		fn(cmd, appFrom(cmd), args)
	}
}

// printError reports err with a hint for the recoverable kinds
func printError(err error) {
	fmt.Printf("Error: %v\n", err)

	switch {
	case errors.Is(err, models.ErrAlreadyRunning):
		fmt.Println("Use 'vibetrack stop' first, or 'vibetrack status' to see what is running.")
	case errors.Is(err, models.ErrNotRunning):
		fmt.Println("Check 'vibetrack status' for what is running now.")
	case errors.Is(err, models.ErrSessionActive):
		fmt.Println("Stop the running session with 'vibetrack stop' first.")
	case errors.Is(err, models.ErrOverlap):
		fmt.Println("Pick a time range that does not touch another session.")
	case errors.Is(err, models.ErrPersistence):
		fmt.Println("Nothing was changed. Check the log for details.")
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command, cancelling on SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.vibetrack/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&logToStderr, "log-stderr", false, "write logs to stderr instead of the log file")

	rootCmd.AddCommand(disciplineCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/balkashynov/vibetrack/internal/tui"
)

var disciplineCmd = &cobra.Command{
	Use:     "discipline",
	Aliases: []string{"d"},
	Short:   "Manage disciplines",
}

var disciplineAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a discipline",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		color, _ := cmd.Flags().GetString("color")

		discipline, err := app.Store.CreateDiscipline(cmd.Context(), args[0], color)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("✅ Added discipline %s %s - ID: %d\n", tui.Swatch(discipline.ColorTag), discipline.Name, discipline.ID)
	}),
}

var disciplineListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List disciplines in display order",
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		disciplines, err := app.Store.ListDisciplines(cmd.Context())
		if err != nil {
			printError(err)
			return
		}

		if len(disciplines) == 0 {
			fmt.Println("No disciplines yet.")
			return
		}

		for i, d := range disciplines {
			fmt.Printf("%2d. %s %-24s #%d  %s\n", i+1, tui.Swatch(d.ColorTag), d.Name, d.ID, d.ColorTag)
		}
	}),
}

var disciplineEditCmd = &cobra.Command{
	Use:   "edit <discipline>",
	Short: "Rename or recolor a discipline",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		ctx := cmd.Context()
		discipline, err := resolveDiscipline(ctx, app.Store, args[0])
		if err != nil {
			printError(err)
			return
		}

		name, _ := cmd.Flags().GetString("name")
		color, _ := cmd.Flags().GetString("color")
		if name == "" {
			name = discipline.Name
		}

		updated, err := app.Store.UpdateDiscipline(ctx, discipline.ID, name, color)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("✏️  Updated discipline #%d: %s %s\n", updated.ID, tui.Swatch(updated.ColorTag), updated.Name)
	}),
}

var disciplineRemoveCmd = &cobra.Command{
	Use:   "rm <discipline>",
	Short: "Delete a discipline and all of its sessions",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		ctx := cmd.Context()
		discipline, err := resolveDiscipline(ctx, app.Store, args[0])
		if err != nil {
			printError(err)
			return
		}

		removed, err := app.Store.DeleteDiscipline(ctx, discipline.ID)
		if err != nil {
			printError(err)
			return
		}

		fmt.Printf("🗑️  Deleted discipline %s and %d session(s)\n", discipline.Name, removed)
	}),
}

var disciplineMoveCmd = &cobra.Command{
	Use:   "mv <discipline> <position>",
	Short: "Move a discipline to a 1-based position",
	Args:  cobra.ExactArgs(2),
	Run: withApp(func(cmd *cobra.Command, app *App, args []string) {
		ctx := cmd.Context()
		discipline, err := resolveDiscipline(ctx, app.Store, args[0])
		if err != nil {
			printError(err)
			return
		}

		position, err := strconv.Atoi(args[1])
		if err != nil || position < 1 {
			fmt.Printf("Error: invalid position '%s'\n", args[1])
			return
		}

		ordered, err := app.Store.MoveDiscipline(ctx, discipline.ID, position-1)
		if err != nil {
			printError(err)
			return
		}

		for i, d := range ordered {
			fmt.Printf("%2d. %s %s\n", i+1, tui.Swatch(d.ColorTag), d.Name)
		}
	}),
}

func init() {
	disciplineAddCmd.Flags().String("color", "", "color tag as #RRGGBB (default #3B82F6)")
	disciplineEditCmd.Flags().String("name", "", "new name")
	disciplineEditCmd.Flags().String("color", "", "new color tag as #RRGGBB")

	disciplineCmd.AddCommand(disciplineAddCmd)
	disciplineCmd.AddCommand(disciplineListCmd)
	disciplineCmd.AddCommand(disciplineEditCmd)
	disciplineCmd.AddCommand(disciplineRemoveCmd)
	disciplineCmd.AddCommand(disciplineMoveCmd)
}

package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/errs"
	"safetrack/internal/usecase/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive dashboard console",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		role, _ := cmd.Flags().GetString("role")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")

		model := console.NewModel(ctx, svc.Dashboard, svc.Records, console.Options{
			Role:            role,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().String("role", "all", `Initial role filter; "all" (lowercase) is reserved for every role`)
	consoleCmd.Flags().Duration("refresh-interval", 30*time.Second, "Auto refresh interval")
}

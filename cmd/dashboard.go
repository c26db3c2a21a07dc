package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/domain/safety"
	"safetrack/internal/errs"
	"safetrack/internal/usecase/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print expired and expiring-soon records plus incident tallies",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		format, err := checkFormat(mustString(cmd, "format"))
		if err != nil {
			return err
		}
		role := safety.RoleFilter(mustString(cmd, "role"))

		board, err := svc.Dashboard.Build(ctx, role)
		if err != nil {
			logging.Error(ctx, "build dashboard failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "build dashboard")
		}
		if format == formatJSON {
			return writeJSON(cmd.OutOrStdout(), board)
		}
		return writeDashboard(cmd.OutOrStdout(), board)
	}),
}

func writeDashboard(w io.Writer, board dashboard.Dashboard) error {
	role := firstNonEmpty(board.Role, "all")
	if _, err := fmt.Fprintf(w, "dashboard %s (next %d days, until %s) role=%s\n", board.Today, board.LookaheadDays, board.Horizon, role); err != nil {
		return errs.Wrap(err, "write dashboard output")
	}
	if _, err := fmt.Fprintf(w, "expired=%d expiring_soon=%d incidents=%d\n\n", board.Summary.Expired, board.Summary.ExpiringSoon, board.Summary.Incidents); err != nil {
		return errs.Wrap(err, "write dashboard output")
	}

	headers := []string{"EMPLOYEE", "REGISTRATION", "ROLE", "DETAIL", "EXPIRES", "DAYS"}
	for _, kind := range safety.RecordKinds() {
		bucket := board.Bucket(kind)
		for _, section := range []struct {
			title string
			items []dashboard.Item
		}{
			{title: "expired", items: bucket.Expired},
			{title: "expiring soon", items: bucket.ExpiringSoon},
		} {
			if _, err := fmt.Fprintf(w, "%s %s (%d)\n", kind, section.title, len(section.items)); err != nil {
				return errs.Wrap(err, "write dashboard output")
			}
			rows := make([][]string, 0, len(section.items))
			for _, item := range section.items {
				rows = append(rows, []string{item.EmployeeName, item.RegistrationNumber, item.Role, item.Detail, item.ExpiresOn, fmt.Sprintf("%d", item.DaysLeft)})
			}
			if err := writeTable(w, headers, rows, "  none"); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(w, "\nincidents: %d\n", board.Incidents.Total); err != nil {
		return errs.Wrap(err, "write dashboard output")
	}
	if err := writeTable(w, []string{"SEVERITY", "COUNT"}, countRows(board.Incidents.BySeverity), "  none"); err != nil {
		return err
	}
	return writeTable(w, []string{"TYPE", "COUNT"}, countRows(board.Incidents.ByType), "  none")
}

func countRows(items []dashboard.Count) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Key, fmt.Sprintf("%d", item.Count)})
	}
	return rows
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().String("role", safety.AllRoles, `Only employees with this exact role; "all" (lowercase) is reserved for every role`)
	dashboardCmd.Flags().String("format", formatText, "Output format (text|json)")
}

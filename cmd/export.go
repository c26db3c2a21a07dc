package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/errs"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every table to <table>.csv for BI tools",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		dir := strings.TrimSpace(mustString(cmd, "out"))
		if dir == "" {
			dir = svc.App.Config.Export.Dir
		}

		files, err := svc.Export.WriteAll(ctx, dir)
		if err != nil {
			logging.Error(ctx, "export failed", slog.String("dir", dir), slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "export tables")
		}
		for _, file := range files {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "exported %s: %d rows -> %s\n", file.Table, file.Rows, file.Path); err != nil {
				return errs.Wrap(err, "write export output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("out", "", "Output directory (default: export.dir from config)")
}

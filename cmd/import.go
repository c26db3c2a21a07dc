package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/errs"
	"safetrack/internal/usecase/importer"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Reconcile an employee spreadsheet (CSV or XLSX) into the database",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		file, _ := cmd.Flags().GetString("file")
		sheetName, _ := cmd.Flags().GetString("sheet")

		result, err := svc.Importer.ImportFile(ctx, file, sheetName)
		if err != nil {
			logging.Error(ctx, "import failed", slog.String("file", file), slog.Any("err", errs.Loggable(err)))
			return errs.Wrapf(err, "import %s", file)
		}
		return writeImportResult(cmd, result)
	}),
}

var importLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show the summary of the most recent import",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		result, found, err := svc.Importer.LastSummary(cmd.Context())
		if err != nil {
			return errs.Wrap(err, "read last import summary")
		}
		if !found {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "no import has run yet")
			return err
		}
		return writeImportResult(cmd, result)
	}),
}

func writeImportResult(cmd *cobra.Command, result importer.Result) error {
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "run %s source=%s processed=%d errored=%d new_employees=%d new_exams=%d\n",
		result.RunID, result.Source, result.Processed, result.Errored, result.CreatedEmployees, result.CreatedExams); err != nil {
		return errs.Wrap(err, "write import output")
	}
	for _, rowErr := range result.Errors {
		if _, err := fmt.Fprintln(out, rowErr.Error()); err != nil {
			return errs.Wrap(err, "write import output")
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importLastCmd)
	importCmd.Flags().String("file", "", "Spreadsheet path (.csv, .txt, .xlsx, .xlsm)")
	importCmd.Flags().String("sheet", "", "Worksheet name for XLSX files (default: configured sheet, then the first)")
	_ = importCmd.MarkFlagRequired("file")
}

package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/errs"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "safetrack",
	Short:        "Workplace safety record keeper",
	Long:         "Tracks employees, trainings, medical exams, driver licenses and incidents, and reports what has expired or expires soon.",
	SilenceUsage: true,
}

// Execute runs the root command. The logger starts at info and is
// replaced with the configured level once a command has loaded its config.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	logger := logging.NewLogger(rootCmd.ErrOrStderr(), "info")
	ctx = logging.WithLogger(ctx, logger)
	ctx = logging.WithAttrs(ctx, slog.String("app", "safetrack"))

	rootCmd.SetContext(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error(ctx, "command execution failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "execute root command")
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "Config file path")
}

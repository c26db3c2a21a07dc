package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"safetrack/internal/bootstrap"
	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/errs"
	"safetrack/internal/usecase/dashboard"
	"safetrack/internal/usecase/export"
	"safetrack/internal/usecase/importer"
	"safetrack/internal/usecase/records"
)

// services is everything a command may need, built once per invocation.
type services struct {
	App       *bootstrap.App
	Records   *records.Service
	Importer  *importer.Reconciler
	Dashboard *dashboard.Aggregator
	Export    *export.Service
}

func withApp(run func(cmd *cobra.Command, svc *services) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		svc := &services{}
		fxApp := fx.New(
			bootstrap.Module,
			fx.NopLogger,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(&svc.App, &svc.Records, &svc.Importer, &svc.Dashboard, &svc.Export),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		ctx = logging.WithLogger(ctx, logging.NewLogger(cmd.ErrOrStderr(), svc.App.Config.Log.Level))
		cmd.SetContext(ctx)

		if err := run(cmd, svc); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}

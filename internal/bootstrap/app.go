package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"safetrack/internal/bootstrap/config"
	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/errs"
	"safetrack/internal/infrastructure/persistence/sqlite/model"
)

type App struct {
	Config config.Config
	DB     *gorm.DB
	SQLX   *sqlx.DB
}

// InitSchema creates missing tables and indexes; it is safe to run on every start.
func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Debug(logCtx, "start schema migration")

	if err := a.DB.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}

	logging.Debug(logCtx, "schema migration completed")
	return nil
}

// Close releases the connection pool shared by the gorm and sqlx views.
func (a *App) Close(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	sqlDB, err := a.DB.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}

	if err := sqlDB.Close(); err != nil {
		return errs.Wrap(err, "close sql db")
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.app")), "database connection closed")
	return nil
}

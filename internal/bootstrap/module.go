package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"safetrack/internal/bootstrap/config"
	"safetrack/internal/bootstrap/database"
	"safetrack/internal/bootstrap/logging"
	cacheinfra "safetrack/internal/infrastructure/cache"
	sqliterepo "safetrack/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "safetrack/internal/infrastructure/persistence/sqlite/uow"
	"safetrack/internal/infrastructure/sheet"
	"safetrack/internal/ports"
	"safetrack/internal/usecase/dashboard"
	"safetrack/internal/usecase/export"
	"safetrack/internal/usecase/importer"
	"safetrack/internal/usecase/records"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideSQLX),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewRecordRepository,
			fx.As(new(ports.RecordRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewExpiryRepository,
			fx.As(new(ports.ExpiryRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewTableDumpRepository,
			fx.As(new(ports.TableDumper)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(provideRecords),
	fx.Provide(provideReconciler),
	fx.Provide(provideAggregator),
	fx.Provide(export.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))
	return database.Open(logCtx, cfg.Database)
}

func provideSQLX(db *gorm.DB) (*sqlx.DB, error) {
	return database.SQLX(db)
}

// provideApp also brings the schema up to date so every command sees the
// tables, and owns closing the database when fx stops.
func provideApp(lc fx.Lifecycle, ctx context.Context, cfg config.Config, db *gorm.DB, x *sqlx.DB) (*App, error) {
	app := &App{
		Config: cfg,
		DB:     db,
		SQLX:   x,
	}
	lc.Append(fx.Hook{
		OnStop: app.Close,
	})
	if err := app.InitSchema(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func provideRecords(repo ports.RecordRepository, cfg config.Config) *records.Service {
	return records.NewService(repo, records.Options{
		DayFirst:      cfg.Import.DayFirst,
		LookaheadDays: cfg.Dashboard.LookaheadDays,
	})
}

func provideReconciler(repo ports.RecordRepository, uow ports.UnitOfWork, cache ports.Cache, cfg config.Config) *importer.Reconciler {
	cols := cfg.Import.Columns
	return importer.NewReconciler(repo, uow, cache, importer.Options{
		DayFirst: cfg.Import.DayFirst,
		Columns: importer.Columns{
			Name:          cols.Name,
			Role:          cols.Role,
			Registration:  cols.Registration,
			ExamDate:      cols.ExamDate,
			ExamExpiry:    cols.ExamExpiry,
			LicenseExpiry: cols.LicenseExpiry,
		},
		Sheet: sheet.Options{
			Sheet:    cfg.Import.Sheet,
			Encoding: cfg.Import.Encoding,
		},
	})
}

// provideAggregator depends on *App so the schema exists before the first query.
func provideAggregator(_ *App, repo ports.ExpiryRepository, cfg config.Config) *dashboard.Aggregator {
	return dashboard.NewAggregator(repo, cfg.Dashboard.LookaheadDays)
}

package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/errs"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Import    ImportConfig    `mapstructure:"import"`
	Export    ExportConfig    `mapstructure:"export"`
	HTTP      HTTPConfig      `mapstructure:"http"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type DashboardConfig struct {
	LookaheadDays int `mapstructure:"lookahead_days"`
}

// ImportConfig controls how spreadsheets are read and which headers map to which column.
type ImportConfig struct {
	Encoding string        `mapstructure:"encoding"`
	DayFirst bool          `mapstructure:"day_first"`
	Sheet    string        `mapstructure:"sheet"`
	Columns  ImportColumns `mapstructure:"columns"`
}

// ImportColumns holds header aliases per logical column.
type ImportColumns struct {
	Name          []string `mapstructure:"name"`
	Role          []string `mapstructure:"role"`
	Registration  []string `mapstructure:"registration"`
	ExamDate      []string `mapstructure:"exam_date"`
	ExamExpiry    []string `mapstructure:"exam_expiry"`
	LicenseExpiry []string `mapstructure:"license_expiry"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

const envPrefix = "SAFETRACK"

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn(logCtx, "load .env failed", slog.Any("err", errs.Loggable(err)))
		}
	} else {
		logging.Info(logCtx, "environment loaded from .env")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile == "" && errors.As(err, &notFound):
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		case configFile != "" && errors.Is(err, os.ErrNotExist):
			logging.Warn(logCtx, "config file missing, fallback to defaults and env", slog.String("path", configFile))
		default:
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Int("lookahead_days", cfg.Dashboard.LookaheadDays),
	)

	return cfg, nil
}

// Validate checks the settings every command depends on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}
	if c.Dashboard.LookaheadDays < 0 {
		return errors.New("dashboard.lookahead_days must not be negative")
	}
	cols := c.Import.Columns
	if len(cols.Name) == 0 || len(cols.Role) == 0 || len(cols.Registration) == 0 {
		return errors.New("import.columns.name, role and registration need at least one header alias")
	}
	return nil
}

// Default returns the configuration used when neither file nor env override anything.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "safetrack")
	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/safetrack.db")
	v.SetDefault("dashboard.lookahead_days", 30)
	v.SetDefault("import.encoding", "utf-8")
	v.SetDefault("import.day_first", true)
	v.SetDefault("import.sheet", "")
	v.SetDefault("import.columns.name", []string{"NOME", "NAME"})
	v.SetDefault("import.columns.role", []string{"FUNÇÃO", "CARGO", "ROLE"})
	v.SetDefault("import.columns.registration", []string{"MATRICULA", "REGISTRATION-NUMBER", "REGISTRATION"})
	v.SetDefault("import.columns.exam_date", []string{"ASO", "EXAM-DATE"})
	v.SetDefault("import.columns.exam_expiry", []string{"VALIDADE DO ASO", "EXAM-EXPIRY"})
	v.SetDefault("import.columns.license_expiry", []string{"CNH", "LICENSE-EXPIRY"})
	v.SetDefault("export.dir", "dados_bi")
	v.SetDefault("http.addr", ":8080")
}

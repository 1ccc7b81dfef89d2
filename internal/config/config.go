package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kavinrajasekaran/TennisTracker/internal/logger"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Auth     AuthConfig          `mapstructure:"auth"`
	Stats    StatsConfig         `mapstructure:"stats"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Version         string        `mapstructure:"version"`
	Env             string        `mapstructure:"env"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=postgres memory"`
}

// PostgresConfig holds connection and pool tuning; durations are in seconds.
type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

// AuthConfig configures verification of the bearer tokens that carry the account id.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=16"`
	Issuer    string `mapstructure:"issuer"`
}

type StatsConfig struct {
	RecentFormSize  int           `mapstructure:"recent_form_size" validate:"min=1,max=50"`
	DuplicateWindow time.Duration `mapstructure:"duplicate_window"`
}

// Validate checks field tags and the postgres secrets the tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.App); err != nil {
		return fmt.Errorf("app config: %w", err)
	}
	if err := v.Struct(c.Storage); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	if err := v.Struct(c.Auth); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	if err := v.Struct(c.Stats); err != nil {
		return fmt.Errorf("stats config: %w", err)
	}

	if c.Storage.Driver == StorageDriverPostgres {
		var missing []error
		if c.Postgres.User == "" {
			missing = append(missing, errors.New("postgres.user is required"))
		}
		if c.Postgres.Password == "" {
			missing = append(missing, errors.New("postgres.password is required"))
		}
		if c.Postgres.DBName == "" {
			missing = append(missing, errors.New("postgres.db is required"))
		}
		if len(missing) > 0 {
			return errors.Join(missing...)
		}
	}
	return nil
}

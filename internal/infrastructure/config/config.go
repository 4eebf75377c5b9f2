package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/K17UN3/shift-manage/internal/core/domain"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// WeekStart is the first column of the month grid, e.g. "sunday".
	WeekStart string `env:"WEEK_START, default=sunday"`
	// RoleOrder is the display order of roles, separated by commas or pipes.
	RoleOrder string `env:"ROLE_ORDER, default=employee|part_time|temporary"`

	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Rollup   RollupConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=shiftboard"`
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL, default=postgres://localhost:5432/shiftboard?sslmode=disable"`
}

type RedisConfig struct {
	Enabled bool          `env:"REDIS_ENABLED, default=true"`
	Addr    string        `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int           `env:"REDIS_DB,      default=0"`
	TTL     time.Duration `env:"SUMMARY_TTL,   default=1h"`
}

type RollupConfig struct {
	Workers    int `env:"ROLLUP_WORKERS,     default=4"`
	BufferSize int `env:"ROLLUP_BUFFER_SIZE, default=64"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from an arbitrary lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverPostgres, c.StoreDriver)
	}
	if _, err := c.Weekday(); err != nil {
		return err
	}
	if len(c.Roles().Roles()) == 0 {
		return fmt.Errorf("ROLE_ORDER names no roles")
	}
	if c.Rollup.Workers < 1 {
		return fmt.Errorf("ROLLUP_WORKERS must be positive, got %d", c.Rollup.Workers)
	}
	return nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Weekday parses WeekStart.
func (c *Config) Weekday() (time.Weekday, error) {
	return domain.ParseWeekday(c.WeekStart)
}

// Roles builds the role order. Commas and pipes both separate entries.
func (c *Config) Roles() domain.RolePriority {
	fields := strings.FieldsFunc(c.RoleOrder, func(r rune) bool { return r == ',' || r == '|' })
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return domain.NewRolePriority(fields...)
}

// Package config defines board-api's configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/yujin9907/cloud-naitive/infrastructure/config"
	"github.com/yujin9907/cloud-naitive/infrastructure/logger"
	"github.com/yujin9907/cloud-naitive/infrastructure/profiling"
	"github.com/yujin9907/cloud-naitive/infrastructure/retry"
)

const (
	defaultServerHost      = "0.0.0.0"
	defaultServerPort      = 5000
	defaultServerTimeout   = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultDatabaseHost    = "postgres-service"
	defaultDatabasePort    = 5432
	defaultDatabaseName    = "boarddb"
	defaultDatabaseUser    = "user"
	defaultDatabasePass    = "password"
	defaultSSLMode         = "disable"
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultRedisAddress    = "localhost:6379"
	defaultRedisStream     = "board:post-events"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "config.yml"

type Config struct {
	Debug     bool             `env:"APP_DEBUG" yaml:"debug"`
	Server    ServerConfig     `yaml:"server"`
	Database  DatabaseConfig   `yaml:"database"`
	Search    SearchConfig     `yaml:"search"`
	Redis     RedisConfig      `yaml:"redis"`
	Logging   logger.Config    `yaml:"logging"`
	Profiling profiling.Config `yaml:"profiling"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"  yaml:"host"`
	Port         int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST"         yaml:"host"`
	Port            int           `env:"DB_PORT"         yaml:"port"`
	Name            string        `env:"DB_NAME"         yaml:"name"`
	User            string        `env:"DB_USER"         yaml:"user"`
	Password        string        `env:"DB_PASSWORD"     yaml:"password"`
	SSLMode         string        `env:"DB_SSLMODE"      yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	// AutoMigrate is a pointer so an explicit false survives defaulting.
	AutoMigrate *bool `env:"DB_AUTO_MIGRATE" yaml:"auto_migrate"`
	// ConnectRetry bounds how long startup waits for PostgreSQL to accept connections.
	ConnectRetry retry.Config `yaml:"connect_retry"`
}

// ShouldAutoMigrate reports whether serve applies migrations on startup.
func (d DatabaseConfig) ShouldAutoMigrate() bool {
	return d.AutoMigrate == nil || *d.AutoMigrate
}

// SearchConfig controls keyword matching on GET /posts.
type SearchConfig struct {
	// CaseSensitive is a pointer so an explicit false survives defaulting.
	CaseSensitive *bool `env:"SEARCH_CASE_SENSITIVE" yaml:"case_sensitive"`
}

// MatchCase reports whether keyword search uses LIKE rather than ILIKE.
func (s SearchConfig) MatchCase() bool {
	return s.CaseSensitive == nil || *s.CaseSensitive
}

// RedisConfig holds the connection used for post event publishing.
type RedisConfig struct {
	Address       string `env:"REDIS_ADDRESS"        yaml:"address"`
	Password      string `env:"REDIS_PASSWORD"       yaml:"password"`
	DB            int    `env:"REDIS_DB"             yaml:"db"`
	EventsEnabled bool   `env:"REDIS_EVENTS_ENABLED" yaml:"events_enabled"`
	Stream        string `env:"REDIS_STREAM"         yaml:"stream"`
}

// Load reads path, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults(path, setDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	return errors.Join(
		infraconfig.ValidateRequired("server.host", c.Server.Host),
		infraconfig.ValidatePort("server.port", c.Server.Port),
		infraconfig.ValidateRequired("database.host", c.Database.Host),
		infraconfig.ValidatePort("database.port", c.Database.Port),
		infraconfig.ValidateRequired("database.name", c.Database.Name),
		infraconfig.ValidateRequired("database.user", c.Database.User),
		infraconfig.ValidateLogLevel("logging.level", c.Logging.Level),
	)
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = defaultDatabaseHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDatabasePort
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = defaultDatabaseName
	}
	if cfg.Database.User == "" {
		cfg.Database.User = defaultDatabaseUser
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = defaultDatabasePass
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = defaultSSLMode
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = defaultConnMaxLifetime
	}

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Redis.Stream == "" {
		cfg.Redis.Stream = defaultRedisStream
	}
	// Redis.EventsEnabled stays false unless turned on.

	cfg.Logging.SetDefaults()
	cfg.Profiling.SetDefaults()
}

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/yujin9907/cloud-naitive/infrastructure/config"
	"github.com/yujin9907/cloud-naitive/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
debug: true
server:
  port: 8080
database:
  host: db.internal
  name: board
  user: board
  password: secret
search:
  case_sensitive: false
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "board", cfg.Database.Name)
	assert.False(t, cfg.Search.MatchCase())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "postgres-service", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "boarddb", cfg.Database.Name)
	assert.Equal(t, "user", cfg.Database.User)
	assert.Equal(t, "password", cfg.Database.Password)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.True(t, cfg.Database.ShouldAutoMigrate())
	assert.True(t, cfg.Search.MatchCase())
	assert.False(t, cfg.Redis.EventsEnabled)
	assert.Equal(t, "board:post-events", cfg.Redis.Stream)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  host: from-file
`)
	t.Setenv("DB_HOST", "from-env")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("SEARCH_CASE_SENSITIVE", "false")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Host)
	assert.Equal(t, "envdb", cfg.Database.Name)
	assert.Equal(t, "envuser", cfg.Database.User)
	assert.Equal(t, "envpass", cfg.Database.Password)
	assert.False(t, cfg.Database.ShouldAutoMigrate())
	assert.False(t, cfg.Search.MatchCase())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_InvalidPort(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 70000
`)

	_, err := config.Load(path)
	require.Error(t, err)

	var vErr *infraconfig.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "server.port", vErr.Field)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

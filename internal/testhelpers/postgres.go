package testhelpers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/yujin9907/cloud-naitive/internal/config"
	"github.com/yujin9907/cloud-naitive/internal/database"
)

const (
	postgresImage         = "postgres:16-alpine"
	postgresStartupBudget = 2 * time.Minute
	testDatabaseName      = "boarddb_test"
	testDatabaseUser      = "board"
	testDatabasePassword  = "board"
)

// PostgresContainer is a throwaway PostgreSQL with the schema migrated.
type PostgresContainer struct {
	Container testcontainers.Container
	Config    config.DatabaseConfig
	DB        *database.DB
}

// StartPostgres runs a PostgreSQL container, applies the embedded migrations
// and opens a pool against it. Stop must be called to release it.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	startCtx, cancel := context.WithTimeout(ctx, postgresStartupBudget)
	defer cancel()

	pg, err := postgres.Run(startCtx, postgresImage,
		postgres.WithDatabase(testDatabaseName),
		postgres.WithUsername(testDatabaseUser),
		postgres.WithPassword(testDatabasePassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	connStr, err := pg.ConnectionString(startCtx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	cfg, err := databaseConfigFromURL(connStr)
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}

	log := NewTestLogger()
	if migrateErr := database.NewMigrator(cfg, log).Up(); migrateErr != nil {
		_ = pg.Terminate(ctx)
		return nil, fmt.Errorf("migrate test database: %w", migrateErr)
	}

	db, err := database.New(startCtx, cfg, log)
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, fmt.Errorf("connect test database: %w", err)
	}

	return &PostgresContainer{Container: pg, Config: cfg, DB: db}, nil
}

// Truncate empties the posts table and resets its id sequence.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, `TRUNCATE TABLE posts RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate posts: %w", err)
	}
	return nil
}

func (p *PostgresContainer) Stop(ctx context.Context) error {
	if p.DB != nil {
		_ = p.DB.Close()
	}
	if err := p.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate postgres container: %w", err)
	}
	return nil
}

func databaseConfigFromURL(connStr string) (config.DatabaseConfig, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("parse connection string: %w", err)
	}

	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("parse port %q: %w", u.Port(), err)
	}

	password, _ := u.User.Password()

	return config.DatabaseConfig{
		Host:            u.Hostname(),
		Port:            port,
		Name:            testDatabaseName,
		User:            u.User.Username(),
		Password:        password,
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, nil
}

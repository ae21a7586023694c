package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
	"github.com/yujin9907/cloud-naitive/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrator applies the embedded schema migrations. It opens its own
// connection because closing a migrate instance closes the database handle.
type Migrator struct {
	cfg    config.DatabaseConfig
	logger infralogger.Logger
}

func NewMigrator(cfg config.DatabaseConfig, log infralogger.Logger) *Migrator {
	return &Migrator{cfg: cfg, logger: log}
}

// Up applies every pending migration. Nothing to apply is not an error.
func (m *Migrator) Up() error {
	return m.run(func(mg *migrate.Migrate) error {
		if err := mg.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				m.logger.Info("No pending migrations")
				return nil
			}
			return fmt.Errorf("run migrations: %w", err)
		}

		version, _, _ := mg.Version()
		m.logger.Info("Migrations applied successfully", infralogger.Any("version", version))
		return nil
	})
}

// Down rolls back steps migrations, at least one.
func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		steps = 1
	}

	return m.run(func(mg *migrate.Migrate) error {
		if err := mg.Steps(-steps); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				m.logger.Info("No migrations to roll back")
				return nil
			}
			return fmt.Errorf("roll back migrations: %w", err)
		}

		m.logger.Info("Migrations rolled back successfully", infralogger.Int("steps", steps))
		return nil
	})
}

// Version returns the applied version. A fresh database reports 0, false.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	err = m.run(func(mg *migrate.Migrate) error {
		v, d, vErr := mg.Version()
		if vErr != nil {
			if errors.Is(vErr, migrate.ErrNilVersion) {
				return nil
			}
			return fmt.Errorf("get migration version: %w", vErr)
		}
		version, dirty = v, d
		return nil
	})
	return version, dirty, err
}

func (m *Migrator) run(fn func(*migrate.Migrate) error) error {
	db, err := sql.Open("postgres", DSN(m.cfg))
	if err != nil {
		return fmt.Errorf("open database connection: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("create postgres driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mg.Close()
		if srcErr != nil || dbErr != nil {
			m.logger.Warn("Closing migrate instance failed",
				infralogger.Any("source_error", srcErr),
				infralogger.Any("database_error", dbErr),
			)
		}
	}()

	return fn(mg)
}

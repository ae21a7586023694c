package bootstrap

import (
	"context"
	"fmt"
	"time"

	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
	"github.com/yujin9907/cloud-naitive/infrastructure/retry"
	"github.com/yujin9907/cloud-naitive/internal/config"
	"github.com/yujin9907/cloud-naitive/internal/database"
)

// SetupDatabase applies pending migrations (unless disabled) and opens the
// pool, retrying while PostgreSQL is still coming up.
func SetupDatabase(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*database.DB, error) {
	retryCfg := cfg.Database.ConnectRetry
	retryCfg.IsRetryable = database.IsTransient
	retryCfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Warn("Database not ready, retrying",
			infralogger.Int("attempt", attempt),
			infralogger.Duration("delay", delay),
			infralogger.Error(err),
		)
	}

	var db *database.DB
	err := retry.Do(ctx, retryCfg, func(ctx context.Context) error {
		if cfg.Database.ShouldAutoMigrate() {
			if migrateErr := database.NewMigrator(cfg.Database, log).Up(); migrateErr != nil {
				return fmt.Errorf("migrate database: %w", migrateErr)
			}
		}

		opened, openErr := database.New(ctx, cfg.Database, log)
		if openErr != nil {
			return fmt.Errorf("database connection: %w", openErr)
		}
		db = opened
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !cfg.Database.ShouldAutoMigrate() {
		log.Info("Automatic migrations disabled")
	}
	return db, nil
}

// Package database owns the PostgreSQL connection pool and schema migrations.
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" //nolint:blankimports // PostgreSQL driver

	infracontext "github.com/yujin9907/cloud-naitive/infrastructure/context"
	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
	"github.com/yujin9907/cloud-naitive/internal/config"
)

// DB is the shared connection pool. It is opened once and handed to repositories.
type DB struct {
	*sqlx.DB
	logger infralogger.Logger
}

// New opens the pool, applies pool limits and verifies connectivity.
func New(ctx context.Context, cfg config.DatabaseConfig, log infralogger.Logger) (*DB, error) {
	db, err := sqlx.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := infracontext.WithPingTimeout(ctx)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connection established",
		infralogger.String("host", cfg.Host),
		infralogger.Int("port", cfg.Port),
		infralogger.String("dbname", cfg.Name),
		infralogger.Int("max_open_conns", cfg.MaxOpenConns),
	)

	return &DB{DB: db, logger: log}, nil
}

// Ping checks connectivity with a short timeout. Used by the health endpoint.
func (d *DB) Ping() error {
	ctx, cancel := infracontext.WithPingTimeout(context.Background())
	defer cancel()
	return d.PingContext(ctx)
}

func (d *DB) Close() error {
	if d.DB == nil {
		return nil
	}
	d.logger.Info("Closing database connection")
	return d.DB.Close()
}

// DSN builds a lib/pq connection URL. Credentials and the database name are
// escaped, so any characters are allowed in them.
func DSN(cfg config.DatabaseConfig) string {
	query := url.Values{}
	query.Set("sslmode", cfg.SSLMode)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: query.Encode(),
	}
	return u.String()
}

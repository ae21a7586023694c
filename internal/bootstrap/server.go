package bootstrap

import (
	"fmt"

	infragin "github.com/yujin9907/cloud-naitive/infrastructure/gin"
	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
	"github.com/yujin9907/cloud-naitive/internal/api"
	"github.com/yujin9907/cloud-naitive/internal/config"
	"github.com/yujin9907/cloud-naitive/internal/database"
	"github.com/yujin9907/cloud-naitive/internal/metrics"
	"github.com/yujin9907/cloud-naitive/internal/repository"
)

// SetupHTTPServer wires repository, publisher and metrics into the API server.
func SetupHTTPServer(
	cfg *config.Config,
	db *database.DB,
	eventing *Eventing,
	version string,
	log infralogger.Logger,
) (*infragin.Server, error) {
	m := metrics.NewDefault()
	if err := m.RegisterDBStats(db.DB.DB, cfg.Database.Name); err != nil {
		return nil, fmt.Errorf("register db stats: %w", err)
	}

	deps := api.Dependencies{
		Store:   repository.NewPostRepository(db.DB, log, cfg.Search.MatchCase()),
		Metrics: m,
		DBPing:  db.Ping,
	}
	if eventing.Enabled() {
		deps.Publisher = eventing.Publisher
		deps.RedisPing = eventing.Ping
	}

	return api.NewServer(cfg, deps, version, log), nil
}

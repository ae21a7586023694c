package bootstrap

import (
	"fmt"

	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
	"github.com/yujin9907/cloud-naitive/internal/api"
	"github.com/yujin9907/cloud-naitive/internal/config"
)

// LoadConfig loads and validates configuration from path.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// CreateLogger builds the service logger tagged with service and version.
func CreateLogger(cfg *config.Config, version string) (infralogger.Logger, error) {
	logCfg := cfg.Logging
	logCfg.Development = cfg.Debug
	if cfg.Debug && logCfg.Level == infralogger.DefaultLevel {
		logCfg.Level = "debug"
	}

	log, err := infralogger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		infralogger.String("service", api.ServiceName),
		infralogger.String("version", version),
	), nil
}

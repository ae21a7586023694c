// Package bootstrap handles application initialization and lifecycle
// management for board-api.
package bootstrap

import (
	"context"
	"fmt"

	infracontext "github.com/yujin9907/cloud-naitive/infrastructure/context"
	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
	"github.com/yujin9907/cloud-naitive/infrastructure/profiling"
	"github.com/yujin9907/cloud-naitive/internal/api"
)

// Start runs the service until ctx is cancelled or a termination signal arrives.
func Start(ctx context.Context, configPath, version string) error {
	// Phase 1: config and logger
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: profiling (opt-in)
	if pprofServer := profiling.StartPprofServer(cfg.Profiling, log); pprofServer != nil {
		defer func() {
			shutdownCtx, cancel := infracontext.WithShutdownTimeout()
			defer cancel()
			if shutdownErr := pprofServer.Shutdown(shutdownCtx); shutdownErr != nil {
				log.Warn("Failed to stop pprof server", infralogger.Error(shutdownErr))
			}
		}()
	}
	profiler, err := profiling.StartPyroscope(cfg.Profiling, api.ServiceName, version, log)
	if err != nil {
		log.Warn("Continuous profiling unavailable", infralogger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	// Phase 3: database and migrations
	db, err := SetupDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", infralogger.Error(closeErr))
		}
	}()

	// Phase 4: event publisher (optional)
	eventing := SetupEventPublisher(ctx, cfg, log)
	defer eventing.Close(log)

	// Phase 5: HTTP server
	server, err := SetupHTTPServer(cfg, db, eventing, version, log)
	if err != nil {
		return fmt.Errorf("failed to set up HTTP server: %w", err)
	}

	if runErr := server.Run(ctx); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}

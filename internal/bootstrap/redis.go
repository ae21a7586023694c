package bootstrap

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	infracontext "github.com/yujin9907/cloud-naitive/infrastructure/context"
	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
	infraredis "github.com/yujin9907/cloud-naitive/infrastructure/redis"
	"github.com/yujin9907/cloud-naitive/internal/config"
	"github.com/yujin9907/cloud-naitive/internal/events"
)

// Eventing bundles the optional publisher with the client behind it.
// The zero value means events are disabled.
type Eventing struct {
	Publisher *events.Publisher
	client    *goredis.Client
}

// Ping checks Redis, or returns nil when events are disabled.
func (e *Eventing) Ping() error {
	if e == nil || e.client == nil {
		return nil
	}
	ctx, cancel := infracontext.WithPingTimeout(context.Background())
	defer cancel()
	return e.client.Ping(ctx).Err()
}

// Enabled reports whether events are being published.
func (e *Eventing) Enabled() bool {
	return e != nil && e.Publisher != nil
}

// Close drains in-flight publishes and closes the client.
func (e *Eventing) Close(log infralogger.Logger) {
	if !e.Enabled() {
		return
	}
	e.Publisher.Wait()
	if err := e.client.Close(); err != nil {
		log.Warn("Failed to close Redis client", infralogger.Error(err))
	}
}

// SetupEventPublisher connects to Redis when events are enabled. Redis being
// unreachable disables events rather than failing startup.
func SetupEventPublisher(ctx context.Context, cfg *config.Config, log infralogger.Logger) *Eventing {
	if !cfg.Redis.EventsEnabled {
		return &Eventing{}
	}

	client, err := infraredis.NewClient(ctx, infraredis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis not available, events disabled", infralogger.Error(err))
		return &Eventing{}
	}

	log.Info("Event publisher initialized",
		infralogger.String("redis_address", cfg.Redis.Address),
		infralogger.String("stream", cfg.Redis.Stream),
	)
	return &Eventing{
		Publisher: events.NewPublisher(client, cfg.Redis.Stream, log),
		client:    client,
	}
}

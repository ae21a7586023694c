// Package context holds timeout helpers shared by the server, database and CLI.
package context

import (
	"context"
	"time"
)

const (
	// DefaultShutdownTimeout bounds graceful shutdown of HTTP listeners.
	DefaultShutdownTimeout = 10 * time.Second
	// DefaultPingTimeout bounds connectivity checks against PostgreSQL and Redis.
	DefaultPingTimeout = 5 * time.Second
)

// WithPingTimeout derives a context bounded by DefaultPingTimeout.
func WithPingTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultPingTimeout)
}

// WithShutdownTimeout returns a fresh context for shutdown work. It does not
// derive from a request or signal context, which is usually already done.
func WithShutdownTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultShutdownTimeout)
}

package database

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes reported while the server is starting or shutting down.
var transientPQCodes = map[pq.ErrorCode]bool{
	"57P03": true, // cannot_connect_now
	"57P01": true, // admin_shutdown
	"53300": true, // too_many_connections
}

// IsTransient reports whether err is a connectivity failure worth retrying,
// as opposed to bad credentials or a missing database.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return transientPQCodes[pqErr.Code]
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

package bootstrap

import (
	"context"
	"log/slog"
)

// Stopper is anything that drains in-flight work before returning.
type Stopper interface {
	Stop(ctx context.Context) error
}

// Closer releases a resource without reporting an error, like *pgxpool.Pool.
type Closer interface {
	Close()
}

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server Stopper
	DBPool Closer
}

// GracefulShutdown stops the HTTP server first so no new requests arrive,
// then closes the database pool once in-flight requests have finished their
// cache writes. A server that fails to drain in time is logged and the pool is
// closed anyway.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.DBPool != nil {
		slog.Info(LogMsgClosingDatabase)
		components.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/osse101/statsgate/internal/aoe4"
	"github.com/osse101/statsgate/internal/bootstrap"
	"github.com/osse101/statsgate/internal/config"
	"github.com/osse101/statsgate/internal/database"
	"github.com/osse101/statsgate/internal/database/postgres"
	"github.com/osse101/statsgate/internal/halo"
	"github.com/osse101/statsgate/internal/handler"
	"github.com/osse101/statsgate/internal/hw2"
	"github.com/osse101/statsgate/internal/server"
	"github.com/osse101/statsgate/internal/upstream"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 15 * time.Second

// @title statsgate API
// @version 1.0
// @description Halo Wars 2 stats gateway with a Postgres-backed fallback cache, plus an AoE4World passthrough.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		slog.Error("Environment validation failed", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	ctx := context.Background()
	dbPool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.RunMigrations {
		if err := database.Migrate(ctx, dbPool); err != nil {
			slog.Error("Failed to apply migrations", "error", err)
			dbPool.Close()
			os.Exit(1)
		}
	}

	haloPool := upstream.NewKeyPool(cfg.HW2APIKeys,
		upstream.WithLimiter(rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), max(1, int(cfg.UpstreamRPS)))),
		upstream.WithTimeout(cfg.UpstreamTimeout),
	)
	slog.Info("HW2 credential pool ready", "keys", haloPool.Size())
	endpoints := halo.NewEndpoints(cfg.HaloAPIURL, cfg.HaloSummaryURL, cfg.HaloMetadataURL)
	hw2Service := hw2.NewService(haloPool, postgres.NewCacheRepository(dbPool), endpoints, hw2.Options{
		StoreRawMatches: cfg.StoreRawMatches,
		StoreRawEvents:  cfg.StoreRawEvents,
	})

	aoe4Client := aoe4.NewClient(cfg.Aoe4BaseURL,
		aoe4.WithAPIKey(cfg.Aoe4APIKey),
		aoe4.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		aoe4.WithLimiter(rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), max(1, int(cfg.UpstreamRPS)))),
	)

	srv := server.NewServer(server.Config{
		Port:           cfg.Port,
		TrustedProxies: cfg.TrustedProxies,
		InboundRPS:     cfg.InboundRPS,
		InboundBurst:   cfg.InboundBurst,
	}, dbPool, handler.NewHW2Handler(hw2Service), handler.NewAoe4Handler(aoe4Client))

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server: srv,
		DBPool: dbPool,
	})
}

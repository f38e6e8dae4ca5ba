package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/statsgate/internal/bootstrap"
	"github.com/osse101/statsgate/internal/config"
	"github.com/osse101/statsgate/internal/database"
)

const (
	usage            = "usage: migrate [up|down|status]"
	migrationTimeout = 2 * time.Minute
)

var errUsage = errors.New(usage)

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

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	err = run(cfg, command)
	if logFile != nil {
		logFile.Close()
	}
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	case err != nil:
		os.Exit(1)
	}
}

func run(cfg *config.Config, command string) error {
	migrations := map[string]func(context.Context, *pgxpool.Pool) error{
		"up":     database.Migrate,
		"down":   database.MigrateDown,
		"status": database.MigrationStatus,
	}
	migrate, ok := migrations[command]
	if !ok {
		slog.Error("Unknown migration command", "command", command)
		return errUsage
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), 2, time.Minute, 5*time.Minute)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		return err
	}
	defer pool.Close()

	if err := migrate(ctx, pool); err != nil {
		slog.Error("Migration failed", "command", command, "error", err)
		return err
	}
	slog.Info("Migration complete", "command", command)
	return nil
}

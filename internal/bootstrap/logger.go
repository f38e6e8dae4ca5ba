package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/osse101/statsgate/internal/config"
	"github.com/osse101/statsgate/internal/logger"
)

// SetupLogger installs the process logger. Output always goes to stdout; when
// cfg.LogDir is set it also goes to a timestamped session file in that
// directory, and older session files beyond LogFileRetentionCount are removed.
// The returned file is nil when no LogDir is configured; otherwise the caller
// must close it.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	var (
		w       io.Writer = os.Stdout
		logFile *os.File
	)

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
			return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateLogsDir, err)
		}
		cleanupLogs(cfg.LogDir, LogFileRetentionCount)

		name := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, time.Now().Format(LogFileTimestampFormat)))
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", LogMsgFailedOpenLogFile, err)
		}
		logFile = f
		w = io.MultiWriter(os.Stdout, f)
	}

	addSource := cfg.Environment == logger.EnvironmentDev || cfg.Environment == "development"
	logCfg := logger.NewConfig(cfg.LogLevel, cfg.LogFormat, ServiceName, cfg.Version, cfg.Environment, addSource)
	logger.InitLoggerWithWriter(logCfg, w)

	slog.Info(LogMsgLoggingInitialized, "level", logCfg.LogLevel(), "format", cfg.LogFormat, "dir", cfg.LogDir)
	slog.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"version", cfg.Version)
	slog.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"hw2_keys", len(cfg.HW2APIKeys),
		"store_raw_matches", cfg.StoreRawMatches,
		"store_raw_events", cfg.StoreRawEvents)

	return logFile, nil
}

// cleanupLogs removes the oldest session files so that at most keep remain.
// Session file names sort chronologically.
func cleanupLogs(logDir string, keep int) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var logFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileExtension) {
			logFiles = append(logFiles, entry.Name())
		}
	}
	if len(logFiles) <= keep {
		return
	}

	sort.Strings(logFiles)
	for _, name := range logFiles[:len(logFiles)-keep] {
		if err := os.Remove(filepath.Join(logDir, name)); err != nil {
			slog.Warn(LogMsgFailedDeleteOldLog, "file", name, "error", err)
		}
	}
}

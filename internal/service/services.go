package service

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xolan/pomidor/internal/config"
	"github.com/xolan/pomidor/internal/osutil"
	"github.com/xolan/pomidor/internal/snapshot"
	"github.com/xolan/pomidor/internal/storage"
)

// LogFile is the log written by the TUI, which cannot log to the terminal.
const LogFile = "pomidor.log"

// Paths are the on-disk locations of every persisted file.
type Paths struct {
	Config    string
	History   string
	HistoryDB string
	Snapshot  string
	Log       string
}

// DefaultPaths returns the files under the user config dir.
func DefaultPaths() (Paths, error) {
	dir, err := osutil.AppDir()
	if err != nil {
		return Paths{}, err
	}
	return PathsIn(dir), nil
}

// PathsIn returns the standard file names inside dir.
func PathsIn(dir string) Paths {
	return Paths{
		Config:    filepath.Join(dir, config.ConfigFile),
		History:   filepath.Join(dir, storage.HistoryFile),
		HistoryDB: filepath.Join(dir, storage.HistoryDBFile),
		Snapshot:  filepath.Join(dir, snapshot.SnapshotFile),
		Log:       filepath.Join(dir, LogFile),
	}
}

// Services holds all service instances used by the application
type Services struct {
	Paths   Paths
	Logger  *slog.Logger
	Config  *ConfigService
	History *HistoryService
	Timer   *TimerService
}

// NewServices creates a new Services instance with default paths. The
// config file is loaded and POMIDOR_* overrides applied.
func NewServices() (*Services, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(paths.Config)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return NewServicesWithPaths(paths, cfg, NewLogger(os.Stderr, cfg, false)), nil
}

// NewServicesWithPaths creates a new Services instance with custom paths (useful for testing)
func NewServicesWithPaths(paths Paths, cfg config.Config, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	history := NewHistoryService(paths, cfg, logger)
	return &Services{
		Paths:   paths,
		Logger:  logger,
		Config:  NewConfigService(paths.Config, cfg),
		History: history,
		Timer:   NewTimerService(paths, cfg, history, logger),
	}
}

// WithLogger returns services over the same paths and config that log to
// logger.
func (s *Services) WithLogger(logger *slog.Logger) *Services {
	return NewServicesWithPaths(s.Paths, s.Config.Get(), logger)
}

// NewLogger builds the process logger. JSON output is used by the headless
// server, text everywhere else.
func NewLogger(w io.Writer, cfg config.Config, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// OpenLogFile opens the log file for appending.
func OpenLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/xolan/pomidor/internal/config"
	"github.com/xolan/pomidor/internal/session"
	"github.com/xolan/pomidor/internal/storage"
)

// ErrBackupsUnsupported is returned by backup operations on the SQLite backend.
var ErrBackupsUnsupported = errors.New("backups are only kept for the json history backend")

// HistoryService reads the session log and manages its backups.
type HistoryService struct {
	paths  Paths
	config config.Config
	logger *slog.Logger
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(paths Paths, cfg config.Config, logger *slog.Logger) *HistoryService {
	return &HistoryService{
		paths:  paths,
		config: cfg,
		logger: logger,
	}
}

// Backend returns the configured backend name.
func (s *HistoryService) Backend() string {
	return s.config.HistoryBackend
}

// Location returns the file that holds the log for the configured backend.
func (s *HistoryService) Location() string {
	if s.config.HistoryBackend == config.BackendSQLite {
		return s.paths.HistoryDB
	}
	return s.paths.History
}

// Open returns an unloaded store for the configured backend.
func (s *HistoryService) Open() (storage.HistoryStore, error) {
	switch s.config.HistoryBackend {
	case config.BackendSQLite:
		return storage.NewSQLiteHistory(s.paths.HistoryDB)
	case config.BackendJSON, "":
		return storage.NewJSONHistory(s.paths.History, storage.WithBackups(), storage.WithLogger(s.logger)), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", s.config.HistoryBackend)
	}
}

// Sessions loads every recorded session in insertion order.
func (s *HistoryService) Sessions() ([]session.Session, error) {
	store, err := s.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	return store.LoadAll()
}

// Grouped loads the log grouped by date, newest first. A positive limit
// keeps only that many days.
func (s *HistoryService) Grouped(limit int) ([]storage.DayGroup, error) {
	sessions, err := s.Sessions()
	if err != nil {
		return nil, err
	}
	return storage.LimitDays(storage.GroupedByDateDescending(sessions), limit), nil
}

// Backups lists the rotating backups of the JSON history file.
func (s *HistoryService) Backups() ([]storage.BackupInfo, error) {
	if s.config.HistoryBackend == config.BackendSQLite {
		return nil, ErrBackupsUnsupported
	}
	return storage.ListBackups(s.paths.History)
}

// Restore replaces the history file with backup n and returns the number
// of sessions restored.
func (s *HistoryService) Restore(n int) (int, error) {
	if s.config.HistoryBackend == config.BackendSQLite {
		return 0, ErrBackupsUnsupported
	}

	if _, err := storage.RestoreBackup(s.paths.History, n); err != nil {
		return 0, err
	}
	sessions, err := storage.ReadHistoryFile(s.paths.History)
	if err != nil {
		return 0, err
	}
	s.logger.Info("history restored", "backup", n, "sessions", len(sessions))
	return len(sessions), nil
}

// Watch calls onChange when the backing file of the configured backend
// changes on disk.
func (s *HistoryService) Watch(onChange func()) (*storage.Watcher, error) {
	return storage.WatchFile(s.Location(), onChange, s.logger)
}

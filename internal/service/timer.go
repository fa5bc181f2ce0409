package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/xolan/pomidor/internal/clock"
	"github.com/xolan/pomidor/internal/config"
	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/snapshot"
	"github.com/xolan/pomidor/internal/storage"
)

// TimerService builds the in-process timer engine and reads the snapshot
// when no engine is running.
type TimerService struct {
	paths   Paths
	config  config.Config
	history *HistoryService
	logger  *slog.Logger
}

// NewTimerService creates a new TimerService
func NewTimerService(paths Paths, cfg config.Config, history *HistoryService, logger *slog.Logger) *TimerService {
	return &TimerService{
		paths:   paths,
		config:  cfg,
		history: history,
		logger:  logger,
	}
}

// EngineConfig maps the application config onto engine options.
func (s *TimerService) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.DefaultLabel = s.config.DefaultLabel
	cfg.DisplayEnabled = s.config.DisplayEnabled
	cfg.NotificationDuration = s.config.NotificationDuration()
	return cfg
}

// Runtime is a loaded engine together with the stores it owns.
type Runtime struct {
	Engine *engine.Engine
	// RecoverErr is set when the snapshot could not be read at startup.
	// The engine is usable but started idle.
	RecoverErr error

	history storage.HistoryStore
}

// Close shuts the engine down, then releases the history store.
func (r *Runtime) Close() error {
	return errors.Join(r.Engine.Close(), r.history.Close())
}

// Open loads the history log, creates the engine and recovers any timer
// left in the snapshot. A history log that cannot be parsed is fatal so that
// it is never overwritten. A nil scheduler uses a real ticker.
func (s *TimerService) Open(scheduler clock.Scheduler) (*Runtime, error) {
	store, err := s.history.Open()
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if _, err := store.LoadAll(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load history: %w", err)
	}

	eng := engine.New(s.EngineConfig(), engine.Deps{
		History:   store,
		Snapshots: snapshot.NewFileStore(s.paths.Snapshot),
		Scheduler: scheduler,
		Logger:    s.logger,
	})

	rt := &Runtime{Engine: eng, history: store}
	if err := eng.Recover(); err != nil {
		s.logger.Warn("timer recovery failed", "error", err)
		rt.RecoverErr = err
	}
	return rt, nil
}

// SnapshotStatus describes the timer recorded in the snapshot file. It is
// what the last running process left behind, and is idle when the snapshot
// is empty. A timer in a snapshot is always reported as running because
// recovery restarts it.
func (s *TimerService) SnapshotStatus() (engine.Status, error) {
	snap, err := snapshot.NewFileStore(s.paths.Snapshot).Read()
	if err != nil {
		return engine.Status{}, err
	}
	if snap.IsEmpty() {
		display := s.config.DisplayEnabled
		if snap.Display != nil {
			display = *snap.Display
		}
		return engine.Status{State: engine.StateIdle, DisplayEnabled: display}, nil
	}
	return engine.Status{
		State:            engine.StateRunning,
		RemainingSeconds: snap.Active.RemainingSeconds,
		InitialMinutes:   snap.Active.InitialMinutes,
		Label:            snap.Active.Label,
		DisplayEnabled:   snap.Active.DisplayEnabled,
	}, nil
}

// Package storage persists the session history log.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/xolan/pomidor/internal/osutil"
	"github.com/xolan/pomidor/internal/session"
)

const (
	// HistoryFile is the name of the JSON history file
	HistoryFile = "history.json"
	// HistoryDBFile is the name of the SQLite history database
	HistoryDBFile = "history.db"
)

// HistoryStore is an append-only log of sessions.
type HistoryStore interface {
	// LoadAll reads the persisted log into memory and returns it.
	LoadAll() ([]session.Session, error)
	// Append adds s to the in-memory log and persists the whole log.
	Append(s session.Session) error
	// Sessions returns a copy of the in-memory log.
	Sessions() []session.Session
	Close() error
}

// GetHistoryPath returns the path to the JSON history file.
func GetHistoryPath() (string, error) {
	return osutil.AppFile(HistoryFile)
}

// GetHistoryDBPath returns the path to the SQLite history database.
func GetHistoryDBPath() (string, error) {
	return osutil.AppFile(HistoryDBFile)
}

// JSONHistory keeps the log as a single JSON array, rewritten atomically on
// every append.
type JSONHistory struct {
	mu       sync.Mutex
	path     string
	sessions []session.Session
	backups  bool
	logger   *slog.Logger
}

// JSONHistoryOption configures a JSONHistory.
type JSONHistoryOption func(*JSONHistory)

// WithBackups rotates .bak.N copies of the file before each rewrite.
func WithBackups() JSONHistoryOption {
	return func(h *JSONHistory) { h.backups = true }
}

// WithLogger sets the logger used for non-fatal backup failures.
func WithLogger(logger *slog.Logger) JSONHistoryOption {
	return func(h *JSONHistory) { h.logger = logger }
}

// NewJSONHistory creates a store backed by path. Call LoadAll before Append.
func NewJSONHistory(path string, opts ...JSONHistoryOption) *JSONHistory {
	h := &JSONHistory{
		path:     path,
		sessions: []session.Session{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Path returns the backing file path.
func (h *JSONHistory) Path() string {
	return h.path
}

// LoadAll reads the history file. A missing file is created as an empty
// array. An unparseable file returns *ParseError and leaves memory untouched.
func (h *JSONHistory) LoadAll() ([]session.Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions, err := ReadHistoryFile(h.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err := WriteFileAtomic(h.path, []byte("[]\n")); err != nil {
			return nil, err
		}
		sessions = []session.Session{}
	}

	h.sessions = sessions
	return copySessions(h.sessions), nil
}

// Append adds s to memory, then persists the whole log. On *WriteError the
// session stays in memory.
func (h *JSONHistory) Append(s session.Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions = append(h.sessions, s)

	if h.backups {
		if err := CreateBackup(h.path); err != nil {
			h.logger.Warn("history backup failed", "path", h.path, "error", err)
		}
	}

	data, err := encodeSessions(h.sessions)
	if err != nil {
		return &WriteError{Path: h.path, Err: err}
	}
	return WriteFileAtomic(h.path, data)
}

// Sessions returns a copy of the in-memory log.
func (h *JSONHistory) Sessions() []session.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return copySessions(h.sessions)
}

// Close is a no-op for the file store.
func (h *JSONHistory) Close() error {
	return nil
}

// ReadHistoryFile parses a history file without touching any store state.
// Returns an error wrapping os.ErrNotExist when the file is missing and
// *ParseError when it is not a JSON array of valid sessions.
func ReadHistoryFile(path string) ([]session.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeSessions(path, data)
}

func decodeSessions(path string, data []byte) ([]session.Session, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Path: path, Err: errors.New("empty file")}
	}

	var sessions []session.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if sessions == nil {
		// "null" is valid JSON but not a history array
		return nil, &ParseError{Path: path, Err: errors.New("expected a JSON array")}
	}
	for i, s := range sessions {
		if err := s.Validate(); err != nil {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("session %d: %w", i+1, err)}
		}
	}
	return sessions, nil
}

func encodeSessions(sessions []session.Session) ([]byte, error) {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func copySessions(sessions []session.Session) []session.Session {
	out := make([]session.Session, len(sessions))
	copy(out, sessions)
	return out
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xolan/pomidor/internal/session"

	_ "modernc.org/sqlite"
)

// SQLiteHistory keeps the log in a SQLite table, one row per session.
// Row ids preserve insertion order.
type SQLiteHistory struct {
	mu       sync.Mutex
	db       *sql.DB
	path     string
	sessions []session.Session
}

// NewSQLiteHistory opens (or creates) the database at dbPath. An existing,
// non-empty file that cannot take the schema is reported as *ParseError.
func NewSQLiteHistory(dbPath string) (*SQLiteHistory, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	existing := false
	if info, err := os.Stat(dbPath); err == nil && info.Size() > 0 {
		existing = true
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	h := &SQLiteHistory{db: db, path: dbPath, sessions: []session.Session{}}
	if err := h.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		if existing {
			return nil, &ParseError{Path: dbPath, Err: errors.Unwrap(err)}
		}
		return nil, err
	}
	return h, nil
}

func (h *SQLiteHistory) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  date TEXT NOT NULL,
  time TEXT NOT NULL,
  duration INTEGER NOT NULL,
  label TEXT NOT NULL,
  completed INTEGER NOT NULL
);
`
	if _, err := h.db.ExecContext(ctx, ddl); err != nil {
		return &WriteError{Path: h.path, Err: fmt.Errorf("create sessions table: %w", err)}
	}
	return nil
}

// LoadAll reads every row in insertion order. Rows that do not validate are
// reported as *ParseError.
func (h *SQLiteHistory) LoadAll() ([]session.Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.db.QueryContext(context.Background(),
		`SELECT date, time, duration, label, completed FROM sessions ORDER BY id`)
	if err != nil {
		return nil, &ParseError{Path: h.path, Err: fmt.Errorf("query sessions: %w", err)}
	}
	defer func() { _ = rows.Close() }()

	sessions := []session.Session{}
	for rows.Next() {
		var s session.Session
		var completed int
		if err := rows.Scan(&s.Date, &s.Time, &s.Duration, &s.Label, &completed); err != nil {
			return nil, &ParseError{Path: h.path, Err: fmt.Errorf("scan session: %w", err)}
		}
		s.Completed = completed != 0
		if err := s.Validate(); err != nil {
			return nil, &ParseError{Path: h.path, Err: fmt.Errorf("session %d: %w", len(sessions)+1, err)}
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &ParseError{Path: h.path, Err: err}
	}

	h.sessions = sessions
	return copySessions(h.sessions), nil
}

// Append inserts s inside a transaction.
func (h *SQLiteHistory) Append(s session.Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions = append(h.sessions, s)

	ctx := context.Background()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Path: h.path, Err: fmt.Errorf("begin: %w", err)}
	}
	const stmt = `INSERT INTO sessions (date, time, duration, label, completed) VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, stmt, s.Date, s.Time, s.Duration, s.Label, boolToInt(s.Completed)); err != nil {
		_ = tx.Rollback()
		return &WriteError{Path: h.path, Err: fmt.Errorf("insert session: %w", err)}
	}
	if err := tx.Commit(); err != nil {
		return &WriteError{Path: h.path, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Sessions returns a copy of the in-memory log.
func (h *SQLiteHistory) Sessions() []session.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return copySessions(h.sessions)
}

// Close closes the database.
func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

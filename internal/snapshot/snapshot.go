// Package snapshot persists the single in-flight timer so it can be resumed
// after a restart.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xolan/pomidor/internal/osutil"
	"github.com/xolan/pomidor/internal/storage"
)

const (
	// SnapshotFile is the name of the JSON snapshot file
	SnapshotFile = "snapshot.json"
	// SchemaVersion is written into every active snapshot.
	SchemaVersion = 1
)

// ActiveTimer is the persisted projection of a running or paused timer.
type ActiveTimer struct {
	RemainingSeconds int
	Label            string
	InitialMinutes   int
	DisplayEnabled   bool
}

// Snapshot is either empty (no timer was active) or holds an ActiveTimer.
// An empty snapshot may still carry the display flag chosen while idle.
type Snapshot struct {
	Active *ActiveTimer
	// Display is the idle display flag. nil means it was never recorded.
	// Ignored when Active is set.
	Display *bool
}

// Empty returns the "no active timer" snapshot.
func Empty() Snapshot {
	return Snapshot{}
}

// Idle returns an empty snapshot that records the display flag.
func Idle(display bool) Snapshot {
	return Snapshot{Display: &display}
}

// Of returns a snapshot holding t.
func Of(t ActiveTimer) Snapshot {
	return Snapshot{Active: &t}
}

// IsEmpty reports whether no timer was active.
func (s Snapshot) IsEmpty() bool {
	return s.Active == nil
}

// wireSnapshot is the on-disk shape. Every field is optional so that the
// empty variant serializes as {}.
type wireSnapshot struct {
	Version         int     `json:"version,omitempty"`
	RemainingTime   *int    `json:"remaining_time,omitempty"`
	Label           *string `json:"label,omitempty"`
	InitialDuration *int    `json:"initial_duration,omitempty"`
	DisplayEnabled  *bool   `json:"display_enabled,omitempty"`
}

// Marshal encodes s. The empty snapshot encodes as {}, or as the display
// flag alone when one was recorded.
func Marshal(s Snapshot) ([]byte, error) {
	if s.IsEmpty() {
		if s.Display == nil {
			return []byte("{}\n"), nil
		}
		return encode(wireSnapshot{Version: SchemaVersion, DisplayEnabled: s.Display})
	}
	a := *s.Active
	return encode(wireSnapshot{
		Version:         SchemaVersion,
		RemainingTime:   &a.RemainingSeconds,
		Label:           &a.Label,
		InitialDuration: &a.InitialMinutes,
		DisplayEnabled:  &a.DisplayEnabled,
	})
}

func encode(w wireSnapshot) ([]byte, error) {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes data. A blank file, {} and a zero remaining_time all
// decode as empty, keeping display_enabled if present. A missing version is read as version 1.
func Unmarshal(data []byte) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Empty(), nil
	}

	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return Snapshot{}, err
	}
	if w.Version > SchemaVersion {
		return Snapshot{}, fmt.Errorf("unsupported snapshot version %d", w.Version)
	}
	if w.RemainingTime == nil || *w.RemainingTime == 0 {
		return Snapshot{Display: w.DisplayEnabled}, nil
	}
	if *w.RemainingTime < 0 {
		return Snapshot{}, fmt.Errorf("negative remaining_time %d", *w.RemainingTime)
	}

	a := ActiveTimer{RemainingSeconds: *w.RemainingTime, DisplayEnabled: true}
	if w.Label != nil {
		a.Label = *w.Label
	}
	if w.InitialDuration != nil {
		a.InitialMinutes = *w.InitialDuration
	}
	if w.DisplayEnabled != nil {
		a.DisplayEnabled = *w.DisplayEnabled
	}
	return Of(a), nil
}

// Store is a single-slot snapshot store. Last write wins.
type Store interface {
	Write(s Snapshot) error
	Read() (Snapshot, error)
}

// GetSnapshotPath returns the path to the snapshot file.
func GetSnapshotPath() (string, error) {
	return osutil.AppFile(SnapshotFile)
}

// FileStore keeps the snapshot in a JSON file written atomically.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Write replaces the snapshot. Failures are *storage.WriteError.
func (f *FileStore) Write(s Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return &storage.WriteError{Path: f.path, Err: err}
	}
	return storage.WriteFileAtomic(f.path, data)
}

// Read returns the last written snapshot, or Empty if the file is absent.
// Unparseable content is a *storage.ParseError.
func (f *FileStore) Read() (Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	s, err := Unmarshal(data)
	if err != nil {
		return Snapshot{}, &storage.ParseError{Path: f.path, Err: err}
	}
	return s, nil
}

package storage

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// Watcher reports changes to a single file. It watches the parent directory
// because atomic writes replace the file with a rename.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// WatchFile calls onChange (debounced) whenever path is written, created or
// replaced.
func WatchFile(path string, onChange func(), logger *slog.Logger) (*Watcher, error) {
	fsW, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsW.Add(filepath.Dir(path)); err != nil {
		_ = fsW.Close()
		return nil, err
	}

	w := &Watcher{fsWatcher: fsW, done: make(chan struct{})}
	go w.loop(filepath.Clean(path), onChange, logger)
	return w, nil
}

func (w *Watcher) loop(path string, onChange func(), logger *slog.Logger) {
	var timer *time.Timer

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, onChange)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if logger != nil {
				logger.Warn("history watcher error", "path", path, "error", err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

package storage

import (
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temp file in the same directory, syncs it,
// and renames it over path. Readers see either the old or the new content.
// Failures are returned as *WriteError.
func WriteFileAtomic(path string, data []byte) error {
	if err := writeFileAtomic(path, data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpFile := file.Name()

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}
	if err := os.Chmod(tmpFile, 0644); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}
	return nil
}

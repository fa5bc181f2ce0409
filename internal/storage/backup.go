package storage

import (
	"fmt"
	"io"
	"os"
)

const (
	// BackupSuffix is the file extension for backup files
	BackupSuffix = ".bak"
	// MaxBackupCount is the maximum number of backup files to keep
	MaxBackupCount = 3
)

// BackupPath returns the path of backup n for the file at path.
// Backups are named history.json.bak.N; lower numbers are more recent.
func BackupPath(path string, n int) string {
	return fmt.Sprintf("%s%s.%d", path, BackupSuffix, n)
}

// rotateBackups shifts .bak.1 -> .bak.2 -> .bak.3, dropping the oldest.
// Missing files are skipped.
func rotateBackups(path string) error {
	if err := os.Remove(BackupPath(path, MaxBackupCount)); err != nil && !os.IsNotExist(err) {
		return err
	}

	for i := MaxBackupCount - 1; i >= 1; i-- {
		if err := os.Rename(BackupPath(path, i), BackupPath(path, i+1)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// CreateBackup rotates existing backups and copies path to .bak.1.
// A missing file is not an error.
func CreateBackup(path string) error {
	source, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer func() { _ = source.Close() }()

	if err := rotateBackups(path); err != nil {
		return err
	}

	dest, err := os.Create(BackupPath(path, 1))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dest, source); err != nil {
		_ = dest.Close()
		return err
	}
	return dest.Close()
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	Number   int // 1 is the most recent
	Path     string
	Sessions int // number of sessions in the backup, -1 if unparseable
}

// ListBackups returns the existing backups of path, most recent first.
func ListBackups(path string) ([]BackupInfo, error) {
	var backups []BackupInfo

	for i := 1; i <= MaxBackupCount; i++ {
		backupPath := BackupPath(path, i)
		if _, err := os.Stat(backupPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		count := -1
		if sessions, err := ReadHistoryFile(backupPath); err == nil {
			count = len(sessions)
		}
		backups = append(backups, BackupInfo{Number: i, Path: backupPath, Sessions: count})
	}

	return backups, nil
}

// RestoreBackup replaces the history file at path with backup n. The backup
// must parse as valid history. The current file is itself backed up first.
func RestoreBackup(path string, n int) ([]byte, error) {
	if n < 1 || n > MaxBackupCount {
		return nil, fmt.Errorf("invalid backup number %d, must be between 1 and %d", n, MaxBackupCount)
	}

	backupPath := BackupPath(path, n)
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup %d does not exist", n)
		}
		return nil, err
	}
	if _, err := decodeSessions(backupPath, data); err != nil {
		return nil, err
	}

	// data is already in memory, so rotating .bak.N away is safe
	if err := CreateBackup(path); err != nil {
		return nil, err
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return nil, err
	}
	return data, nil
}

package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// StagedFile is fully written content waiting in a temp file next to its
// destination. Commit renames it into place; Discard removes it.
type StagedFile struct {
	Path    string
	tmpPath string
}

// StageFile writes data to a synced temporary file in path's directory.
func StageFile(path string, data []byte, mode os.FileMode) (*StagedFile, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return nil, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}
	return &StagedFile{Path: path, tmpPath: tmpPath}, nil
}

// Commit renames the staged content onto Path. The temp file is removed when
// the rename fails.
func (s *StagedFile) Commit() error {
	if err := os.Rename(s.tmpPath, s.Path); err != nil {
		s.Discard()
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Discard removes the temp file. It is a no-op after a successful Commit.
func (s *StagedFile) Discard() {
	_ = os.Remove(s.tmpPath)
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	staged, err := StageFile(path, data, mode)
	if err != nil {
		return err
	}
	return staged.Commit()
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return nil
}

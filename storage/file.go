package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File is a [Slot] backed by a single JSON file. The file is written with
// 0600 permissions; the session token is a credential.
type File struct {
	path string
}

// NewFile creates a file-backed slot at path. The parent directory is
// created on first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the slot file. A missing file is [ErrSlotEmpty].
func (f *File) Load(context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	return data, nil
}

// Save overwrites the slot file.
func (f *File) Save(_ context.Context, data []byte) error {
	if dir := filepath.Dir(f.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storage: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("storage: write %s: %w", f.path, err)
	}
	return nil
}

// Clear removes the slot file. Clearing an absent file is a no-op.
func (f *File) Clear(context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", f.path, err)
	}
	return nil
}

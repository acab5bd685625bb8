package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// SnapshotFile overwrites a single file with a complete snapshot on every
// write. Readers never observe a partially written file.
type SnapshotFile struct {
	mu       sync.Mutex
	filePath string
}

// NewSnapshotFile creates a snapshot file at the specified path, creating
// its parent directory if needed.
func NewSnapshotFile(path string) (*SnapshotFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	return &SnapshotFile{filePath: path}, nil
}

// Path returns the destination file path.
func (s *SnapshotFile) Path() string {
	return s.filePath
}

// SaveJSON writes data as indented JSON.
func (s *SnapshotFile) SaveJSON(data interface{}) error {
	return s.write(func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	})
}

// Save replaces the file with whatever encode writes. The previous contents
// survive if encode fails.
func (s *SnapshotFile) Save(encode func(io.Writer) error) error {
	return s.write(encode)
}

func (s *SnapshotFile) write(encode func(io.Writer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to temp file first, then rename (atomic operation)
	tempFile := s.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	if err := encode(file); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, s.filePath)
}

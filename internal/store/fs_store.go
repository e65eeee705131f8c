package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/hack-pad/hackpadfs"
)

// FileStore persists the session document as a JSON file on a hackpadfs.FS.
// In the browser the FS is IndexedDB-backed; tests use hackpadfs/mem.
type FileStore struct {
	FS   hackpadfs.FS
	Path string
	mu   sync.RWMutex
}

// NewFileStore creates a FileStore writing to path. An empty path uses DefaultKey.
func NewFileStore(fsys hackpadfs.FS, path string) *FileStore {
	if path == "" {
		path = DefaultKey + ".json"
	}
	return &FileStore{FS: fsys, Path: path}
}

// Load reads the document from FS.
func (s *FileStore) Load(ctx context.Context) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, err := hackpadfs.ReadFile(s.FS, s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return decodeDocument(content)
}

// Save persists the document to FS.
func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := hackpadfs.WriteFullFile(s.FS, s.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	return nil
}

// Close is a no-op; the FS outlives the store.
func (s *FileStore) Close() error {
	return nil
}

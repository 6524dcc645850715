// ABOUTME: File-backed store keeping all keys in one JSON object
// ABOUTME: Lives in the XDG config directory with owner-only permissions

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const sessionFileName = "session.json"

// FileStore keeps every key in a single JSON object on disk. The file is
// re-read on every Get so that another process logging out is observed.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a file store rooted at dir. The directory is created
// lazily on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the location of the backing file.
func (fs *FileStore) Path() string {
	return filepath.Join(fs.dir, sessionFileName)
}

func (fs *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (fs *FileStore) Set(_ context.Context, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.load()
	if err != nil {
		return err
	}
	data[key] = value
	return fs.save(data)
}

func (fs *FileStore) Delete(_ context.Context, keys ...string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := fs.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(data, k)
	}
	return fs.save(data)
}

// load reads the backing file. A missing or unparseable file reads as empty.
func (fs *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(fs.Path())
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	data := map[string]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Warn("Ignoring unreadable session file", "path", fs.Path(), "error", err)
		return map[string]string{}, nil
	}
	if data == nil {
		// A literal null decodes to a nil map.
		data = map[string]string{}
	}
	return data, nil
}

func (fs *FileStore) save(data map[string]string) error {
	if err := os.MkdirAll(fs.dir, 0700); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fs.dir, sessionFileName+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, fs.Path())
}

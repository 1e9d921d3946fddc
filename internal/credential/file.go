package credential

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileMu serializes access to credential files across all FileStore
// instances, which may share one path under different keys.
var fileMu sync.Mutex

// FileStore keeps a named value in a JSON map on disk. It is the
// long-lived tier of the fallback chain, the counterpart of browser
// local storage. Several stores (token, remembered email, endpoint
// override) typically share a single file.
type FileStore struct {
	path string
	key  string
}

// NewFileStore creates a store bound to one key inside path.
func NewFileStore(path, key string) *FileStore {
	return &FileStore{path: path, key: key}
}

// Name identifies the store.
func (s *FileStore) Name() string { return "file" }

// Read returns the value for the store's key, or "" when the file or key
// is absent.
func (s *FileStore) Read() (string, error) {
	fileMu.Lock()
	defer fileMu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	return values[s.key], nil
}

// Write persists the value. File entries have no expiry; ttl is ignored.
func (s *FileStore) Write(value string, _ time.Duration) error {
	fileMu.Lock()
	defer fileMu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[s.key] = value
	return s.save(values)
}

// Clear removes the store's key from the file.
func (s *FileStore) Clear() error {
	fileMu.Lock()
	defer fileMu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[s.key]; !ok {
		return nil
	}
	delete(values, s.key)
	return s.save(values)
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt file is treated as empty rather than fatal.
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

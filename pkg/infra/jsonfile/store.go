package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// Store persists last-seen entries as a single JSON object on local disk.
// This is the default backend: one key per repository, value is the RFC3339
// UTC timestamp of the most recent reported release.
type Store struct {
	path    string
	mu      sync.Mutex
	entries map[string]string
}

// New opens the store at path, loading existing entries when the file is
// present. A missing file is a fresh store; an unreadable or corrupt file is
// a fatal persistence error because dedup correctness cannot be guaranteed.
func New(path string) (*Store, error) {
	s := &Store{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, goerr.Wrap(err, "failed to read state file", goerr.V("path", path))
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, goerr.Wrap(err, "state file is corrupt", goerr.V("path", path))
	}

	return s, nil
}

func (s *Store) GetLastSeen(ctx context.Context, repo string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[repo], nil
}

// PutLastSeen upserts the entry and flushes the whole map to disk with a
// write-and-rename so a crash never leaves a half-written state file.
func (s *Store) PutLastSeen(ctx context.Context, repo, publishedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[repo] = publishedAt

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode state")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".lookout-state-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary state file")
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return goerr.Wrap(err, "failed to write state file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return goerr.Wrap(err, "failed to close state file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return goerr.Wrap(err, "failed to replace state file", goerr.V("path", s.path))
	}

	return nil
}

func (s *Store) Close() error {
	return nil
}

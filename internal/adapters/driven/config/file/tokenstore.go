package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/docfoundry/docfoundry-cli/internal/core/ports/driven"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

// Ensure TokenStore implements the interfaces.
var (
	_ driven.TokenStore   = (*TokenStore)(nil)
	_ driven.TokenWatcher = (*TokenStore)(nil)
)

// CredentialsFile is the name of the token file inside the config directory.
const CredentialsFile = "credentials.toml"

// TokenStore keeps tokens in a 0600 TOML file. Every call re-reads the
// file, so a login performed by another process is picked up.
type TokenStore struct {
	mu       sync.Mutex
	filePath string
}

// NewTokenStore creates a token store in configDir.
// If configDir is empty, defaults to ~/.docfoundry.
func NewTokenStore(configDir string) (*TokenStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}
	return &TokenStore{filePath: filepath.Join(configDir, CredentialsFile)}, nil
}

// Path returns the credentials file path.
func (s *TokenStore) Path() string {
	return s.filePath
}

// Load returns the value stored under key, or "" if there is none.
func (s *TokenStore) Load(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Save stores value under key.
func (s *TokenStore) Save(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

// Delete removes key. The file is removed once it holds nothing.
func (s *TokenStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	if len(values) == 0 {
		if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return s.write(values)
}

// Watch calls onChange whenever the credentials file is written, created,
// removed or renamed. The directory is watched rather than the file so
// that the file may come and go. Watch blocks until ctx is cancelled.
func (s *TokenStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Debug("Watching %s for token changes", s.filePath)

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.filePath) || ev.Op&relevant == 0 {
				continue
			}
			logger.Debug("Token file event: %s", ev.Op)
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Token watcher error: %v", err)
		}
	}
}

// read loads the file (caller must hold lock). A missing file is empty.
func (s *TokenStore) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	return values, nil
}

// write replaces the file atomically (caller must hold lock).
func (s *TokenStore) write(values map[string]string) error {
	data, err := toml.Marshal(values)
	if err != nil {
		return err
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}

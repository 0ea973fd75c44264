package identitysvc

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
)

// FileCredentialStore persists the bearer token in a mode-0600 file,
// for the CLI and other single-user processes.
type FileCredentialStore struct {
	mu   sync.Mutex
	path string
}

var _ auth.CredentialStore = (*FileCredentialStore)(nil)

func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

// DefaultCredentialPath returns the per-user credential file location,
// e.g. ~/.config/academia/credentials on Linux.
func DefaultCredentialPath(appName string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving user config dir")
	}
	return filepath.Join(dir, core.CleanString(appName, true /* lower */), "credentials"), nil
}

func (s *FileCredentialStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "reading credential file")
	}
	return core.CleanString(string(data)), nil
}

func (s *FileCredentialStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating credential dir")
	}
	return errors.Wrap(os.WriteFile(s.path, []byte(token+"\n"), 0o600), "writing credential file")
}

func (s *FileCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing credential file")
	}
	return nil
}

// MemoryCredentialStore holds the token in memory only; the web app uses one
// per browser session, seeded from the session cookie.
type MemoryCredentialStore struct {
	mu    sync.Mutex
	token string
}

var _ auth.CredentialStore = (*MemoryCredentialStore)(nil)

func NewMemoryCredentialStore(token string) *MemoryCredentialStore {
	return &MemoryCredentialStore{token: token}
}

func (s *MemoryCredentialStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryCredentialStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Credentials is the durable on-disk session state. A cleared session
// is represented by the file being absent.
type Credentials struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

// CredentialStore persists the session token between runs.
type CredentialStore struct {
	path string
}

// NewCredentialStore creates a store backed by the given file path.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// DefaultCredentialPath returns the standard credentials location under
// the user config directory.
func DefaultCredentialPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cmsctl", "credentials.json"), nil
}

// Load reads the persisted credentials. A missing file is not an
// error; it yields empty credentials.
func (s *CredentialStore) Load() (Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, nil
		}
		return Credentials{}, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Save writes the credentials with owner-only permissions.
func (s *CredentialStore) Save(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the persisted credentials. Clearing an already-empty
// store is not an error.
func (s *CredentialStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

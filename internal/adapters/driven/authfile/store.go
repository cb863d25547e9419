// Package authfile persists the captured browser-session credential.
//
// The credential lives in a small TOML file with owner-only permissions.
// The query core only ever reads it; writing happens exclusively through
// the interactive capture flow in the CLI. There is no refresh mechanism:
// when the backend rejects the credential the file must be re-captured.
package authfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

// FileName is the credential file name inside the config directory.
const FileName = "credentials.toml"

// credentialFile is the on-disk TOML shape.
type credentialFile struct {
	SessionCookie string    `toml:"session_cookie"`
	CSRFToken     string    `toml:"csrf_token"`
	BaseURL       string    `toml:"base_url,omitempty"`
	CapturedAt    time.Time `toml:"captured_at"`
}

// Store reads and writes the credential file.
type Store struct {
	filePath string
}

// NewStore creates a store rooted at configDir.
// If configDir is empty, defaults to ~/.ddwatch.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".ddwatch")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &Store{filePath: filepath.Join(configDir, FileName)}, nil
}

// Load reads the credential from disk.
// Returns domain.ErrNotConfigured when the file is missing or lacks either
// secret, so callers can point the user at the capture flow.
func (s *Store) Load() (*domain.Credential, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", domain.ErrNotConfigured, s.filePath)
		}
		return nil, fmt.Errorf("reading credential file: %w", err)
	}

	var f credentialFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing credential file %s: %w", s.filePath, err)
	}

	cred := &domain.Credential{
		SessionCookie: f.SessionCookie,
		CSRFToken:     f.CSRFToken,
		BaseURL:       f.BaseURL,
		CapturedAt:    f.CapturedAt,
	}
	if cred.BaseURL == "" {
		cred.BaseURL = domain.DefaultBaseURL
	}

	if !cred.IsComplete() {
		return nil, fmt.Errorf("%w: %s is missing session_cookie or csrf_token", domain.ErrNotConfigured, s.filePath)
	}

	return cred, nil
}

// Save writes the credential with restricted permissions. Only the capture
// flow calls this; the query core treats credentials as read-only input.
func (s *Store) Save(cred *domain.Credential) error {
	if !cred.IsComplete() {
		return fmt.Errorf("%w: refusing to save incomplete credential", domain.ErrNotConfigured)
	}

	f := credentialFile{
		SessionCookie: cred.SessionCookie,
		CSRFToken:     cred.CSRFToken,
		CapturedAt:    cred.CapturedAt,
	}
	if f.CapturedAt.IsZero() {
		f.CapturedAt = time.Now()
	}
	// Only persist non-default base URLs so the default can change centrally.
	if cred.BaseURL != "" && cred.BaseURL != domain.DefaultBaseURL {
		f.BaseURL = cred.BaseURL
	}

	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding credential file: %w", err)
	}

	return os.WriteFile(s.filePath, data, 0600)
}

// Clear removes the credential file. Clearing an absent file is not an
// error.
func (s *Store) Clear() error {
	err := os.Remove(s.filePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credential file: %w", err)
	}
	return nil
}

// Path returns the credential file path, for user-facing messages.
func (s *Store) Path() string {
	return s.filePath
}

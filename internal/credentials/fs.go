package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dvcrn/cronofy-go"
)

// FSStore keeps credentials in a JSON file readable only by the owner.
type FSStore struct {
	Path string

	mu sync.Mutex
}

func NewFSStore(path string) *FSStore {
	return &FSStore{Path: path}
}

func (f *FSStore) Load() (*cronofy.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *FSStore) read() (*cronofy.Credentials, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	var c cronofy.Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return nil, fmt.Errorf("missing client_id or client_secret in %s", f.Path)
	}
	return &c, nil
}

// SaveTokens replaces the token pair, keeping the client credentials.
func (f *FSStore) SaveTokens(accessToken, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, err := f.read()
	if err != nil {
		return err
	}
	c.AccessToken = accessToken
	c.RefreshToken = refreshToken
	return writeFile(f.Path, c)
}

// Init replaces the file with creds.
func (f *FSStore) Init(creds cronofy.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return InitFile(f.Path, creds)
}

// InitFile writes a new credentials file, creating parent directories.
func InitFile(path string, creds cronofy.Credentials) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}
	return writeFile(path, &creds)
}

func writeFile(path string, c *cronofy.Credentials) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to chmod credentials file: %w", err)
	}
	return nil
}

package credentials

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"

	"github.com/dvcrn/cronofy-go"
	"github.com/rs/zerolog"
)

const (
	keychainService = "cronofy-credentials"
	keychainAccount = "cronofy"
)

type commandRunner func(stdin []byte, name string, args ...string) ([]byte, error)

func runCommand(stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	return cmd.Output()
}

// KeychainStore keeps the credentials JSON as a macOS keychain generic
// password, read and written through the security command.
type KeychainStore struct {
	mu      sync.Mutex
	run     commandRunner
	logger  zerolog.Logger
	service string
}

func NewKeychainStore(logger zerolog.Logger) *KeychainStore {
	return &KeychainStore{
		run:     runCommand,
		logger:  logger,
		service: keychainService,
	}
}

func (k *KeychainStore) Load() (*cronofy.Credentials, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.read()
}

func (k *KeychainStore) read() (*cronofy.Credentials, error) {
	output, err := k.run(nil, "security", "find-generic-password", "-s", k.service, "-w")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve password from Keychain: %w", err)
	}

	var c cronofy.Credentials
	if err := json.Unmarshal(output, &c); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from keychain: %w", err)
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return nil, fmt.Errorf("client_id or client_secret is empty in keychain credentials")
	}
	return &c, nil
}

func (k *KeychainStore) SaveTokens(accessToken, refreshToken string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	c, err := k.read()
	if err != nil {
		return err
	}
	c.AccessToken = accessToken
	c.RefreshToken = refreshToken
	if err := k.write(c); err != nil {
		return err
	}
	k.logger.Debug().Str("service", k.service).Msg("🔑 Saved tokens to keychain")
	return nil
}

// Init stores a fresh set of credentials, replacing any existing entry.
func (k *KeychainStore) Init(creds cronofy.Credentials) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.write(&creds)
}

func (k *KeychainStore) write(c *cronofy.Credentials) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	// The password goes to security's interactive mode on stdin, hex encoded,
	// so it never appears in the process list.
	script := fmt.Sprintf("add-generic-password -U -s %s -a %s -X %s\n", k.service, keychainAccount, hex.EncodeToString(data))
	if _, err := k.run([]byte(script), "security", "-i"); err != nil {
		return fmt.Errorf("failed to update keychain: %w", err)
	}
	return nil
}

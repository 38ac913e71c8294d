//go:build js && wasm

package credentials

import (
	"encoding/json"
	"fmt"

	"github.com/dvcrn/cronofy-go"
	"github.com/syumai/workers/cloudflare/kv"
)

const (
	kvNamespace = "cronofy_kv"
	kvKey       = "cronofy_credentials"
)

// KVStore keeps credentials in a Cloudflare KV namespace bound to the worker.
type KVStore struct {
	ns *kv.Namespace
}

func NewKVStore() (*KVStore, error) {
	ns, err := kv.NewNamespace(kvNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize KV namespace: %w", err)
	}
	return &KVStore{ns: ns}, nil
}

func (s *KVStore) Load() (*cronofy.Credentials, error) {
	raw, err := s.ns.GetString(kvKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials from KV: %w", err)
	}
	if raw == "" {
		return nil, fmt.Errorf("no credentials found in KV")
	}

	var c cronofy.Credentials
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("failed to parse credentials JSON: %w", err)
	}
	return &c, nil
}

func (s *KVStore) SaveTokens(accessToken, refreshToken string) error {
	c, err := s.Load()
	if err != nil {
		return err
	}
	c.AccessToken = accessToken
	c.RefreshToken = refreshToken
	return s.put(c)
}

// Init seeds the namespace with client credentials and optional tokens.
func (s *KVStore) Init(creds cronofy.Credentials) error {
	return s.put(&creds)
}

func (s *KVStore) put(c *cronofy.Credentials) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := s.ns.PutString(kvKey, string(data), nil); err != nil {
		return fmt.Errorf("failed to store credentials in KV: %w", err)
	}
	return nil
}

var (
	_ Store       = (*KVStore)(nil)
	_ Initializer = (*KVStore)(nil)
)

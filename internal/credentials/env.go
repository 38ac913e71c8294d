package credentials

import (
	"fmt"
	"os"

	"github.com/dvcrn/cronofy-go"
)

const (
	EnvClientID     = "CRONOFY_CLIENT_ID"
	EnvClientSecret = "CRONOFY_CLIENT_SECRET"
	EnvAccessToken  = "CRONOFY_ACCESS_TOKEN"
	EnvRefreshToken = "CRONOFY_REFRESH_TOKEN"
)

// EnvStore reads credentials from environment variables. Refreshed tokens
// only live in memory.
type EnvStore struct{}

func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

func (e *EnvStore) Load() (*cronofy.Credentials, error) {
	c := &cronofy.Credentials{
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		AccessToken:  os.Getenv(EnvAccessToken),
		RefreshToken: os.Getenv(EnvRefreshToken),
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return nil, fmt.Errorf("%s and %s must be set", EnvClientID, EnvClientSecret)
	}
	return c, nil
}

func (e *EnvStore) SaveTokens(accessToken, refreshToken string) error {
	return ErrReadOnly
}

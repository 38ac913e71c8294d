package credentials

import (
	"errors"

	"github.com/dvcrn/cronofy-go"
)

// ErrReadOnly is returned by stores that cannot persist tokens.
var ErrReadOnly = errors.New("credential store is read-only")

// Store loads Cronofy credentials and persists the token pair after every
// successful OAuth exchange. It satisfies cronofy.TokenStore.
type Store interface {
	Load() (*cronofy.Credentials, error)
	SaveTokens(accessToken, refreshToken string) error
}

// Initializer is implemented by stores that can be seeded with a fresh set
// of credentials.
type Initializer interface {
	Init(creds cronofy.Credentials) error
}

var (
	_ Initializer = (*FSStore)(nil)
	_ Initializer = (*KeychainStore)(nil)

	_ Store = (*FSStore)(nil)
	_ Store = (*EnvStore)(nil)
	_ Store = (*KeychainStore)(nil)
)

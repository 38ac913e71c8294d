// Package app wires configuration, credential storage and logging into a
// cronofy.Client and the webhook receiver.
package app

import (
	"fmt"

	"github.com/dvcrn/cronofy-go"
	"github.com/dvcrn/cronofy-go/internal/config"
	"github.com/dvcrn/cronofy-go/internal/credentials"
	"github.com/dvcrn/cronofy-go/internal/webhook"
	"github.com/rs/zerolog"
)

// StoreOptions pick where credentials are kept.
type StoreOptions struct {
	CredsPath   string
	UseKeychain bool
	UseEnv      bool
}

// NewStore returns the credential store selected by opts, defaulting to the
// JSON file named in the config.
func NewStore(opts StoreOptions, cfg *config.Config, log zerolog.Logger) credentials.Store {
	switch {
	case opts.UseKeychain:
		log.Debug().Msg("🔑 Using keychain credential store")
		return credentials.NewKeychainStore(log)
	case opts.UseEnv:
		log.Debug().Msg("📝 Using environment credential store")
		return credentials.NewEnvStore()
	}

	path := opts.CredsPath
	if path == "" {
		path = cfg.CredentialsPath
	}
	log.Debug().Str("path", path).Msg("📄 Using filesystem credential store")
	return credentials.NewFSStore(path)
}

// LoadCredentials reads the store and fills missing client credentials from
// the config.
func LoadCredentials(store credentials.Store, cfg *config.Config) (cronofy.Credentials, error) {
	creds := cronofy.Credentials{ClientID: cfg.ClientID, ClientSecret: cfg.ClientSecret}

	stored, err := store.Load()
	if err != nil {
		if creds.ClientID == "" || creds.ClientSecret == "" {
			return cronofy.Credentials{}, fmt.Errorf("load credentials: %w", err)
		}
		return creds, nil
	}

	if stored.ClientID == "" {
		stored.ClientID = creds.ClientID
	}
	if stored.ClientSecret == "" {
		stored.ClientSecret = creds.ClientSecret
	}
	return *stored, nil
}

// NewClient builds a client whose refreshed tokens are written back to store.
func NewClient(store credentials.Store, cfg *config.Config, log zerolog.Logger) (*cronofy.Client, error) {
	creds, err := LoadCredentials(store, cfg)
	if err != nil {
		return nil, err
	}
	logCredentials(creds, log)

	opts := append(cfg.ClientOptions(),
		cronofy.WithLogger(log),
		cronofy.WithTokenStore(store),
	)
	return cronofy.New(creds, opts...), nil
}

// NewWebhookServer creates the notification receiver for the configured path.
// The client secret used to verify signatures is read from store on every
// notification, falling back to the config, so a store seeded after startup
// takes effect without a restart. The admin credential endpoints are enabled
// when an admin API key is configured and store can be seeded.
func NewWebhookServer(cfg *config.Config, handler webhook.Handler, store credentials.Store, log zerolog.Logger) (*webhook.Server, error) {
	opts := []webhook.Option{
		webhook.WithPath(cfg.Webhook.Path),
		webhook.WithLogger(log),
	}
	if admin, ok := store.(webhook.CredentialStore); ok && cfg.AdminAPIKey != "" {
		opts = append(opts, webhook.WithAdmin(cfg.AdminAPIKey, admin))
	}
	return webhook.New(ClientSecret(store, cfg), handler, opts...)
}

// ClientSecret resolves the client secret from store and cfg each time it is
// called.
func ClientSecret(store credentials.Store, cfg *config.Config) webhook.SecretFunc {
	return func() (string, error) {
		creds, err := LoadCredentials(store, cfg)
		if err != nil {
			return "", err
		}
		return creds.ClientSecret, nil
	}
}

func logCredentials(creds cronofy.Credentials, log zerolog.Logger) {
	if creds.AccessToken == "" {
		log.Warn().Msg("⚠️  No access token stored, run `cronofy auth exchange` first")
		return
	}
	log.Debug().
		Int("token_length", len(creds.AccessToken)).
		Bool("has_refresh_token", creds.RefreshToken != "").
		Msg("✅ Credentials loaded")
}

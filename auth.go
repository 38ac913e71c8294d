package cronofy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	grantTypeAuthorizationCode = "authorization_code"
	grantTypeRefreshToken      = "refresh_token"
)

// Credentials identifies an application and, once authorized, an account.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// TokenStore persists a freshly issued token pair.
type TokenStore interface {
	SaveTokens(accessToken, refreshToken string) error
}

// tokenRequest is the body of POST /oauth/token.
type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
	Code         string `json:"code,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
}

// tokenResponse covers both the success and the error shape of the token endpoint.
type tokenResponse struct {
	TokenType        string `json:"token_type"`
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	Scope            string `json:"scope"`
	AccountID        string `json:"account_id"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type revokeRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Token        string `json:"token"`
}

// CredentialManager owns the client identity and the current token pair.
// The access and refresh tokens are only ever replaced together, and only by
// a successful exchange.
type CredentialManager struct {
	t       *transport
	appRoot string
	store   TokenStore
	logger  zerolog.Logger

	mu           sync.RWMutex
	clientID     string
	clientSecret string
	accessToken  string
	refreshToken string
	expiry       time.Time
}

// NewCredentialManager creates a manager that talks to the default API hosts.
// Most callers get one through New instead.
func NewCredentialManager(creds Credentials, opts ...Option) *CredentialManager {
	return New(creds, opts...).CredentialManager
}

func newCredentialManager(creds Credentials, t *transport, appRoot string, store TokenStore, logger zerolog.Logger) *CredentialManager {
	return &CredentialManager{
		t:            t,
		appRoot:      appRoot,
		store:        store,
		logger:       logger,
		clientID:     creds.ClientID,
		clientSecret: creds.ClientSecret,
		accessToken:  creds.AccessToken,
		refreshToken: creds.RefreshToken,
	}
}

// AccessToken returns the current bearer token, empty before authorization.
func (m *CredentialManager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

// RefreshToken returns the current refresh token, empty before authorization.
func (m *CredentialManager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshToken
}

// Credentials returns a snapshot of the identity and token pair.
func (m *CredentialManager) Credentials() Credentials {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Credentials{
		ClientID:     m.clientID,
		ClientSecret: m.clientSecret,
		AccessToken:  m.accessToken,
		RefreshToken: m.refreshToken,
	}
}

// ExchangeAuthorizationCode trades the code from the authorization redirect
// for a token pair.
func (m *CredentialManager) ExchangeAuthorizationCode(ctx context.Context, redirectURI, code string) error {
	m.mu.RLock()
	req := tokenRequest{
		ClientID:     m.clientID,
		ClientSecret: m.clientSecret,
		GrantType:    grantTypeAuthorizationCode,
		Code:         code,
		RedirectURI:  redirectURI,
	}
	m.mu.RUnlock()

	return m.exchange(ctx, req)
}

// Refresh obtains a new token pair with the stored refresh token.
func (m *CredentialManager) Refresh(ctx context.Context) error {
	m.mu.RLock()
	req := tokenRequest{
		ClientID:     m.clientID,
		ClientSecret: m.clientSecret,
		GrantType:    grantTypeRefreshToken,
		RefreshToken: m.refreshToken,
	}
	m.mu.RUnlock()

	if req.RefreshToken == "" {
		return ErrNoRefreshToken
	}
	return m.exchange(ctx, req)
}

func (m *CredentialManager) exchange(ctx context.Context, req tokenRequest) error {
	if req.ClientID == "" || req.ClientSecret == "" {
		return ErrMissingClientCredentials
	}

	var resp tokenResponse
	err := m.t.do(ctx, http.MethodPost, m.t.url("/oauth/token"), m.t.authHeaders(m.AccessToken(), true), req, &resp)
	if err != nil {
		m.logger.Error().Err(err).Str("grant_type", req.GrantType).Msg("❌ Token exchange failed")
		return fmt.Errorf("%s exchange: %w", req.GrantType, err)
	}

	if resp.AccessToken == "" {
		m.logger.Error().
			Str("grant_type", req.GrantType).
			Str("error", resp.Error).
			Msg("❌ Token endpoint returned no access token")
		return &AuthExchangeError{Code: resp.Error, Description: resp.ErrorDescription}
	}

	m.mu.Lock()
	m.accessToken = resp.AccessToken
	m.refreshToken = resp.RefreshToken
	m.expiry = expiryFromNow(resp.ExpiresIn)
	m.mu.Unlock()

	m.logger.Info().
		Str("grant_type", req.GrantType).
		Int("expires_in", resp.ExpiresIn).
		Msg("✅ OAuth tokens updated")

	if m.store != nil {
		if err := m.store.SaveTokens(resp.AccessToken, resp.RefreshToken); err != nil {
			// The in-memory pair stays current; only persistence is behind.
			m.logger.Error().Err(err).Msg("❌ Failed to persist OAuth tokens")
		}
	}

	return nil
}

// Revoke invalidates an access or refresh token remotely. The locally held
// tokens are left untouched; discard the manager if the revocation is meant
// to be permanent.
func (m *CredentialManager) Revoke(ctx context.Context, token string) error {
	m.mu.RLock()
	req := revokeRequest{
		ClientID:     m.clientID,
		ClientSecret: m.clientSecret,
		Token:        token,
	}
	m.mu.RUnlock()

	if req.ClientID == "" || req.ClientSecret == "" {
		return ErrMissingClientCredentials
	}

	if err := m.t.do(ctx, http.MethodPost, m.t.url("/oauth/token/revoke"), m.t.authHeaders(m.AccessToken(), true), req, nil); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	return nil
}

// AuthorizationURLParams are the inputs of AuthorizationURL.
type AuthorizationURLParams struct {
	RedirectURI  string
	Scope        []string
	State        string
	// AvoidLinking adds avoid_linking=1.
	AvoidLinking bool
}

// AuthorizationURL builds the URL a user visits to grant access.
func (m *CredentialManager) AuthorizationURL(p AuthorizationURLParams) string {
	var b strings.Builder
	b.WriteString(m.appRoot)
	b.WriteString("/oauth/authorize?response_type=code&client_id=")
	b.WriteString(m.clientIDSnapshot())
	b.WriteString("&redirect_uri=")
	b.WriteString(url.QueryEscape(p.RedirectURI))
	b.WriteString("&scope=")
	b.WriteString(strings.Join(p.Scope, " "))
	if p.State != "" {
		b.WriteString("&state=")
		b.WriteString(p.State)
	}
	if p.AvoidLinking {
		b.WriteString("&avoid_linking=1")
	}
	return b.String()
}

// EnterpriseConnectParams are the inputs of EnterpriseConnectAuthorizationURL.
type EnterpriseConnectParams struct {
	RedirectURI    string
	Scope          []string
	DelegatedScope []string
	State          string
}

// EnterpriseConnectAuthorizationURL builds the URL an administrator visits to
// grant access to the accounts of a whole domain.
func (m *CredentialManager) EnterpriseConnectAuthorizationURL(p EnterpriseConnectParams) string {
	var b strings.Builder
	b.WriteString(m.appRoot)
	b.WriteString("/enterprise_connect/oauth/authorize?response_type=code&client_id=")
	b.WriteString(m.clientIDSnapshot())
	b.WriteString("&redirect_uri=")
	b.WriteString(url.QueryEscape(p.RedirectURI))
	b.WriteString("&scope=")
	b.WriteString(rawURLEncode(strings.Join(p.Scope, " ")))
	b.WriteString("&delegated_scope=")
	b.WriteString(rawURLEncode(strings.Join(p.DelegatedScope, " ")))
	if p.State != "" {
		b.WriteString("&state=")
		b.WriteString(rawURLEncode(p.State))
	}
	return b.String()
}

// Endpoint describes the OAuth2 endpoints for use with golang.org/x/oauth2.
func (m *CredentialManager) Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   m.appRoot + "/oauth/authorize",
		TokenURL:  m.t.url("/oauth/token"),
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

// Token implements oauth2.TokenSource with the current token pair. It never
// refreshes; call Refresh for that.
func (m *CredentialManager) Token() (*oauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.accessToken == "" {
		return nil, fmt.Errorf("cronofy: not authorized")
	}
	return &oauth2.Token{
		AccessToken:  m.accessToken,
		TokenType:    "Bearer",
		RefreshToken: m.refreshToken,
		Expiry:       m.expiry,
	}, nil
}

func (m *CredentialManager) clientIDSnapshot() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clientID
}

// rawURLEncode percent-encodes s per RFC 3986, spaces become %20.
func rawURLEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func expiryFromNow(expiresIn int) time.Time {
	if expiresIn <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}

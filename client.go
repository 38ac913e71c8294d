// Package cronofy is a client for the Cronofy calendar API.
//
// A Client carries a CredentialManager for the OAuth2 token lifecycle and
// exposes typed operations for accounts, calendars, events, free-busy
// information and push notification channels. Multi-page collections are
// returned as a PagedIterator that fetches pages on demand.
package cronofy

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	// UserAgent is sent with every request unless overridden with WithUserAgent.
	UserAgent = "Cronofy Go 0.1"
	// APIRootURL is the default API host.
	APIRootURL = "https://api.cronofy.com"
	// AppRootURL is the default host for user facing authorization pages.
	AppRootURL = "https://app.cronofy.com"
	// APIVersion prefixes every resource path.
	APIVersion = "v1"
	// DefaultTimeout bounds each HTTP call made by the default HTTP client.
	DefaultTimeout = 60 * time.Second
)

// HTTPClient is an interface for making HTTP requests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient creates the default HTTP client
func NewHTTPClient(timeout time.Duration) HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
	}
}

// Client talks to the Cronofy API on behalf of one set of credentials.
type Client struct {
	*CredentialManager
}

type options struct {
	httpClient HTTPClient
	logger     zerolog.Logger
	apiRoot    string
	appRoot    string
	userAgent  string
	timeout    time.Duration
	tokenStore TokenStore
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c HTTPClient) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger sets the logger used for request and token exchange logging.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDataCenter targets a regional deployment, e.g. "de" or "uk".
// An empty value or "us" selects the default hosts.
func WithDataCenter(dc string) Option {
	return func(o *options) {
		if dc == "" || dc == "us" {
			o.apiRoot = APIRootURL
			o.appRoot = AppRootURL
			return
		}
		o.apiRoot = "https://api-" + dc + ".cronofy.com"
		o.appRoot = "https://app-" + dc + ".cronofy.com"
	}
}

// WithAPIRoot overrides the API base URL.
func WithAPIRoot(root string) Option {
	return func(o *options) { o.apiRoot = root }
}

// WithAppRoot overrides the base URL of authorization pages.
func WithAppRoot(root string) Option {
	return func(o *options) { o.appRoot = root }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithTimeout sets the timeout of the default HTTP client. It has no effect
// together with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTokenStore persists the token pair after every successful exchange.
func WithTokenStore(s TokenStore) Option {
	return func(o *options) { o.tokenStore = s }
}

// New creates a Client. Credentials may be empty apart from the client id and
// secret; tokens are filled in by ExchangeAuthorizationCode.
func New(creds Credentials, opts ...Option) *Client {
	o := options{
		logger:    zerolog.Nop(),
		apiRoot:   APIRootURL,
		appRoot:   AppRootURL,
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = NewHTTPClient(o.timeout)
	}

	t := &transport{
		httpClient: o.httpClient,
		apiRoot:    o.apiRoot,
		userAgent:  o.userAgent,
		logger:     o.logger,
	}

	return &Client{
		CredentialManager: newCredentialManager(creds, t, o.appRoot, o.tokenStore, o.logger),
	}
}

func apiPath(path string) string {
	return "/" + APIVersion + path
}

// Package webhook receives Cronofy push notifications for channels created
// with a callback URL pointing at this server.
package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// DefaultPath is where notifications are accepted unless WithPath is given.
const DefaultPath = "/notifications"

const maxBodyBytes = 1 << 20

var (
	errNoSecret    = errors.New("webhook: a client secret source is required to verify notifications")
	errEmptySecret = errors.New("webhook: client secret is empty")
)

// SecretFunc returns the client secret notifications are signed with. It is
// called for every notification so credentials seeded after startup apply.
type SecretFunc func() (string, error)

// StaticSecret returns a SecretFunc for a fixed secret.
func StaticSecret(secret string) SecretFunc {
	return func() (string, error) {
		if secret == "" {
			return "", errEmptySecret
		}
		return secret, nil
	}
}

type Server struct {
	secret   SecretFunc
	path     string
	handler  Handler
	mux      *http.ServeMux
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics

	adminKey string
	store    CredentialStore
}

type Option func(*Server)

func WithPath(path string) Option {
	return func(s *Server) {
		if path != "" {
			s.path = path
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a receiver that verifies notifications with the secret
// returned by secret before passing them to handler. Until secret succeeds,
// notifications are answered with 503.
func New(secret SecretFunc, handler Handler, opts ...Option) (*Server, error) {
	if secret == nil {
		return nil, errNoSecret
	}
	s := &Server{
		secret:   secret,
		path:     DefaultPath,
		handler:  handler,
		mux:      http.NewServeMux(),
		logger:   zerolog.Nop(),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics(s.registry)

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc(s.path, s.notificationsHandler)
	s.mux.HandleFunc("/health", s.healthHandler)
	s.mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	if s.adminKey != "" {
		s.mux.HandleFunc("/admin/credentials", s.adminMiddleware(s.credentialsHandler))
		s.mux.HandleFunc("/admin/credentials/status", s.adminMiddleware(s.credentialsStatusHandler))
	}
	s.mux.HandleFunc("/", s.notFoundHandler)
}

// Path is the route notifications are accepted on.
func (s *Server) Path() string {
	return s.path
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.loggingMiddleware(s.mux).ServeHTTP(w, r)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Str("remote_addr", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("Finished request")
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn().
		Str("method", r.Method).
		Str("uri", r.RequestURI).
		Str("remote_addr", r.RemoteAddr).
		Msg("Unhandled route")
	http.NotFound(w, r)
}

func (s *Server) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.metrics.rejected.WithLabelValues(reasonMethod).Inc()
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.metrics.rejected.WithLabelValues(reasonBody).Inc()
		s.logger.Error().Err(err).Msg("Error reading notification body")
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	secret, err := s.secret()
	if err == nil && secret == "" {
		err = errEmptySecret
	}
	if err != nil {
		s.metrics.rejected.WithLabelValues(reasonUnavailable).Inc()
		s.logger.Warn().Err(err).Msg("⚠️  No client secret available, rejecting notification")
		http.Error(w, "Credentials not configured", http.StatusServiceUnavailable)
		return
	}

	if !Verify(secret, r.Header.Get(SignatureHeader), body) {
		s.metrics.rejected.WithLabelValues(reasonSignature).Inc()
		s.logger.Warn().
			Str("remote_addr", r.RemoteAddr).
			Msg("❌ Notification signature mismatch")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var n Notification
	if err := json.Unmarshal(body, &n); err != nil || n.Notification.Type == "" {
		s.metrics.rejected.WithLabelValues(reasonBody).Inc()
		s.logger.Warn().Err(err).Msg("Malformed notification body")
		http.Error(w, "Invalid notification", http.StatusBadRequest)
		return
	}

	s.metrics.notifications.WithLabelValues(n.Notification.Type).Inc()
	s.logger.Info().
		Str("type", n.Notification.Type).
		Str("channel_id", n.Channel.ChannelID).
		Msg("📬 Notification received")

	if s.handler != nil {
		if err := s.handler.HandleNotification(r.Context(), n); err != nil {
			s.metrics.rejected.WithLabelValues(reasonHandler).Inc()
			s.logger.Error().Err(err).Str("channel_id", n.Channel.ChannelID).Msg("Notification handler failed")
			http.Error(w, "Failed to process notification", http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusAccepted)
}

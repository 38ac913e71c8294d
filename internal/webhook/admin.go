package webhook

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dvcrn/cronofy-go"
)

// CredentialStore is what the admin endpoints read and seed.
type CredentialStore interface {
	Load() (*cronofy.Credentials, error)
	Init(creds cronofy.Credentials) error
}

// WithAdmin enables /admin/credentials and /admin/credentials/status,
// guarded by apiKey. An empty key leaves them disabled.
func WithAdmin(apiKey string, store CredentialStore) Option {
	return func(s *Server) {
		if apiKey == "" || store == nil {
			return
		}
		s.adminKey = apiKey
		s.store = store
	}
}

// adminMiddleware checks for the admin API key from either
// 'Authorization: Bearer <key>' or 'X-API-Key: <key>' headers.
func (s *Server) adminMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var providedToken string
		authHeader := r.Header.Get("Authorization")
		xAPIKeyHeader := r.Header.Get("X-API-Key")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				s.logger.Warn().
					Str("method", r.Method).
					Str("uri", r.RequestURI).
					Str("remote_addr", r.RemoteAddr).
					Msg("Invalid Authorization header format for admin endpoint")
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}
			providedToken = parts[1]
		} else {
			providedToken = xAPIKeyHeader
		}

		if subtle.ConstantTimeCompare([]byte(providedToken), []byte(s.adminKey)) != 1 {
			s.logger.Warn().
				Str("method", r.Method).
				Str("uri", r.RequestURI).
				Str("remote_addr", r.RemoteAddr).
				Msg("Invalid admin API key provided")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

// credentialsHandler handles POST /admin/credentials. Missing client
// credentials are kept from the current store contents.
func (s *Server) credentialsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var reqBody cronofy.Credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&reqBody); err != nil {
		s.logger.Error().Err(err).Msg("Failed to parse request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if reqBody.AccessToken == "" || reqBody.RefreshToken == "" {
		http.Error(w, "Missing required fields: access_token, refresh_token", http.StatusBadRequest)
		return
	}

	if current, err := s.store.Load(); err == nil {
		if reqBody.ClientID == "" {
			reqBody.ClientID = current.ClientID
		}
		if reqBody.ClientSecret == "" {
			reqBody.ClientSecret = current.ClientSecret
		}
	}

	if err := s.store.Init(reqBody); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store credentials")
		http.Error(w, "Failed to update credentials", http.StatusInternalServerError)
		return
	}
	s.logger.Info().Msg("✅ Credentials updated through admin endpoint")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// credentialsStatusHandler handles GET /admin/credentials/status.
func (s *Server) credentialsStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{"has_credentials": false}
	creds, err := s.store.Load()
	if err != nil {
		response["error"] = err.Error()
	} else {
		response["has_credentials"] = true
		response["has_access_token"] = creds.AccessToken != ""
		response["has_refresh_token"] = creds.RefreshToken != ""
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

package cronofy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoRefreshToken is returned by Refresh when no refresh token has been stored yet.
	ErrNoRefreshToken = errors.New("cronofy: no refresh token available")

	// ErrMissingClientCredentials is returned by OAuth operations when the client id or secret is empty.
	ErrMissingClientCredentials = errors.New("cronofy: client id and client secret are required")
)

// TransportError reports that an HTTP call could not complete at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cronofy: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError is one entry of a 422 response's errors object.
type ValidationError struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// APIError is returned for every response with a status outside 2xx.
type APIError struct {
	StatusCode int
	Status     string
	// Details holds the decoded JSON body, or the raw body as a string when it is not JSON.
	Details any
	Body    []byte
	// ValidationErrors is populated from 422 responses, keyed by parameter name.
	ValidationErrors map[string][]ValidationError
}

func (e *APIError) Error() string {
	if len(e.ValidationErrors) > 0 {
		return fmt.Sprintf("cronofy: %d %s: %d invalid parameter(s)", e.StatusCode, e.Status, len(e.ValidationErrors))
	}
	return fmt.Sprintf("cronofy: %d %s", e.StatusCode, e.Status)
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Status:     StatusText(statusCode),
		Details:    parseBody(body),
		Body:       body,
	}

	if statusCode == http.StatusUnprocessableEntity {
		var v struct {
			Errors map[string][]ValidationError `json:"errors"`
		}
		if err := json.Unmarshal(body, &v); err == nil && len(v.Errors) > 0 {
			apiErr.ValidationErrors = v.Errors
		}
	}

	return apiErr
}

// parseBody decodes a JSON body, falling back to the raw text.
func parseBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body)
	}
	return decoded
}

// AuthExchangeError is returned when the token endpoint answers with a 2xx
// status but no access token.
type AuthExchangeError struct {
	Code        string
	Description string
}

func (e *AuthExchangeError) Error() string {
	if e.Code == "" {
		return "cronofy: token exchange returned no access token"
	}
	if e.Description != "" {
		return fmt.Sprintf("cronofy: token exchange failed: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("cronofy: token exchange failed: %s", e.Code)
}

// PaginationError is returned when a page lacks the expected items key.
type PaginationError struct {
	Key string
	URL string
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("cronofy: page from %s has no %q collection", e.URL, e.Key)
}

// StatusText returns the phrase used in APIError for an HTTP status code.
func StatusText(code int) string {
	switch code {
	case 306:
		return "Switch Proxy"
	case 413:
		return "Request Entity Too Large"
	case 414:
		return "Request-URI Too Long"
	case 416:
		return "Requested Range Not Satisfiable"
	case 418:
		return "I'm a teapot"
	case 425:
		return "Unordered Collection"
	case 449:
		return "Retry With"
	case 450:
		return "Blocked by Windows Parental Controls"
	case 509:
		return "Bandwidth Limit Exceeded"
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown Status"
}

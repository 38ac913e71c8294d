package cronofy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "OK"},
		{306, "Switch Proxy"},
		{401, "Unauthorized"},
		{404, "Not Found"},
		{418, "I'm a teapot"},
		{422, "Unprocessable Entity"},
		{425, "Unordered Collection"},
		{449, "Retry With"},
		{450, "Blocked by Windows Parental Controls"},
		{500, "Internal Server Error"},
		{509, "Bandwidth Limit Exceeded"},
		{599, "Unknown Status"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusText(tt.code), "status %d", tt.code)
	}
}

func TestNewAPIError(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		err := newAPIError(404, []byte(`{"message":"missing"}`))
		assert.Equal(t, 404, err.StatusCode)
		assert.Equal(t, "Not Found", err.Status)
		assert.Equal(t, map[string]any{"message": "missing"}, err.Details)
		assert.Equal(t, "cronofy: 404 Not Found", err.Error())
	})

	t.Run("raw body", func(t *testing.T) {
		err := newAPIError(502, []byte("<html>bad gateway</html>"))
		assert.Equal(t, "<html>bad gateway</html>", err.Details)
	})

	t.Run("empty body", func(t *testing.T) {
		err := newAPIError(401, nil)
		assert.Nil(t, err.Details)
	})

	t.Run("validation errors", func(t *testing.T) {
		err := newAPIError(422, []byte(`{"errors":{"tzid":[{"key":"errors.required","description":"tzid must be specified"}]}}`))
		require.Len(t, err.ValidationErrors["tzid"], 1)
		assert.Equal(t, "tzid must be specified", err.ValidationErrors["tzid"][0].Description)
		assert.Contains(t, err.Error(), "1 invalid parameter")
	})
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("timeout")
	var err error = &TransportError{Method: "GET", URL: "https://api.cronofy.com/v1/account", Err: cause}
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "cronofy: token exchange failed: invalid_grant", (&AuthExchangeError{Code: "invalid_grant"}).Error())
	assert.Equal(t, "cronofy: token exchange returned no access token", (&AuthExchangeError{}).Error())
	assert.Contains(t, (&PaginationError{Key: "events", URL: "u"}).Error(), `"events"`)
}

package cronofy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const contentTypeJSON = "application/json; charset=utf-8"

type transport struct {
	httpClient HTTPClient
	apiRoot    string
	userAgent  string
	logger     zerolog.Logger
}

func (t *transport) url(path string) string {
	return t.apiRoot + path
}

// host is the value of the Host header, api.cronofy.com for the default root.
func (t *transport) host() string {
	u, err := url.Parse(t.apiRoot)
	if err != nil {
		return ""
	}
	return u.Host
}

// authHeaders builds the headers sent with every API call.
func (t *transport) authHeaders(accessToken string, withContent bool) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+accessToken)
	h.Set("Host", t.host())
	h.Set("User-Agent", t.userAgent)
	if withContent {
		h.Set("Content-Type", contentTypeJSON)
	}
	return h
}

func validURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func (t *transport) newRequest(ctx context.Context, method, rawURL string, header http.Header, body any) (*http.Request, error) {
	if !validURL(rawURL) {
		return nil, &TransportError{Method: method, URL: rawURL, Err: fmt.Errorf("invalid URL")}
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("cronofy: marshal %s body: %w", method, err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, &TransportError{Method: method, URL: rawURL, Err: err}
	}

	for k, v := range header {
		if k == "Host" {
			continue
		}
		req.Header[k] = append([]string(nil), v...)
	}
	if host := header.Get("Host"); host != "" {
		req.Host = host
	}

	return req, nil
}

// send performs the request and returns the body of a 2xx response.
func (t *transport) send(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Err(err).
			Msg("Request failed")
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: fmt.Errorf("read response: %w", err)}
	}

	t.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Cronofy request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// do sends a request and decodes a 2xx body into out when both are present.
func (t *transport) do(ctx context.Context, method, rawURL string, header http.Header, body, out any) error {
	req, err := t.newRequest(ctx, method, rawURL, header, body)
	if err != nil {
		return err
	}

	respBody, err := t.send(req)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("cronofy: decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.t.do(ctx, http.MethodGet, c.t.url(path), c.t.authHeaders(c.AccessToken(), false), nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.t.do(ctx, http.MethodPost, c.t.url(path), c.t.authHeaders(c.AccessToken(), true), body, out)
}

func (c *Client) delete(ctx context.Context, path string, body, out any) error {
	if body == nil {
		body = []any{}
	}
	return c.t.do(ctx, http.MethodDelete, c.t.url(path), c.t.authHeaders(c.AccessToken(), true), body, out)
}

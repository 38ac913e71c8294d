package cronofy

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

type recordedRequest struct {
	Method string
	URL    string
	Host   string
	Header http.Header
	Body   string
}

type fakeResponse struct {
	status int
	body   string
	err    error
}

// fakeHTTPClient records every request and answers from a queue.
type fakeHTTPClient struct {
	requests  []recordedRequest
	responses []fakeResponse
}

func (f *fakeHTTPClient) queue(status int, body string) *fakeHTTPClient {
	f.responses = append(f.responses, fakeResponse{status: status, body: body})
	return f
}

func (f *fakeHTTPClient) queueErr(err error) *fakeHTTPClient {
	f.responses = append(f.responses, fakeResponse{err: err})
	return f
}

func (f *fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	f.requests = append(f.requests, recordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Host:   req.Host,
		Header: req.Header.Clone(),
		Body:   string(body),
	})

	if len(f.responses) == 0 {
		return nil, errors.New("fakeHTTPClient: no response queued")
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	if r.err != nil {
		return nil, r.err
	}
	return &http.Response{
		StatusCode: r.status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(r.body)),
	}, nil
}

func (f *fakeHTTPClient) last() recordedRequest {
	return f.requests[len(f.requests)-1]
}

func newTestClient(creds Credentials, fake *fakeHTTPClient, opts ...Option) *Client {
	return New(creds, append([]Option{WithHTTPClient(fake)}, opts...)...)
}

type memoryTokenStore struct {
	access  string
	refresh string
	calls   int
	err     error
}

func (s *memoryTokenStore) SaveTokens(accessToken, refreshToken string) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.access = accessToken
	s.refresh = refreshToken
	return nil
}

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dvcrn/cronofy-go"
	"github.com/dvcrn/cronofy-go/internal/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiRecorder struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func (r *apiRecorder) record(req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req.Method+" "+req.URL.RequestURI())
	r.bodies = append(r.bodies, string(body))
}

// setupCLI points the CLI at a fake API and a temporary credentials file.
func setupCLI(t *testing.T, handler http.HandlerFunc) (string, *apiRecorder) {
	t.Helper()
	rec := &apiRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("ENV", "production")
	t.Setenv("CRONOFY_API_ROOT", srv.URL)
	t.Setenv("CRONOFY_APP_ROOT", "https://app.example.test")

	path := filepath.Join(dir, "creds.json")
	require.NoError(t, credentials.InitFile(path, cronofy.Credentials{
		ClientID:     "cid",
		ClientSecret: "secret",
		AccessToken:  "at",
		RefreshToken: "rt",
	}))
	return path, rec
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestAccountCommand(t *testing.T) {
	path, rec := setupCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"account":{"account_id":"acc_1","email":"jane@example.com"}}`))
	})

	out, err := run(t, "--creds-path", path, "account")
	require.NoError(t, err)

	var acc cronofy.Account
	require.NoError(t, json.Unmarshal([]byte(out), &acc))
	assert.Equal(t, "acc_1", acc.AccountID)
	assert.Equal(t, []string{"GET /v1/account"}, rec.requests)
}

func TestEventsCommandFollowsPages(t *testing.T) {
	var base string
	path, rec := setupCLI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/events" {
			w.Write([]byte(`{"events":[{"event_uid":"e1","summary":"One","start":"2024-09-06","end":"2024-09-07"}],"pages":{"next_page":"` + base + `/v1/events/pages/abc"}}`))
			return
		}
		w.Write([]byte(`{"events":[{"event_uid":"e2","summary":"Two","start":"2024-09-08T10:00:00Z","end":"2024-09-08T11:00:00Z"}]}`))
	})
	base = os.Getenv("CRONOFY_API_ROOT")

	out, err := run(t, "--creds-path", path, "events", "--from", "2024-09-01", "--to", "2024-09-30", "--calendar-id", "cal_1", "--include-managed")
	require.NoError(t, err)

	var events []cronofy.Event
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "e2", events[1].EventUID)
	assert.Equal(t, []string{
		"GET /v1/events?from=2024-09-01&to=2024-09-30&tzid=Etc%2FUTC&include_managed=true&calendar_ids[]=cal_1",
		"GET /v1/events/pages/abc",
	}, rec.requests)
}

func TestEventsCommandWritesICal(t *testing.T) {
	path, _ := setupCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events":[{"event_uid":"e1","summary":"One","start":"2024-09-06","end":"2024-09-07"}]}`))
	})
	icsPath := filepath.Join(t.TempDir(), "events.ics")

	_, err := run(t, "--creds-path", path, "events", "--ical", icsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(icsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "UID:e1")
}

func TestUpsertAndDeleteCommands(t *testing.T) {
	path, rec := setupCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	_, err := run(t, "--creds-path", path, "upsert-event",
		"--calendar-id", "cal_1", "--event-id", "evt-1", "--summary", "Standup",
		"--start", "2024-09-06T09:00:00Z", "--end", "2024-09-06T09:15:00Z", "--location", "Room 1")
	require.NoError(t, err)

	_, err = run(t, "--creds-path", path, "delete-event", "--calendar-id", "cal_1", "--event-uid", "uid-1")
	require.NoError(t, err)

	_, err = run(t, "--creds-path", path, "delete-event")
	assert.Error(t, err)

	require.Len(t, rec.requests, 2)
	assert.Equal(t, "POST /v1/calendars/cal_1/events", rec.requests[0])
	assert.JSONEq(t, `{"event_id":"evt-1","summary":"Standup","description":"","start":"2024-09-06T09:00:00Z","end":"2024-09-06T09:15:00Z","location":{"description":"Room 1"}}`, rec.bodies[0])
	assert.Equal(t, "DELETE /v1/calendars/cal_1/events", rec.requests[1])
	assert.JSONEq(t, `{"event_uid":"uid-1"}`, rec.bodies[1])
}

func TestAuthCommands(t *testing.T) {
	path, rec := setupCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"new-at","refresh_token":"new-rt","expires_in":3600}`))
	})

	out, err := run(t, "--creds-path", path, "auth", "url", "--redirect-uri", "https://x/cb", "--scope", "read_events")
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.test/oauth/authorize?response_type=code&client_id=cid&redirect_uri=https%3A%2F%2Fx%2Fcb&scope=read_events", strings.TrimSpace(out))

	_, err = run(t, "--creds-path", path, "auth", "refresh")
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /oauth/token"}, rec.requests)

	// The refreshed pair is written back to the credentials file.
	creds, err := credentials.NewFSStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "new-at", creds.AccessToken)
	assert.Equal(t, "new-rt", creds.RefreshToken)
}

func TestAuthInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "nested", "creds.json")

	_, err := run(t, "--creds-path", path, "auth", "init", "--client-id", "cid", "--client-secret", "secret")
	require.NoError(t, err)

	creds, err := credentials.NewFSStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "cid", creds.ClientID)

	_, err = run(t, "--use-env", "auth", "init", "--client-id", "cid", "--client-secret", "secret")
	assert.ErrorIs(t, err, credentials.ErrReadOnly)
}

func TestParseEventTime(t *testing.T) {
	et, err := parseEventTime("2024-09-06")
	require.NoError(t, err)
	assert.True(t, et.AllDay)

	et, err = parseEventTime("2024-09-06T10:00:00+02:00")
	require.NoError(t, err)
	assert.False(t, et.AllDay)
	assert.Equal(t, "2024-09-06T08:00:00Z", et.String())

	_, err = parseEventTime("tomorrow")
	assert.Error(t, err)
}

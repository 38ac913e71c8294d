package cronofy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEventsQuery(t *testing.T) {
	fake := (&fakeHTTPClient{}).queue(200, `{
		"pages": {"current": 1, "total": 1},
		"events": [{
			"calendar_id": "cal_1",
			"event_uid": "evt_external_1",
			"summary": "Company Retreat",
			"description": "",
			"start": "2024-09-06",
			"end": "2024-09-08",
			"deleted": false,
			"location": {"description": "Beach"},
			"participation_status": "needs_action",
			"transparency": "opaque",
			"status": "confirmed",
			"categories": [],
			"attendees": [{"email": "example@cronofy.com", "display_name": "Example Person", "status": "needs_action"}],
			"created": "2024-09-01T12:00:00Z",
			"updated": "2024-09-01T12:00:00Z"
		}]
	}`)
	c := newTestClient(Credentials{AccessToken: "at"}, fake)

	it, err := c.ReadEvents(context.Background(), ReadEventsParams{
		From:           time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		To:             time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
		TZID:           "Europe/London",
		IncludeDeleted: Bool(true),
		LastModified:   time.Date(2024, 8, 1, 10, 30, 0, 0, time.UTC),
		CalendarIDs:    []string{"cal_1", "cal 2"},
		LocalizedTimes: Bool(false),
	})
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t,
		"https://api.cronofy.com/v1/events?from=2024-09-01&to=2024-09-30&tzid=Europe%2FLondon"+
			"&include_deleted=true&last_modified=2024-08-01T10%3A30%3A00Z"+
			"&calendar_ids[]=cal_1&calendar_ids[]=cal+2&localized_times=false",
		req.URL)
	assert.Equal(t, "Bearer at", req.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get("Content-Type"))
	assert.Equal(t, "api.cronofy.com", req.Host)

	events, err := it.Collect()
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "evt_external_1", e.EventUID)
	assert.True(t, e.Start.AllDay)
	assert.Equal(t, "2024-09-06", e.Start.String())
	assert.Equal(t, "Beach", e.Location.Description)
	require.Len(t, e.Attendees, 1)
	assert.Equal(t, "Example Person", e.Attendees[0].DisplayName)
	require.NotNil(t, e.Created)
	assert.Equal(t, 2024, e.Created.Year())
}

func TestReadEventsRequiresTZID(t *testing.T) {
	fake := &fakeHTTPClient{}
	c := newTestClient(Credentials{AccessToken: "at"}, fake)

	_, err := c.ReadEvents(context.Background(), ReadEventsParams{})
	require.Error(t, err)
	_, err = c.FreeBusy(context.Background(), FreeBusyParams{})
	require.Error(t, err)
	assert.Empty(t, fake.requests)
}

func TestFreeBusy(t *testing.T) {
	fake := (&fakeHTTPClient{}).
		queue(200, `{"pages":{"next_page":"https://api.cronofy.com/v1/free_busy/pages/0a1b2c"},"free_busy":[]}`).
		queue(200, `{"pages":{},"free_busy":[{"calendar_id":"cal_1","start":{"time":"2024-09-06T10:00:00Z","tzid":"Europe/London"},"end":{"time":"2024-09-06T11:00:00Z","tzid":"Europe/London"},"free_busy_status":"busy"}]}`)
	c := newTestClient(Credentials{AccessToken: "at"}, fake)

	it, err := c.FreeBusy(context.Background(), FreeBusyParams{TZID: "Etc/UTC", IncludeManaged: Bool(true), LocalizedTimes: Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, "https://api.cronofy.com/v1/free_busy?tzid=Etc%2FUTC&include_managed=true&localized_times=true", fake.last().URL)

	periods, err := it.Collect()
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, "https://api.cronofy.com/v1/free_busy/pages/0a1b2c", fake.last().URL)
	assert.Equal(t, "busy", periods[0].FreeBusyStatus)
	assert.Equal(t, "Europe/London", periods[0].Start.TZID)
	assert.Equal(t, 10, periods[0].Start.Time.Hour())
}

func TestUpsertEvent(t *testing.T) {
	fake := (&fakeHTTPClient{}).queue(202, ``)
	c := newTestClient(Credentials{AccessToken: "at"}, fake)

	err := c.UpsertEvent(context.Background(), UpsertEventParams{
		CalendarID:  "cal_1",
		EventID:     "unique-event-id",
		Summary:     "Board meeting",
		Description: "Discuss plans",
		Start:       At(time.Date(2024, 9, 6, 15, 30, 0, 0, time.UTC)),
		End:         At(time.Date(2024, 9, 6, 17, 0, 0, 0, time.UTC)),
		TZID:        "Europe/London",
		Location:    &Location{Description: "Board room", Lat: "1"},
	})
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://api.cronofy.com/v1/calendars/cal_1/events", req.URL)
	assert.Equal(t, "application/json; charset=utf-8", req.Header.Get("Content-Type"))
	assert.JSONEq(t, `{
		"event_id": "unique-event-id",
		"summary": "Board meeting",
		"description": "Discuss plans",
		"start": "2024-09-06T15:30:00Z",
		"end": "2024-09-06T17:00:00Z",
		"tzid": "Europe/London",
		"location": {"description": "Board room"}
	}`, req.Body)
}

func TestUpsertEventValidationError(t *testing.T) {
	fake := (&fakeHTTPClient{}).queue(422, `{"errors":{"summary":[{"key":"errors.required","description":"summary must be specified"}]}}`)
	c := newTestClient(Credentials{AccessToken: "at"}, fake)

	err := c.UpsertEvent(context.Background(), UpsertEventParams{CalendarID: "cal_1", EventID: "e"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Unprocessable Entity", apiErr.Status)
	require.Contains(t, apiErr.ValidationErrors, "summary")
	assert.Equal(t, "errors.required", apiErr.ValidationErrors["summary"][0].Key)
}

func TestDeleteOperations(t *testing.T) {
	tests := []struct {
		name     string
		call     func(*Client) error
		wantURL  string
		wantBody string
	}{
		{
			name:     "delete event",
			call:     func(c *Client) error { return c.DeleteEvent(context.Background(), "cal_1", "evt-1") },
			wantURL:  "https://api.cronofy.com/v1/calendars/cal_1/events",
			wantBody: `{"event_id":"evt-1"}`,
		},
		{
			name:     "delete external event",
			call:     func(c *Client) error { return c.DeleteExternalEvent(context.Background(), "cal_1", "uid-1") },
			wantURL:  "https://api.cronofy.com/v1/calendars/cal_1/events",
			wantBody: `{"event_uid":"uid-1"}`,
		},
		{
			name:     "delete all events",
			call:     func(c *Client) error { return c.DeleteAllEvents(context.Background()) },
			wantURL:  "https://api.cronofy.com/v1/events/",
			wantBody: `{"delete_all":true}`,
		},
		{
			name:     "close channel",
			call:     func(c *Client) error { return c.CloseChannel(context.Background(), "chn_1") },
			wantURL:  "https://api.cronofy.com/v1/channels/chn_1",
			wantBody: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := (&fakeHTTPClient{}).queue(202, ``)
			c := newTestClient(Credentials{AccessToken: "at"}, fake)

			require.NoError(t, tt.call(c))

			req := fake.last()
			assert.Equal(t, "DELETE", req.Method)
			assert.Equal(t, tt.wantURL, req.URL)
			assert.Equal(t, "application/json; charset=utf-8", req.Header.Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, req.Body)
		})
	}
}

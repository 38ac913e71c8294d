package cronofy

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
)

var errTZIDRequired = errors.New("cronofy: tzid is required")

// ReadEventsParams are the query parameters of ReadEvents. Zero values are
// omitted.
type ReadEventsParams struct {
	From           time.Time
	To             time.Time
	TZID           string
	IncludeDeleted *bool
	IncludeMoved   *bool
	LastModified   time.Time
	IncludeManaged *bool
	OnlyManaged    *bool
	IncludeGeo     *bool
	CalendarIDs    []string
	LocalizedTimes *bool
}

func (p ReadEventsParams) query() string {
	var q query
	q.addDate("from", p.From)
	q.addDate("to", p.To)
	q.addString("tzid", p.TZID)
	q.addBool("include_deleted", p.IncludeDeleted)
	q.addBool("include_moved", p.IncludeMoved)
	q.addTime("last_modified", p.LastModified)
	q.addBool("include_managed", p.IncludeManaged)
	q.addBool("only_managed", p.OnlyManaged)
	q.addBool("include_geo", p.IncludeGeo)
	q.addList("calendar_ids", p.CalendarIDs)
	q.addBool("localized_times", p.LocalizedTimes)
	return q.String()
}

// ReadEvents returns the events matching p. The first page is fetched before
// ReadEvents returns; later pages are fetched as the iterator advances.
func (c *Client) ReadEvents(ctx context.Context, p ReadEventsParams) (*PagedIterator[Event], error) {
	if p.TZID == "" {
		return nil, errTZIDRequired
	}
	it, err := newPagedIterator[Event](ctx, c.t, "events", c.t.authHeaders(c.AccessToken(), false), c.t.url(apiPath("/events")), p.query())
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return it, nil
}

// FreeBusyParams are the query parameters of FreeBusy.
type FreeBusyParams struct {
	From           time.Time
	To             time.Time
	TZID           string
	IncludeManaged *bool
	CalendarIDs    []string
	LocalizedTimes *bool
}

func (p FreeBusyParams) query() string {
	var q query
	q.addDate("from", p.From)
	q.addDate("to", p.To)
	q.addString("tzid", p.TZID)
	q.addBool("include_managed", p.IncludeManaged)
	q.addList("calendar_ids", p.CalendarIDs)
	q.addBool("localized_times", p.LocalizedTimes)
	return q.String()
}

// FreeBusy returns the busy periods matching p, paged like ReadEvents.
func (c *Client) FreeBusy(ctx context.Context, p FreeBusyParams) (*PagedIterator[FreeBusy], error) {
	if p.TZID == "" {
		return nil, errTZIDRequired
	}
	it, err := newPagedIterator[FreeBusy](ctx, c.t, "free_busy", c.t.authHeaders(c.AccessToken(), false), c.t.url(apiPath("/free_busy")), p.query())
	if err != nil {
		return nil, fmt.Errorf("read free-busy: %w", err)
	}
	return it, nil
}

// UpsertEventParams describe an event managed by the application.
type UpsertEventParams struct {
	CalendarID  string
	EventID     string
	Summary     string
	Description string
	Start       EventTime
	End         EventTime
	TZID        string
	Location    *Location
}

type upsertEventBody struct {
	EventID     string    `json:"event_id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
	TZID        string    `json:"tzid,omitempty"`
	Location    *Location `json:"location,omitempty"`
}

// UpsertEvent creates or updates the event identified by p.EventID.
func (c *Client) UpsertEvent(ctx context.Context, p UpsertEventParams) error {
	body := upsertEventBody{
		EventID:     p.EventID,
		Summary:     p.Summary,
		Description: p.Description,
		Start:       p.Start,
		End:         p.End,
		TZID:        p.TZID,
	}
	if p.Location != nil && p.Location.Description != "" {
		body.Location = &Location{Description: p.Location.Description}
	}

	if err := c.post(ctx, calendarEventsPath(p.CalendarID), body, nil); err != nil {
		return fmt.Errorf("upsert event %s: %w", p.EventID, err)
	}
	return nil
}

// DeleteEvent deletes an event created with UpsertEvent.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	body := struct {
		EventID string `json:"event_id"`
	}{EventID: eventID}

	if err := c.delete(ctx, calendarEventsPath(calendarID), body, nil); err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return nil
}

// DeleteExternalEvent deletes an event the application does not manage,
// identified by its event_uid.
func (c *Client) DeleteExternalEvent(ctx context.Context, calendarID, eventUID string) error {
	body := struct {
		EventUID string `json:"event_uid"`
	}{EventUID: eventUID}

	if err := c.delete(ctx, calendarEventsPath(calendarID), body, nil); err != nil {
		return fmt.Errorf("delete external event %s: %w", eventUID, err)
	}
	return nil
}

// DeleteAllEvents deletes every event the application manages.
func (c *Client) DeleteAllEvents(ctx context.Context) error {
	body := struct {
		DeleteAll bool `json:"delete_all"`
	}{DeleteAll: true}

	if err := c.delete(ctx, apiPath("/events/"), body, nil); err != nil {
		return fmt.Errorf("delete all events: %w", err)
	}
	return nil
}

func calendarEventsPath(calendarID string) string {
	return apiPath("/calendars/" + url.PathEscape(calendarID) + "/events")
}

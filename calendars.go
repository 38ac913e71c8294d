package cronofy

import (
	"context"
	"fmt"
)

// ListCalendars lists every calendar of the account.
func (c *Client) ListCalendars(ctx context.Context) ([]Calendar, error) {
	var resp struct {
		Calendars []Calendar `json:"calendars"`
	}
	if err := c.get(ctx, apiPath("/calendars"), &resp); err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	return resp.Calendars, nil
}

// CreateCalendarParams are the inputs of CreateCalendar.
type CreateCalendarParams struct {
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
}

// CreateCalendar creates a calendar within a profile.
func (c *Client) CreateCalendar(ctx context.Context, p CreateCalendarParams) (*Calendar, error) {
	var resp struct {
		Calendar Calendar `json:"calendar"`
	}
	if err := c.post(ctx, apiPath("/calendars"), p, &resp); err != nil {
		return nil, fmt.Errorf("create calendar: %w", err)
	}
	return &resp.Calendar, nil
}

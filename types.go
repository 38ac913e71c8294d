package cronofy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Account is the authorized account.
type Account struct {
	AccountID   string `json:"account_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Scope       string `json:"scope"`
	DefaultTZID string `json:"default_tzid"`
}

// Profile is a connected calendar provider account.
type Profile struct {
	ProviderName       string `json:"provider_name"`
	ProfileID          string `json:"profile_id"`
	ProfileName        string `json:"profile_name"`
	ProfileConnected   bool   `json:"profile_connected"`
	ProfileRelinkURL   string `json:"profile_relink_url,omitempty"`
	ProfileInitialSync bool   `json:"profile_initial_sync_required,omitempty"`
}

// Calendar is a calendar of one of the account's profiles.
type Calendar struct {
	ProviderName     string `json:"provider_name"`
	ProfileID        string `json:"profile_id"`
	ProfileName      string `json:"profile_name"`
	CalendarID       string `json:"calendar_id"`
	CalendarName     string `json:"calendar_name"`
	CalendarReadonly bool   `json:"calendar_readonly"`
	CalendarDeleted  bool   `json:"calendar_deleted"`
	CalendarPrimary  bool   `json:"calendar_primary"`
	PermissionLevel  string `json:"permission_level"`
	CalendarColor    string `json:"calendar_color,omitempty"`
}

// EventTime is the start or end of an event. On the wire it is either a plain
// date or UTC time string, or an object with "time" and "tzid" when
// localized times are requested or a time zone is given.
type EventTime struct {
	Time time.Time
	// AllDay marks a date without a time of day.
	AllDay bool
	TZID   string
}

// At returns a timed EventTime.
func At(t time.Time) EventTime {
	return EventTime{Time: t}
}

// AtIn returns a timed EventTime with an explicit time zone.
func AtIn(t time.Time, tzid string) EventTime {
	return EventTime{Time: t, TZID: tzid}
}

// On returns an all-day EventTime.
func On(date time.Time) EventTime {
	return EventTime{Time: date, AllDay: true}
}

func (et EventTime) String() string {
	if et.AllDay {
		return et.Time.Format(dateLayout)
	}
	return et.Time.UTC().Format(timeLayout)
}

type localizedTime struct {
	Time string `json:"time"`
	TZID string `json:"tzid"`
}

func (et EventTime) MarshalJSON() ([]byte, error) {
	if et.TZID != "" {
		return json.Marshal(localizedTime{Time: et.String(), TZID: et.TZID})
	}
	return json.Marshal(et.String())
}

func (et *EventTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	var tzid string
	if data[0] == '{' {
		var lt localizedTime
		if err := json.Unmarshal(data, &lt); err != nil {
			return fmt.Errorf("event time: %w", err)
		}
		raw, tzid = lt.Time, lt.TZID
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("event time: %w", err)
	}

	if len(raw) == len(dateLayout) {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return fmt.Errorf("event time: %w", err)
		}
		*et = EventTime{Time: t, AllDay: true, TZID: tzid}
		return nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("event time: %w", err)
	}
	*et = EventTime{Time: t, TZID: tzid}
	return nil
}

// Location of an event.
type Location struct {
	Description string `json:"description,omitempty"`
	Lat         string `json:"lat,omitempty"`
	Long        string `json:"long,omitempty"`
}

// Attendee of an event.
type Attendee struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Status      string `json:"status,omitempty"`
}

// EventOptions lists what the account may do with an event.
type EventOptions struct {
	Delete                    bool `json:"delete"`
	Update                    bool `json:"update"`
	ChangeParticipationStatus bool `json:"change_participation_status"`
}

// Event as returned by ReadEvents.
type Event struct {
	CalendarID          string        `json:"calendar_id"`
	EventUID            string        `json:"event_uid"`
	EventID             string        `json:"event_id,omitempty"`
	Summary             string        `json:"summary"`
	Description         string        `json:"description"`
	Start               EventTime     `json:"start"`
	End                 EventTime     `json:"end"`
	Deleted             bool          `json:"deleted"`
	Created             *time.Time    `json:"created,omitempty"`
	Updated             *time.Time    `json:"updated,omitempty"`
	Location            *Location     `json:"location,omitempty"`
	ParticipationStatus string        `json:"participation_status,omitempty"`
	Attendees           []Attendee    `json:"attendees,omitempty"`
	Organizer           *Attendee     `json:"organizer,omitempty"`
	Transparency        string        `json:"transparency,omitempty"`
	Status              string        `json:"status,omitempty"`
	Categories          []string      `json:"categories,omitempty"`
	Recurring           bool          `json:"recurring"`
	EventPrivate        bool          `json:"event_private"`
	Options             *EventOptions `json:"options,omitempty"`
}

// FreeBusy is one busy period returned by FreeBusy.
type FreeBusy struct {
	CalendarID     string    `json:"calendar_id"`
	Start          EventTime `json:"start"`
	End            EventTime `json:"end"`
	FreeBusyStatus string    `json:"free_busy_status"`
}

// ChannelFilters restrict which changes trigger a notification.
type ChannelFilters struct {
	CalendarIDs []string `json:"calendar_ids,omitempty"`
	OnlyManaged *bool    `json:"only_managed,omitempty"`
}

// Channel is a push notification subscription.
type Channel struct {
	ChannelID   string          `json:"channel_id"`
	CallbackURL string          `json:"callback_url"`
	Filters     *ChannelFilters `json:"filters,omitempty"`
}

// PermissionsRequest is the result of ElevatedPermissions.
type PermissionsRequest struct {
	URL      string `json:"url,omitempty"`
	Accepted bool   `json:"accepted,omitempty"`
}

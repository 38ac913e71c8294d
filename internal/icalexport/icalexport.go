// Package icalexport writes Cronofy events as an iCalendar (RFC 5545) feed.
package icalexport

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dvcrn/cronofy-go"
	"github.com/emersion/go-ical"
)

const productID = "-//Cronofy Go//Event Export//EN"

// Encode writes events to w as a single VCALENDAR. Deleted events are left out.
func Encode(w io.Writer, events []cronofy.Event) error {
	cal := Calendar(events, time.Now().UTC())
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

// Calendar builds the VCALENDAR for events. stamp is used as DTSTAMP for
// events without an updated time.
func Calendar(events []cronofy.Event, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, e := range events {
		if e.Deleted {
			continue
		}
		cal.Children = append(cal.Children, vevent(e, stamp).Component)
	}
	return cal
}

func vevent(e cronofy.Event, stamp time.Time) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, eventUID(e))
	ev.Props.SetText(ical.PropSummary, e.Summary)

	if e.Description != "" {
		ev.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Location != nil && e.Location.Description != "" {
		ev.Props.SetText(ical.PropLocation, e.Location.Description)
	}

	setTime(ev, ical.PropDateTimeStart, e.Start)
	if !e.End.Time.IsZero() {
		setTime(ev, ical.PropDateTimeEnd, e.End)
	}

	if e.Updated != nil {
		stamp = *e.Updated
	}
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	if e.Created != nil {
		ev.Props.SetDateTime(ical.PropCreated, e.Created.UTC())
	}

	if e.Transparency == "transparent" {
		ev.Props.SetText(ical.PropTransparency, "TRANSPARENT")
	}
	switch e.Status {
	case "confirmed", "tentative", "cancelled":
		ev.Props.SetText(ical.PropStatus, strings.ToUpper(e.Status))
	}
	return ev
}

func setTime(ev *ical.Event, name string, t cronofy.EventTime) {
	if t.AllDay {
		ev.Props.SetDate(name, t.Time)
		return
	}
	ev.Props.SetDateTime(name, t.Time.UTC())
}

// eventUID prefers the provider UID; managed events without one fall back to
// the application's event id.
func eventUID(e cronofy.Event) string {
	if e.EventUID != "" {
		return e.EventUID
	}
	return e.EventID + "@" + e.CalendarID
}

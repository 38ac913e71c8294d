package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dvcrn/cronofy-go"
	"github.com/dvcrn/cronofy-go/internal/icalexport"
	"github.com/spf13/cobra"
)

type rangeFlags struct {
	from        string
	to          string
	tzid        string
	calendarIDs []string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "day after the last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.tzid, "tzid", "Etc/UTC", "time zone used to interpret dates")
	cmd.Flags().StringSliceVar(&f.calendarIDs, "calendar-id", nil, "restrict to calendars (repeatable)")
}

func (f *rangeFlags) dates() (from, to time.Time, err error) {
	if from, err = parseDate(f.from); err != nil {
		return
	}
	to, err = parseDate(f.to)
	return
}

func newEventsCmd(c *cli) *cobra.Command {
	var rf rangeFlags
	var lastModified, icalPath string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Read events, following every page",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := rf.dates()
			if err != nil {
				return err
			}
			p := cronofy.ReadEventsParams{
				From:           from,
				To:             to,
				TZID:           rf.tzid,
				IncludeDeleted: boolFlag(cmd, "include-deleted"),
				IncludeMoved:   boolFlag(cmd, "include-moved"),
				IncludeManaged: boolFlag(cmd, "include-managed"),
				OnlyManaged:    boolFlag(cmd, "only-managed"),
				IncludeGeo:     boolFlag(cmd, "include-geo"),
				LocalizedTimes: boolFlag(cmd, "localized-times"),
				CalendarIDs:    rf.calendarIDs,
			}
			if lastModified != "" {
				if p.LastModified, err = time.Parse(time.RFC3339, lastModified); err != nil {
					return fmt.Errorf("invalid --last-modified %q: %w", lastModified, err)
				}
			}

			client, err := c.client()
			if err != nil {
				return err
			}
			it, err := client.ReadEvents(cmd.Context(), p)
			if err != nil {
				return err
			}
			events, err := it.Collect()
			if err != nil {
				return err
			}

			if icalPath == "" {
				return c.printJSON(events)
			}
			return writeICal(icalPath, events)
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVar(&lastModified, "last-modified", "", "only events changed since, RFC 3339")
	cmd.Flags().Bool("include-deleted", false, "include deleted events")
	cmd.Flags().Bool("include-moved", false, "include events moved out of the range")
	cmd.Flags().Bool("include-managed", false, "include events created through the API")
	cmd.Flags().Bool("only-managed", false, "only events created through the API")
	cmd.Flags().Bool("include-geo", false, "include location coordinates")
	cmd.Flags().Bool("localized-times", false, "return times with their time zone")
	cmd.Flags().StringVar(&icalPath, "ical", "", "write an iCalendar file instead of JSON (- for stdout)")
	return cmd
}

func writeICal(path string, events []cronofy.Event) error {
	if path == "-" {
		return icalexport.Encode(os.Stdout, events)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := icalexport.Encode(f, events); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newFreeBusyCmd(c *cli) *cobra.Command {
	var rf rangeFlags
	cmd := &cobra.Command{
		Use:   "free-busy",
		Short: "Read busy periods, following every page",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := rf.dates()
			if err != nil {
				return err
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			it, err := client.FreeBusy(cmd.Context(), cronofy.FreeBusyParams{
				From:           from,
				To:             to,
				TZID:           rf.tzid,
				IncludeManaged: boolFlag(cmd, "include-managed"),
				CalendarIDs:    rf.calendarIDs,
				LocalizedTimes: boolFlag(cmd, "localized-times"),
			})
			if err != nil {
				return err
			}
			periods, err := it.Collect()
			if err != nil {
				return err
			}
			return c.printJSON(periods)
		},
	}
	rf.register(cmd)
	cmd.Flags().Bool("include-managed", false, "include events created through the API")
	cmd.Flags().Bool("localized-times", false, "return times with their time zone")
	return cmd
}

func newUpsertEventCmd(c *cli) *cobra.Command {
	var p cronofy.UpsertEventParams
	var start, end, location string

	cmd := &cobra.Command{
		Use:   "upsert-event",
		Short: "Create or update an event managed by this application",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if p.Start, err = parseEventTime(start); err != nil {
				return err
			}
			if p.End, err = parseEventTime(end); err != nil {
				return err
			}
			if location != "" {
				p.Location = &cronofy.Location{Description: location}
			}

			client, err := c.client()
			if err != nil {
				return err
			}
			return client.UpsertEvent(cmd.Context(), p)
		},
	}
	cmd.Flags().StringVar(&p.CalendarID, "calendar-id", "", "calendar to write to")
	cmd.Flags().StringVar(&p.EventID, "event-id", "", "application's id for the event")
	cmd.Flags().StringVar(&p.Summary, "summary", "", "event title")
	cmd.Flags().StringVar(&p.Description, "description", "", "event description")
	cmd.Flags().StringVar(&start, "start", "", "start, YYYY-MM-DD or RFC 3339")
	cmd.Flags().StringVar(&end, "end", "", "end, YYYY-MM-DD or RFC 3339")
	cmd.Flags().StringVar(&p.TZID, "tzid", "", "time zone of the event")
	cmd.Flags().StringVar(&location, "location", "", "location description")
	for _, name := range []string{"calendar-id", "event-id", "summary", "start", "end"} {
		cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newDeleteEventCmd(c *cli) *cobra.Command {
	var calendarID, eventID, eventUID string
	var all bool

	cmd := &cobra.Command{
		Use:   "delete-event",
		Short: "Delete an event, or every managed event with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			switch {
			case all:
				return client.DeleteAllEvents(cmd.Context())
			case calendarID == "":
				return errors.New("--calendar-id is required")
			case eventID != "":
				return client.DeleteEvent(cmd.Context(), calendarID, eventID)
			case eventUID != "":
				return client.DeleteExternalEvent(cmd.Context(), calendarID, eventUID)
			}
			return errors.New("one of --event-id, --event-uid or --all is required")
		},
	}
	cmd.Flags().StringVar(&calendarID, "calendar-id", "", "calendar holding the event")
	cmd.Flags().StringVar(&eventID, "event-id", "", "id of an event created by this application")
	cmd.Flags().StringVar(&eventUID, "event-uid", "", "uid of an event from the provider")
	cmd.Flags().BoolVar(&all, "all", false, "delete every event created by this application")
	cmd.MarkFlagsMutuallyExclusive("event-id", "event-uid", "all")
	return cmd
}

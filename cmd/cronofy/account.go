package main

import (
	"github.com/dvcrn/cronofy-go"
	"github.com/spf13/cobra"
)

func newAccountCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the authorized account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			acc, err := client.Account(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(acc)
		},
	}
}

func newProfilesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the calendar profiles connected to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			profiles, err := client.Profiles(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(profiles)
		},
	}
}

func newCalendarsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendars",
		Short: "List calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			cals, err := client.ListCalendars(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(cals)
		},
	}

	var p cronofy.CreateCalendarParams
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a calendar within a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			cal, err := client.CreateCalendar(cmd.Context(), p)
			if err != nil {
				return err
			}
			return c.printJSON(cal)
		},
	}
	create.Flags().StringVar(&p.ProfileID, "profile-id", "", "profile to create the calendar in")
	create.Flags().StringVar(&p.Name, "name", "", "calendar name")
	create.Flags().StringVar(&p.Color, "color", "", "calendar color, e.g. #49BED8")
	create.MarkFlagRequired("profile-id")
	create.MarkFlagRequired("name")

	cmd.AddCommand(create)
	return cmd
}

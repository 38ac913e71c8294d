package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dvcrn/cronofy-go"
	"github.com/dvcrn/cronofy-go/internal/app"
	"github.com/dvcrn/cronofy-go/internal/config"
	"github.com/dvcrn/cronofy-go/internal/credentials"
	"github.com/dvcrn/cronofy-go/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// cli holds the state shared by every subcommand once flags are parsed.
type cli struct {
	cfgFile   string
	verbose   bool
	storeOpts app.StoreOptions
	out       io.Writer
	cfg       *config.Config
	log       zerolog.Logger
	store     credentials.Store
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "cronofy",
		Short: "Command line client for the Cronofy calendar API",
		Long: `cronofy talks to the Cronofy calendar API with credentials kept in
~/.config/cronofy/credentials.json, the macOS keychain or environment variables.

Start with "cronofy auth init" and "cronofy auth url", then exchange the
returned code with "cronofy auth exchange".`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.setup() },
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.config/cronofy/config.toml)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "log requests at debug level")
	pf.StringVar(&c.storeOpts.CredsPath, "creds-path", "", "credentials file (default is $HOME/.config/cronofy/credentials.json)")
	pf.BoolVar(&c.storeOpts.UseKeychain, "use-keychain", false, "keep credentials in the macOS keychain")
	pf.BoolVar(&c.storeOpts.UseEnv, "use-env", false, "read credentials from CRONOFY_* environment variables")
	root.MarkFlagsMutuallyExclusive("use-keychain", "use-env")

	root.AddCommand(
		newAuthCmd(c),
		newAccountCmd(c),
		newProfilesCmd(c),
		newCalendarsCmd(c),
		newEventsCmd(c),
		newFreeBusyCmd(c),
		newUpsertEventCmd(c),
		newDeleteEventCmd(c),
		newChannelsCmd(c),
		newListenCmd(c),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel
	if c.verbose {
		level = "debug"
	}
	c.log = logger.New(level)
	c.store = app.NewStore(c.storeOpts, cfg, c.log)
	return nil
}

func (c *cli) client() (*cronofy.Client, error) {
	return app.NewClient(c.store, c.cfg, c.log)
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// parseEventTime accepts a date for all-day events or an RFC 3339 time.
func parseEventTime(s string) (cronofy.EventTime, error) {
	if len(s) == len(dateLayout) {
		t, err := parseDate(s)
		if err != nil {
			return cronofy.EventTime{}, err
		}
		return cronofy.On(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return cronofy.EventTime{}, fmt.Errorf("invalid time %q, want YYYY-MM-DD or RFC 3339", s)
	}
	return cronofy.At(t), nil
}

// boolFlag returns nil unless the flag was given explicitly.
func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return cronofy.Bool(v)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dvcrn/cronofy-go"
	"github.com/dvcrn/cronofy-go/internal/app"
	"github.com/dvcrn/cronofy-go/internal/webhook"
	"github.com/spf13/cobra"
)

func newChannelsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Manage push notification channels",
	}

	var p cronofy.CreateChannelParams
	var calendarIDs []string
	create := &cobra.Command{
		Use:   "create",
		Short: "Open a channel posting changes to a callback URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			onlyManaged := boolFlag(cmd, "only-managed")
			if len(calendarIDs) > 0 || onlyManaged != nil {
				p.Filters = &cronofy.ChannelFilters{CalendarIDs: calendarIDs, OnlyManaged: onlyManaged}
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			ch, err := client.CreateChannel(cmd.Context(), p)
			if err != nil {
				return err
			}
			return c.printJSON(ch)
		},
	}
	create.Flags().StringVar(&p.CallbackURL, "callback-url", "", "URL notifications are posted to")
	create.Flags().StringSliceVar(&calendarIDs, "calendar-id", nil, "only notify for these calendars (repeatable)")
	create.Flags().Bool("only-managed", false, "only notify for events created through the API")
	create.MarkFlagRequired("callback-url")

	list := &cobra.Command{
		Use:   "list",
		Short: "List open channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			channels, err := client.ListChannels(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(channels)
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close CHANNEL_ID",
		Short: "Close a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			return client.CloseChannel(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(create, list, closeCmd)
	return cmd
}

func newListenCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Receive push notifications and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.LoadCredentials(c.store, c.cfg); err != nil {
				return err
			}
			if addr == "" {
				addr = c.cfg.Webhook.Addr
			}

			var mu sync.Mutex
			handler := webhook.HandlerFunc(func(_ context.Context, n webhook.Notification) error {
				mu.Lock()
				defer mu.Unlock()
				return c.printJSON(n)
			})
			srv, err := app.NewWebhookServer(c.cfg, handler, c.store, c.log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, &http.Server{Addr: addr, Handler: srv, ReadHeaderTimeout: 10 * time.Second}, c)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config webhook.addr)")
	return cmd
}

func serve(ctx context.Context, hs *http.Server, c *cli) error {
	errCh := make(chan error, 1)
	go func() {
		c.log.Info().Str("addr", hs.Addr).Msg("Starting webhook server")
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

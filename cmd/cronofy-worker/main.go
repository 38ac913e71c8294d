//go:build js && wasm

package main

import (
	"context"

	"github.com/dvcrn/cronofy-go/internal/app"
	"github.com/dvcrn/cronofy-go/internal/config"
	"github.com/dvcrn/cronofy-go/internal/credentials"
	"github.com/dvcrn/cronofy-go/internal/logger"
	"github.com/dvcrn/cronofy-go/internal/webhook"
	"github.com/syumai/workers"
	"github.com/syumai/workers/cloudflare"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		cfg = &config.Config{Webhook: config.WebhookConfig{Path: webhook.DefaultPath}}
	}
	fromBindings(cfg)
	log := logger.New(cfg.LogLevel)

	log.Info().Msg("📦 Using Cloudflare KV credential store")
	store, err := credentials.NewKVStore()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Cloudflare KV store")
	}
	if _, err := app.LoadCredentials(store, cfg); err != nil {
		log.Warn().Err(err).Msg("⚠️  No credentials yet, seed them with POST /admin/credentials")
	}

	handler := webhook.HandlerFunc(func(_ context.Context, n webhook.Notification) error {
		ev := log.Info().
			Str("type", n.Notification.Type).
			Str("channel_id", n.Channel.ChannelID)
		if n.Notification.ChangesSince != nil {
			ev = ev.Time("changes_since", *n.Notification.ChangesSince)
		}
		ev.Msg("Notification accepted")
		return nil
	})

	srv, err := app.NewWebhookServer(cfg, handler, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create webhook server")
	}

	workers.Serve(srv)
}

// fromBindings fills settings the process environment did not provide from
// the worker's environment bindings.
func fromBindings(cfg *config.Config) {
	for name, field := range map[string]*string{
		"CRONOFY_CLIENT_ID":     &cfg.ClientID,
		"CRONOFY_CLIENT_SECRET": &cfg.ClientSecret,
		"CRONOFY_ADMIN_API_KEY": &cfg.AdminAPIKey,
	} {
		if *field == "" {
			*field = cloudflare.Getenv(name)
		}
	}
}

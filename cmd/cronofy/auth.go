package main

import (
	"errors"
	"fmt"

	"github.com/dvcrn/cronofy-go"
	"github.com/dvcrn/cronofy-go/internal/credentials"
	"github.com/spf13/cobra"
)

var defaultScopes = []string{"read_account", "read_events", "create_event", "delete_event"}

func newAuthCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage OAuth credentials",
	}
	cmd.AddCommand(
		newAuthInitCmd(c),
		newAuthURLCmd(c),
		newAuthEnterpriseURLCmd(c),
		newAuthExchangeCmd(c),
		newAuthRefreshCmd(c),
		newAuthRevokeCmd(c),
	)
	return cmd
}

func newAuthInitCmd(c *cli) *cobra.Command {
	var clientID, clientSecret string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Store the application's client id and secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			seeder, ok := c.store.(credentials.Initializer)
			if !ok {
				return fmt.Errorf("init: %w", credentials.ErrReadOnly)
			}
			if clientID == "" {
				clientID = c.cfg.ClientID
			}
			if clientSecret == "" {
				clientSecret = c.cfg.ClientSecret
			}
			if clientID == "" || clientSecret == "" {
				return errors.New("--client-id and --client-secret are required")
			}
			if err := seeder.Init(cronofy.Credentials{ClientID: clientID, ClientSecret: clientSecret}); err != nil {
				return err
			}
			c.log.Info().Msg("✅ Client credentials stored")
			return nil
		},
	}
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret")
	return cmd
}

func newAuthURLCmd(c *cli) *cobra.Command {
	var p cronofy.AuthorizationURLParams
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the authorization URL to send a user to",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, client.AuthorizationURL(p))
			return nil
		},
	}
	cmd.Flags().StringVar(&p.RedirectURI, "redirect-uri", "", "redirect URI registered for the application")
	cmd.Flags().StringSliceVar(&p.Scope, "scope", defaultScopes, "scopes to request")
	cmd.Flags().StringVar(&p.State, "state", "", "opaque value echoed back to the redirect URI")
	cmd.Flags().BoolVar(&p.AvoidLinking, "avoid-linking", false, "do not link the authorization to an existing account")
	cmd.MarkFlagRequired("redirect-uri")
	return cmd
}

func newAuthEnterpriseURLCmd(c *cli) *cobra.Command {
	var p cronofy.EnterpriseConnectParams
	cmd := &cobra.Command{
		Use:   "enterprise-url",
		Short: "Print the enterprise connect authorization URL for a domain administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, client.EnterpriseConnectAuthorizationURL(p))
			return nil
		},
	}
	cmd.Flags().StringVar(&p.RedirectURI, "redirect-uri", "", "redirect URI registered for the application")
	cmd.Flags().StringSliceVar(&p.Scope, "scope", []string{"service_account/accounts/manage", "service_account/resources/manage"}, "service account scopes")
	cmd.Flags().StringSliceVar(&p.DelegatedScope, "delegated-scope", defaultScopes, "scopes requested for each user")
	cmd.Flags().StringVar(&p.State, "state", "", "opaque value echoed back to the redirect URI")
	cmd.MarkFlagRequired("redirect-uri")
	return cmd
}

func newAuthExchangeCmd(c *cli) *cobra.Command {
	var redirectURI, code string
	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Exchange an authorization code for tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			return client.ExchangeAuthorizationCode(cmd.Context(), redirectURI, code)
		},
	}
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "redirect URI used for the authorization request")
	cmd.Flags().StringVar(&code, "code", "", "authorization code")
	cmd.MarkFlagRequired("redirect-uri")
	cmd.MarkFlagRequired("code")
	return cmd
}

func newAuthRefreshCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			return client.Refresh(cmd.Context())
		},
	}
}

func newAuthRevokeCmd(c *cli) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a token, the stored refresh token by default",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			if token == "" {
				token = client.RefreshToken()
			}
			if token == "" {
				return cronofy.ErrNoRefreshToken
			}
			return client.Revoke(cmd.Context(), token)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token to revoke")
	return cmd
}

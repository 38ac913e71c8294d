package cronofy

import (
	"context"
	"fmt"
	"strings"
)

// ServiceAccountAuthorizationParams are the inputs of AuthorizeWithServiceAccount.
type ServiceAccountAuthorizationParams struct {
	Email       string
	Scope       []string
	CallbackURL string
}

// AuthorizeWithServiceAccount requests access to a user's calendars through
// an enterprise connect service account. The result is delivered to the
// callback URL.
func (c *Client) AuthorizeWithServiceAccount(ctx context.Context, p ServiceAccountAuthorizationParams) error {
	body := struct {
		Email       string `json:"email"`
		Scope       string `json:"scope"`
		CallbackURL string `json:"callback_url"`
	}{
		Email:       p.Email,
		Scope:       strings.Join(p.Scope, " "),
		CallbackURL: p.CallbackURL,
	}
	if err := c.post(ctx, apiPath("/service_account_authorizations"), body, nil); err != nil {
		return fmt.Errorf("authorize %s with service account: %w", p.Email, err)
	}
	return nil
}

// Permission is a calendar and the access level requested for it.
type Permission struct {
	CalendarID      string `json:"calendar_id"`
	PermissionLevel string `json:"permission_level"`
}

// ElevatedPermissionsParams are the inputs of ElevatedPermissions.
type ElevatedPermissionsParams struct {
	Permissions []Permission `json:"permissions"`
	RedirectURI string       `json:"redirect_uri"`
}

// ElevatedPermissions asks for additional access to specific calendars. When
// the user has to approve, the returned request carries the URL to send them to.
func (c *Client) ElevatedPermissions(ctx context.Context, p ElevatedPermissionsParams) (*PermissionsRequest, error) {
	var resp struct {
		PermissionsRequest PermissionsRequest `json:"permissions_request"`
	}
	if err := c.post(ctx, apiPath("/permissions"), p, &resp); err != nil {
		return nil, fmt.Errorf("request elevated permissions: %w", err)
	}
	return &resp.PermissionsRequest, nil
}

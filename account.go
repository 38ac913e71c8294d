package cronofy

import (
	"context"
	"fmt"
)

// Account returns the authorized account.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	var resp struct {
		Account Account `json:"account"`
	}
	if err := c.get(ctx, apiPath("/account"), &resp); err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &resp.Account, nil
}

// Profiles lists the calendar profiles connected to the account.
func (c *Client) Profiles(ctx context.Context) ([]Profile, error) {
	var resp struct {
		Profiles []Profile `json:"profiles"`
	}
	if err := c.get(ctx, apiPath("/profiles"), &resp); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return resp.Profiles, nil
}

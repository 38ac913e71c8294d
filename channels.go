package cronofy

import (
	"context"
	"fmt"
	"net/url"
)

// CreateChannelParams are the inputs of CreateChannel.
type CreateChannelParams struct {
	CallbackURL string          `json:"callback_url"`
	Filters     *ChannelFilters `json:"filters,omitempty"`
}

// CreateChannel subscribes callbackURL to changes of the account's calendars.
func (c *Client) CreateChannel(ctx context.Context, p CreateChannelParams) (*Channel, error) {
	var resp struct {
		Channel Channel `json:"channel"`
	}
	if err := c.post(ctx, apiPath("/channels"), p, &resp); err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}
	return &resp.Channel, nil
}

// ListChannels lists the open channels of the account.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	var resp struct {
		Channels []Channel `json:"channels"`
	}
	if err := c.get(ctx, apiPath("/channels"), &resp); err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return resp.Channels, nil
}

// CloseChannel stops notifications for a channel.
func (c *Client) CloseChannel(ctx context.Context, channelID string) error {
	if err := c.delete(ctx, apiPath("/channels/"+url.PathEscape(channelID)), nil, nil); err != nil {
		return fmt.Errorf("close channel %s: %w", channelID, err)
	}
	return nil
}

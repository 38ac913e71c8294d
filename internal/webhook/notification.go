package webhook

import (
	"context"
	"time"

	"github.com/dvcrn/cronofy-go"
)

// Notification types sent to a channel's callback URL.
const (
	TypeVerification                = "verification"
	TypeChange                      = "change"
	TypeProfileDisconnected         = "profile_disconnected"
	TypeProfileInitialSyncCompleted = "profile_initial_sync_completed"
)

// Notification is the body Cronofy posts to a channel's callback URL.
type Notification struct {
	Notification struct {
		Type         string     `json:"type"`
		ChangesSince *time.Time `json:"changes_since,omitempty"`
	} `json:"notification"`
	Channel cronofy.Channel `json:"channel"`
}

// Handler processes verified notifications. An error makes the receiver
// answer 500 so Cronofy retries the delivery.
type Handler interface {
	HandleNotification(ctx context.Context, n Notification) error
}

type HandlerFunc func(ctx context.Context, n Notification) error

func (f HandlerFunc) HandleNotification(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

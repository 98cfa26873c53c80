package interfaces

import (
	"context"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
)

// Notifier delivers an alert to every configured channel
type Notifier interface {
	Notify(ctx context.Context, alert *model.Alert) error
}

// Channel is a single alert destination such as a Slack webhook
type Channel interface {
	Name() string
	Send(ctx context.Context, alert *model.Alert) error
}

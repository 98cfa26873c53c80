package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/releasewatch/pkg/domain/interfaces"
	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
)

// Multi fans an alert out to every channel. A failing channel does not
// prevent delivery to the others.
type Multi struct {
	channels []interfaces.Channel
}

var _ interfaces.Notifier = (*Multi)(nil)

// New creates a notifier over channels. With no channels alerts are only logged.
func New(channels ...interfaces.Channel) *Multi {
	return &Multi{channels: channels}
}

// Channels returns the configured channel names
func (m *Multi) Channels() []string {
	names := make([]string, 0, len(m.channels))
	for _, ch := range m.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Notify sends alert to all channels and returns the joined delivery errors
func (m *Multi) Notify(ctx context.Context, alert *model.Alert) error {
	logger := ctxlog.From(ctx)

	if len(m.channels) == 0 {
		logger.Debug("No alert channel configured", slog.String("title", alert.Title()))
		return nil
	}

	var errs []error
	for _, ch := range m.channels {
		if err := ch.Send(ctx, alert); err != nil {
			errs = append(errs, goerr.Wrap(err, "failed to deliver alert",
				goerr.T(types.ErrTagNotify),
				goerr.V("channel", ch.Name()),
				goerr.V("repo", alert.Repository.FullName())))
			continue
		}

		logger.Info("Alert delivered",
			slog.String("channel", ch.Name()),
			slog.String("repo", alert.Repository.FullName()),
			slog.String("kind", string(alert.Kind)),
		)
	}

	return errors.Join(errs...)
}

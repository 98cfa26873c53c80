package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/releasewatch/pkg/cli/config"
	"github.com/m-mizutani/releasewatch/pkg/usecase"
	"github.com/m-mizutani/releasewatch/pkg/utils/metrics"
)

// pollerConfig groups the settings every polling command needs
type pollerConfig struct {
	github   config.GitHub
	tracking config.Tracking
	state    config.State
	notify   config.Notify
}

func (c *pollerConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, c.github.Flags()...)
	flags = append(flags, c.tracking.Flags()...)
	flags = append(flags, c.state.Flags()...)
	flags = append(flags, c.notify.Flags()...)
	return flags
}

func (c *pollerConfig) Validate() error {
	for _, v := range []interface{ Validate() error }{&c.github, &c.tracking, &c.state, &c.notify} {
		if err := v.Validate(); err != nil {
			return goerr.Wrap(err, "invalid configuration")
		}
	}
	return nil
}

// build validates the configuration and wires a Poller. The returned
// function releases the state store.
func (c *pollerConfig) build(ctx context.Context, m *metrics.Metrics) (*usecase.Poller, func(), error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	client, err := c.github.NewClient()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create GitHub client")
	}

	store, closer, err := c.state.NewStore(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open state store")
	}

	notifier := c.notify.NewNotifier()

	ctxlog.From(ctx).Info("Poller configured",
		slog.Any("github", c.github),
		slog.Any("tracking", c.tracking),
		slog.Any("state", c.state),
		slog.Any("notify", c.notify),
		slog.Any("channels", notifier.Channels()),
	)

	poller := usecase.NewPoller(
		c.tracking.NewProvider(client),
		client,
		store,
		notifier,
		usecase.WithMetrics(m),
	)
	return poller, closer, nil
}

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/releasewatch/pkg/utils/metrics"
)

func cmdOnce() *cli.Command {
	var pollerCfg pollerConfig

	return &cli.Command{
		Name:  "once",
		Usage: "Run a single poll cycle and exit",
		Flags: pollerCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			poller, closeStore, err := pollerCfg.build(ctx, metrics.Nop())
			if err != nil {
				return err
			}
			defer closeStore()

			_, err = poller.RunOnce(ctx)
			return err
		},
	}
}

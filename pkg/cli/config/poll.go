package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Poll holds scheduling configuration
type Poll struct {
	Interval time.Duration
}

// Flags returns CLI flags for poll configuration
func (c *Poll) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "interval",
			Usage:       "Wait between the end of a poll cycle and the start of the next",
			Value:       10 * time.Minute,
			Destination: &c.Interval,
			Sources:     cli.EnvVars("RELEASEWATCH_POLL_INTERVAL"),
		},
	}
}

// Validate checks the interval is usable
func (c *Poll) Validate() error {
	if c.Interval <= 0 {
		return goerr.New("poll interval must be positive", goerr.V("interval", c.Interval))
	}
	return nil
}

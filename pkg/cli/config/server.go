package config

import "github.com/urfave/cli/v3"

// Server holds metrics/health server configuration
type Server struct {
	Addr string
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "metrics-addr",
			Usage:       "Address of the metrics and health endpoint, empty to disable",
			Value:       ":9090",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("RELEASEWATCH_METRICS_ADDR"),
		},
	}
}

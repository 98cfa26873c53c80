package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/releasewatch/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/releasewatch/pkg/infra/github"
	"github.com/m-mizutani/releasewatch/pkg/infra/tracking"
)

// Tracking holds the source of the tracked repository list
type Tracking struct {
	File string

	RemoteEnabled bool
	RemoteOwner   string
	RemoteRepo    string
	RemotePath    string
	RemoteRef     string
}

// Flags returns CLI flags for tracking list configuration
func (c *Tracking) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tracking-file",
			Usage:       "Local tracking list (.json, .toml, .yaml)",
			Value:       "repos-to-track.json",
			Destination: &c.File,
			Sources:     cli.EnvVars("RELEASEWATCH_TRACKING_FILE"),
		},
		&cli.BoolFlag{
			Name:        "github-config-enabled",
			Usage:       "Read the tracking list from a GitHub repository instead of a local file",
			Destination: &c.RemoteEnabled,
			Sources:     cli.EnvVars("RELEASEWATCH_GITHUB_CONFIG_ENABLED", "github_config_enabled"),
		},
		&cli.StringFlag{
			Name:        "github-config-owner",
			Usage:       "Owner of the repository holding the tracking list",
			Destination: &c.RemoteOwner,
			Sources:     cli.EnvVars("RELEASEWATCH_GITHUB_CONFIG_OWNER", "github_user"),
		},
		&cli.StringFlag{
			Name:        "github-config-repo",
			Usage:       "Repository holding the tracking list",
			Destination: &c.RemoteRepo,
			Sources:     cli.EnvVars("RELEASEWATCH_GITHUB_CONFIG_REPO", "github_repo"),
		},
		&cli.StringFlag{
			Name:        "github-config-path",
			Usage:       "Path of the tracking list in the repository",
			Value:       "repos-to-track.json",
			Destination: &c.RemotePath,
			Sources:     cli.EnvVars("RELEASEWATCH_GITHUB_CONFIG_PATH"),
		},
		&cli.StringFlag{
			Name:        "github-config-ref",
			Usage:       "Branch, tag or commit of the tracking list (default branch if empty)",
			Destination: &c.RemoteRef,
			Sources:     cli.EnvVars("RELEASEWATCH_GITHUB_CONFIG_REF"),
		},
	}
}

// Validate checks the remote source is fully specified when enabled
func (c *Tracking) Validate() error {
	if c.RemoteEnabled {
		if c.RemoteOwner == "" || c.RemoteRepo == "" {
			return goerr.New("github-config-owner and github-config-repo are required with github-config-enabled")
		}
		return nil
	}
	if c.File == "" {
		return goerr.New("tracking-file is required")
	}
	return nil
}

// NewProvider returns the configured tracking list provider
func (c *Tracking) NewProvider(client *githubinfra.Client) interfaces.TrackingProvider {
	if c.RemoteEnabled {
		return githubinfra.NewTrackingProvider(client, c.RemoteOwner, c.RemoteRepo, c.RemotePath, c.RemoteRef)
	}
	return tracking.NewFile(c.File)
}

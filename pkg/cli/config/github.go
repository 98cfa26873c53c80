package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	githubinfra "github.com/m-mizutani/releasewatch/pkg/infra/github"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	PrivateKeyFile string
	BaseURL        string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for API requests",
			Destination: &c.Token,
			Sources:     cli.EnvVars("RELEASEWATCH_GITHUB_TOKEN", "github_token"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID, used instead of a token when set",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("RELEASEWATCH_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("RELEASEWATCH_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("RELEASEWATCH_GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-private-key-file",
			Usage:       "Path to the GitHub App private key",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("RELEASEWATCH_GITHUB_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub API base URL (GitHub Enterprise)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("RELEASEWATCH_GITHUB_BASE_URL"),
		},
	}
}

// Validate checks that GitHub App settings are complete when used
func (c *GitHub) Validate() error {
	if c.AppID == 0 {
		return nil
	}
	if c.InstallationID == 0 {
		return goerr.New("github-installation-id is required with github-app-id")
	}
	if c.PrivateKey == "" && c.PrivateKeyFile == "" {
		return goerr.New("github-private-key or github-private-key-file is required with github-app-id")
	}
	return nil
}

// NewClient builds the GitHub client
func (c *GitHub) NewClient() (*githubinfra.Client, error) {
	var opts []githubinfra.Option

	if c.AppID != 0 {
		key := []byte(c.PrivateKey)
		if c.PrivateKeyFile != "" {
			data, err := os.ReadFile(c.PrivateKeyFile)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to read GitHub App private key",
					goerr.V("path", c.PrivateKeyFile))
			}
			key = data
		}
		opts = append(opts, githubinfra.WithApp(c.AppID, c.InstallationID, key))
	} else if c.Token != "" {
		opts = append(opts, githubinfra.WithToken(c.Token))
	}

	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}

	return githubinfra.NewClient(opts...)
}

package github

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
)

// config holds internal GitHub client configuration
type config struct {
	token          string
	appID          int64
	installationID int64
	privateKey     []byte
	baseURL        string
	timeout        time.Duration
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithToken authenticates with a personal access token
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithApp authenticates as a GitHub App installation
func WithApp(appID, installationID int64, privateKey []byte) Option {
	return func(c *config) {
		c.appID = appID
		c.installationID = installationID
		c.privateKey = privateKey
	}
}

// WithBaseURL points the client at another API root, e.g. GitHub Enterprise
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// Client wraps the GitHub REST API for release and contents lookups
type Client struct {
	githubClient *github.Client
}

// NewClient creates a GitHub client. Without credentials it is anonymous,
// which is enough for public releases within the unauthenticated rate limit.
func NewClient(opts ...Option) (*Client, error) {
	cfg := &config{
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := &http.Client{Timeout: cfg.timeout}

	if cfg.appID != 0 {
		itr, err := ghinstallation.New(http.DefaultTransport, cfg.appID, cfg.installationID, cfg.privateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App transport",
				goerr.V("app_id", cfg.appID),
				goerr.V("installation_id", cfg.installationID))
		}
		if cfg.baseURL != "" {
			itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/")
		}
		httpClient.Transport = itr
	}

	githubClient := github.NewClient(httpClient)
	if cfg.token != "" && cfg.appID == 0 {
		githubClient = githubClient.WithAuthToken(cfg.token)
	}

	if cfg.baseURL != "" {
		u, err := url.Parse(cfg.baseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub base URL", goerr.V("base_url", cfg.baseURL))
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		githubClient.BaseURL = u
	}

	return &Client{
		githubClient: githubClient,
	}, nil
}

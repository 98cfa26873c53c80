package github

import (
	"context"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/releasewatch/pkg/domain/interfaces"
	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
	"github.com/m-mizutani/releasewatch/pkg/infra/tracking"
)

type trackingProvider struct {
	client *Client
	owner  string
	repo   string
	path   string
	ref    string
}

// NewTrackingProvider returns a provider that reads the tracking list from
// a file in a GitHub repository. An empty ref means the default branch.
func NewTrackingProvider(client *Client, owner, repo, path, ref string) interfaces.TrackingProvider {
	return &trackingProvider{
		client: client,
		owner:  owner,
		repo:   repo,
		path:   path,
		ref:    ref,
	}
}

func (p *trackingProvider) List(ctx context.Context) ([]model.TrackedRepository, error) {
	var opts *github.RepositoryContentGetOptions
	if p.ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: p.ref}
	}

	file, _, _, err := p.client.githubClient.Repositories.GetContents(ctx, p.owner, p.repo, p.path, opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch tracking list from GitHub",
			goerr.T(types.ErrTagConfig),
			goerr.V("repo", p.owner+"/"+p.repo),
			goerr.V("path", p.path))
	}
	if file == nil {
		return nil, goerr.New("tracking list path is a directory",
			goerr.T(types.ErrTagConfig), goerr.V("path", p.path))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode tracking list content",
			goerr.T(types.ErrTagConfig), goerr.V("path", p.path))
	}

	return tracking.Decode(p.path, []byte(content))
}

package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
)

// FetchLatest returns the latest release of repo. The payload is decoded
// into a generic map so fields unknown to go-github survive persistence.
func (c *Client) FetchLatest(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error) {
	u := fmt.Sprintf("repos/%s/%s/releases/latest", repo.Owner, repo.Name)

	req, err := c.githubClient.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build latest release request",
			goerr.T(types.ErrTagFetch), goerr.V("repo", repo.FullName()))
	}

	var raw map[string]any
	resp, err := c.githubClient.Do(ctx, req, &raw)
	if err != nil {
		opts := []goerr.Option{goerr.T(types.ErrTagFetch), goerr.V("repo", repo.FullName())}
		if resp != nil {
			opts = append(opts, goerr.V("status", resp.StatusCode))
		}
		return nil, goerr.Wrap(err, "failed to fetch latest release", opts...)
	}

	return model.NewReleaseDescriptor(raw), nil
}

package interfaces

import (
	"context"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
)

// ReleaseFetcher retrieves the latest release of a repository
type ReleaseFetcher interface {
	// FetchLatest returns the latest published release of repo
	FetchLatest(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error)
}

// StateStore persists the last observed release per repository
type StateStore interface {
	// Load returns the persisted descriptor, or nil without error if repo was never observed
	Load(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error)

	// Save overwrites the persisted descriptor for repo
	Save(ctx context.Context, repo model.TrackedRepository, desc *model.ReleaseDescriptor) error
}

// TrackingProvider supplies the list of repositories to poll
type TrackingProvider interface {
	List(ctx context.Context) ([]model.TrackedRepository, error)
}

package tracking

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/releasewatch/pkg/domain/interfaces"
	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
)

type fileProvider struct {
	path string
}

// NewFile returns a provider that re-reads path on every call, so edits to
// the file take effect on the next poll cycle.
func NewFile(path string) interfaces.TrackingProvider {
	return &fileProvider{path: path}
}

func (p *fileProvider) List(ctx context.Context) ([]model.TrackedRepository, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read tracking list",
			goerr.T(types.ErrTagConfig), goerr.V("path", p.path))
	}

	return Decode(p.path, data)
}

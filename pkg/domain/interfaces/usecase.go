package interfaces

import (
	"context"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
)

// PollUseCase runs poll cycles
type PollUseCase interface {
	// RunOnce processes every tracked repository once. The returned error is
	// non-nil only when the tracking list could not be loaded.
	RunOnce(ctx context.Context) (*model.CycleReport, error)
}

// CycleStatus exposes the most recent poll cycle to the health endpoint
type CycleStatus interface {
	LastCycle() *model.CycleReport
}

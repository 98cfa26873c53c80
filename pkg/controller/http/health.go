package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/releasewatch/pkg/domain/interfaces"
	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
)

// newHealthHandler reports liveness plus the summary of the last poll cycle.
// An aborted last cycle is reported as "degraded" but still answers 200:
// the process is alive and will retry on the next interval.
func newHealthHandler(status interfaces.CycleStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := &model.HealthStatus{
			Status:  "healthy",
			Service: "releasewatch",
			Version: types.Version,
		}
		if status != nil {
			resp.LastCycle = status.LastCycle()
		}
		if resp.LastCycle != nil && resp.LastCycle.Aborted {
			resp.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
		}
	}
}

package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"

	controller "github.com/m-mizutani/releasewatch/pkg/controller/http"
	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/utils/metrics"
)

// mockStatus is a mock implementation of CycleStatus
type mockStatus struct {
	last *model.CycleReport
}

func (m *mockStatus) LastCycle() *model.CycleReport { return m.last }

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		last       *model.CycleReport
		wantStatus string
	}{
		{name: "before first cycle", last: nil, wantStatus: "healthy"},
		{name: "completed cycle", last: &model.CycleReport{ID: "c1", Repositories: 2, Processed: 2}, wantStatus: "healthy"},
		{name: "aborted cycle", last: &model.CycleReport{ID: "c2", Aborted: true}, wantStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := controller.NewServer(context.Background(), &mockStatus{last: tt.last},
				controller.WithAddr("localhost:0"),
				controller.WithGatherer(prometheus.NewRegistry()),
			)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			server.Handler.ServeHTTP(w, req)

			gt.Equal(t, w.Code, http.StatusOK)

			var status model.HealthStatus
			gt.NoError(t, json.NewDecoder(w.Body).Decode(&status))
			gt.Equal(t, status.Status, tt.wantStatus)
			gt.Equal(t, status.Service, "releasewatch")
			gt.True(t, status.Version != "")

			if tt.last != nil {
				gt.NotNil(t, status.LastCycle)
				gt.Equal(t, status.LastCycle.ID, tt.last.ID)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Alert("upgrade")

	server := controller.NewServer(context.Background(), &mockStatus{}, controller.WithGatherer(reg))
	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	gt.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	gt.Equal(t, resp.StatusCode, http.StatusOK)
	body, err := io.ReadAll(resp.Body)
	gt.NoError(t, err)
	gt.String(t, string(body)).Contains(`releasewatch_alerts_total{kind="upgrade"} 1`)
}

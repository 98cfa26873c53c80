package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
	"github.com/m-mizutani/releasewatch/pkg/infra/state"
	"github.com/m-mizutani/releasewatch/pkg/usecase"
	"github.com/m-mizutani/releasewatch/pkg/utils/metrics"
)

// mockTracking is a mock implementation of TrackingProvider
type mockTracking struct {
	listFunc func(ctx context.Context) ([]model.TrackedRepository, error)
}

func (m *mockTracking) List(ctx context.Context) ([]model.TrackedRepository, error) {
	return m.listFunc(ctx)
}

func staticTracking(repos ...model.TrackedRepository) *mockTracking {
	return &mockTracking{listFunc: func(ctx context.Context) ([]model.TrackedRepository, error) {
		return repos, nil
	}}
}

// mockFetcher is a mock implementation of ReleaseFetcher
type mockFetcher struct {
	fetchFunc func(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error)
	calls     []model.TrackedRepository
}

func (m *mockFetcher) FetchLatest(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error) {
	m.calls = append(m.calls, repo)
	return m.fetchFunc(ctx, repo)
}

// tagFetcher returns the tag registered for each repository
func tagFetcher(tags map[string]string) *mockFetcher {
	return &mockFetcher{fetchFunc: func(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error) {
		tag, ok := tags[repo.FullName()]
		if !ok {
			return nil, goerr.New("not found", goerr.T(types.ErrTagFetch))
		}
		return release(tag), nil
	}}
}

func release(tag string) *model.ReleaseDescriptor {
	return model.NewReleaseDescriptor(map[string]any{
		"tag_name": tag,
		"html_url": "https://x/" + tag,
	})
}

// mockStore is an in-memory StateStore with injectable failures
type mockStore struct {
	data     map[string]*model.ReleaseDescriptor
	loadErr  error
	saveErr  error
	saveKeys []string
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string]*model.ReleaseDescriptor{}}
}

func (m *mockStore) Load(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[repo.FullName()], nil
}

func (m *mockStore) Save(ctx context.Context, repo model.TrackedRepository, desc *model.ReleaseDescriptor) error {
	m.saveKeys = append(m.saveKeys, repo.FullName())
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[repo.FullName()] = desc
	return nil
}

// mockNotifier records alerts
type mockNotifier struct {
	notifyFunc func(ctx context.Context, alert *model.Alert) error
	alerts     []*model.Alert
}

func (m *mockNotifier) Notify(ctx context.Context, alert *model.Alert) error {
	m.alerts = append(m.alerts, alert)
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, alert)
	}
	return nil
}

var (
	widget = model.TrackedRepository{Owner: "acme", Name: "widget"}
	gadget = model.TrackedRepository{Owner: "acme", Name: "gadget"}
)

func TestPoller_RunOnce_FirstObservation(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	notifier := &mockNotifier{}

	poller := usecase.NewPoller(staticTracking(widget), tagFetcher(map[string]string{"acme/widget": "v1.0.0"}), store, notifier)

	report, err := poller.RunOnce(ctx)
	gt.NoError(t, err)
	gt.Equal(t, len(notifier.alerts), 0)
	gt.Equal(t, store.data["acme/widget"].TagName, "v1.0.0")
	gt.Equal(t, report.Processed, 1)
	gt.Equal(t, report.Alerts, 0)
	gt.True(t, report.ID != "")
}

func TestPoller_RunOnce_Orderings(t *testing.T) {
	tests := []struct {
		name      string
		prev      string
		curr      string
		wantAlert model.AlertKind
	}{
		{name: "upgrade", prev: "v1.0.0", curr: "v1.1.0", wantAlert: model.AlertUpgrade},
		{name: "downgrade", prev: "v1.1.0", curr: "v1.0.0", wantAlert: model.AlertDowngrade},
		{name: "same", prev: "v1.0.0", curr: "v1.0.0"},
		{name: "incomparable new", prev: "v1.0.0", curr: "N/A"},
		{name: "incomparable old", prev: "nightly", curr: "v1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			store.data["acme/widget"] = release(tt.prev)
			notifier := &mockNotifier{}

			poller := usecase.NewPoller(staticTracking(widget), tagFetcher(map[string]string{"acme/widget": tt.curr}), store, notifier)
			_, err := poller.RunOnce(context.Background())
			gt.NoError(t, err)

			if tt.wantAlert == "" {
				gt.Equal(t, len(notifier.alerts), 0)
			} else {
				gt.Equal(t, len(notifier.alerts), 1)
				gt.Equal(t, notifier.alerts[0].Kind, tt.wantAlert)
				gt.Equal(t, notifier.alerts[0].OldVersion, tt.prev)
				gt.Equal(t, notifier.alerts[0].NewVersion, tt.curr)
				gt.Equal(t, notifier.alerts[0].URL, "https://x/"+tt.curr)
			}

			// state always reflects the latest fetch
			gt.Equal(t, store.data["acme/widget"].TagName, tt.curr)
		})
	}
}

func TestPoller_RunOnce_FetchFailureIsolated(t *testing.T) {
	store := newMockStore()
	store.data["acme/gadget"] = release("v2.0.0")
	notifier := &mockNotifier{}
	fetcher := tagFetcher(map[string]string{"acme/gadget": "v2.1.0"})

	poller := usecase.NewPoller(staticTracking(widget, gadget), fetcher, store, notifier)
	report, err := poller.RunOnce(context.Background())
	gt.NoError(t, err)

	gt.Equal(t, fetcher.calls, []model.TrackedRepository{widget, gadget})
	gt.Equal(t, store.saveKeys, []string{"acme/gadget"})
	gt.Equal(t, store.data["acme/gadget"].TagName, "v2.1.0")
	gt.Equal(t, len(notifier.alerts), 1)
	gt.Equal(t, report.Failures, 1)
	gt.Equal(t, report.Processed, 1)
}

func TestPoller_RunOnce_TrackingFailureAborts(t *testing.T) {
	tracking := &mockTracking{listFunc: func(ctx context.Context) ([]model.TrackedRepository, error) {
		return nil, errors.New("unexpected end of JSON input")
	}}
	fetcher := tagFetcher(nil)
	store := newMockStore()

	reg := prometheus.NewRegistry()
	poller := usecase.NewPoller(tracking, fetcher, store, &mockNotifier{}, usecase.WithMetrics(metrics.New(reg)))

	report, err := poller.RunOnce(context.Background())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
	gt.True(t, report.Aborted)
	gt.Equal(t, len(fetcher.calls), 0)
	gt.Equal(t, len(store.saveKeys), 0)

	count, err := testutil.GatherAndCount(reg, "releasewatch_poll_cycles_total")
	gt.NoError(t, err)
	gt.Equal(t, count, 1)
}

func TestPoller_RunOnce_StorageFailures(t *testing.T) {
	t.Run("load failure is treated as first observation", func(t *testing.T) {
		store := newMockStore()
		store.loadErr = goerr.New("corrupt", goerr.T(types.ErrTagStorage))
		notifier := &mockNotifier{}

		poller := usecase.NewPoller(staticTracking(widget), tagFetcher(map[string]string{"acme/widget": "v1.0.0"}), store, notifier)
		report, err := poller.RunOnce(context.Background())
		gt.NoError(t, err)
		gt.Equal(t, len(notifier.alerts), 0)
		gt.Equal(t, store.data["acme/widget"].TagName, "v1.0.0")
		gt.Equal(t, report.Failures, 1)
	})

	t.Run("save failure does not stop later repositories", func(t *testing.T) {
		store := newMockStore()
		store.saveErr = goerr.New("disk full", goerr.T(types.ErrTagStorage))

		fetcher := tagFetcher(map[string]string{"acme/widget": "v1.0.0", "acme/gadget": "v2.0.0"})
		poller := usecase.NewPoller(staticTracking(widget, gadget), fetcher, store, &mockNotifier{})
		report, err := poller.RunOnce(context.Background())
		gt.NoError(t, err)
		gt.Equal(t, store.saveKeys, []string{"acme/widget", "acme/gadget"})
		gt.Equal(t, report.Failures, 2)
	})
}

func TestPoller_RunOnce_NotifyFailureIsNonFatal(t *testing.T) {
	store := newMockStore()
	store.data["acme/widget"] = release("v1.0.0")
	store.data["acme/gadget"] = release("v2.0.0")
	notifier := &mockNotifier{notifyFunc: func(ctx context.Context, alert *model.Alert) error {
		return goerr.New("webhook 500", goerr.T(types.ErrTagNotify))
	}}

	fetcher := tagFetcher(map[string]string{"acme/widget": "v1.1.0", "acme/gadget": "v2.1.0"})
	poller := usecase.NewPoller(staticTracking(widget, gadget), fetcher, store, notifier)
	_, err := poller.RunOnce(context.Background())
	gt.NoError(t, err)

	gt.Equal(t, len(notifier.alerts), 2)
	gt.Equal(t, store.data["acme/widget"].TagName, "v1.1.0")
	gt.Equal(t, store.data["acme/gadget"].TagName, "v2.1.0")
}

func TestPoller_RunOnce_SkipsInvalidEntries(t *testing.T) {
	fetcher := tagFetcher(map[string]string{"acme/widget": "v1.0.0"})
	poller := usecase.NewPoller(
		staticTracking(model.TrackedRepository{Owner: "acme"}, widget),
		fetcher, newMockStore(), &mockNotifier{},
	)

	report, err := poller.RunOnce(context.Background())
	gt.NoError(t, err)
	gt.Equal(t, fetcher.calls, []model.TrackedRepository{widget})
	gt.Equal(t, report.Failures, 1)
}

func TestPoller_EndToEnd(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "targets")
	store := state.NewFile(dir)
	notifier := &mockNotifier{}

	var tag string
	fetcher := &mockFetcher{fetchFunc: func(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error) {
		return release(tag), nil
	}}
	poller := usecase.NewPoller(staticTracking(widget), fetcher, store, notifier)

	readState := func() string {
		desc, err := store.Load(ctx, widget)
		gt.NoError(t, err)
		return desc.TagName
	}

	// cycle 1: first observation
	tag = "v1.0.0"
	_, err := poller.RunOnce(ctx)
	gt.NoError(t, err)
	gt.Equal(t, len(notifier.alerts), 0)
	gt.Equal(t, readState(), "v1.0.0")

	_, err = os.Stat(filepath.Join(dir, "acme_widget.json"))
	gt.NoError(t, err)

	// cycle 2: upgrade
	tag = "v1.1.0"
	_, err = poller.RunOnce(ctx)
	gt.NoError(t, err)
	gt.Equal(t, len(notifier.alerts), 1)
	gt.Equal(t, notifier.alerts[0].Kind, model.AlertUpgrade)
	gt.String(t, notifier.alerts[0].Message()).Contains("v1.0.0")
	gt.String(t, notifier.alerts[0].Message()).Contains("v1.1.0")
	gt.Equal(t, readState(), "v1.1.0")

	// cycle 3: re-release of an old tag
	tag = "v1.0.0"
	_, err = poller.RunOnce(ctx)
	gt.NoError(t, err)
	gt.Equal(t, len(notifier.alerts), 2)
	gt.Equal(t, notifier.alerts[1].Kind, model.AlertDowngrade)
	gt.Equal(t, readState(), "v1.0.0")
}

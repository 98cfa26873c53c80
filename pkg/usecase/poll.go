package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/releasewatch/pkg/domain/interfaces"
	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
	"github.com/m-mizutani/releasewatch/pkg/utils/errs"
	"github.com/m-mizutani/releasewatch/pkg/utils/metrics"
)

// Poller runs poll cycles over the tracked repositories
type Poller struct {
	tracking interfaces.TrackingProvider
	fetcher  interfaces.ReleaseFetcher
	store    interfaces.StateStore
	notifier interfaces.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

var _ interfaces.PollUseCase = (*Poller)(nil)

// PollerOption is a functional option for Poller
type PollerOption func(*Poller)

// WithMetrics records cycle, alert and error counters to m
func WithMetrics(m *metrics.Metrics) PollerOption {
	return func(p *Poller) {
		p.metrics = m
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) PollerOption {
	return func(p *Poller) {
		p.now = now
	}
}

// NewPoller creates a Poller
func NewPoller(
	tracking interfaces.TrackingProvider,
	fetcher interfaces.ReleaseFetcher,
	store interfaces.StateStore,
	notifier interfaces.Notifier,
	opts ...PollerOption,
) *Poller {
	p := &Poller{
		tracking: tracking,
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		metrics:  metrics.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunOnce processes every tracked repository sequentially. Failures of one
// repository are logged and do not affect the others; only a tracking list
// that cannot be loaded aborts the cycle, and that error is returned.
func (p *Poller) RunOnce(ctx context.Context) (*model.CycleReport, error) {
	report := &model.CycleReport{
		ID:        uuid.NewString(),
		StartedAt: p.now(),
	}

	logger := ctxlog.From(ctx).With(slog.String("cycle_id", report.ID))
	ctx = ctxlog.With(ctx, logger)

	repos, err := p.tracking.List(ctx)
	if err != nil {
		if !goerr.HasTag(err, types.ErrTagConfig) {
			err = goerr.Wrap(err, "failed to load tracking list", goerr.T(types.ErrTagConfig))
		}
		errs.Handle(ctx, "Poll cycle aborted", err)
		p.metrics.Error(errs.Kind(err))
		p.metrics.CycleAborted()

		report.Aborted = true
		report.FinishedAt = p.now()
		return report, err
	}

	report.Repositories = len(repos)
	p.metrics.Tracked(len(repos))
	logger.Info("Poll cycle started", slog.Int("repositories", len(repos)))

	for _, repo := range repos {
		if !repo.IsValid() {
			logger.Warn("Skipping tracking entry without owner or name",
				slog.String("owner", repo.Owner),
				slog.String("name", repo.Name),
			)
			report.Failures++
			continue
		}

		result := p.processRepository(ctx, repo)
		if result.fetched {
			report.Processed++
		}
		if result.alerted {
			report.Alerts++
		}
		report.Failures += result.failures
	}

	report.FinishedAt = p.now()
	p.metrics.CycleCompleted(report.FinishedAt.Sub(report.StartedAt).Seconds(), float64(report.FinishedAt.Unix()))

	logger.Info("Poll cycle finished",
		slog.Int("processed", report.Processed),
		slog.Int("alerts", report.Alerts),
		slog.Int("failures", report.Failures),
		slog.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

type repoResult struct {
	fetched  bool
	alerted  bool
	failures int
}

func (p *Poller) fail(ctx context.Context, msg string, err error, result *repoResult) {
	errs.Handle(ctx, msg, err)
	p.metrics.Error(errs.Kind(err))
	result.failures++
}

func (p *Poller) processRepository(ctx context.Context, repo model.TrackedRepository) repoResult {
	var result repoResult
	logger := ctxlog.From(ctx).With(slog.String("repo", repo.FullName()))
	ctx = ctxlog.With(ctx, logger)

	curr, err := p.fetcher.FetchLatest(ctx, repo)
	if err != nil {
		p.fail(ctx, "Failed to fetch latest release", err, &result)
		return result
	}
	result.fetched = true

	logger.Info("Fetched latest release",
		slog.String("tag_name", curr.TagName),
		slog.String("html_url", curr.HTMLURL),
	)

	prev, err := p.store.Load(ctx, repo)
	if err != nil {
		p.fail(ctx, "Failed to load previous release, treating as first observation", err, &result)
		prev = nil
	}

	if prev == nil {
		logger.Info("First observation, no comparison")
	} else if alert := p.compare(ctx, repo, prev, curr); alert != nil {
		result.alerted = true
		p.metrics.Alert(string(alert.Kind))
		logger.Info(alert.Title(),
			slog.String("old_version", alert.OldVersion),
			slog.String("new_version", alert.NewVersion),
			slog.String("url", alert.URL),
		)

		if err := p.notifier.Notify(ctx, alert); err != nil {
			p.fail(ctx, "Failed to deliver alert", err, &result)
		}
	}

	// The fetched release always becomes the stored state, including when
	// the versions were incomparable.
	if err := p.store.Save(ctx, repo, curr); err != nil {
		p.fail(ctx, "Failed to save release state", err, &result)
	}

	return result
}

func (p *Poller) compare(ctx context.Context, repo model.TrackedRepository, prev, curr *model.ReleaseDescriptor) *model.Alert {
	logger := ctxlog.From(ctx)

	ordering := model.CompareVersions(prev.TagName, curr.TagName)
	logger.Debug("Compared versions",
		slog.String("old_version", prev.TagName),
		slog.String("new_version", curr.TagName),
		slog.String("ordering", string(ordering)),
	)

	if ordering == model.VersionIncomparable {
		err := goerr.New("invalid version strings, skipping alert",
			goerr.T(types.ErrTagVersion),
			goerr.V("old_version", prev.TagName),
			goerr.V("new_version", curr.TagName))
		errs.Handle(ctx, "Cannot compare release versions", err)
		p.metrics.Error(errs.Kind(err))
		return nil
	}

	return model.NewAlert(ordering, repo, prev, curr)
}

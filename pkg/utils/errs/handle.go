package errs

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/releasewatch/pkg/domain/types"
)

// Kind returns the taxonomy label of err: config, fetch, storage, notify,
// version, or "unknown" for untagged errors.
func Kind(err error) string {
	switch {
	case goerr.HasTag(err, types.ErrTagConfig):
		return "config"
	case goerr.HasTag(err, types.ErrTagFetch):
		return "fetch"
	case goerr.HasTag(err, types.ErrTagStorage):
		return "storage"
	case goerr.HasTag(err, types.ErrTagNotify):
		return "notify"
	case goerr.HasTag(err, types.ErrTagVersion):
		return "version"
	default:
		return "unknown"
	}
}

// Handle logs err and reports it to Sentry when a Sentry client is configured.
// It never returns the error: callers use it where a failure must not stop
// processing.
func Handle(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	kind := Kind(err)
	ctxlog.From(ctx).Error(msg,
		slog.String("kind", kind),
		slog.Any("error", err),
	)

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("kind", kind)
		if e := goerr.Unwrap(err); e != nil {
			for k, v := range e.Values() {
				scope.SetExtra(k, v)
			}
		}
		hub.CaptureException(err)
	})
}

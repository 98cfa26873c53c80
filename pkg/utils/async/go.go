package async

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/releasewatch/pkg/utils/errs"
)

// Go runs fn in a new goroutine and returns a channel that receives its
// result once. A panic in fn is recovered, logged with its stack and
// delivered as an error. Unlike the caller's goroutine, fn keeps the logger
// but not the cancellation of ctx, so long-running servers are stopped
// explicitly rather than by context.
func Go(ctx context.Context, name string, fn func(ctx context.Context) error) <-chan error {
	bgCtx := ctxlog.With(context.Background(), ctxlog.From(ctx))
	done := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(bgCtx).Error("panic in background task",
					"task", name,
					"recover", r,
					"stack", string(debug.Stack()))
				err = goerr.New(fmt.Sprintf("panic in %s: %v", name, r))
			}
			if err != nil {
				errs.Handle(bgCtx, "background task failed", err)
			}
			done <- err
		}()

		err = fn(bgCtx)
	}()

	return done
}

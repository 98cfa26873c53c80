package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/usecase"
)

// mockPoller is a mock implementation of PollUseCase
type mockPoller struct {
	runOnceFunc func(ctx context.Context) (*model.CycleReport, error)
}

func (m *mockPoller) RunOnce(ctx context.Context) (*model.CycleReport, error) {
	return m.runOnceFunc(ctx)
}

func TestScheduler_Run(t *testing.T) {
	t.Run("runs immediately and repeats until cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var count atomic.Int32

		poller := &mockPoller{runOnceFunc: func(ctx context.Context) (*model.CycleReport, error) {
			if count.Add(1) == 3 {
				cancel()
			}
			return &model.CycleReport{ID: "cycle"}, nil
		}}

		sched := usecase.NewScheduler(poller, 10*time.Millisecond)
		gt.Value(t, sched.LastCycle()).Nil()

		done := make(chan error, 1)
		go func() { done <- sched.Run(ctx) }()

		select {
		case err := <-done:
			gt.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not stop")
		}

		gt.Equal(t, count.Load(), int32(3))
		gt.Equal(t, sched.LastCycle().ID, "cycle")
	})

	t.Run("cycles never overlap", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var (
			mu      sync.Mutex
			running int
			maxSeen int
			count   int
		)

		poller := &mockPoller{runOnceFunc: func(ctx context.Context) (*model.CycleReport, error) {
			mu.Lock()
			running++
			if running > maxSeen {
				maxSeen = running
			}
			count++
			n := count
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()

			if n == 4 {
				cancel()
			}
			return &model.CycleReport{}, nil
		}}

		err := usecase.NewScheduler(poller, time.Millisecond).Run(ctx)
		gt.NoError(t, err)
		gt.Equal(t, maxSeen, 1)
	})

	t.Run("running cycle is not cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var cycleCtxErr error

		poller := &mockPoller{runOnceFunc: func(cycleCtx context.Context) (*model.CycleReport, error) {
			cancel()
			cycleCtxErr = cycleCtx.Err()
			return &model.CycleReport{}, nil
		}}

		err := usecase.NewScheduler(poller, time.Hour).Run(ctx)
		gt.NoError(t, err)
		gt.NoError(t, cycleCtxErr)
	})

	t.Run("aborted cycle does not stop the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var count atomic.Int32

		poller := &mockPoller{runOnceFunc: func(ctx context.Context) (*model.CycleReport, error) {
			if count.Add(1) == 2 {
				cancel()
			}
			return &model.CycleReport{Aborted: true}, errors.New("config unreachable")
		}}

		sched := usecase.NewScheduler(poller, time.Millisecond)
		gt.NoError(t, sched.Run(ctx))
		gt.Equal(t, count.Load(), int32(2))
		gt.True(t, sched.LastCycle().Aborted)
	})
}

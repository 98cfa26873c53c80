package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/releasewatch/pkg/cli/config"
	controller "github.com/m-mizutani/releasewatch/pkg/controller/http"
	"github.com/m-mizutani/releasewatch/pkg/usecase"
	"github.com/m-mizutani/releasewatch/pkg/utils/async"
	"github.com/m-mizutani/releasewatch/pkg/utils/metrics"
)

func cmdRun() *cli.Command {
	var (
		pollerCfg pollerConfig
		pollCfg   config.Poll
		serverCfg config.Server
	)

	flags := pollerCfg.Flags()
	flags = append(flags, pollCfg.Flags()...)
	flags = append(flags, serverCfg.Flags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Poll tracked repositories on an interval until stopped",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := pollCfg.Validate(); err != nil {
				return goerr.Wrap(err, "invalid configuration")
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			poller, closeStore, err := pollerCfg.build(ctx, metrics.New(reg))
			if err != nil {
				return err
			}
			defer closeStore()

			sched := usecase.NewScheduler(poller, pollCfg.Interval)

			var server *controller.Server
			if serverCfg.Addr != "" {
				server = controller.NewServer(ctx, sched,
					controller.WithAddr(serverCfg.Addr),
					controller.WithGatherer(reg),
				)

				async.Go(ctx, "metrics-server", func(ctx context.Context) error {
					logger.Info("Metrics server starting", slog.String("addr", serverCfg.Addr))
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return goerr.Wrap(err, "metrics server failed", goerr.V("addr", serverCfg.Addr))
					}
					return nil
				})
			}

			runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := sched.Run(runCtx); err != nil {
				return goerr.Wrap(err, "scheduler failed")
			}

			if server != nil {
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown metrics server gracefully")
				}
			}

			logger.Info("Shutdown complete")
			return nil
		},
	}
}

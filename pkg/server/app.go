package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"GannForce/internal/service/ratelimit"
	"GannForce/internal/usecase"
	"GannForce/pkg/config"
	xhttp "GannForce/pkg/http"
	pkgkafka "GannForce/pkg/kafka"
	applogger "GannForce/pkg/logger"
	"GannForce/pkg/scheduler"
)

const (
	sweepSpec = "@every 5m"
	sweepIdle = 10 * time.Minute
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
	consumer   *pkgkafka.Consumer
	sched      *scheduler.Scheduler
	collector  *usecase.OrderBookCollector
	limiter    *ratelimit.Limiter
}

// New creates an App. consumer may be nil when Kafka is disabled.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	sched *scheduler.Scheduler,
	collector *usecase.OrderBookCollector,
	limiter *ratelimit.Limiter,
) *App {
	return &App{
		cfg:        cfg,
		l:          l,
		httpServer: httpServer,
		consumer:   consumer,
		sched:      sched,
		collector:  collector,
		limiter:    limiter,
	}
}

// Run starts every component and blocks until ctx is cancelled or the
// process receives SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.schedule(); err != nil {
		return err
	}
	a.sched.Start()

	if a.consumer != nil {
		if err := a.consumer.Start(); err != nil {
			a.sched.Stop()
			return fmt.Errorf("kafka consumer: %w", err)
		}
		a.l.Info("kafka consumer started", applogger.Strings("topics", a.consumer.Topics()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		a.shutdown()
		return err
	}
	a.l.Info("gannforce started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
	)

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	a.shutdown()
	return nil
}

func (a *App) schedule() error {
	if a.cfg.Server.RateLimit.Enabled {
		err := a.sched.Add("ratelimit-sweep", sweepSpec, func(context.Context) error {
			a.limiter.Sweep(sweepIdle)
			return nil
		})
		if err != nil {
			return err
		}
	}
	if a.cfg.FastBull.Enabled {
		if err := a.sched.Add("orderbook-collect", a.cfg.FastBull.Schedule, a.collector.Run); err != nil {
			return err
		}
	}
	return nil
}

// shutdown stops intake first, then background work.
func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.l.Error("http shutdown error", applogger.Error(err))
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	a.sched.Stop()
	a.l.Info("shutdown complete")
}

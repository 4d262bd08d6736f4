// Package daemon runs continuous dashboard rebuilds: the same single-pass
// build the CLI does once, on a ticker, with Prometheus metrics and health
// endpoints on the side.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/yairfalse/taulu/config"
	"github.com/yairfalse/taulu/dashboard"
)

// Daemon rebuilds the dashboard at a fixed interval. Each rebuild is an
// independent, stateless invocation; a failed build waits for the next
// tick.
type Daemon struct {
	assembler *dashboard.Assembler
	cfg       *config.Config
	metrics   *Metrics
	logger    zerolog.Logger

	startTime  time.Time
	buildCount atomic.Int64
	lastError  atomic.Value // string
}

// New creates a daemon around an assembler.
func New(assembler *dashboard.Assembler, cfg *config.Config, logger zerolog.Logger) (*Daemon, error) {
	metrics, err := NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("init daemon metrics: %w", err)
	}
	return &Daemon{
		assembler: assembler,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
		startTime: time.Now(),
	}, nil
}

// Run blocks until the context is cancelled, driving the rebuild loop and
// the metrics HTTP server as one actor group.
func (d *Daemon) Run(ctx context.Context) error {
	var g run.Group

	loopCtx, cancelLoop := context.WithCancel(ctx)
	g.Add(func() error {
		return d.loop(loopCtx)
	}, func(error) {
		cancelLoop()
	})

	srv := d.metricsServer()
	g.Add(func() error {
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}, func(error) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})

	return g.Run()
}

// loop builds once immediately, then on every tick.
func (d *Daemon) loop(ctx context.Context) error {
	d.rebuild(ctx)

	ticker := time.NewTicker(d.cfg.Daemon.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.rebuild(ctx)
		}
	}
}

func (d *Daemon) rebuild(ctx context.Context) {
	start := time.Now()
	d.buildCount.Add(1)

	result, err := d.assembler.Build(ctx, d.cfg)
	elapsed := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
		d.lastError.Store(err.Error())
		d.metrics.RecordBuildError(ctx, d.cfg.DashboardName)
		d.logger.Error().Err(err).Msg("dashboard build failed")
	} else {
		d.lastError.Store("")
		d.metrics.RecordWidgetsWritten(ctx, int64(result.WidgetCount), d.cfg.DashboardName)
		d.logger.Info().
			Int("widgets", result.WidgetCount).
			Bool("no_resources", result.NoResources).
			Float64("duration_seconds", elapsed).
			Msg("dashboard rebuilt")
	}

	d.metrics.RecordBuild(ctx, status, d.cfg.DashboardName, d.cfg.Region)
	d.metrics.RecordBuildDuration(ctx, elapsed, status)
}

func (d *Daemon) metricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", d.handleHealth)
	mux.HandleFunc("/-/healthy", d.handleHealth)
	mux.HandleFunc("/-/ready", d.handleHealth)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", d.cfg.Daemon.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (d *Daemon) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "ok uptime=%s builds=%d\n",
		time.Since(d.startTime).Round(time.Second), d.buildCount.Load())
}

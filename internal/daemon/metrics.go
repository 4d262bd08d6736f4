package daemon

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the daemon's operational metrics, OTEL semantic style.
type Metrics struct {
	builds         metric.Int64Counter
	buildDuration  metric.Float64Histogram
	buildErrors    metric.Int64Counter
	widgetsWritten metric.Int64Gauge
}

// NewMetrics registers the daemon metrics on the global meter.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("taulu.daemon")

	builds, err := meter.Int64Counter(
		"taulu.daemon.builds",
		metric.WithDescription("Number of dashboard build runs"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		return nil, err
	}

	buildDuration, err := meter.Float64Histogram(
		"taulu.daemon.build.duration",
		metric.WithDescription("Duration of dashboard builds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	buildErrors, err := meter.Int64Counter(
		"taulu.daemon.build.errors",
		metric.WithDescription("Number of failed dashboard builds"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	widgetsWritten, err := meter.Int64Gauge(
		"taulu.dashboard.widgets",
		metric.WithDescription("Widgets written by the most recent build"),
		metric.WithUnit("{widget}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		builds:         builds,
		buildDuration:  buildDuration,
		buildErrors:    buildErrors,
		widgetsWritten: widgetsWritten,
	}, nil
}

// RecordBuild records one build run with its outcome.
func (m *Metrics) RecordBuild(ctx context.Context, status, dashboard, region string) {
	m.builds.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status", status),
			attribute.String("dashboard", dashboard),
			attribute.String("cloud.region", region),
		),
	)
}

// RecordBuildDuration records how long a build took.
func (m *Metrics) RecordBuildDuration(ctx context.Context, seconds float64, status string) {
	m.buildDuration.Record(ctx, seconds,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

// RecordBuildError records a failed build.
func (m *Metrics) RecordBuildError(ctx context.Context, dashboard string) {
	m.buildErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("dashboard", dashboard)),
	)
}

// RecordWidgetsWritten records the widget count of the latest build.
func (m *Metrics) RecordWidgetsWritten(ctx context.Context, count int64, dashboard string) {
	m.widgetsWritten.Record(ctx, count,
		metric.WithAttributes(attribute.String("dashboard", dashboard)),
	)
}

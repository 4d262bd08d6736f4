// Package dashboard orchestrates one build: discover tagged resources,
// synthesize SLO aggregates, classify and build per-resource widgets,
// stack everything, and overwrite the dashboard.
package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yairfalse/taulu/builders"
	"github.com/yairfalse/taulu/catalog"
	"github.com/yairfalse/taulu/config"
	"github.com/yairfalse/taulu/layout"
	"github.com/yairfalse/taulu/slo"
	"github.com/yairfalse/taulu/types"
)

// TagDiscovery finds resources carrying the dashboard tag. Discovery
// failure is never fatal: an error or empty list degrades to the
// placeholder path.
type TagDiscovery interface {
	FindTagged(ctx context.Context, tagKey, tagValue string, resourceTypeFilters []string) ([]types.ResourceRecord, error)
}

// MetricsCatalog answers metric-existence probes. It also satisfies
// builders.MetricsLister so one client serves both the SLO gates and the
// EC2 capability probe.
type MetricsCatalog interface {
	builders.MetricsLister
	MetricExists(ctx context.Context, namespace, metricName, dimensionKey, dimensionValue string) (bool, error)
}

// Store persists the finished dashboard. Failure here is the one fatal
// error of a build; the core never retries it.
type Store interface {
	PutDashboard(ctx context.Context, name string, widgets []any) error
}

// Result summarizes one build for the caller.
type Result struct {
	WidgetCount int
	NoResources bool
}

// Summary is the human-readable outcome line.
func (r Result) Summary() string {
	if r.NoResources {
		return "No tagged resources found."
	}
	return fmt.Sprintf("Dashboard updated successfully with %d widgets.", r.WidgetCount)
}

// Assembler wires the collaborators together. All dependencies are
// injected so tests can substitute fakes.
type Assembler struct {
	discovery TagDiscovery
	metrics   MetricsCatalog
	store     Store
	registry  *builders.Registry
	logger    zerolog.Logger
}

// New creates an assembler.
func New(discovery TagDiscovery, metrics MetricsCatalog, store Store, logger zerolog.Logger) *Assembler {
	return &Assembler{
		discovery: discovery,
		metrics:   metrics,
		store:     store,
		registry:  builders.NewRegistry(metrics, logger),
		logger:    logger,
	}
}

// Build runs one full invocation: best-effort everywhere except the final
// dashboard write.
func (a *Assembler) Build(ctx context.Context, cfg *config.Config) (Result, error) {
	ctx, span := otel.Tracer("taulu").Start(ctx, "dashboard.build")
	defer span.End()

	cat := catalog.Enabled(cfg.Families, a.logger)

	records, err := a.discovery.FindTagged(ctx, cfg.Tag.Key, cfg.Tag.Value, cat.TagFilters())
	if err != nil {
		a.logger.Warn().Err(err).Msg("tag discovery failed, treating as no resources")
		records = nil
	}
	span.SetAttributes(attribute.Int("resources.discovered", len(records)))

	if len(records) == 0 {
		placeholder := layout.Placeholder(cfg.Tag.Key, cfg.Tag.Value)
		if err := a.store.PutDashboard(ctx, cfg.DashboardName, []any{placeholder}); err != nil {
			return Result{}, fmt.Errorf("dashboard write failed: %w", err)
		}
		return Result{WidgetCount: 1, NoResources: true}, nil
	}

	eng := layout.New()
	a.addAggregates(ctx, eng, records, cfg)

	if len(eng.Widgets()) > 0 {
		eng.AddDivider()
	}

	a.addResourceWidgets(ctx, eng, records, cat, cfg)

	for _, def := range cfg.CustomWidgets {
		eng.AddCustom(def, cfg.Region)
	}

	widgets := eng.Widgets()
	if err := a.store.PutDashboard(ctx, cfg.DashboardName, widgets); err != nil {
		return Result{}, fmt.Errorf("dashboard write failed: %w", err)
	}

	span.SetAttributes(attribute.Int("widgets.written", len(widgets)))
	return Result{WidgetCount: len(widgets)}, nil
}

// addAggregates emits the SLO pairs in fixed family order, for families
// actually present. EC2 and RDS pairs are gated on a metric-existence
// probe; a failed or empty probe silently omits the pair.
func (a *Assembler) addAggregates(ctx context.Context, eng *layout.Engine, records []types.ResourceRecord, cfg *config.Config) {
	for _, family := range slo.FamilyOrder {
		members := slo.Members(family, records)
		if len(members) == 0 {
			continue
		}

		switch family {
		case slo.ALB:
			eng.AddRow(slo.ALBPair(members, cfg.Region, eng.Y(), cfg.SLO.AvailabilityTarget))
		case slo.Lambda:
			eng.AddRow(slo.LambdaPair(members, cfg.Region, eng.Y(), cfg.SLO.AvailabilityTarget))
		case slo.CloudFront:
			eng.AddRow(slo.CloudFrontPair(members, eng.Y(), cfg.SLO.AvailabilityTarget))
		case slo.EC2:
			if !a.metricsExistForAny(ctx, "AWS/EC2", "CPUUtilization", "InstanceId", members) {
				continue
			}
			eng.AddRow(slo.EC2Pair(members, cfg.Region, eng.Y(), cfg.SLO.EC2CPUTarget))
		case slo.RDS:
			if !a.metricsExistForAny(ctx, "AWS/RDS", "ReadLatency", "DBInstanceIdentifier", members) {
				continue
			}
			eng.AddRow(slo.RDSPair(members, cfg.Region, eng.Y(),
				cfg.SLO.LatencyTargetSeconds(), cfg.SLO.RDSCPUTarget, cfg.SLO.LatencyTargetMS))
		}
	}
}

// addResourceWidgets builds one widget per classified resource, ascending
// by ARN so two runs produce identical ordering. A failure building one
// resource never aborts the batch.
func (a *Assembler) addResourceWidgets(ctx context.Context, eng *layout.Engine, records []types.ResourceRecord, cat catalog.Catalog, cfg *config.Config) {
	sorted := make([]types.ResourceRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ARN < sorted[j].ARN })

	for _, res := range sorted {
		entry := catalog.Classify(res.ARN, cat)
		if entry == nil {
			continue
		}

		region := cfg.Region
		if entry.IsGlobal {
			region = catalog.GlobalMetricsRegion
		}

		build := a.registry.For(entry.Family)
		widget, err := build(ctx, builders.Input{
			ARN:       res.ARN,
			Region:    region,
			Y:         eng.Y(),
			Overrides: cfg.DimensionOverrides,
		})
		if err != nil {
			a.logger.Error().
				Str("arn", res.ARN).
				Str("family", string(entry.Family)).
				Err(err).
				Msg("could not build widget, skipping resource")
			continue
		}
		if widget == nil {
			continue
		}
		eng.Add(*widget)
	}
}

// metricsExistForAny probes members until one reports the metric. Any
// probe error means "not found"; it is never propagated.
func (a *Assembler) metricsExistForAny(ctx context.Context, namespace, metricName, dimensionKey string, members []types.ResourceRecord) bool {
	for _, res := range members {
		id := types.ResourceName(res.ARN)
		found, err := a.metrics.MetricExists(ctx, namespace, metricName, dimensionKey, id)
		if err != nil {
			a.logger.Warn().
				Str("metric", metricName).
				Err(err).
				Msg("metric existence probe failed, omitting aggregate")
			return false
		}
		if found {
			a.logger.Info().
				Str("metric", metricName).
				Msg("found metric for SLO widget")
			return true
		}
	}
	a.logger.Info().
		Str("metric", metricName).
		Msg("no metrics found in the given resources")
	return false
}

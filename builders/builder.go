// Package builders turns one classified resource into one widget. Each
// family has a dedicated build function, bound at compile time through
// builderFor so there is no runtime "unknown builder" failure mode.
package builders

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yairfalse/taulu/catalog"
	"github.com/yairfalse/taulu/types"
)

// MetricsLister is the slice of the metrics catalog the capability probe
// needs: enumerate metrics in a namespace filtered by dimensions.
type MetricsLister interface {
	ListMetrics(ctx context.Context, namespace string, dims []types.Dimension) ([]types.MetricRef, error)
}

// DimensionOverrides maps a metric namespace to the dimension sets to
// render instead of a builder's derived default.
type DimensionOverrides map[string][]types.Dimension

// Input carries everything a builder needs for one resource. Region is the
// effective render region: the resource's own unless the family is global.
type Input struct {
	ARN       string
	Region    string
	Y         int
	Overrides DimensionOverrides
}

// BuildFunc builds one widget. A nil widget without error means the
// resource is skipped; an error is caught and logged by the assembler and
// must never abort the batch.
type BuildFunc func(ctx context.Context, in Input) (*types.Widget, error)

// Registry binds families to builders. Only the EC2 hybrid builder touches
// external state, through the injected MetricsLister.
type Registry struct {
	metrics MetricsLister
	logger  zerolog.Logger
}

// NewRegistry creates a builder registry.
func NewRegistry(metrics MetricsLister, logger zerolog.Logger) *Registry {
	return &Registry{metrics: metrics, logger: logger}
}

// For returns the build function for a family.
func (r *Registry) For(f catalog.Family) BuildFunc {
	switch f {
	case catalog.FamilyEC2Instance:
		return r.buildEC2Hybrid
	case catalog.FamilyRDSInstance:
		return r.buildRDS
	case catalog.FamilyLambdaFunction:
		return r.buildLambda
	case catalog.FamilyALB:
		return r.buildALB
	case catalog.FamilyNLB:
		return r.buildNLB
	case catalog.FamilyClassicELB:
		return r.buildClassicELB
	case catalog.FamilyECSService:
		return r.buildECS
	case catalog.FamilyEKSCluster:
		return r.buildEKS
	case catalog.FamilyDynamoDBTable:
		return r.buildDynamoDB
	case catalog.FamilyRedshiftCluster:
		return r.buildRedshift
	case catalog.FamilySQSQueue:
		return r.buildSQS
	case catalog.FamilySNSTopic:
		return r.buildSNS
	case catalog.FamilyCloudFront:
		return r.buildCloudFront
	case catalog.FamilyRoute53HealthCheck:
		return r.buildRoute53
	case catalog.FamilyACMCertificate:
		return r.buildACM
	case catalog.FamilyElastiCache:
		return r.buildElastiCache
	case catalog.FamilyFSxFileSystem:
		return r.buildFSx
	case catalog.FamilyStorageGateway:
		return r.buildStorageGateway
	case catalog.FamilyDXConnection:
		return r.buildDX
	case catalog.FamilyVPNConnection:
		return r.buildVPN
	case catalog.FamilyAPIGatewayStage:
		return r.buildAPIGateway
	case catalog.FamilyStepFunctions:
		return r.buildStepFunctions
	case catalog.FamilyMQBroker:
		return r.buildMQ
	}
	return nil
}

// metricWidget is the common full-width time-series shape most builders
// emit.
func metricWidget(y int, region, title string, metrics []any) *types.Widget {
	return &types.Widget{
		Type:   types.WidgetTypeMetric,
		X:      0,
		Y:      y,
		Width:  24,
		Height: types.DefaultWidgetHeight,
		Properties: types.Properties{
			Metrics: metrics,
			View:    types.ViewTimeSeries,
			Region:  region,
			Title:   title,
		},
	}
}

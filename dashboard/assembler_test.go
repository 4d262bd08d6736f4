package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/taulu/config"
	"github.com/yairfalse/taulu/types"
)

type fakeDiscovery struct {
	records []types.ResourceRecord
	err     error
}

func (f *fakeDiscovery) FindTagged(_ context.Context, _, _ string, _ []string) ([]types.ResourceRecord, error) {
	return f.records, f.err
}

type fakeMetrics struct {
	refs   []types.MetricRef
	exists map[string]bool
	err    error
}

func (f *fakeMetrics) ListMetrics(_ context.Context, _ string, _ []types.Dimension) ([]types.MetricRef, error) {
	return f.refs, f.err
}

func (f *fakeMetrics) MetricExists(_ context.Context, namespace, _, _, _ string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.exists[namespace], nil
}

type fakeStore struct {
	name    string
	widgets []any
	err     error
	calls   int
}

func (f *fakeStore) PutDashboard(_ context.Context, name string, widgets []any) error {
	f.calls++
	f.name = name
	f.widgets = widgets
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Region:        "us-east-1",
		DashboardName: "ops",
		Tag:           config.TagPair{Key: "monitoring", Value: "enabled"},
		SLO: config.SLOTargets{
			AvailabilityTarget: 99.9,
			EC2CPUTarget:       80,
			RDSCPUTarget:       80,
			LatencyTargetMS:    10,
		},
	}
}

func newTestAssembler(d *fakeDiscovery, m *fakeMetrics, s *fakeStore) *Assembler {
	return New(d, m, s, zerolog.Nop())
}

func TestBuildNoResources(t *testing.T) {
	t.Run("empty discovery writes the placeholder", func(t *testing.T) {
		store := &fakeStore{}
		a := newTestAssembler(&fakeDiscovery{}, &fakeMetrics{}, store)

		result, err := a.Build(context.Background(), testConfig())
		require.NoError(t, err)
		assert.True(t, result.NoResources)
		assert.Equal(t, 1, result.WidgetCount)
		assert.Equal(t, "No tagged resources found.", result.Summary())

		assert.Equal(t, "ops", store.name)
		require.Len(t, store.widgets, 1)
		w := store.widgets[0].(types.Widget)
		assert.Contains(t, w.Properties.Markdown, "monitoring:enabled")
	})

	t.Run("discovery error degrades to the placeholder", func(t *testing.T) {
		store := &fakeStore{}
		a := newTestAssembler(&fakeDiscovery{err: errors.New("access denied")}, &fakeMetrics{}, store)

		result, err := a.Build(context.Background(), testConfig())
		require.NoError(t, err)
		assert.True(t, result.NoResources)
		assert.Equal(t, 1, store.calls)
	})

	t.Run("placeholder write failure is fatal", func(t *testing.T) {
		store := &fakeStore{err: errors.New("throttled")}
		a := newTestAssembler(&fakeDiscovery{}, &fakeMetrics{}, store)

		_, err := a.Build(context.Background(), testConfig())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dashboard write failed")
	})
}

func TestBuildFullDashboard(t *testing.T) {
	records := []types.ResourceRecord{
		{ARN: "arn:aws:lambda:us-east-1:1:function:worker"},
		{ARN: "arn:aws:elasticloadbalancing:us-east-1:1:loadbalancer/app/web/abc"},
		{ARN: "arn:aws:sqs:us-east-1:1:my-queue"},
	}

	build := func() []any {
		store := &fakeStore{}
		a := newTestAssembler(&fakeDiscovery{records: records}, &fakeMetrics{}, store)
		result, err := a.Build(context.Background(), testConfig())
		require.NoError(t, err)
		assert.Equal(t, len(store.widgets), result.WidgetCount)
		return store.widgets
	}

	widgets := build()

	// ALB pair, Lambda pair, divider, then one widget per resource.
	require.Len(t, widgets, 8)

	t.Run("aggregates come first, in family order", func(t *testing.T) {
		first := widgets[0].(types.Widget)
		assert.Equal(t, "ALB Availability SLO", first.Properties.Title)
		third := widgets[2].(types.Widget)
		assert.Equal(t, "Lambda Success Rate SLO", third.Properties.Title)
	})

	t.Run("divider separates aggregates from resources", func(t *testing.T) {
		divider := widgets[4].(types.Widget)
		assert.Equal(t, types.WidgetTypeText, divider.Type)
		assert.Contains(t, divider.Properties.Markdown, "Individual Resource Metrics")
	})

	t.Run("resource widgets sorted by arn", func(t *testing.T) {
		// elasticloadbalancing < lambda < sqs.
		assert.Equal(t, "ALB: web", widgets[5].(types.Widget).Properties.Title)
		assert.Equal(t, "Lambda: worker", widgets[6].(types.Widget).Properties.Title)
		assert.Equal(t, "SQS Queue: my-queue", widgets[7].(types.Widget).Properties.Title)
	})

	t.Run("vertical offsets strictly ascend", func(t *testing.T) {
		prevY := -1
		for _, raw := range widgets {
			w := raw.(types.Widget)
			if w.X == 0 {
				assert.Greater(t, w.Y, prevY)
				prevY = w.Y
			}
		}
	})

	t.Run("two runs produce identical bodies", func(t *testing.T) {
		assert.Equal(t, build(), build())
	})
}

func TestBuildFailureIsolation(t *testing.T) {
	// The malformed API Gateway stage path makes that one builder error.
	records := []types.ResourceRecord{
		{ARN: "arn:aws:apigateway:us-east-1::/restapis/x"},
		{ARN: "arn:aws:sqs:us-east-1:1:my-queue"},
	}
	store := &fakeStore{}
	a := newTestAssembler(&fakeDiscovery{records: records}, &fakeMetrics{}, store)

	result, err := a.Build(context.Background(), testConfig())
	require.NoError(t, err)
	assert.False(t, result.NoResources)

	// The failed resource is skipped; no divider because no aggregates.
	require.Len(t, store.widgets, 1)
	assert.Equal(t, "SQS Queue: my-queue", store.widgets[0].(types.Widget).Properties.Title)
}

func TestBuildUnclassifiedSkipped(t *testing.T) {
	// A classic ELB ARN is excluded when its path says v2; an unknown
	// service never classifies at all.
	records := []types.ResourceRecord{
		{ARN: "arn:aws:sqs:us-east-1:1:my-queue"},
		{ARN: "arn:aws:someservice:us-east-1:1:thing/x"},
	}
	store := &fakeStore{}
	a := newTestAssembler(&fakeDiscovery{records: records}, &fakeMetrics{}, store)

	_, err := a.Build(context.Background(), testConfig())
	require.NoError(t, err)
	require.Len(t, store.widgets, 1)
}

func TestBuildEC2SLOGating(t *testing.T) {
	records := []types.ResourceRecord{
		{ARN: "arn:aws:ec2:us-east-1:1:instance/i-1"},
	}

	t.Run("pair emitted when the probe finds the metric", func(t *testing.T) {
		store := &fakeStore{}
		metrics := &fakeMetrics{exists: map[string]bool{"AWS/EC2": true}}
		a := newTestAssembler(&fakeDiscovery{records: records}, metrics, store)

		_, err := a.Build(context.Background(), testConfig())
		require.NoError(t, err)

		// Pair, divider, resource widget.
		require.Len(t, store.widgets, 4)
		assert.Contains(t, store.widgets[0].(types.Widget).Properties.Title, "EC2 Perf. SLO")
	})

	t.Run("pair omitted when the probe finds nothing", func(t *testing.T) {
		store := &fakeStore{}
		a := newTestAssembler(&fakeDiscovery{records: records}, &fakeMetrics{}, store)

		_, err := a.Build(context.Background(), testConfig())
		require.NoError(t, err)

		// Just the standard EC2 widget; no aggregates means no divider.
		require.Len(t, store.widgets, 1)
		assert.Equal(t, "EC2 Standard: i-1", store.widgets[0].(types.Widget).Properties.Title)
	})

	t.Run("probe error omits the pair, never fails the build", func(t *testing.T) {
		store := &fakeStore{}
		a := newTestAssembler(&fakeDiscovery{records: records}, &fakeMetrics{err: errors.New("throttled")}, store)

		result, err := a.Build(context.Background(), testConfig())
		require.NoError(t, err)
		assert.False(t, result.NoResources)
		require.Len(t, store.widgets, 1)
	})
}

func TestBuildRDSSLOGating(t *testing.T) {
	records := []types.ResourceRecord{
		{ARN: "arn:aws:rds:us-east-1:1:db:prod"},
	}
	store := &fakeStore{}
	metrics := &fakeMetrics{exists: map[string]bool{"AWS/RDS": true}}
	a := newTestAssembler(&fakeDiscovery{records: records}, metrics, store)

	_, err := a.Build(context.Background(), testConfig())
	require.NoError(t, err)

	require.Len(t, store.widgets, 4)
	assert.Contains(t, store.widgets[0].(types.Widget).Properties.Title, "RDS Perf. SLO")
}

func TestBuildCustomWidgets(t *testing.T) {
	cfg := testConfig()
	cfg.CustomWidgets = []types.CustomWidget{
		{"type": "text", "height": float64(2), "properties": map[string]any{"markdown": "# runbook"}},
	}
	records := []types.ResourceRecord{{ARN: "arn:aws:sqs:us-east-1:1:q"}}
	store := &fakeStore{}
	a := newTestAssembler(&fakeDiscovery{records: records}, &fakeMetrics{}, store)

	_, err := a.Build(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, store.widgets, 2)
	custom := store.widgets[1].(types.CustomWidget)
	assert.Equal(t, types.DefaultWidgetHeight, custom["y"])
	assert.Equal(t, "us-east-1", custom["properties"].(map[string]any)["region"])
}

func TestBuildPutFailureFatal(t *testing.T) {
	records := []types.ResourceRecord{{ARN: "arn:aws:sqs:us-east-1:1:q"}}
	store := &fakeStore{err: errors.New("dashboard too large")}
	a := newTestAssembler(&fakeDiscovery{records: records}, &fakeMetrics{}, store)

	_, err := a.Build(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard write failed")
}

func TestBuildGlobalResourceRegion(t *testing.T) {
	records := []types.ResourceRecord{
		{ARN: "arn:aws:cloudfront::1:distribution/E123"},
	}
	cfg := testConfig()
	cfg.Region = "eu-west-1"
	store := &fakeStore{}
	a := newTestAssembler(&fakeDiscovery{records: records}, &fakeMetrics{}, store)

	_, err := a.Build(context.Background(), cfg)
	require.NoError(t, err)

	// CloudFront pair plus divider plus the distribution widget, all pinned
	// to the global metrics region.
	require.Len(t, store.widgets, 4)
	last := store.widgets[3].(types.Widget)
	assert.Equal(t, "us-east-1", last.Properties.Region)
}

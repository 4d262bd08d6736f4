package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/yairfalse/taulu/types"
)

// MetricExists reports whether at least one metric matches the name and
// dimension. Callers treat an error as "not found".
func (c *Client) MetricExists(ctx context.Context, namespace, metricName, dimensionKey, dimensionValue string) (bool, error) {
	input := &cloudwatch.ListMetricsInput{
		Namespace:  aws.String(namespace),
		MetricName: aws.String(metricName),
		Dimensions: []cwtypes.DimensionFilter{{
			Name:  aws.String(dimensionKey),
			Value: aws.String(dimensionValue),
		}},
	}

	paginator := cloudwatch.NewListMetricsPaginator(c.cloudwatch, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return false, fmt.Errorf("list metrics %s/%s: %w", namespace, metricName, err)
		}
		if len(page.Metrics) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// ListMetrics enumerates every metric in a namespace matching the
// dimension filters, with full dimension sets. Used by the EC2 capability
// probe to discover what the agent publishes.
func (c *Client) ListMetrics(ctx context.Context, namespace string, dims []types.Dimension) ([]types.MetricRef, error) {
	filters := make([]cwtypes.DimensionFilter, 0, len(dims))
	for _, d := range dims {
		filters = append(filters, cwtypes.DimensionFilter{
			Name:  aws.String(d.Name),
			Value: aws.String(d.Value),
		})
	}

	input := &cloudwatch.ListMetricsInput{
		Namespace:  aws.String(namespace),
		Dimensions: filters,
	}

	var refs []types.MetricRef
	paginator := cloudwatch.NewListMetricsPaginator(c.cloudwatch, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list metrics in %s: %w", namespace, err)
		}
		for _, metric := range page.Metrics {
			refs = append(refs, convertMetric(metric))
		}
	}
	return refs, nil
}

func convertMetric(metric cwtypes.Metric) types.MetricRef {
	ref := types.MetricRef{Name: aws.ToString(metric.MetricName)}
	for _, dim := range metric.Dimensions {
		ref.Dimensions = append(ref.Dimensions, types.Dimension{
			Name:  aws.ToString(dim.Name),
			Value: aws.ToString(dim.Value),
		})
	}
	return ref
}

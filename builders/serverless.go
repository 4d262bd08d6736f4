package builders

import (
	"context"
	"fmt"
	"strings"

	"github.com/yairfalse/taulu/types"
)

func (r *Registry) buildLambda(_ context.Context, in Input) (*types.Widget, error) {
	fn := types.LastColonSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("Lambda: %s", fn), []any{
		[]any{"AWS/Lambda", "Errors", "FunctionName", fn, types.MetricOptions{Stat: "Sum"}},
		[]any{"...", "Throttles", types.MetricOptions{Stat: "Sum"}},
	}), nil
}

func (r *Registry) buildStepFunctions(_ context.Context, in Input) (*types.Widget, error) {
	name := types.LastColonSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("Step Functions: %s", name), []any{
		[]any{"AWS/States", "ExecutionsFailed", "StateMachineArn", in.ARN, types.MetricOptions{Stat: "Sum"}},
		[]any{"...", "ExecutionTime", types.MetricOptions{Stat: "Average"}},
	}), nil
}

// buildAPIGateway renders one block of error/latency/count metrics per
// configured dimension set. Stage ARNs look like
// arn:aws:apigateway:REGION::/restapis/API_ID/stages/STAGE, and the
// default ApiName dimension is derived from that path when no override is
// supplied for the namespace.
func (r *Registry) buildAPIGateway(_ context.Context, in Input) (*types.Widget, error) {
	const namespace = "AWS/ApiGateway"

	dims, ok := in.Overrides[namespace]
	if !ok {
		parts := strings.Split(in.ARN, ":")
		if len(parts) < 6 {
			return nil, fmt.Errorf("unexpected API Gateway ARN: %s", in.ARN)
		}
		path := strings.Split(parts[5], "/")
		if len(path) < 5 {
			return nil, fmt.Errorf("unexpected API Gateway stage path: %s", parts[5])
		}
		apiID, stage := path[2], path[4]
		dims = []types.Dimension{{Name: "ApiName", Value: apiID + "/" + stage}}
	}

	var metrics []any
	for _, dim := range dims {
		metrics = append(metrics,
			[]any{namespace, "5XXError", dim.Name, dim.Value, types.MetricOptions{Stat: "Sum"}},
			[]any{"...", "4XXError", types.MetricOptions{Stat: "Sum"}},
			[]any{"...", "Latency", types.MetricOptions{Stat: "Average"}},
			[]any{"...", "Count", types.MetricOptions{Stat: "Sum"}},
		)
	}
	return metricWidget(in.Y, in.Region, "API Gateway Performance", metrics), nil
}

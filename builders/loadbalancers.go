package builders

import (
	"context"
	"fmt"
	"strings"

	"github.com/yairfalse/taulu/types"
)

// lbDisplayName is the middle segment of the "type/name/id" dimension
// path, which is what humans know the load balancer by.
func lbDisplayName(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return path
	}
	return parts[1]
}

func (r *Registry) buildALB(_ context.Context, in Input) (*types.Widget, error) {
	lb := types.LoadBalancerPath(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("ALB: %s", lbDisplayName(lb)), []any{
		[]any{"AWS/ApplicationELB", "HTTPCode_Target_5XX_Count", "LoadBalancer", lb, types.MetricOptions{Stat: "Sum"}},
		[]any{"...", "TargetResponseTime", types.MetricOptions{Stat: "Average"}},
	}), nil
}

func (r *Registry) buildNLB(_ context.Context, in Input) (*types.Widget, error) {
	lb := types.LoadBalancerPath(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("NLB: %s", lbDisplayName(lb)), []any{
		[]any{"AWS/NetworkELB", "UnHealthyHostCount", "LoadBalancer", lb},
		[]any{"...", "TCP_Target_Reset_Count", types.MetricOptions{Stat: "Sum"}},
	}), nil
}

func (r *Registry) buildClassicELB(_ context.Context, in Input) (*types.Widget, error) {
	lb := types.ResourceName(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("Classic ELB: %s", lb), []any{
		[]any{"AWS/ELB", "HTTPCode_Backend_5XX", "LoadBalancerName", lb, types.MetricOptions{Stat: "Sum"}},
		[]any{"...", "UnHealthyHostCount"},
	}), nil
}

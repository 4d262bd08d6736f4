package builders

import (
	"context"
	"fmt"
	"strings"

	"github.com/yairfalse/taulu/types"
)

func (r *Registry) buildECS(_ context.Context, in Input) (*types.Widget, error) {
	parts := strings.Split(in.ARN, "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("unexpected ECS service ARN: %s", in.ARN)
	}
	cluster, service := parts[len(parts)-2], parts[len(parts)-1]
	return metricWidget(in.Y, in.Region, fmt.Sprintf("ECS: %s/%s", cluster, service), []any{
		[]any{"AWS/ECS", "CPUUtilization", "ClusterName", cluster, "ServiceName", service},
		[]any{"...", "MemoryUtilization"},
	}), nil
}

func (r *Registry) buildEKS(_ context.Context, in Input) (*types.Widget, error) {
	cluster := types.LastSlashSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("EKS Cluster: %s", cluster), []any{
		[]any{"ContainerInsights", "node_cpu_utilization", "ClusterName", cluster},
		[]any{"...", "node_memory_utilization"},
	}), nil
}

package builders

import (
	"context"
	"fmt"

	"github.com/yairfalse/taulu/types"
)

// agentNamespace is where the CloudWatch agent publishes host metrics.
// Instances may or may not run the agent; the hybrid builder probes.
const agentNamespace = "CWAgent"

// buildEC2Hybrid probes for agent-reported metrics and branches: a
// detailed widget enumerating everything the agent publishes, or the
// standard agentless widget. It never fails; any probe problem falls back
// to the standard shape.
func (r *Registry) buildEC2Hybrid(ctx context.Context, in Input) (*types.Widget, error) {
	instanceID := types.LastSlashSegment(in.ARN)

	agent, err := r.buildAgentWidget(ctx, instanceID, in.Region, in.Y)
	if err != nil {
		r.logger.Info().
			Str("instance_id", instanceID).
			Err(err).
			Msg("agent probe failed, building standard widget")
	} else if agent != nil {
		r.logger.Info().
			Str("instance_id", instanceID).
			Msg("agent metrics found, building detailed widget")
		return agent, nil
	} else {
		r.logger.Info().
			Str("instance_id", instanceID).
			Msg("no agent metrics, building standard widget")
	}

	return buildStandardEC2(instanceID, in.Region, in.Y), nil
}

// buildAgentWidget lists every CWAgent metric dimensioned by this instance
// and renders each with its full dimension set verbatim, plus the baseline
// status check. Returns nil when the agent is absent.
func (r *Registry) buildAgentWidget(ctx context.Context, instanceID, region string, y int) (*types.Widget, error) {
	refs, err := r.metrics.ListMetrics(ctx, agentNamespace, []types.Dimension{
		{Name: "InstanceId", Value: instanceID},
	})
	if err != nil {
		return nil, fmt.Errorf("list agent metrics for %s: %w", instanceID, err)
	}
	if len(refs) == 0 {
		return nil, nil
	}

	var metrics []any
	for _, ref := range refs {
		line := []any{agentNamespace, ref.Name}
		for _, dim := range ref.Dimensions {
			line = append(line, dim.Name, dim.Value)
		}
		metrics = append(metrics, line)
	}
	metrics = append(metrics, []any{
		"AWS/EC2", "StatusCheckFailed", "InstanceId", instanceID,
		types.MetricOptions{Stat: "Maximum"},
	})

	w := metricWidget(y, region, fmt.Sprintf("EC2 Detailed (Auto-Discovered): %s", instanceID), metrics)
	return w, nil
}

func buildStandardEC2(instanceID, region string, y int) *types.Widget {
	return metricWidget(y, region, fmt.Sprintf("EC2 Standard: %s", instanceID), []any{
		[]any{"AWS/EC2", "CPUUtilization", "InstanceId", instanceID},
		[]any{"...", "StatusCheckFailed", "InstanceId", instanceID, types.MetricOptions{Stat: "Maximum"}},
	})
}

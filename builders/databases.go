package builders

import (
	"context"
	"fmt"

	"github.com/yairfalse/taulu/types"
)

func (r *Registry) buildRDS(_ context.Context, in Input) (*types.Widget, error) {
	db := types.LastColonSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("RDS Detailed: %s", db), []any{
		[]any{"AWS/RDS", "CPUUtilization", "DBInstanceIdentifier", db},
		[]any{"...", "DatabaseConnections"},
		[]any{"...", "FreeableMemory"},
		[]any{"...", "ReadLatency"},
		[]any{"...", "WriteLatency"},
	}), nil
}

func (r *Registry) buildRedshift(_ context.Context, in Input) (*types.Widget, error) {
	cluster := types.LastColonSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("Redshift: %s", cluster), []any{
		[]any{"AWS/Redshift", "CPUUtilization", "ClusterIdentifier", cluster},
		[]any{"...", "PercentageDiskSpaceUsed"},
	}), nil
}

func (r *Registry) buildDynamoDB(_ context.Context, in Input) (*types.Widget, error) {
	table := types.LastSlashSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("DynamoDB: %s", table), []any{
		[]any{"AWS/DynamoDB", "ThrottledRequests", "TableName", table, types.MetricOptions{Stat: "Sum"}},
		[]any{"...", "SuccessfulRequestLatency", "TableName", table},
	}), nil
}

func (r *Registry) buildElastiCache(_ context.Context, in Input) (*types.Widget, error) {
	cluster := types.LastColonSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("ElastiCache: %s", cluster), []any{
		[]any{"AWS/ElastiCache", "CPUUtilization", "CacheClusterId", cluster},
		[]any{"...", "FreeableMemory"},
		[]any{"...", "NetworkBytesIn"},
	}), nil
}

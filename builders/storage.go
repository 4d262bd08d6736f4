package builders

import (
	"context"
	"fmt"

	"github.com/yairfalse/taulu/types"
)

func (r *Registry) buildFSx(_ context.Context, in Input) (*types.Widget, error) {
	fs := types.LastSlashSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("FSx Free Storage: %s", fs), []any{
		[]any{"AWS/FSx", "FreeStorageCapacity", "FileSystemId", fs, types.MetricOptions{Stat: "Minimum"}},
	}), nil
}

func (r *Registry) buildStorageGateway(_ context.Context, in Input) (*types.Widget, error) {
	gw := types.LastSlashSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("Storage Gateway: %s", gw), []any{
		[]any{"AWS/StorageGateway", "CachePercentDirty", "GatewayId", gw, types.MetricOptions{Stat: "Maximum"}},
	}), nil
}

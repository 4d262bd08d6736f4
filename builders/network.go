package builders

import (
	"context"
	"fmt"

	"github.com/yairfalse/taulu/types"
)

func (r *Registry) buildDX(_ context.Context, in Input) (*types.Widget, error) {
	conn := types.LastSlashSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("Direct Connect: %s", conn), []any{
		[]any{"AWS/DX", "ConnectionState", "ConnectionId", conn, types.MetricOptions{Stat: "Minimum"}},
	}), nil
}

// buildVPN uses a SEARCH expression because each VPN connection exposes
// one TunnelState series per tunnel IP and the IPs are not known up front.
func (r *Registry) buildVPN(_ context.Context, in Input) (*types.Widget, error) {
	vpnID := types.LastSlashSegment(in.ARN)
	expr := fmt.Sprintf("SEARCH('{AWS/VPN,VpnId} MetricName=\"TunnelState\" VpnId=\"%s\"', 'Minimum', 300)", vpnID)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("VPN Tunnels: %s", vpnID), []any{
		[]any{types.MetricExpression{Expression: expr}},
	}), nil
}

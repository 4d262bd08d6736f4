package builders

import (
	"context"
	"fmt"

	"github.com/yairfalse/taulu/types"
)

func (r *Registry) buildCloudFront(_ context.Context, in Input) (*types.Widget, error) {
	distID := types.LastSlashSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("CloudFront 5xx: %s", distID), []any{
		[]any{"AWS/CloudFront", "5xxErrorRate", "Region", "Global", "DistributionId", distID},
	}), nil
}

func (r *Registry) buildRoute53(_ context.Context, in Input) (*types.Widget, error) {
	checkID := types.LastSlashSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("Route53 Health Check: %s", checkID), []any{
		[]any{"AWS/Route53", "HealthCheckStatus", "HealthCheckId", checkID, types.MetricOptions{Stat: "Minimum"}},
	}), nil
}

// buildACM renders certificate expiry. Certificate ARNs carry an account
// ID, so the title shows only the trailing 12 characters.
func (r *Registry) buildACM(_ context.Context, in Input) (*types.Widget, error) {
	w := metricWidget(in.Y, in.Region, fmt.Sprintf("ACM Cert Expiry: ...%s", certTail(in.ARN)), []any{
		[]any{"AWS/CertificateManager", "DaysToExpiry", "CertificateArn", in.ARN, types.MetricOptions{Stat: "Minimum"}},
	})
	w.Properties.View = types.ViewSingleValue
	return w, nil
}

func certTail(arn string) string {
	if len(arn) <= 12 {
		return arn
	}
	return arn[len(arn)-12:]
}

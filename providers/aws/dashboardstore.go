package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"github.com/yairfalse/taulu/types"
)

// PutDashboard overwrites the named dashboard with the widget list. There
// is no diff or merge; the new body fully replaces the old one. Failure is
// fatal to the invocation and is not retried here.
func (c *Client) PutDashboard(ctx context.Context, name string, widgets []any) error {
	body, err := types.MarshalBody(widgets)
	if err != nil {
		return fmt.Errorf("marshal dashboard body: %w", err)
	}

	_, err = c.cloudwatch.PutDashboard(ctx, &cloudwatch.PutDashboardInput{
		DashboardName: aws.String(name),
		DashboardBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("put dashboard %q: %w", name, err)
	}

	c.logger.Info().
		Str("dashboard", name).
		Int("widgets", len(widgets)).
		Msg("dashboard updated")
	return nil
}

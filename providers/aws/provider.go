// Package aws implements Taulu's collaborator interfaces against the real
// AWS APIs: resource-groups tagging for discovery, CloudWatch for metric
// probes and dashboard persistence.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/rs/zerolog"
)

// maxRetryAttempts bounds the SDK's standard-mode retryer. All retry lives
// here at the transport layer; the core never retries.
const maxRetryAttempts = 5

// Client bundles the AWS service clients one invocation needs.
type Client struct {
	tagging    *resourcegroupstaggingapi.Client
	cloudwatch *cloudwatch.Client
	region     string
	logger     zerolog.Logger
}

// NewClient loads the default AWS config for the region and constructs the
// service clients with bounded standard retries.
func NewClient(ctx context.Context, region string, logger zerolog.Logger) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithRetryMaxAttempts(maxRetryAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Client{
		tagging:    resourcegroupstaggingapi.NewFromConfig(cfg),
		cloudwatch: cloudwatch.NewFromConfig(cfg),
		region:     region,
		logger:     logger,
	}, nil
}

// Region returns the region the clients were constructed for.
func (c *Client) Region() string {
	return c.region
}

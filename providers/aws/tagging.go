package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	taggingtypes "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"

	"github.com/yairfalse/taulu/types"
)

// FindTagged returns every resource carrying the tag, restricted to the
// catalog's resource-type filters. Pagination is fully drained before
// returning. A transport error degrades to an empty list; discovery
// failure is never fatal to a build.
func (c *Client) FindTagged(ctx context.Context, tagKey, tagValue string, resourceTypeFilters []string) ([]types.ResourceRecord, error) {
	input := &resourcegroupstaggingapi.GetResourcesInput{
		TagFilters: []taggingtypes.TagFilter{{
			Key:    aws.String(tagKey),
			Values: []string{tagValue},
		}},
		ResourceTypeFilters: resourceTypeFilters,
	}

	var records []types.ResourceRecord
	paginator := resourcegroupstaggingapi.NewGetResourcesPaginator(c.tagging, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			c.logger.Warn().
				Str("tag_key", tagKey).
				Str("tag_value", tagValue).
				Err(err).
				Msg("tag discovery failed")
			return nil, nil
		}
		for _, mapping := range page.ResourceTagMappingList {
			records = append(records, convertTagMapping(mapping))
		}
	}

	return records, nil
}

func convertTagMapping(mapping taggingtypes.ResourceTagMapping) types.ResourceRecord {
	tags := make(map[string]string, len(mapping.Tags))
	for _, tag := range mapping.Tags {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return types.ResourceRecord{
		ARN:  aws.ToString(mapping.ResourceARN),
		Tags: tags,
	}
}

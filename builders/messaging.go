package builders

import (
	"context"
	"fmt"

	"github.com/yairfalse/taulu/types"
)

func (r *Registry) buildSQS(_ context.Context, in Input) (*types.Widget, error) {
	queue := types.LastColonSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("SQS Queue: %s", queue), []any{
		[]any{"AWS/SQS", "ApproximateAgeOfOldestMessage", "QueueName", queue},
		[]any{"...", "ApproximateNumberOfMessagesVisible"},
	}), nil
}

func (r *Registry) buildSNS(_ context.Context, in Input) (*types.Widget, error) {
	topic := types.LastColonSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("SNS Topic: %s", topic), []any{
		[]any{"AWS/SNS", "NumberOfNotificationsFailed", "TopicName", topic, types.MetricOptions{Stat: "Sum"}},
	}), nil
}

func (r *Registry) buildMQ(_ context.Context, in Input) (*types.Widget, error) {
	broker := types.LastColonSegment(in.ARN)
	return metricWidget(in.Y, in.Region, fmt.Sprintf("Amazon MQ: %s", broker), []any{
		[]any{"AWS/AmazonMQ", "CpuUtilization", "Broker", broker},
		[]any{"...", "TotalMessageCount"},
	}), nil
}

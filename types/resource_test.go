package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestARNHelpers(t *testing.T) {
	t.Run("last slash segment", func(t *testing.T) {
		assert.Equal(t, "i-0abc123", LastSlashSegment("arn:aws:ec2:us-east-1:1:instance/i-0abc123"))
		assert.Equal(t, "no-slash", LastSlashSegment("no-slash"))
	})

	t.Run("last colon segment", func(t *testing.T) {
		assert.Equal(t, "my-func", LastColonSegment("arn:aws:lambda:us-east-1:1:function:my-func"))
		assert.Equal(t, "no-colon", LastColonSegment("no-colon"))
	})

	t.Run("resource name strips colons then slashes", func(t *testing.T) {
		assert.Equal(t, "prod-db", ResourceName("arn:aws:rds:us-east-1:1:db:prod-db"))
		assert.Equal(t, "i-0abc123", ResourceName("arn:aws:ec2:us-east-1:1:instance/i-0abc123"))
	})

	t.Run("load balancer path keeps the dimension triple", func(t *testing.T) {
		arn := "arn:aws:elasticloadbalancing:us-east-1:1:loadbalancer/app/my-alb/50dc6c495c0c9188"
		assert.Equal(t, "app/my-alb/50dc6c495c0c9188", LoadBalancerPath(arn))
	})

	t.Run("load balancer path tolerates short input", func(t *testing.T) {
		assert.Equal(t, "plain", LoadBalancerPath("plain"))
	})
}

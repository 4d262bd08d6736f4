// Package catalog holds the static service table: which resource families
// Taulu can render, how they are discovered, and how an ARN is matched to
// exactly one of them.
package catalog

import (
	"sort"

	"github.com/rs/zerolog"
)

// Family identifies a service-type classification bucket. The set is
// closed: every family is bound to its builder at compile time.
type Family string

const (
	FamilyEC2Instance        Family = "ec2_instance"
	FamilyRDSInstance        Family = "rds_instance"
	FamilyLambdaFunction     Family = "lambda_function"
	FamilyALB                Family = "alb"
	FamilyNLB                Family = "nlb"
	FamilyClassicELB         Family = "classic_elb"
	FamilyECSService         Family = "ecs_service"
	FamilyEKSCluster         Family = "eks_cluster"
	FamilyDynamoDBTable      Family = "dynamodb_table"
	FamilyRedshiftCluster    Family = "redshift_cluster"
	FamilySQSQueue           Family = "sqs_queue"
	FamilySNSTopic           Family = "sns_topic"
	FamilyCloudFront         Family = "cloudfront_distribution"
	FamilyRoute53HealthCheck Family = "route53_healthcheck"
	FamilyACMCertificate     Family = "acm_certificate"
	FamilyElastiCache        Family = "elasticache_cluster"
	FamilyFSxFileSystem      Family = "fsx_filesystem"
	FamilyStorageGateway     Family = "storage_gateway"
	FamilyDXConnection       Family = "dx_connection"
	FamilyVPNConnection      Family = "vpn_connection"
	FamilyAPIGatewayStage    Family = "apigateway_stage"
	FamilyStepFunctions      Family = "stepfunctions_statemachine"
	FamilyMQBroker           Family = "mq_broker"
)

// GlobalMetricsRegion is where AWS publishes metrics for global services
// (CloudFront, Route53, us-east-1-issued ACM certs), regardless of where
// the dashboard itself lives.
const GlobalMetricsRegion = "us-east-1"

// Entry describes one family: the tagging-API resource-type filter used
// for discovery, the token that must appear in a matching ARN, and whether
// the family's metrics live in the global region.
type Entry struct {
	Family     Family
	TagFilter  string
	MatchToken string
	IsGlobal   bool
}

// All is the full service table. Several load-balancer entries share one
// tag filter and are told apart only by match token; see Classify for the
// rules that make that safe.
var All = []Entry{
	{Family: FamilyEC2Instance, TagFilter: "ec2:instance", MatchToken: "instance/"},
	{Family: FamilyRDSInstance, TagFilter: "rds:db", MatchToken: ":db:"},
	{Family: FamilyLambdaFunction, TagFilter: "lambda:function", MatchToken: ":function:"},
	{Family: FamilyALB, TagFilter: "elasticloadbalancing:loadbalancer", MatchToken: "loadbalancer/app"},
	{Family: FamilyNLB, TagFilter: "elasticloadbalancing:loadbalancer", MatchToken: "loadbalancer/net"},
	{Family: FamilyClassicELB, TagFilter: "elasticloadbalancing:loadbalancer", MatchToken: "loadbalancer"},
	{Family: FamilyECSService, TagFilter: "ecs:service", MatchToken: "service/"},
	{Family: FamilyEKSCluster, TagFilter: "eks:cluster", MatchToken: "cluster/"},
	{Family: FamilyDynamoDBTable, TagFilter: "dynamodb:table", MatchToken: "table/"},
	{Family: FamilyRedshiftCluster, TagFilter: "redshift:cluster", MatchToken: "cluster:"},
	{Family: FamilySQSQueue, TagFilter: "sqs", MatchToken: "arn:aws:sqs:"},
	{Family: FamilySNSTopic, TagFilter: "sns", MatchToken: "arn:aws:sns:"},
	{Family: FamilyCloudFront, TagFilter: "cloudfront:distribution", MatchToken: "distribution/", IsGlobal: true},
	{Family: FamilyRoute53HealthCheck, TagFilter: "route53:healthcheck", MatchToken: "healthcheck/", IsGlobal: true},
	{Family: FamilyACMCertificate, TagFilter: "acm:certificate", MatchToken: "certificate/", IsGlobal: true},
	{Family: FamilyElastiCache, TagFilter: "elasticache:cluster", MatchToken: "cluster:"},
	{Family: FamilyFSxFileSystem, TagFilter: "fsx:filesystem", MatchToken: "filesystem/"},
	{Family: FamilyStorageGateway, TagFilter: "storagegateway:gateway", MatchToken: "gateway/"},
	{Family: FamilyDXConnection, TagFilter: "directconnect:dxcon", MatchToken: "dxcon/"},
	{Family: FamilyVPNConnection, TagFilter: "ec2:vpn-connection", MatchToken: "vpn-"},
	{Family: FamilyAPIGatewayStage, TagFilter: "apigateway:stages", MatchToken: "apis/"},
	{Family: FamilyStepFunctions, TagFilter: "states", MatchToken: "stateMachine:"},
	{Family: FamilyMQBroker, TagFilter: "mq:broker", MatchToken: "broker:"},
}

// Catalog is the set of enabled entries for one invocation.
type Catalog struct {
	entries []Entry
}

// Enabled builds a catalog from an allow-list of family keys. An empty
// allow-list enables every family. Unknown keys are logged and skipped.
func Enabled(keys []string, logger zerolog.Logger) Catalog {
	if len(keys) == 0 {
		return Catalog{entries: All}
	}

	byFamily := make(map[Family]Entry, len(All))
	for _, e := range All {
		byFamily[e.Family] = e
	}

	var entries []Entry
	for _, key := range keys {
		e, ok := byFamily[Family(key)]
		if !ok {
			logger.Warn().Str("family", key).Msg("unknown family in allow-list, skipping")
			continue
		}
		entries = append(entries, e)
	}
	return Catalog{entries: entries}
}

// Entries returns the enabled entries.
func (c Catalog) Entries() []Entry {
	return c.entries
}

// TagFilters returns the deduplicated resource-type filters for discovery,
// sorted so two runs issue identical requests.
func (c Catalog) TagFilters() []string {
	seen := make(map[string]bool, len(c.entries))
	var filters []string
	for _, e := range c.entries {
		if !seen[e.TagFilter] {
			seen[e.TagFilter] = true
			filters = append(filters, e.TagFilter)
		}
	}
	sort.Strings(filters)
	return filters
}

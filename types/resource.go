// Package types defines the core data model shared across Taulu:
// discovered resources, dashboard widgets, and metric references.
package types

import "strings"

// ResourceRecord is one tagged resource as returned by the tagging API.
// Immutable once discovered.
type ResourceRecord struct {
	ARN  string
	Tags map[string]string
}

// MetricRef identifies a single CloudWatch metric with its dimension set.
type MetricRef struct {
	Name       string
	Dimensions []Dimension
}

// Dimension is one CloudWatch metric dimension.
type Dimension struct {
	Name  string `json:"Name" yaml:"name"`
	Value string `json:"Value" yaml:"value"`
}

// LastSlashSegment returns the text after the final "/" in s.
func LastSlashSegment(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// LastColonSegment returns the text after the final ":" in s.
func LastColonSegment(s string) string {
	if i := strings.LastIndex(s, ":"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// ResourceName extracts the short resource name from an ARN: the text
// after the final colon, then after the final slash. Matches how the
// tagging API names instances, queues, and DB identifiers.
func ResourceName(arn string) string {
	return LastSlashSegment(LastColonSegment(arn))
}

// LoadBalancerPath returns the "type/name/id" triple CloudWatch uses as
// the LoadBalancer dimension for ALB and NLB ARNs.
func LoadBalancerPath(arn string) string {
	parts := strings.Split(arn, "/")
	if len(parts) < 3 {
		return arn
	}
	return strings.Join(parts[len(parts)-3:], "/")
}

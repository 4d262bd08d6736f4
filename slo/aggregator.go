// Package slo synthesizes cross-resource aggregate widgets: one
// time-series graph plus one single-value readout per eligible family,
// driven by CloudWatch metric-math and SEARCH expressions. The backend
// evaluates the expressions; this package only composes them.
package slo

import (
	"fmt"
	"strings"

	"github.com/yairfalse/taulu/catalog"
	"github.com/yairfalse/taulu/types"
)

// Family is an SLO-eligible resource family.
type Family string

const (
	ALB        Family = "alb"
	Lambda     Family = "lambda"
	CloudFront Family = "cloudfront"
	EC2        Family = "ec2"
	RDS        Family = "rds"
)

// FamilyOrder is the fixed layout order of aggregate widget pairs.
var FamilyOrder = []Family{ALB, Lambda, CloudFront, EC2, RDS}

var memberToken = map[Family]string{
	ALB:        "loadbalancer/app",
	Lambda:     ":function:",
	CloudFront: "distribution/",
	EC2:        "instance/",
	RDS:        ":db:",
}

// Members returns the resources belonging to an SLO family, in input order.
func Members(f Family, records []types.ResourceRecord) []types.ResourceRecord {
	var members []types.ResourceRecord
	for _, r := range records {
		if strings.Contains(r.ARN, memberToken[f]) {
			members = append(members, r)
		}
	}
	return members
}

// PairHeight is how much vertical space one aggregate pair occupies. Graph
// and readout sit side by side at the same offset.
const PairHeight = 6

// epsilon is added to every ratio denominator so a resource with zero
// traffic in the observation window cannot divide by zero. Rendered as a
// literal so dashboard bodies diff cleanly across runs.
const epsilon = "0.000001"

// searchPeriod is the SEARCH aggregation period in seconds.
const searchPeriod = 300

// ALBPair aggregates availability across application load balancers:
// 100 * (1 - 5xx / (requests + epsilon)).
func ALBPair(members []types.ResourceRecord, region string, y int, target float64) []types.Widget {
	var metrics []any
	var reqIDs, errIDs []string
	for i, res := range members {
		lb := types.LoadBalancerPath(res.ARN)
		reqID := fmt.Sprintf("r%d", i)
		errID := fmt.Sprintf("e%d", i)
		reqIDs = append(reqIDs, reqID)
		errIDs = append(errIDs, errID)
		metrics = append(metrics,
			types.MetricExpression{
				ID:         reqID,
				Visible:    types.Hidden(),
				Expression: fmt.Sprintf("SEARCH('{AWS/ApplicationELB,LoadBalancer}MetricName=\"RequestCount\" \"%s\"' ,'Sum',%d)", lb, searchPeriod),
			},
			types.MetricExpression{
				ID:         errID,
				Visible:    types.Hidden(),
				Expression: fmt.Sprintf("SEARCH('{AWS/ApplicationELB,LoadBalancer}MetricName=\"HTTPCode_Target_5XX_Count\" \"%s\"' ,'Sum',%d)", lb, searchPeriod),
			},
		)
	}
	metrics = append(metrics, types.MetricExpression{
		ID:         "slo",
		Expression: fmt.Sprintf("100*(1-(%s)/(%s+%s))", sumOf(errIDs), sumOf(reqIDs), epsilon),
		Label:      "Availability %",
	})

	return pair(metrics, region, y,
		"ALB Availability SLO", "Current Availability",
		availabilityAxis(), targetAnnotation(target))
}

// LambdaPair aggregates success rate across functions:
// 100 * (invocations - errors) / (invocations + epsilon).
func LambdaPair(members []types.ResourceRecord, region string, y int, target float64) []types.Widget {
	search := orNames(members, types.LastColonSegment)
	metrics := []any{
		types.MetricExpression{
			ID:         "invocations",
			Visible:    types.Hidden(),
			Expression: fmt.Sprintf("SEARCH('{AWS/Lambda,FunctionName}MetricName=\"Invocations\"(%s)','Sum',%d)", search, searchPeriod),
		},
		types.MetricExpression{
			ID:         "errors",
			Visible:    types.Hidden(),
			Expression: fmt.Sprintf("SEARCH('{AWS/Lambda,FunctionName}MetricName=\"Errors\"(%s)','Sum',%d)", search, searchPeriod),
		},
		types.MetricExpression{
			ID:         "slo",
			Expression: fmt.Sprintf("100*(invocations-errors)/(invocations+%s)", epsilon),
			Label:      "Success Rate %",
		},
	}

	return pair(metrics, region, y,
		"Lambda Success Rate SLO", "Current Success Rate",
		availabilityAxis(), targetAnnotation(target))
}

// CloudFrontPair aggregates success rate across distributions. CloudFront
// metrics only exist in the global region, so the pair is pinned there no
// matter where the dashboard lives.
func CloudFrontPair(members []types.ResourceRecord, y int, target float64) []types.Widget {
	search := orNames(members, types.LastSlashSegment)
	metrics := []any{
		types.MetricExpression{
			ID:         "error_rate",
			Visible:    types.Hidden(),
			Expression: fmt.Sprintf("SEARCH('{AWS/CloudFront,DistributionId,Region}MetricName=\"5xxErrorRate\"Region=\"Global\"(%s)','Average',%d)", search, searchPeriod),
		},
		types.MetricExpression{
			ID:         "slo",
			Expression: "100-error_rate",
			Label:      "Success Rate %",
		},
	}

	return pair(metrics, catalog.GlobalMetricsRegion, y,
		"CloudFront Success Rate SLO", "Current Success Rate",
		availabilityAxis(), targetAnnotation(target))
}

// EC2Pair gates on CPU and agent-reported memory both staying under the
// target: 100 per bucket when both hold, 0 otherwise. Memory is FILLed
// with 0 so agentless instances do not poison the gate with missing data.
func EC2Pair(members []types.ResourceRecord, region string, y int, cpuTarget float64) []types.Widget {
	search := orNames(members, types.LastSlashSegment)
	metrics := []any{
		types.MetricExpression{
			ID:         "avg_cpu",
			Visible:    types.Hidden(),
			Expression: fmt.Sprintf("SEARCH('{AWS/EC2,InstanceId} MetricName=\"CPUUtilization\" (%s)', 'Average', %d)", search, searchPeriod),
		},
		types.MetricExpression{
			ID:         "avg_mem",
			Visible:    types.Hidden(),
			Expression: fmt.Sprintf("FILL(SEARCH('{CWAgent,InstanceId} MetricName=\"mem_used_percent\" (%s)', 'Average', %d), 0)", search, searchPeriod),
		},
		types.MetricExpression{
			ID:         "slo",
			Expression: fmt.Sprintf("IF(avg_cpu < %s AND avg_mem < %s, 100, 0)", formatTarget(cpuTarget), formatTarget(cpuTarget)),
			Label:      "Performance SLO Met %",
		},
	}

	return pair(metrics, region, y,
		fmt.Sprintf("EC2 Perf. SLO (CPU & Mem < %s%%)", formatTarget(cpuTarget)),
		"Current Performance",
		gateAxis(), nil)
}

// RDSPair gates on average read/write latency and CPU both staying under
// their targets. Latency targets arrive in milliseconds for display but
// the metric is in seconds.
func RDSPair(members []types.ResourceRecord, region string, y int, latencyTargetS, cpuTarget, latencyTargetMS float64) []types.Widget {
	search := orNames(members, types.LastColonSegment)
	latencySearch := func(metric string) string {
		return fmt.Sprintf("SEARCH('{AWS/RDS,DBInstanceIdentifier} MetricName=\"%s\" (%s)', 'Average', %d)", metric, search, searchPeriod)
	}
	metrics := []any{
		types.MetricExpression{
			ID:         "avg_latency",
			Visible:    types.Hidden(),
			Expression: fmt.Sprintf("(%s + %s) / 2", latencySearch("ReadLatency"), latencySearch("WriteLatency")),
		},
		types.MetricExpression{
			ID:         "avg_cpu",
			Visible:    types.Hidden(),
			Expression: latencySearch("CPUUtilization"),
		},
		types.MetricExpression{
			ID:         "slo",
			Expression: fmt.Sprintf("IF(avg_latency < %s AND avg_cpu < %s, 100, 0)", formatTarget(latencyTargetS), formatTarget(cpuTarget)),
			Label:      "Performance SLO Met %",
		},
	}

	return pair(metrics, region, y,
		fmt.Sprintf("RDS Perf. SLO (Latency < %sms & CPU < %s%%)", formatTarget(latencyTargetMS), formatTarget(cpuTarget)),
		"Current Performance",
		gateAxis(), nil)
}

// orNames renders the OR-joined quoted name list a SEARCH body takes.
func orNames(members []types.ResourceRecord, name func(string) string) string {
	quoted := make([]string, 0, len(members))
	for _, res := range members {
		quoted = append(quoted, fmt.Sprintf("%q", name(res.ARN)))
	}
	return strings.Join(quoted, " OR ")
}

func sumOf(ids []string) string {
	return fmt.Sprintf("SUM([%s])", strings.Join(ids, ","))
}

// formatTarget renders a threshold the way it should read in titles and
// expressions: no exponent, no trailing zeros.
func formatTarget(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", v), "0"), ".")
}

func availabilityAxis() *types.YAxis {
	return &types.YAxis{Left: &types.AxisRange{Min: 95, Max: 100}}
}

func gateAxis() *types.YAxis {
	return &types.YAxis{Left: &types.AxisRange{Min: 0, Max: 105}}
}

func targetAnnotation(target float64) *types.Annotations {
	return &types.Annotations{
		Horizontal: []types.HorizontalAnnotation{{
			Color: "#ff0000",
			Label: fmt.Sprintf("SLO Target (%s%%)", formatTarget(target)),
			Value: target,
		}},
	}
}

// pair assembles the graph/readout couple pinned to one vertical offset.
func pair(metrics []any, region string, y int, graphTitle, valueTitle string, axis *types.YAxis, annotations *types.Annotations) []types.Widget {
	graph := types.Widget{
		Type:   types.WidgetTypeMetric,
		X:      0,
		Y:      y,
		Width:  18,
		Height: PairHeight,
		Properties: types.Properties{
			Metrics:     metrics,
			View:        types.ViewTimeSeries,
			Region:      region,
			Title:       graphTitle,
			YAxis:       axis,
			Annotations: annotations,
		},
	}
	value := types.Widget{
		Type:   types.WidgetTypeMetric,
		X:      18,
		Y:      y,
		Width:  6,
		Height: PairHeight,
		Properties: types.Properties{
			Metrics: []any{[]any{"..."}},
			View:    types.ViewSingleValue,
			Region:  region,
			Title:   valueTitle,
		},
	}
	return []types.Widget{graph, value}
}

package types

import "encoding/json"

// Widget view modes and types as CloudWatch spells them.
const (
	WidgetTypeMetric = "metric"
	WidgetTypeText   = "text"

	ViewTimeSeries  = "timeSeries"
	ViewSingleValue = "singleValue"
)

// DefaultWidgetHeight is used when a widget declares no height.
const DefaultWidgetHeight = 7

// Widget is one dashboard widget in CloudWatch's dashboard-body format.
// Position is assigned once by the layout engine and never revised.
type Widget struct {
	Type       string     `json:"type"`
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Properties Properties `json:"properties"`
}

// Properties holds the render properties of a widget. Metrics entries are
// heterogeneous on the wire: positional arrays ([]any), expression objects
// (MetricExpression), or the "..." namespace-repeat marker inside arrays.
type Properties struct {
	Metrics     []any        `json:"metrics,omitempty"`
	View        string       `json:"view,omitempty"`
	Region      string       `json:"region,omitempty"`
	Title       string       `json:"title,omitempty"`
	Markdown    string       `json:"markdown,omitempty"`
	YAxis       *YAxis       `json:"yAxis,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// MetricExpression is a metric-math or SEARCH entry inside a widget's
// metrics array. It has no identity beyond the widget that holds it.
type MetricExpression struct {
	ID         string `json:"id,omitempty"`
	Expression string `json:"expression"`
	Visible    *bool  `json:"visible,omitempty"`
	Label      string `json:"label,omitempty"`
}

// MetricOptions is the trailing options object of a positional metric line.
type MetricOptions struct {
	Stat string `json:"stat,omitempty"`
}

// YAxis bounds the left axis of a graph widget.
type YAxis struct {
	Left *AxisRange `json:"left,omitempty"`
}

// AxisRange is a min/max pair for one axis.
type AxisRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Annotations carries horizontal threshold lines.
type Annotations struct {
	Horizontal []HorizontalAnnotation `json:"horizontal,omitempty"`
}

// HorizontalAnnotation is one threshold line with its label.
type HorizontalAnnotation struct {
	Color string  `json:"color,omitempty"`
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
}

// Hidden returns a pointer suitable for MetricExpression.Visible on
// intermediate expressions that should not render as their own series.
func Hidden() *bool {
	v := false
	return &v
}

// CustomWidget is an externally supplied widget definition, passed through
// verbatim apart from the layout fields the engine rewrites.
type CustomWidget map[string]any

// HeightOrDefault reads the declared height, falling back to the default.
func (c CustomWidget) HeightOrDefault() int {
	switch h := c["height"].(type) {
	case float64:
		return int(h)
	case int:
		return h
	}
	return DefaultWidgetHeight
}

// Place assigns the vertical offset and forces the render region, matching
// what the layout engine does for built widgets.
func (c CustomWidget) Place(y int, region string) {
	c["y"] = y
	if props, ok := c["properties"].(map[string]any); ok {
		props["region"] = region
	}
}

// DashboardBody is the document sent to PutDashboard. Widgets mixes built
// Widget values and CustomWidget maps; both marshal to the same wire form.
type DashboardBody struct {
	Widgets []any `json:"widgets"`
}

// MarshalBody renders the dashboard body as the JSON string the
// CloudWatch API expects.
func MarshalBody(widgets []any) (string, error) {
	b, err := json.Marshal(DashboardBody{Widgets: widgets})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

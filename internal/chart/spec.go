package chart

import (
	"fmt"

	"globescope/internal/stats"
)

// Kind identifies a chart type. The set is closed; Build rejects anything
// else with an InvalidSpecError.
type Kind string

const (
	KindChoropleth  Kind = "choropleth"
	KindGlobe       Kind = "globe"
	KindRadar       Kind = "radar"
	KindScatter     Kind = "scatter"
	KindRegionalBar Kind = "regional_bar"
	KindSunburst    Kind = "sunburst"
	KindHeatmap     Kind = "heatmap"
)

// Kinds lists every supported chart kind.
var Kinds = []Kind{
	KindChoropleth, KindGlobe, KindRadar, KindScatter,
	KindRegionalBar, KindSunburst, KindHeatmap,
}

// ParseKind validates a chart kind from user input.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", &InvalidSpecError{Kind: Kind(s), Reason: "unknown chart kind"}
}

// InvalidSpecError reports a spec the builder refuses to work with, as
// opposed to a valid spec that happens to select no data.
type InvalidSpecError struct {
	Kind   Kind
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid %s spec: %s", e.Kind, e.Reason)
}

// Spec is a tagged request for one figure: Kind selects the variant and
// exactly the matching options field must be set.
type Spec struct {
	Kind  Kind   `json:"kind" yaml:"kind"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	Choropleth *ChoroplethOptions `json:"choropleth,omitempty" yaml:"choropleth,omitempty"`
	Globe      *GlobeOptions      `json:"globe,omitempty" yaml:"globe,omitempty"`
	Radar      *RadarOptions      `json:"radar,omitempty" yaml:"radar,omitempty"`
	Scatter    *ScatterOptions    `json:"scatter,omitempty" yaml:"scatter,omitempty"`
	Bar        *BarOptions        `json:"bar,omitempty" yaml:"bar,omitempty"`
	Sunburst   *SunburstOptions   `json:"sunburst,omitempty" yaml:"sunburst,omitempty"`
	Heatmap    *HeatmapOptions    `json:"heatmap,omitempty" yaml:"heatmap,omitempty"`
}

// ChoroplethOptions maps one metric onto a flat world map.
type ChoroplethOptions struct {
	Metric string `json:"metric" yaml:"metric"`
	// Scale overrides the metric domain's default scheme.
	Scale *ColorScale `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// GlobeOptions maps one metric onto an orthographic globe, marker size
// encoding the value.
type GlobeOptions struct {
	Metric string `json:"metric" yaml:"metric"`
}

// RadarOptions compares a handful of countries across several normalized
// metrics.
type RadarOptions struct {
	Countries []string `json:"countries" yaml:"countries"`
	Metrics   []string `json:"metrics" yaml:"metrics"`
}

// ScatterOptions plots two metrics against each other, optionally with an
// OLS trendline.
type ScatterOptions struct {
	XMetric   string `json:"x_metric" yaml:"x_metric"`
	YMetric   string `json:"y_metric" yaml:"y_metric"`
	Trendline bool   `json:"trendline,omitempty" yaml:"trendline,omitempty"`
}

// BarOptions aggregates one metric per continent or tier.
type BarOptions struct {
	Metric  string        `json:"metric" yaml:"metric"`
	GroupBy stats.GroupBy `json:"group_by" yaml:"group_by"`
}

// SunburstOptions builds a continent to country hierarchy, slice size from
// WeightMetric and slice color from ColorMetric.
type SunburstOptions struct {
	WeightMetric string `json:"weight_metric" yaml:"weight_metric"`
	ColorMetric  string `json:"color_metric" yaml:"color_metric"`
}

// HeatmapOptions renders the pairwise correlation matrix of the metrics.
type HeatmapOptions struct {
	Metrics []string `json:"metrics" yaml:"metrics"`
}

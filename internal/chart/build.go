package chart

import (
	"globescope/internal/config"
	"globescope/internal/dataset"
)

// Limits bound the shape of comparison charts. Values come from
// configuration; DefaultLimits mirrors the config defaults.
type Limits struct {
	MinComparisonCountries int
	MaxComparisonCountries int
	MinRadarMetrics        int
	MaxRadarMetrics        int
}

// DefaultLimits returns the stock chart limits.
func DefaultLimits() Limits {
	return Limits{
		MinComparisonCountries: 2,
		MaxComparisonCountries: 8,
		MinRadarMetrics:        3,
		MaxRadarMetrics:        8,
	}
}

// Builder constructs figures against a fixed metrics catalog. The scheme
// table maps metric domains to their default sequential color scheme.
type Builder struct {
	catalog *config.Catalog
	limits  Limits
	schemes map[string]string
}

// NewBuilder returns a builder using the given catalog, limits, and
// per-domain color scheme table. A nil scheme table paints every domain with
// the default scheme.
func NewBuilder(catalog *config.Catalog, limits Limits, schemes map[string]string) *Builder {
	return &Builder{catalog: catalog, limits: limits, schemes: schemes}
}

// Build dispatches a spec to the matching builder. The spec must name a
// known kind and carry exactly the options field for that kind.
func (b *Builder) Build(table *dataset.Table, spec Spec) (*FigureDescription, error) {
	if err := checkOptionTag(spec); err != nil {
		return nil, err
	}
	switch spec.Kind {
	case KindChoropleth:
		return b.buildChoropleth(table, spec)
	case KindGlobe:
		return b.buildGlobe(table, spec)
	case KindRadar:
		return b.buildRadar(table, spec)
	case KindScatter:
		return b.buildScatter(table, spec)
	case KindRegionalBar:
		return b.buildRegionalBar(table, spec)
	case KindSunburst:
		return b.buildSunburst(table, spec)
	case KindHeatmap:
		return b.buildHeatmap(table, spec)
	default:
		return nil, &InvalidSpecError{Kind: spec.Kind, Reason: "unknown chart kind"}
	}
}

// checkOptionTag enforces the tagged-variant shape: one options field, and
// the one matching the kind.
func checkOptionTag(spec Spec) error {
	set := 0
	var match bool
	tag := func(present bool, kind Kind) {
		if present {
			set++
			if spec.Kind == kind {
				match = true
			}
		}
	}
	tag(spec.Choropleth != nil, KindChoropleth)
	tag(spec.Globe != nil, KindGlobe)
	tag(spec.Radar != nil, KindRadar)
	tag(spec.Scatter != nil, KindScatter)
	tag(spec.Bar != nil, KindRegionalBar)
	tag(spec.Sunburst != nil, KindSunburst)
	tag(spec.Heatmap != nil, KindHeatmap)

	known := false
	for _, k := range Kinds {
		if spec.Kind == k {
			known = true
			break
		}
	}
	if !known {
		return &InvalidSpecError{Kind: spec.Kind, Reason: "unknown chart kind"}
	}
	if set == 0 {
		return &InvalidSpecError{Kind: spec.Kind, Reason: "missing options"}
	}
	if set > 1 {
		return &InvalidSpecError{Kind: spec.Kind, Reason: "multiple options blocks set"}
	}
	if !match {
		return &InvalidSpecError{Kind: spec.Kind, Reason: "options do not match kind"}
	}
	return nil
}

// metric resolves a metric name against the catalog, wrapping misses in an
// InvalidSpecError for the given kind.
func (b *Builder) metric(kind Kind, name string) (config.MetricDescriptor, error) {
	if name == "" {
		return config.MetricDescriptor{}, &InvalidSpecError{Kind: kind, Reason: "metric not set"}
	}
	desc, ok := b.catalog.Lookup(name)
	if !ok {
		return config.MetricDescriptor{}, &InvalidSpecError{Kind: kind, Reason: "unknown metric " + name}
	}
	return desc, nil
}

// titleOr falls back to a generated title when the spec leaves it blank.
func titleOr(spec Spec, generated string) string {
	if spec.Title != "" {
		return spec.Title
	}
	return generated
}

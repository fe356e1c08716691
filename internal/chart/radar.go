package chart

import (
	"fmt"

	"globescope/internal/config"
	"globescope/internal/dataset"
)

// radarScale is the normalized radial axis: every metric is min-max scaled
// onto it using the full table, not just the compared countries, so the
// same figure spec stays comparable as countries are swapped in and out.
const radarScale = 100

// buildRadar compares a handful of countries across normalized metrics.
// A country missing a metric simply omits that vertex; it is never drawn
// at zero.
func (b *Builder) buildRadar(table *dataset.Table, spec Spec) (*FigureDescription, error) {
	opts := spec.Radar
	if n := len(opts.Countries); n < b.limits.MinComparisonCountries || n > b.limits.MaxComparisonCountries {
		return nil, &InvalidSpecError{
			Kind: KindRadar,
			Reason: fmt.Sprintf("%d countries, want %d to %d",
				n, b.limits.MinComparisonCountries, b.limits.MaxComparisonCountries),
		}
	}
	if n := len(opts.Metrics); n < b.limits.MinRadarMetrics || n > b.limits.MaxRadarMetrics {
		return nil, &InvalidSpecError{
			Kind: KindRadar,
			Reason: fmt.Sprintf("%d metrics, want %d to %d",
				n, b.limits.MinRadarMetrics, b.limits.MaxRadarMetrics),
		}
	}

	descs := make([]config.MetricDescriptor, 0, len(opts.Metrics))
	seen := make(map[string]bool, len(opts.Metrics))
	for _, m := range opts.Metrics {
		if seen[m] {
			return nil, &InvalidSpecError{Kind: KindRadar, Reason: "duplicate metric " + m}
		}
		seen[m] = true
		desc, err := b.metric(KindRadar, m)
		if err != nil {
			return nil, err
		}
		descs = append(descs, desc)
	}

	type axisScale struct {
		min, span float64
		ok        bool
	}
	scales := make([]axisScale, len(descs))
	for i, d := range descs {
		min, max, ok := table.MetricMinMax(d.Name)
		scales[i] = axisScale{min: min, span: max - min, ok: ok}
	}

	title := titleOr(spec, "Country comparison")
	var traces []Trace
	for _, country := range opts.Countries {
		rec, ok := table.Get(country)
		if !ok {
			return nil, &InvalidSpecError{Kind: KindRadar, Reason: "unknown country " + country}
		}
		trace := Trace{Type: "scatterpolar", Name: rec.ID}
		for i, d := range descs {
			v, present := rec.Metric(d.Name).Float()
			if !present || !scales[i].ok {
				continue
			}
			r := radarScale / 2.0
			if scales[i].span > 0 {
				r = (v - scales[i].min) / scales[i].span * radarScale
			}
			trace.Axes = append(trace.Axes, d.Label)
			trace.Radial = append(trace.Radial, r)
		}
		if len(trace.Axes) > 0 {
			traces = append(traces, trace)
		}
	}
	if len(traces) == 0 {
		return emptyFigure(KindRadar, title, "no compared country reports any requested metric"), nil
	}

	radial := [2]float64{0, radarScale}
	return &FigureDescription{
		Kind:   KindRadar,
		Title:  title,
		Traces: traces,
		Layout: Layout{RadialRange: &radial},
	}, nil
}

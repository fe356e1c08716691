package chart

import (
	"globescope/internal/dataset"
	"globescope/internal/stats"
)

// buildScatter plots two metrics over their complete cases: a country
// appears only when it reports both. The trendline is fitted on the plotted
// points and silently skipped when the fit is undefined.
func (b *Builder) buildScatter(table *dataset.Table, spec Spec) (*FigureDescription, error) {
	opts := spec.Scatter
	xDesc, err := b.metric(KindScatter, opts.XMetric)
	if err != nil {
		return nil, err
	}
	yDesc, err := b.metric(KindScatter, opts.YMetric)
	if err != nil {
		return nil, err
	}
	if xDesc.Name == yDesc.Name {
		return nil, &InvalidSpecError{Kind: KindScatter, Reason: "x and y are the same metric"}
	}
	title := titleOr(spec, yDesc.Label+" vs "+xDesc.Label)

	trace := Trace{Type: "scatter", Name: yDesc.Label}
	var xs, ys []float64
	for _, rec := range table.Records() {
		x, okX := rec.Metric(xDesc.Name).Float()
		y, okY := rec.Metric(yDesc.Name).Float()
		if !okX || !okY {
			continue
		}
		trace.X = append(trace.X, dataset.Present(x))
		trace.Y = append(trace.Y, dataset.Present(y))
		trace.Text = append(trace.Text, rec.ID)
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		return emptyFigure(KindScatter, title, "no country reports both metrics"), nil
	}

	if opts.Trendline {
		if slope, intercept, ok := stats.Trendline(xs, ys); ok {
			line := &Line{Slope: slope, Intercept: intercept}
			if r, ok := stats.Pearson(xs, ys); ok {
				line.R = r
			}
			trace.Line = line
		}
	}

	return &FigureDescription{
		Kind:   KindScatter,
		Title:  title,
		Traces: []Trace{trace},
		Layout: Layout{XTitle: xDesc.Label, YTitle: yDesc.Label},
	}, nil
}

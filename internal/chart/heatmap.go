package chart

import (
	"globescope/internal/dataset"
	"globescope/internal/stats"
)

// buildHeatmap renders the pairwise correlation matrix of the requested
// metrics. Cells that could not be computed stay null in the grid.
func (b *Builder) buildHeatmap(table *dataset.Table, spec Spec) (*FigureDescription, error) {
	opts := spec.Heatmap
	if len(opts.Metrics) < 2 {
		return nil, &InvalidSpecError{Kind: KindHeatmap, Reason: "need at least two metrics"}
	}
	labels := make([]string, 0, len(opts.Metrics))
	for _, m := range opts.Metrics {
		desc, err := b.metric(KindHeatmap, m)
		if err != nil {
			return nil, err
		}
		labels = append(labels, desc.Label)
	}
	title := titleOr(spec, "Metric correlations")

	cm, err := stats.Correlate(table, opts.Metrics)
	if err != nil {
		return nil, &InvalidSpecError{Kind: KindHeatmap, Reason: err.Error()}
	}

	computable := false
	for i, row := range cm.Cells {
		for j, cell := range row {
			if i != j && cell.IsPresent() {
				computable = true
			}
		}
	}
	if !computable {
		return emptyFigure(KindHeatmap, title, "no metric pair has two complete cases"), nil
	}

	trace := Trace{
		Type:    "heatmap",
		XLabels: labels,
		YLabels: labels,
		Grid:    cm.Cells,
	}
	return &FigureDescription{
		Kind:   KindHeatmap,
		Title:  title,
		Traces: []Trace{trace},
		Layout: Layout{ColorScale: &ColorScale{Scheme: "RdBu"}},
	}, nil
}

package chart

import (
	"fmt"
	"sort"

	"globescope/internal/dataset"
	"globescope/internal/stats"
)

// buildRegionalBar aggregates one metric per continent or tier. Groups with
// a value sort descending with alphabetical tie-break; groups without one
// trail, also alphabetically, so "no data" is visible instead of hidden.
func (b *Builder) buildRegionalBar(table *dataset.Table, spec Spec) (*FigureDescription, error) {
	opts := spec.Bar
	desc, err := b.metric(KindRegionalBar, opts.Metric)
	if err != nil {
		return nil, err
	}
	by, err := stats.ParseGroupBy(string(opts.GroupBy))
	if err != nil {
		return nil, &InvalidSpecError{Kind: KindRegionalBar, Reason: err.Error()}
	}
	title := titleOr(spec, fmt.Sprintf("%s by %s", desc.Label, by))

	groups, err := stats.Aggregate(table, by, []string{desc.Name}, b.catalog)
	if err != nil {
		return nil, fmt.Errorf("regional bar: %w", err)
	}

	type bar struct {
		group   string
		value   dataset.Value
		samples int
	}
	bars := make([]bar, 0, len(groups))
	anyPresent := false
	for _, g := range groups {
		if g.Size == 0 {
			continue
		}
		agg := g.Metrics[desc.Name]
		if agg.Value.IsPresent() {
			anyPresent = true
		}
		bars = append(bars, bar{group: g.Group, value: agg.Value, samples: agg.SampleCount})
	}
	if !anyPresent {
		return emptyFigure(KindRegionalBar, title, "no group reports "+desc.Name), nil
	}

	sort.SliceStable(bars, func(i, j int) bool {
		vi, okI := bars[i].value.Float()
		vj, okJ := bars[j].value.Float()
		if okI != okJ {
			return okI
		}
		if okI && vi != vj {
			return vi > vj
		}
		return bars[i].group < bars[j].group
	})

	trace := Trace{Type: "bar", Name: desc.Label}
	for _, bar := range bars {
		trace.XLabels = append(trace.XLabels, bar.group)
		trace.Values = append(trace.Values, bar.value)
		trace.Text = append(trace.Text, fmt.Sprintf("%d of %d countries", bar.samples, countOf(groups, bar.group)))
	}

	return &FigureDescription{
		Kind:   KindRegionalBar,
		Title:  title,
		Traces: []Trace{trace},
		Layout: Layout{XTitle: string(by), YTitle: desc.Label},
	}, nil
}

func countOf(groups []stats.GroupAggregate, name string) int {
	for _, g := range groups {
		if g.Group == name {
			return g.Size
		}
	}
	return 0
}

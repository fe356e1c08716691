package chart

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"globescope/internal/dataset"
)

// buildSunburst lays out the three-ring hierarchy continent, development
// tier, country. Slice size comes from the weight metric, with missing
// weights counting as zero for sizing only; slice color comes from the color
// metric and stays null when absent, so a renderer never paints invented
// data. Inner rings are colored by the mean of their members' non-null
// values.
func (b *Builder) buildSunburst(table *dataset.Table, spec Spec) (*FigureDescription, error) {
	opts := spec.Sunburst
	weightDesc, err := b.metric(KindSunburst, opts.WeightMetric)
	if err != nil {
		return nil, err
	}
	colorDesc, err := b.metric(KindSunburst, opts.ColorMetric)
	if err != nil {
		return nil, err
	}
	title := titleOr(spec, weightDesc.Label+" by continent, tier, and country")

	byContinent := make(map[string][]*dataset.CountryRecord)
	for _, rec := range table.Records() {
		byContinent[rec.Continent] = append(byContinent[rec.Continent], rec)
	}
	continents := make([]string, 0, len(byContinent))
	for c := range byContinent {
		continents = append(continents, c)
	}
	sort.Strings(continents)

	tierOrder := []dataset.Tier{
		dataset.TierLow,
		dataset.TierLowerMiddle,
		dataset.TierUpperMiddle,
		dataset.TierHigh,
		dataset.TierUnknown,
	}

	trace := Trace{Type: "sunburst", Name: weightDesc.Label}
	node := func(id, label, parent string, weight float64, color dataset.Value) {
		trace.IDs = append(trace.IDs, id)
		trace.Labels = append(trace.Labels, label)
		trace.Parents = append(trace.Parents, parent)
		trace.Weights = append(trace.Weights, weight)
		trace.Colors = append(trace.Colors, color)
	}
	meanColor := func(vals []float64) dataset.Value {
		if len(vals) == 0 {
			return dataset.Absent()
		}
		return dataset.Present(stat.Mean(vals, nil))
	}

	totalWeight := 0.0
	for _, continent := range continents {
		byTier := make(map[dataset.Tier][]*dataset.CountryRecord)
		for _, rec := range byContinent[continent] {
			byTier[rec.Tier] = append(byTier[rec.Tier], rec)
		}

		contWeight := 0.0
		var contColors []float64
		for _, rec := range byContinent[continent] {
			contWeight += rec.Metric(weightDesc.Name).Or(0)
			if v, ok := rec.Metric(colorDesc.Name).Float(); ok {
				contColors = append(contColors, v)
			}
		}
		totalWeight += contWeight
		node(continent, continent, "", contWeight, meanColor(contColors))

		for _, tier := range tierOrder {
			members := byTier[tier]
			if len(members) == 0 {
				continue
			}
			tierID := continent + "/" + tier.String()
			tierWeight := 0.0
			var tierColors []float64
			for _, rec := range members {
				tierWeight += rec.Metric(weightDesc.Name).Or(0)
				if v, ok := rec.Metric(colorDesc.Name).Float(); ok {
					tierColors = append(tierColors, v)
				}
			}
			node(tierID, tier.String(), continent, tierWeight, meanColor(tierColors))

			for _, rec := range members {
				node(tierID+"/"+rec.ID, rec.ID, tierID,
					rec.Metric(weightDesc.Name).Or(0), rec.Metric(colorDesc.Name))
			}
		}
	}
	if totalWeight == 0 {
		return emptyFigure(KindSunburst, title, "no country reports "+weightDesc.Name), nil
	}

	return &FigureDescription{
		Kind:   KindSunburst,
		Title:  title,
		Traces: []Trace{trace},
		Layout: Layout{ColorScale: b.schemeForDomain(colorDesc.Domain)},
	}, nil
}

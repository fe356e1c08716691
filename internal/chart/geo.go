package chart

import (
	"globescope/internal/dataset"
)

// Marker size bounds for the globe view, in renderer points.
const (
	minMarkerSize = 4
	maxMarkerSize = 40
)

// buildChoropleth maps one metric over every country. Countries without a
// value keep their slot with a null value and are listed in Layout.NoData so
// the renderer can grey them rather than drop them.
func (b *Builder) buildChoropleth(table *dataset.Table, spec Spec) (*FigureDescription, error) {
	opts := spec.Choropleth
	desc, err := b.metric(KindChoropleth, opts.Metric)
	if err != nil {
		return nil, err
	}
	scale := opts.Scale
	if scale == nil {
		scale = b.schemeForDomain(desc.Domain)
	} else if err := scale.Validate(); err != nil {
		return nil, &InvalidSpecError{Kind: KindChoropleth, Reason: err.Error()}
	}
	title := titleOr(spec, desc.Label+" by country")

	trace := Trace{Type: "choropleth", Name: desc.Label}
	var noData []string
	present := 0
	for _, rec := range table.Records() {
		v := rec.Metric(desc.Name)
		trace.Locations = append(trace.Locations, rec.ID)
		trace.Values = append(trace.Values, v)
		if v.IsPresent() {
			present++
		} else {
			noData = append(noData, rec.ID)
		}
	}
	if present == 0 {
		return emptyFigure(KindChoropleth, title, "no country reports "+desc.Name), nil
	}

	return &FigureDescription{
		Kind:   KindChoropleth,
		Title:  title,
		Traces: []Trace{trace},
		Layout: Layout{
			Projection: "natural earth",
			ColorScale: scale,
			NoData:     noData,
		},
	}, nil
}

// buildGlobe plots countries as sized markers on an orthographic globe.
// A country needs both coordinates and a metric value to appear.
func (b *Builder) buildGlobe(table *dataset.Table, spec Spec) (*FigureDescription, error) {
	desc, err := b.metric(KindGlobe, spec.Globe.Metric)
	if err != nil {
		return nil, err
	}
	title := titleOr(spec, desc.Label+" on the globe")

	type point struct {
		id       string
		lat, lon float64
		v        float64
	}
	var points []point
	for _, rec := range table.Records() {
		lat, okLat := rec.Lat.Float()
		lon, okLon := rec.Lon.Float()
		v, okV := rec.Metric(desc.Name).Float()
		if !okLat || !okLon || !okV {
			continue
		}
		points = append(points, point{id: rec.ID, lat: lat, lon: lon, v: v})
	}
	if len(points) == 0 {
		return emptyFigure(KindGlobe, title, "no country has both coordinates and "+desc.Name), nil
	}

	min, max := points[0].v, points[0].v
	for _, p := range points[1:] {
		if p.v < min {
			min = p.v
		}
		if p.v > max {
			max = p.v
		}
	}
	span := max - min

	trace := Trace{Type: "scattergeo", Name: desc.Label}
	for _, p := range points {
		size := float64(minMarkerSize+maxMarkerSize) / 2
		if span > 0 {
			size = minMarkerSize + (p.v-min)/span*(maxMarkerSize-minMarkerSize)
		}
		trace.Locations = append(trace.Locations, p.id)
		trace.Lat = append(trace.Lat, p.lat)
		trace.Lon = append(trace.Lon, p.lon)
		trace.Values = append(trace.Values, dataset.Present(p.v))
		trace.Sizes = append(trace.Sizes, size)
		trace.Text = append(trace.Text, p.id)
	}

	return &FigureDescription{
		Kind:   KindGlobe,
		Title:  title,
		Traces: []Trace{trace},
		Layout: Layout{
			Projection: "orthographic",
			ColorScale: b.schemeForDomain(desc.Domain),
		},
	}, nil
}

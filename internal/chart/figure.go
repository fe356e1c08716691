// Package chart turns the merged country table into renderer-neutral figure
// descriptions. Builders are pure: same table and spec, same figure. They
// never render; they emit the data series, axis labels, and color directives
// a front end needs to draw the chart.
package chart

import (
	"globescope/internal/dataset"
)

// FigureDescription is the output of every builder. A figure with Empty set
// has no drawable data; EmptyReason says why. An empty figure is a valid
// result, not an error.
type FigureDescription struct {
	Kind        Kind    `json:"kind"`
	Title       string  `json:"title"`
	Traces      []Trace `json:"traces,omitempty"`
	Layout      Layout  `json:"layout"`
	Empty       bool    `json:"empty,omitempty"`
	EmptyReason string  `json:"empty_reason,omitempty"`
}

// Trace is one data series. Only the fields meaningful for its Type are
// populated; absent values marshal as JSON null so a renderer can tell
// "no data" from zero.
type Trace struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`

	// Geographic traces.
	Locations []string        `json:"locations,omitempty"`
	Lat       []float64       `json:"lat,omitempty"`
	Lon       []float64       `json:"lon,omitempty"`
	Values    []dataset.Value `json:"values,omitempty"`
	Sizes     []float64       `json:"sizes,omitempty"`

	// Cartesian traces.
	X []dataset.Value `json:"x,omitempty"`
	Y []dataset.Value `json:"y,omitempty"`

	// Categorical axes and grids.
	XLabels []string          `json:"x_labels,omitempty"`
	YLabels []string          `json:"y_labels,omitempty"`
	Grid    [][]dataset.Value `json:"grid,omitempty"`

	// Radar traces.
	Axes   []string  `json:"axes,omitempty"`
	Radial []float64 `json:"radial,omitempty"`

	// Hierarchical traces. IDs disambiguate nodes whose labels repeat across
	// branches; Parents reference IDs.
	IDs     []string        `json:"ids,omitempty"`
	Labels  []string        `json:"labels,omitempty"`
	Parents []string        `json:"parents,omitempty"`
	Weights []float64       `json:"weights,omitempty"`
	Colors  []dataset.Value `json:"colors,omitempty"`

	// Hover text, one entry per point.
	Text []string `json:"text,omitempty"`

	// Trendline overlay, scatter only.
	Line *Line `json:"line,omitempty"`
}

// Line is a fitted straight line drawn over a scatter trace, with the
// Pearson correlation of the points it was fitted on.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R         float64 `json:"r"`
}

// Layout carries the presentation directives shared by a whole figure.
type Layout struct {
	XTitle      string      `json:"x_title,omitempty"`
	YTitle      string      `json:"y_title,omitempty"`
	Projection  string      `json:"projection,omitempty"`
	ColorScale  *ColorScale `json:"color_scale,omitempty"`
	RadialRange *[2]float64 `json:"radial_range,omitempty"`
	// Countries with no value for the mapped metric, listed so the renderer
	// can hatch or grey them instead of dropping them.
	NoData []string `json:"no_data,omitempty"`
}

// emptyFigure builds the canonical no-data result for a kind.
func emptyFigure(kind Kind, title, reason string) *FigureDescription {
	return &FigureDescription{Kind: kind, Title: title, Empty: true, EmptyReason: reason}
}

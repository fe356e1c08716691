package cmd

import (
	"testing"

	"globescope/internal/chart"
	"globescope/internal/dataset"
)

func TestSpecFromFlags(t *testing.T) {
	chartMetric = "gdp"
	chartXMetric = "gdp"
	chartYMetric = "life_expectancy"
	chartTrendline = true
	chartCountries = []string{"France", "Chad"}
	chartMetrics = []string{"gdp", "area"}
	chartGroupBy = "tier"
	chartWeight = "population"
	chartColorMetric = "gdp"
	chartTitle = "Test"
	defer func() {
		chartMetric, chartXMetric, chartYMetric = "", "", ""
		chartTrendline = false
		chartCountries, chartMetrics = nil, nil
		chartGroupBy, chartWeight, chartColorMetric, chartTitle = "continent", "", "", ""
	}()

	spec, err := specFromFlags(chart.KindScatter)
	if err != nil {
		t.Fatalf("specFromFlags: %v", err)
	}
	if spec.Scatter == nil || spec.Scatter.XMetric != "gdp" || !spec.Scatter.Trendline {
		t.Errorf("scatter spec = %+v", spec.Scatter)
	}
	if spec.Choropleth != nil || spec.Radar != nil {
		t.Error("only the matching options block may be set")
	}
	if spec.Title != "Test" {
		t.Errorf("title = %q", spec.Title)
	}

	spec, err = specFromFlags(chart.KindRadar)
	if err != nil {
		t.Fatalf("specFromFlags: %v", err)
	}
	if spec.Radar == nil || len(spec.Radar.Countries) != 2 {
		t.Errorf("radar spec = %+v", spec.Radar)
	}

	spec, err = specFromFlags(chart.KindRegionalBar)
	if err != nil {
		t.Fatalf("specFromFlags: %v", err)
	}
	if spec.Bar == nil || string(spec.Bar.GroupBy) != "tier" {
		t.Errorf("bar spec = %+v", spec.Bar)
	}
}

func TestApplyFilters(t *testing.T) {
	table, err := dataset.NewTable([]*dataset.CountryRecord{
		{ID: "France", Continent: "Europe", Tier: dataset.TierHigh},
		{ID: "Chad", Continent: "Africa", Tier: dataset.TierLow},
		{ID: "Germany", Continent: "Europe", Tier: dataset.TierHigh},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	same, err := applyFilters(table, nil, nil)
	if err != nil {
		t.Fatalf("applyFilters: %v", err)
	}
	if same.Len() != 3 {
		t.Errorf("no filters should keep the table, got %d", same.Len())
	}

	eu, err := applyFilters(table, []string{"Europe"}, nil)
	if err != nil {
		t.Fatalf("applyFilters: %v", err)
	}
	if eu.Len() != 2 {
		t.Errorf("Europe filter = %d countries", eu.Len())
	}

	if _, err := applyFilters(table, nil, []string{"platinum"}); err == nil {
		t.Error("unknown tier must be rejected")
	}
}

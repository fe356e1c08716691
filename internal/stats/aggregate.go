// Package stats computes group aggregates, correlation matrices, and
// distribution summaries over the merged country table. Absent values never
// enter a computation; a statistic with nothing to stand on is itself absent.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"globescope/internal/config"
	"globescope/internal/dataset"
)

// GroupBy names a categorical column countries can be grouped on.
type GroupBy string

const (
	GroupByContinent GroupBy = "continent"
	GroupByTier      GroupBy = "tier"
)

// ParseGroupBy validates a user-supplied grouping column.
func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(s) {
	case GroupByContinent, GroupByTier:
		return GroupBy(s), nil
	}
	return "", fmt.Errorf("unknown grouping %q (want continent or tier)", s)
}

// MetricAggregate is one aggregated statistic with the number of countries
// that actually contributed a value to it.
type MetricAggregate struct {
	Value       dataset.Value `json:"value"`
	SampleCount int           `json:"sample_count"`
}

// GroupAggregate holds every requested metric aggregated over one group.
type GroupAggregate struct {
	Group   string                     `json:"group"`
	Size    int                        `json:"size"`
	Metrics map[string]MetricAggregate `json:"metrics"`
}

// Aggregate reduces each metric over each group using the metric's declared
// aggregation. Every canonical group appears in the result, even when no
// country fell into it; a group whose members all lack a metric reports an
// absent value with a zero sample count.
func Aggregate(table *dataset.Table, by GroupBy, metrics []string, catalog *config.Catalog) ([]GroupAggregate, error) {
	if len(metrics) == 0 {
		return nil, fmt.Errorf("aggregate: no metrics requested")
	}
	for _, m := range metrics {
		if _, ok := catalog.Lookup(m); !ok {
			return nil, fmt.Errorf("aggregate: unknown metric %q", m)
		}
	}

	groups := canonicalGroups(by)
	members := make(map[string][]*dataset.CountryRecord, len(groups))
	for _, g := range groups {
		members[g] = nil
	}
	for _, rec := range table.Records() {
		g := groupOf(rec, by)
		if _, ok := members[g]; !ok {
			groups = append(groups, g)
		}
		members[g] = append(members[g], rec)
	}

	out := make([]GroupAggregate, 0, len(groups))
	for _, g := range groups {
		ga := GroupAggregate{
			Group:   g,
			Size:    len(members[g]),
			Metrics: make(map[string]MetricAggregate, len(metrics)),
		}
		for _, m := range metrics {
			desc, _ := catalog.Lookup(m)
			vals := presentValues(members[g], m)
			ga.Metrics[m] = MetricAggregate{
				Value:       reduce(vals, desc.Aggregation),
				SampleCount: len(vals),
			}
		}
		out = append(out, ga)
	}
	return out, nil
}

// canonicalGroups returns the fixed group universe for a grouping column, in
// presentation order.
func canonicalGroups(by GroupBy) []string {
	switch by {
	case GroupByTier:
		return []string{
			dataset.TierLow.String(),
			dataset.TierLowerMiddle.String(),
			dataset.TierUpperMiddle.String(),
			dataset.TierHigh.String(),
			dataset.TierUnknown.String(),
		}
	default:
		groups := make([]string, len(dataset.Continents))
		copy(groups, dataset.Continents)
		return append(groups, dataset.ContinentUnknown)
	}
}

func groupOf(rec *dataset.CountryRecord, by GroupBy) string {
	if by == GroupByTier {
		return rec.Tier.String()
	}
	return rec.Continent
}

func presentValues(recs []*dataset.CountryRecord, metric string) []float64 {
	var vals []float64
	for _, r := range recs {
		if v, ok := r.Metric(metric).Float(); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// reduce applies one aggregation to the present values of a group.
func reduce(vals []float64, agg config.Aggregation) dataset.Value {
	if len(vals) == 0 {
		return dataset.Absent()
	}
	switch agg {
	case config.AggSum:
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return dataset.Present(sum)
	case config.AggMedian:
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		return dataset.Present(quantile(0.5, sorted))
	default:
		return dataset.Present(stat.Mean(vals, nil))
	}
}

// quantile interpolates linearly between the order statistics bracketing rank
// (n-1)*p, so the median of an odd-length sample is its middle element and
// the even case averages the two middles. vals must be sorted.
func quantile(p float64, vals []float64) float64 {
	h := float64(len(vals)-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return vals[lo]
	}
	return vals[lo] + (h-float64(lo))*(vals[hi]-vals[lo])
}

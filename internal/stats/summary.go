package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"globescope/internal/dataset"
)

// MetricSummary describes one metric's distribution over the countries that
// report it.
type MetricSummary struct {
	Metric string        `json:"metric"`
	Count  int           `json:"count"`
	Mean   dataset.Value `json:"mean"`
	Median dataset.Value `json:"median"`
	Std    dataset.Value `json:"std"`
	Min    dataset.Value `json:"min"`
	Max    dataset.Value `json:"max"`
	Q1     dataset.Value `json:"q1"`
	Q3     dataset.Value `json:"q3"`
}

// Summarize computes distribution statistics for one metric. With no
// reporting countries every field is absent; the standard deviation needs at
// least two.
func Summarize(table *dataset.Table, metric string) MetricSummary {
	s := MetricSummary{Metric: metric}
	vals := presentValues(table.Records(), metric)
	s.Count = len(vals)
	if len(vals) == 0 {
		return s
	}
	sort.Float64s(vals)

	s.Mean = dataset.Present(stat.Mean(vals, nil))
	s.Median = dataset.Present(quantile(0.5, vals))
	s.Min = dataset.Present(vals[0])
	s.Max = dataset.Present(vals[len(vals)-1])
	s.Q1 = dataset.Present(quantile(0.25, vals))
	s.Q3 = dataset.Present(quantile(0.75, vals))
	if len(vals) >= 2 {
		if sd := stat.StdDev(vals, nil); !math.IsNaN(sd) {
			s.Std = dataset.Present(sd)
		}
	}
	return s
}

// IndexComponent is one weighted input to a composite index.
type IndexComponent struct {
	Metric         string  `json:"metric"`
	Weight         float64 `json:"weight"`
	HigherIsBetter bool    `json:"higher_is_better"`
}

// CompositeIndex scores each country as a weighted sum of min-max normalized
// metrics, higher always meaning better. Weights must sum to one. A country
// missing any component gets an absent score rather than a quietly rescaled
// one.
func CompositeIndex(table *dataset.Table, components []IndexComponent) (map[string]dataset.Value, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("composite index: no components")
	}
	var sum float64
	for _, c := range components {
		if c.Weight < 0 {
			return nil, fmt.Errorf("composite index: negative weight for %q", c.Metric)
		}
		sum += c.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		return nil, fmt.Errorf("composite index: weights sum to %v, want 1", sum)
	}

	type scale struct{ min, span float64 }
	scales := make(map[string]scale, len(components))
	for _, c := range components {
		min, max, ok := table.MetricMinMax(c.Metric)
		if !ok {
			return nil, fmt.Errorf("composite index: no data for %q", c.Metric)
		}
		scales[c.Metric] = scale{min: min, span: max - min}
	}

	out := make(map[string]dataset.Value, table.Len())
	for _, rec := range table.Records() {
		score := 0.0
		complete := true
		for _, c := range components {
			v, ok := rec.Metric(c.Metric).Float()
			if !ok {
				complete = false
				break
			}
			sc := scales[c.Metric]
			norm := 0.5
			if sc.span > 0 {
				norm = (v - sc.min) / sc.span
			}
			if !c.HigherIsBetter {
				norm = 1 - norm
			}
			score += c.Weight * norm
		}
		if complete {
			out[rec.ID] = dataset.Present(score)
		} else {
			out[rec.ID] = dataset.Absent()
		}
	}
	return out, nil
}

package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"globescope/internal/dataset"
)

// CorrelationMatrix is a symmetric pairwise-complete Pearson matrix. Metrics
// keep the caller's order; Cells[i][j] is absent when fewer than two
// countries carry both metrics.
type CorrelationMatrix struct {
	Metrics []string          `json:"metrics"`
	Cells   [][]dataset.Value `json:"cells"`
	Counts  [][]int           `json:"counts"`
}

// Correlate computes the correlation of every metric pair over the countries
// where both are present. Each pair uses its own complete cases, so one
// sparse metric does not shrink the sample of the others.
func Correlate(table *dataset.Table, metrics []string) (*CorrelationMatrix, error) {
	if len(metrics) < 2 {
		return nil, fmt.Errorf("correlate: need at least two metrics, got %d", len(metrics))
	}
	seen := make(map[string]bool, len(metrics))
	for _, m := range metrics {
		if seen[m] {
			return nil, fmt.Errorf("correlate: duplicate metric %q", m)
		}
		seen[m] = true
	}

	recs := table.Records()
	cm := &CorrelationMatrix{
		Metrics: append([]string(nil), metrics...),
		Cells:   make([][]dataset.Value, len(metrics)),
		Counts:  make([][]int, len(metrics)),
	}
	for i := range metrics {
		cm.Cells[i] = make([]dataset.Value, len(metrics))
		cm.Counts[i] = make([]int, len(metrics))
	}

	for i, a := range metrics {
		for j := i; j < len(metrics); j++ {
			b := metrics[j]
			xs, ys := completeCases(recs, a, b)
			n := len(xs)
			var cell dataset.Value
			switch {
			case i == j:
				// The diagonal is 1 by definition, even for a metric too
				// sparse to correlate with anything; computing it invites
				// floating point residue.
				cell = dataset.Present(1)
			case n < 2:
				cell = dataset.Absent()
			default:
				r := stat.Correlation(xs, ys, nil)
				if math.IsNaN(r) {
					cell = dataset.Absent()
				} else {
					cell = dataset.Present(clamp(r, -1, 1))
				}
			}
			cm.Cells[i][j], cm.Cells[j][i] = cell, cell
			cm.Counts[i][j], cm.Counts[j][i] = n, n
		}
	}
	return cm, nil
}

// completeCases collects the value pairs where both metrics are present.
func completeCases(recs []*dataset.CountryRecord, a, b string) (xs, ys []float64) {
	for _, r := range recs {
		x, okX := r.Metric(a).Float()
		y, okY := r.Metric(b).Float()
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pearson computes the correlation of paired values, reporting ok=false
// when it is undefined.
func Pearson(xs, ys []float64) (float64, bool) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0, false
	}
	return clamp(r, -1, 1), true
}

// Trendline fits an ordinary least squares line to the paired values.
// It refuses to fit on fewer than two pairs or on x without variance.
func Trendline(xs, ys []float64) (slope, intercept float64, ok bool) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, 0, false
	}
	if stat.Variance(xs, nil) == 0 {
		return 0, 0, false
	}
	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsNaN(intercept) {
		return 0, 0, false
	}
	return slope, intercept, true
}

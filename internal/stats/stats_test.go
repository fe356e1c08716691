package stats

import (
	"math"
	"testing"

	"globescope/internal/config"
	"globescope/internal/dataset"
)

func testCatalog(t *testing.T) *config.Catalog {
	t.Helper()
	c, err := config.NewCatalog([]config.MetricDescriptor{
		{Name: "gdp", Domain: "economy", Aggregation: config.AggMean},
		{Name: "population", Domain: "demographics", Aggregation: config.AggSum},
		{Name: "life_expectancy", Domain: "demographics", Aggregation: config.AggMedian},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func rec(id, continent string, tier dataset.Tier, metrics map[string]dataset.Value) *dataset.CountryRecord {
	return &dataset.CountryRecord{ID: id, Continent: continent, Tier: tier, Metrics: metrics}
}

func mustTable(t *testing.T, recs ...*dataset.CountryRecord) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable(recs)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func findGroup(t *testing.T, groups []GroupAggregate, name string) GroupAggregate {
	t.Helper()
	for _, g := range groups {
		if g.Group == name {
			return g
		}
	}
	t.Fatalf("group %q missing", name)
	return GroupAggregate{}
}

func TestAggregateByContinent(t *testing.T) {
	table := mustTable(t,
		rec("France", "Europe", dataset.TierHigh, map[string]dataset.Value{
			"gdp": dataset.Present(42000), "population": dataset.Present(67e6),
		}),
		rec("Germany", "Europe", dataset.TierHigh, map[string]dataset.Value{
			"gdp": dataset.Present(48000), "population": dataset.Present(83e6),
		}),
		rec("Chad", "Africa", dataset.TierLow, map[string]dataset.Value{
			"gdp": dataset.Absent(), "population": dataset.Present(16e6),
		}),
	)

	groups, err := Aggregate(table, GroupByContinent, []string{"gdp", "population"}, testCatalog(t))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	eu := findGroup(t, groups, "Europe")
	if eu.Size != 2 {
		t.Errorf("Europe size = %d", eu.Size)
	}
	if v, _ := eu.Metrics["gdp"].Value.Float(); v != 45000 {
		t.Errorf("Europe mean gdp = %v", v)
	}
	if v, _ := eu.Metrics["population"].Value.Float(); v != 150e6 {
		t.Errorf("Europe population sum = %v", v)
	}

	// Chad has no gdp: the African gdp aggregate is absent with a zero
	// sample count, not zero.
	af := findGroup(t, groups, "Africa")
	if af.Metrics["gdp"].Value.IsPresent() {
		t.Error("all-absent group aggregate must be absent")
	}
	if af.Metrics["gdp"].SampleCount != 0 {
		t.Errorf("Africa gdp samples = %d", af.Metrics["gdp"].SampleCount)
	}
	if af.Metrics["population"].SampleCount != 1 {
		t.Errorf("Africa population samples = %d", af.Metrics["population"].SampleCount)
	}

	// Continents nobody fell into still appear.
	oc := findGroup(t, groups, "Oceania")
	if oc.Size != 0 {
		t.Errorf("Oceania size = %d", oc.Size)
	}
}

func TestAggregateByTierUsesMedian(t *testing.T) {
	table := mustTable(t,
		rec("A", "Europe", dataset.TierHigh, map[string]dataset.Value{"life_expectancy": dataset.Present(80)}),
		rec("B", "Europe", dataset.TierHigh, map[string]dataset.Value{"life_expectancy": dataset.Present(82)}),
		rec("C", "Asia", dataset.TierHigh, map[string]dataset.Value{"life_expectancy": dataset.Present(90)}),
	)

	groups, err := Aggregate(table, GroupByTier, []string{"life_expectancy"}, testCatalog(t))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	hi := findGroup(t, groups, dataset.TierHigh.String())
	if v, _ := hi.Metrics["life_expectancy"].Value.Float(); v != 82 {
		t.Errorf("median = %v, want 82", v)
	}
}

func TestAggregateRejectsUnknownMetric(t *testing.T) {
	table := mustTable(t, rec("A", "Europe", dataset.TierHigh, nil))
	if _, err := Aggregate(table, GroupByContinent, []string{"nonexistent"}, testCatalog(t)); err == nil {
		t.Error("expected unknown metric error")
	}
}

func TestCorrelatePerfectAndInverse(t *testing.T) {
	table := mustTable(t,
		rec("A", "Europe", dataset.TierHigh, map[string]dataset.Value{
			"x": dataset.Present(1), "y": dataset.Present(2), "z": dataset.Present(9),
		}),
		rec("B", "Europe", dataset.TierHigh, map[string]dataset.Value{
			"x": dataset.Present(2), "y": dataset.Present(4), "z": dataset.Present(7),
		}),
		rec("C", "Europe", dataset.TierHigh, map[string]dataset.Value{
			"x": dataset.Present(3), "y": dataset.Present(6), "z": dataset.Present(5),
		}),
	)

	cm, err := Correlate(table, []string{"x", "y", "z"})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if len(cm.Metrics) != 3 || cm.Metrics[0] != "x" || cm.Metrics[2] != "z" {
		t.Fatalf("metric order not preserved: %v", cm.Metrics)
	}

	for i := range cm.Metrics {
		if v, _ := cm.Cells[i][i].Float(); v != 1 {
			t.Errorf("diagonal [%d][%d] = %v, want exactly 1", i, i, v)
		}
	}
	if v, _ := cm.Cells[0][1].Float(); math.Abs(v-1) > 1e-9 {
		t.Errorf("corr(x,y) = %v, want 1", v)
	}
	if v, _ := cm.Cells[0][2].Float(); math.Abs(v+1) > 1e-9 {
		t.Errorf("corr(x,z) = %v, want -1", v)
	}
	if cm.Cells[0][1] != cm.Cells[1][0] {
		t.Error("matrix not symmetric")
	}
}

func TestCorrelatePairwiseCompleteness(t *testing.T) {
	// y is missing for C, so corr(x,y) uses two pairs while corr(x,z) uses
	// three. corr(y,w) has only one complete case and must be absent.
	table := mustTable(t,
		rec("A", "Europe", dataset.TierHigh, map[string]dataset.Value{
			"x": dataset.Present(1), "y": dataset.Present(10), "z": dataset.Present(5), "w": dataset.Present(3),
		}),
		rec("B", "Europe", dataset.TierHigh, map[string]dataset.Value{
			"x": dataset.Present(2), "y": dataset.Present(20), "z": dataset.Present(6), "w": dataset.Absent(),
		}),
		rec("C", "Europe", dataset.TierHigh, map[string]dataset.Value{
			"x": dataset.Present(3), "y": dataset.Absent(), "z": dataset.Present(7), "w": dataset.Absent(),
		}),
	)

	cm, err := Correlate(table, []string{"x", "y", "z", "w"})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if cm.Counts[0][1] != 2 {
		t.Errorf("corr(x,y) count = %d, want 2", cm.Counts[0][1])
	}
	if cm.Counts[0][2] != 3 {
		t.Errorf("corr(x,z) count = %d, want 3", cm.Counts[0][2])
	}
	if cm.Cells[1][3].IsPresent() {
		t.Error("pair with one complete case must be absent")
	}
	if !cm.Cells[0][1].IsPresent() {
		t.Error("corr(x,y) should still compute from its own complete cases")
	}
}

func TestCorrelateSparseMetricKeepsUnitDiagonal(t *testing.T) {
	// "s" has a single observation, so every off-diagonal pair involving it
	// is absent, but its own diagonal cell is still exactly 1.
	table := mustTable(t,
		rec("A", "Europe", dataset.TierHigh, map[string]dataset.Value{"x": dataset.Present(1), "s": dataset.Present(9)}),
		rec("B", "Europe", dataset.TierHigh, map[string]dataset.Value{"x": dataset.Present(2), "s": dataset.Absent()}),
	)
	cm, err := Correlate(table, []string{"x", "s"})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	v, present := cm.Cells[1][1].Float()
	if !present || v != 1 {
		t.Errorf("diagonal for sparse metric = %v (present=%v), want exactly 1", v, present)
	}
	if cm.Cells[0][1].IsPresent() {
		t.Error("off-diagonal pair with one complete case must be absent")
	}
}

func TestCorrelateConstantMetricIsAbsent(t *testing.T) {
	table := mustTable(t,
		rec("A", "Europe", dataset.TierHigh, map[string]dataset.Value{"x": dataset.Present(1), "c": dataset.Present(5)}),
		rec("B", "Europe", dataset.TierHigh, map[string]dataset.Value{"x": dataset.Present(2), "c": dataset.Present(5)}),
	)
	cm, err := Correlate(table, []string{"x", "c"})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if cm.Cells[0][1].IsPresent() {
		t.Error("correlation against a constant must be absent, not NaN")
	}
}

func TestCorrelateInputValidation(t *testing.T) {
	table := mustTable(t, rec("A", "Europe", dataset.TierHigh, nil))
	if _, err := Correlate(table, []string{"x"}); err == nil {
		t.Error("single metric should be rejected")
	}
	if _, err := Correlate(table, []string{"x", "x"}); err == nil {
		t.Error("duplicate metric should be rejected")
	}
}

func TestSummarize(t *testing.T) {
	table := mustTable(t,
		rec("A", "Europe", dataset.TierHigh, map[string]dataset.Value{"m": dataset.Present(1)}),
		rec("B", "Europe", dataset.TierHigh, map[string]dataset.Value{"m": dataset.Present(2)}),
		rec("C", "Europe", dataset.TierHigh, map[string]dataset.Value{"m": dataset.Present(3)}),
		rec("D", "Europe", dataset.TierHigh, map[string]dataset.Value{"m": dataset.Present(4)}),
		rec("E", "Europe", dataset.TierHigh, map[string]dataset.Value{"m": dataset.Absent()}),
	)

	s := Summarize(table, "m")
	if s.Count != 4 {
		t.Errorf("count = %d, want 4", s.Count)
	}
	if v, _ := s.Mean.Float(); v != 2.5 {
		t.Errorf("mean = %v", v)
	}
	if v, _ := s.Median.Float(); v != 2.5 {
		t.Errorf("median = %v", v)
	}
	if v, _ := s.Min.Float(); v != 1 {
		t.Errorf("min = %v", v)
	}
	if v, _ := s.Max.Float(); v != 4 {
		t.Errorf("max = %v", v)
	}
	if !s.Std.IsPresent() {
		t.Error("std should be present with four samples")
	}

	empty := Summarize(table, "absent_metric")
	if empty.Count != 0 || empty.Mean.IsPresent() {
		t.Error("summary of missing metric must be empty")
	}
}

func TestQuantileOrderStatistics(t *testing.T) {
	// Odd-length samples must return the middle element itself, and
	// quartiles interpolate between the bracketing order statistics.
	cases := []struct {
		p    float64
		vals []float64
		want float64
	}{
		{0.5, []float64{80, 82, 90}, 82},
		{0.5, []float64{1, 2, 3, 4}, 2.5},
		{0.5, []float64{7}, 7},
		{0.25, []float64{1, 2, 3, 4}, 1.75},
		{0.75, []float64{1, 2, 3, 4}, 3.25},
	}
	for _, tc := range cases {
		if got := quantile(tc.p, tc.vals); got != tc.want {
			t.Errorf("quantile(%v, %v) = %v, want %v", tc.p, tc.vals, got, tc.want)
		}
	}
}

func TestTrendline(t *testing.T) {
	slope, intercept, ok := Trendline([]float64{1, 2, 3}, []float64{3, 5, 7})
	if !ok {
		t.Fatal("fit refused")
	}
	if math.Abs(slope-2) > 1e-9 || math.Abs(intercept-1) > 1e-9 {
		t.Errorf("fit = %vx + %v, want 2x + 1", slope, intercept)
	}

	if _, _, ok := Trendline([]float64{5, 5, 5}, []float64{1, 2, 3}); ok {
		t.Error("zero x-variance must refuse to fit")
	}
	if _, _, ok := Trendline([]float64{1}, []float64{2}); ok {
		t.Error("single pair must refuse to fit")
	}
}

func TestCompositeIndex(t *testing.T) {
	table := mustTable(t,
		rec("A", "Europe", dataset.TierHigh, map[string]dataset.Value{
			"good": dataset.Present(0), "bad": dataset.Present(100),
		}),
		rec("B", "Europe", dataset.TierHigh, map[string]dataset.Value{
			"good": dataset.Present(10), "bad": dataset.Present(0),
		}),
		rec("C", "Africa", dataset.TierLow, map[string]dataset.Value{
			"good": dataset.Present(5), "bad": dataset.Absent(),
		}),
	)
	components := []IndexComponent{
		{Metric: "good", Weight: 0.5, HigherIsBetter: true},
		{Metric: "bad", Weight: 0.5, HigherIsBetter: false},
	}

	scores, err := CompositeIndex(table, components)
	if err != nil {
		t.Fatalf("CompositeIndex: %v", err)
	}
	if v, _ := scores["A"].Float(); v != 0 {
		t.Errorf("A = %v, want 0", v)
	}
	if v, _ := scores["B"].Float(); v != 1 {
		t.Errorf("B = %v, want 1", v)
	}
	if scores["C"].IsPresent() {
		t.Error("country missing a component must score absent")
	}

	if _, err := CompositeIndex(table, []IndexComponent{{Metric: "good", Weight: 0.7}}); err == nil {
		t.Error("weights not summing to one should be rejected")
	}
}

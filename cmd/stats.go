package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"globescope/internal/export"
	"globescope/internal/stats"
)

var (
	aggBy      string
	aggMetrics []string
	aggOut     string

	corrMetrics []string
	corrOut     string

	sumMetrics []string
	sumOut     string

	idxMetrics     []string
	idxWeights     []float64
	idxLowerBetter []string
	idxOut         string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate metrics per continent or tier and export the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		by, err := stats.ParseGroupBy(aggBy)
		if err != nil {
			return err
		}
		catalog, err := loadCatalog(c)
		if err != nil {
			return err
		}
		metrics := aggMetrics
		if len(metrics) == 0 {
			metrics = catalog.Names()
		}

		table, _, err := loadTable(c)
		if err != nil {
			return err
		}
		groups, err := stats.Aggregate(table, by, metrics, catalog)
		if err != nil {
			return err
		}

		exp, err := export.NewExporter(c.ExportDir, logger)
		if err != nil {
			return err
		}
		csvPath, err := exp.AggregatesCSV(groups, metrics, aggOut)
		if err != nil {
			return err
		}
		jsonPath, err := exp.AggregatesJSON(groups, aggOut)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Wrote aggregates to %s and %s\n", csvPath, jsonPath)
		return nil
	},
}

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Compute the pairwise correlation matrix and export it",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		catalog, err := loadCatalog(c)
		if err != nil {
			return err
		}
		metrics := corrMetrics
		if len(metrics) == 0 {
			metrics = catalog.Names()
		}
		for _, m := range metrics {
			if _, ok := catalog.Lookup(m); !ok {
				return fmt.Errorf("unknown metric %q", m)
			}
		}

		table, _, err := loadTable(c)
		if err != nil {
			return err
		}
		cm, err := stats.Correlate(table, metrics)
		if err != nil {
			return err
		}

		exp, err := export.NewExporter(c.ExportDir, logger)
		if err != nil {
			return err
		}
		csvPath, err := exp.CorrelationCSV(cm, corrOut)
		if err != nil {
			return err
		}
		jsonPath, err := exp.CorrelationJSON(cm, corrOut)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Wrote correlation matrix to %s and %s\n", csvPath, jsonPath)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize metric distributions and export them",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		catalog, err := loadCatalog(c)
		if err != nil {
			return err
		}
		metrics := sumMetrics
		if len(metrics) == 0 {
			metrics = catalog.Names()
		}
		for _, m := range metrics {
			if _, ok := catalog.Lookup(m); !ok {
				return fmt.Errorf("unknown metric %q", m)
			}
		}

		table, _, err := loadTable(c)
		if err != nil {
			return err
		}
		summaries := make([]stats.MetricSummary, 0, len(metrics))
		for _, m := range metrics {
			summaries = append(summaries, stats.Summarize(table, m))
		}

		exp, err := export.NewExporter(c.ExportDir, logger)
		if err != nil {
			return err
		}
		path, err := exp.SummariesJSON(summaries, sumOut)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %d metric summaries to %s\n", len(summaries), path)
		return nil
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Score countries on a weighted composite of normalized metrics",
	Long: `Score every country as a weighted sum of min-max normalized metrics.
Weights must sum to one; omitted weights split evenly. Metrics listed under
--lower-better are inverted so a higher score always means better. A country
missing any component gets a null score.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if len(idxMetrics) == 0 {
			return fmt.Errorf("--metrics is required")
		}
		catalog, err := loadCatalog(c)
		if err != nil {
			return err
		}
		for _, m := range idxMetrics {
			if _, ok := catalog.Lookup(m); !ok {
				return fmt.Errorf("unknown metric %q", m)
			}
		}

		weights := idxWeights
		if len(weights) == 0 {
			weights = make([]float64, len(idxMetrics))
			for i := range weights {
				weights[i] = 1.0 / float64(len(idxMetrics))
			}
		}
		if len(weights) != len(idxMetrics) {
			return fmt.Errorf("%d weights for %d metrics", len(weights), len(idxMetrics))
		}
		lower := make(map[string]bool, len(idxLowerBetter))
		for _, m := range idxLowerBetter {
			lower[m] = true
		}
		components := make([]stats.IndexComponent, 0, len(idxMetrics))
		for i, m := range idxMetrics {
			components = append(components, stats.IndexComponent{
				Metric:         m,
				Weight:         weights[i],
				HigherIsBetter: !lower[m],
			})
		}

		table, _, err := loadTable(c)
		if err != nil {
			return err
		}
		scores, err := stats.CompositeIndex(table, components)
		if err != nil {
			return err
		}

		exp, err := export.NewExporter(c.ExportDir, logger)
		if err != nil {
			return err
		}
		csvPath, err := exp.IndexCSV(scores, idxOut)
		if err != nil {
			return err
		}
		jsonPath, err := exp.IndexJSON(scores, idxOut)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Wrote composite index to %s and %s\n", csvPath, jsonPath)
		return nil
	},
}

func init() {
	aggregateCmd.Flags().StringVar(&aggBy, "by", "continent", "grouping column: continent or tier")
	aggregateCmd.Flags().StringSliceVar(&aggMetrics, "metrics", nil, "metrics to aggregate (default all cataloged)")
	aggregateCmd.Flags().StringVar(&aggOut, "out", "aggregates", "output file name without extension")
	rootCmd.AddCommand(aggregateCmd)

	correlateCmd.Flags().StringSliceVar(&corrMetrics, "metrics", nil, "metrics to correlate (default all cataloged)")
	correlateCmd.Flags().StringVar(&corrOut, "out", "correlation", "output file name without extension")
	rootCmd.AddCommand(correlateCmd)

	summaryCmd.Flags().StringSliceVar(&sumMetrics, "metrics", nil, "metrics to summarize (default all cataloged)")
	summaryCmd.Flags().StringVar(&sumOut, "out", "summaries", "output file name without extension")
	rootCmd.AddCommand(summaryCmd)

	indexCmd.Flags().StringSliceVar(&idxMetrics, "metrics", nil, "metrics composing the index")
	indexCmd.Flags().Float64SliceVar(&idxWeights, "weights", nil, "component weights, one per metric (default equal)")
	indexCmd.Flags().StringSliceVar(&idxLowerBetter, "lower-better", nil, "metrics where lower values score higher")
	indexCmd.Flags().StringVar(&idxOut, "out", "index", "output file name without extension")
	rootCmd.AddCommand(indexCmd)
}

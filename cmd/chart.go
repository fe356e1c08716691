package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"globescope/internal/chart"
	"globescope/internal/export"
	"globescope/internal/stats"
)

var (
	chartTitle      string
	chartOut        string
	chartContinents []string
	chartTiers      []string

	chartMetric      string
	chartXMetric     string
	chartYMetric     string
	chartTrendline   bool
	chartCountries   []string
	chartMetrics     []string
	chartGroupBy     string
	chartWeight      string
	chartColorMetric string
)

var chartCmd = &cobra.Command{
	Use:   "chart <kind>",
	Short: "Build a figure description and write it as JSON",
	Long: `Builds one renderer-neutral figure description. Kinds:
  choropleth    one metric on a flat world map (--metric)
  globe         one metric as sized markers on a globe (--metric)
  radar         compare countries across metrics (--countries, --metrics)
  scatter       two metrics against each other (--x, --y, --trendline)
  regional_bar  one metric aggregated per group (--metric, --group-by)
  sunburst      continent/country hierarchy (--weight-metric, --color-metric)
  heatmap       pairwise metric correlations (--metrics)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		kind, err := chart.ParseKind(args[0])
		if err != nil {
			return err
		}
		spec, err := specFromFlags(kind)
		if err != nil {
			return err
		}

		catalog, err := loadCatalog(c)
		if err != nil {
			return err
		}
		table, _, err := loadTable(c)
		if err != nil {
			return err
		}
		table, err = applyFilters(table, chartContinents, chartTiers)
		if err != nil {
			return err
		}

		builder := chart.NewBuilder(catalog, chart.Limits{
			MinComparisonCountries: c.MinComparisonCountries,
			MaxComparisonCountries: c.MaxComparisonCountries,
			MinRadarMetrics:        c.MinRadarMetrics,
			MaxRadarMetrics:        c.MaxRadarMetrics,
		}, c.ColorSchemes)
		fig, err := builder.Build(table, spec)
		if err != nil {
			return err
		}

		exp, err := export.NewExporter(c.ExportDir, logger)
		if err != nil {
			return err
		}
		name := chartOut
		if name == "" {
			name = string(kind)
		}
		path, err := exp.FigureJSON(fig, name)
		if err != nil {
			return err
		}
		if fig.Empty {
			fmt.Printf("⚠ Figure is empty (%s), wrote %s\n", fig.EmptyReason, path)
			return nil
		}
		fmt.Printf("✓ Wrote %s figure to %s\n", kind, path)
		return nil
	},
}

// specFromFlags assembles the tagged options block for a kind from the
// command flags.
func specFromFlags(kind chart.Kind) (chart.Spec, error) {
	spec := chart.Spec{Kind: kind, Title: chartTitle}
	switch kind {
	case chart.KindChoropleth:
		spec.Choropleth = &chart.ChoroplethOptions{Metric: chartMetric}
	case chart.KindGlobe:
		spec.Globe = &chart.GlobeOptions{Metric: chartMetric}
	case chart.KindRadar:
		spec.Radar = &chart.RadarOptions{Countries: chartCountries, Metrics: chartMetrics}
	case chart.KindScatter:
		spec.Scatter = &chart.ScatterOptions{XMetric: chartXMetric, YMetric: chartYMetric, Trendline: chartTrendline}
	case chart.KindRegionalBar:
		spec.Bar = &chart.BarOptions{Metric: chartMetric, GroupBy: stats.GroupBy(chartGroupBy)}
	case chart.KindSunburst:
		spec.Sunburst = &chart.SunburstOptions{WeightMetric: chartWeight, ColorMetric: chartColorMetric}
	case chart.KindHeatmap:
		spec.Heatmap = &chart.HeatmapOptions{Metrics: chartMetrics}
	default:
		return chart.Spec{}, fmt.Errorf("unsupported chart kind %q", kind)
	}
	return spec, nil
}

func init() {
	f := chartCmd.Flags()
	f.StringVar(&chartTitle, "title", "", "figure title (default derives from the metrics)")
	f.StringVar(&chartOut, "out", "", "output file name without extension (default is the chart kind)")
	f.StringSliceVar(&chartContinents, "continent", nil, "limit to these continents")
	f.StringSliceVar(&chartTiers, "tier", nil, "limit to these development tiers")
	f.StringVar(&chartMetric, "metric", "", "metric for choropleth, globe, and regional_bar")
	f.StringVar(&chartXMetric, "x", "", "x metric for scatter")
	f.StringVar(&chartYMetric, "y", "", "y metric for scatter")
	f.BoolVar(&chartTrendline, "trendline", false, "fit a least squares line on the scatter")
	f.StringSliceVar(&chartCountries, "countries", nil, "countries for radar")
	f.StringSliceVar(&chartMetrics, "metrics", nil, "metrics for radar and heatmap")
	f.StringVar(&chartGroupBy, "group-by", "continent", "grouping for regional_bar: continent or tier")
	f.StringVar(&chartWeight, "weight-metric", "", "sizing metric for sunburst")
	f.StringVar(&chartColorMetric, "color-metric", "", "coloring metric for sunburst")
	rootCmd.AddCommand(chartCmd)
}

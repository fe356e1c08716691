package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"globescope/internal/chart"
	"globescope/internal/dataset"
)

var (
	listMetrics   bool
	listCountries bool
	listCharts    bool
	listDomain    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged metrics, loaded countries, or chart kinds",
	RunE: func(cmd *cobra.Command, args []string) error {
		set := 0
		for _, b := range []bool{listMetrics, listCountries, listCharts} {
			if b {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("specify exactly one of --metrics, --countries, or --charts")
		}

		if listCharts {
			for _, k := range chart.Kinds {
				fmt.Printf("- %s\n", k)
			}
			return nil
		}

		c, err := requireConfig()
		if err != nil {
			return err
		}
		if listMetrics {
			catalog, err := loadCatalog(c)
			if err != nil {
				return err
			}
			descs := catalog.ByDomain(listDomain)
			if listDomain == "" {
				for _, name := range catalog.Names() {
					d, _ := catalog.Lookup(name)
					descs = append(descs, d)
				}
			}
			if len(descs) == 0 {
				fmt.Println("(no metrics)")
				return nil
			}
			for _, d := range descs {
				unit := d.Unit
				if unit == "" {
					unit = "-"
				}
				fmt.Printf("- %s: %s [%s, %s, %s]\n", d.Name, d.Label, d.Domain, unit, d.Aggregation)
			}
			return nil
		}

		table, _, err := loadTable(c)
		if err != nil {
			return err
		}
		for _, rec := range table.Records() {
			tier := rec.Tier.String()
			if rec.Tier == dataset.TierUnknown {
				tier = "tier unknown"
			}
			fmt.Printf("- %s (%s, %s)\n", rec.ID, rec.Continent, tier)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listMetrics, "metrics", false, "list cataloged metrics")
	listCmd.Flags().BoolVar(&listCountries, "countries", false, "list countries in the merged table")
	listCmd.Flags().BoolVar(&listCharts, "charts", false, "list supported chart kinds")
	listCmd.Flags().StringVar(&listDomain, "domain", "", "limit --metrics to one domain")
	rootCmd.AddCommand(listCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"globescope/internal/cache"
	"globescope/internal/dataset"
)

var buildRefresh bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Load the domain CSVs, merge them, and warm the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if buildRefresh {
			loader := dataset.NewLoader(c.DataDir, logger)
			fp, err := cache.Fingerprint(loader.SourceFiles())
			if err != nil {
				return err
			}
			store, err := cache.NewStore(c.CacheDir, logger)
			if err != nil {
				return err
			}
			if err := store.Invalidate(fp); err != nil {
				return err
			}
		}

		table, fp, err := loadTable(c)
		if err != nil {
			return err
		}

		unknown := 0
		for _, rec := range table.Records() {
			if rec.Continent == dataset.ContinentUnknown {
				unknown++
			}
		}
		fmt.Printf("✓ Merged table ready: %d countries, %d metrics\n", table.Len(), len(table.MetricNames()))
		if unknown > 0 {
			fmt.Printf("  %d countries have no continent assignment\n", unknown)
		}
		fmt.Printf("  fingerprint: %s\n", fp)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildRefresh, "refresh", false, "drop the cached table for the current sources and rebuild")
	rootCmd.AddCommand(buildCmd)
}

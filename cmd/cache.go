package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"globescope/internal/cache"
	"globescope/internal/dataset"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the merged-table cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the current sources have a cached table",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		loader := dataset.NewLoader(c.DataDir, logger)
		fp, err := cache.Fingerprint(loader.SourceFiles())
		if err != nil {
			return err
		}
		store, err := cache.NewStore(c.CacheDir, logger)
		if err != nil {
			return err
		}
		if table, ok := store.Get(fp); ok {
			fmt.Printf("✓ Cache hit for fingerprint %s (%d countries)\n", fp, table.Len())
		} else {
			fmt.Printf("✗ No cached table for fingerprint %s\n", fp)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached table",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		store, err := cache.NewStore(c.CacheDir, logger)
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("✓ Cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

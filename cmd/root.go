package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"globescope/internal/cache"
	cfgpkg "globescope/internal/config"
	"globescope/internal/dataset"
)

var (
	// Global flags (wired to config/viper)
	cfgFile string
	debug   bool
	// Directory flags (override config if set)
	flagDataDir   string
	flagCacheDir  string
	flagExportDir string

	// Loaded configuration and logger
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "globescope",
	Short: "GlobeScope: world statistics tables, aggregates, and chart descriptions",
	Long: `GlobeScope loads the seven World Factbook style CSV files, merges them
into one table of countries, and derives aggregates, correlation matrices,
and renderer-neutral chart descriptions from it.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.globescope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding the domain CSV files (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "directory for cached merged tables (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagExportDir, "export-dir", "", "directory for exported artifacts (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data-dir") && flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if f.Changed("cache-dir") && flagCacheDir != "" {
		cfg.CacheDir = flagCacheDir
	}
	if f.Changed("export-dir") && flagExportDir != "" {
		cfg.ExportDir = flagExportDir
	}

	lg, err := newLogger(debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to build logger: %v\n", err)
		return
	}
	logger = lg
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	c := zap.NewProductionConfig()
	c.DisableStacktrace = true
	return c.Build()
}

func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded; check --config")
	}
	return cfg, nil
}

// loadCatalog reads the metrics catalog named by the configuration.
func loadCatalog(c *cfgpkg.Global) (*cfgpkg.Catalog, error) {
	cat, err := cfgpkg.LoadCatalog(c.MetricsCatalog)
	if err != nil {
		return nil, fmt.Errorf("metrics catalog: %w", err)
	}
	return cat, nil
}

// loadTable serves the merged table, building and caching it when the
// source files changed. It returns the table with its fingerprint.
func loadTable(c *cfgpkg.Global) (*dataset.Table, string, error) {
	loader := dataset.NewLoader(c.DataDir, logger)
	fp, err := cache.Fingerprint(loader.SourceFiles())
	if err != nil {
		return nil, "", err
	}
	store, err := cache.NewStore(c.CacheDir, logger)
	if err != nil {
		return nil, "", err
	}
	table, err := store.GetOrBuild(fp, func() (*dataset.Table, error) {
		tables, err := loader.LoadAll()
		if err != nil {
			return nil, err
		}
		merger := dataset.NewMerger(dataset.TierThresholds{
			LowMax:         c.TierLowMax,
			LowerMiddleMax: c.TierLowerMiddleMax,
			UpperMiddleMax: c.TierUpperMiddleMax,
		}, logger)
		return merger.Merge(tables)
	})
	if err != nil {
		return nil, "", err
	}
	return table, fp, nil
}

// applyFilters narrows the table to the requested continents and tiers.
func applyFilters(table *dataset.Table, continents, tiers []string) (*dataset.Table, error) {
	if len(continents) == 0 && len(tiers) == 0 {
		return table, nil
	}
	parsed := make([]dataset.Tier, 0, len(tiers))
	for _, t := range tiers {
		tier, err := dataset.ParseTier(t)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, tier)
	}
	return table.Filter(continents, parsed), nil
}

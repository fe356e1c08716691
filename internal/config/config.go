package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataDir        string `mapstructure:"data_dir" yaml:"data_dir"`
	CacheDir       string `mapstructure:"cache_dir" yaml:"cache_dir"`
	ExportDir      string `mapstructure:"export_dir" yaml:"export_dir"`
	MetricsCatalog string `mapstructure:"metrics_catalog" yaml:"metrics_catalog"`

	// Development-tier cut points on GDP per capita (USD).
	TierLowMax         float64 `mapstructure:"tier_low_max" yaml:"tier_low_max"`
	TierLowerMiddleMax float64 `mapstructure:"tier_lower_middle_max" yaml:"tier_lower_middle_max"`
	TierUpperMiddleMax float64 `mapstructure:"tier_upper_middle_max" yaml:"tier_upper_middle_max"`

	// Chart request bounds.
	MaxComparisonCountries int `mapstructure:"max_comparison_countries" yaml:"max_comparison_countries"`
	MinComparisonCountries int `mapstructure:"min_comparison_countries" yaml:"min_comparison_countries"`
	MaxRadarMetrics        int `mapstructure:"max_radar_metrics" yaml:"max_radar_metrics"`
	MinRadarMetrics        int `mapstructure:"min_radar_metrics" yaml:"min_radar_metrics"`

	// Per-domain sequential color schemes for map/area charts.
	ColorSchemes map[string]string `mapstructure:"color_schemes" yaml:"color_schemes"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.globescope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".globescope")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("GLOBESCOPE")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_dir", "dataset")
	v.SetDefault("cache_dir", ".cache")
	v.SetDefault("export_dir", "exports")
	v.SetDefault("metrics_catalog", filepath.Join("dataset", "metrics.yaml"))
	v.SetDefault("tier_low_max", 5000.0)
	v.SetDefault("tier_lower_middle_max", 15000.0)
	v.SetDefault("tier_upper_middle_max", 30000.0)
	v.SetDefault("max_comparison_countries", 8)
	v.SetDefault("min_comparison_countries", 2)
	v.SetDefault("max_radar_metrics", 8)
	v.SetDefault("min_radar_metrics", 3)
	v.SetDefault("color_schemes", map[string]string{
		"economy":        "Reds",
		"geography":      "Greens",
		"demographics":   "Purples",
		"energy":         "YlOrBr",
		"transportation": "Blues",
		"communications": "Blues",
		"government":     "Blues",
	})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".globescope"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Missing config file is fine; defaults and env still apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if c.MinComparisonCountries < 2 {
		c.MinComparisonCountries = 2
	}
	if c.MaxComparisonCountries < c.MinComparisonCountries {
		return nil, fmt.Errorf("max_comparison_countries (%d) below min (%d)", c.MaxComparisonCountries, c.MinComparisonCountries)
	}
	if c.MaxRadarMetrics < c.MinRadarMetrics {
		return nil, fmt.Errorf("max_radar_metrics (%d) below min (%d)", c.MaxRadarMetrics, c.MinRadarMetrics)
	}
	return &c, nil
}

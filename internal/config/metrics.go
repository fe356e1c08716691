package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Aggregation is a metric's preferred aggregation function.
type Aggregation string

const (
	AggMean   Aggregation = "mean"
	AggMedian Aggregation = "median"
	AggSum    Aggregation = "sum"
)

// MetricDescriptor is static metadata for a single metric column. The catalog
// is supplied by external configuration at startup; the pipeline never
// hardcodes per-metric display or aggregation policy.
type MetricDescriptor struct {
	Name           string      `yaml:"name"`
	Label          string      `yaml:"label"`
	Domain         string      `yaml:"domain"`
	Unit           string      `yaml:"unit"`
	Aggregation    Aggregation `yaml:"aggregation"`
	HigherIsBetter bool        `yaml:"higher_is_better"`
}

// Catalog is the read-only metric descriptor set, keyed by metric name.
type Catalog struct {
	byName map[string]MetricDescriptor
}

var validDomains = map[string]bool{
	"geography":      true,
	"demographics":   true,
	"economy":        true,
	"energy":         true,
	"transportation": true,
	"communications": true,
	"government":     true,
}

// LoadCatalog reads the metric catalog YAML. Structural problems (unknown
// domain, bad aggregation, duplicate metric) are fatal: a half-validated
// catalog must not reach the chart layer.
func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metrics catalog: %w", err)
	}
	var raw struct {
		Metrics []MetricDescriptor `yaml:"metrics"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse metrics catalog: %w", err)
	}
	return NewCatalog(raw.Metrics)
}

// NewCatalog validates and indexes a descriptor list.
func NewCatalog(metrics []MetricDescriptor) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]MetricDescriptor, len(metrics))}
	for _, m := range metrics {
		if m.Name == "" {
			return nil, fmt.Errorf("metric with empty name in catalog")
		}
		if _, dup := c.byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate metric %q in catalog", m.Name)
		}
		if !validDomains[m.Domain] {
			return nil, fmt.Errorf("metric %q: unknown domain %q", m.Name, m.Domain)
		}
		switch m.Aggregation {
		case AggMean, AggMedian, AggSum:
		case "":
			m.Aggregation = AggMean
		default:
			return nil, fmt.Errorf("metric %q: unknown aggregation %q", m.Name, m.Aggregation)
		}
		if m.Label == "" {
			m.Label = m.Name
		}
		c.byName[m.Name] = m
	}
	return c, nil
}

// Lookup returns the descriptor for a metric name.
func (c *Catalog) Lookup(name string) (MetricDescriptor, bool) {
	m, ok := c.byName[name]
	return m, ok
}

// Names returns all metric names sorted for deterministic listings.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.byName))
	for n := range c.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ByDomain returns the descriptors belonging to one domain, name-sorted.
func (c *Catalog) ByDomain(domain string) []MetricDescriptor {
	var out []MetricDescriptor
	for _, m := range c.byName {
		if m.Domain == domain {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len reports the number of metrics in the catalog.
func (c *Catalog) Len() int { return len(c.byName) }

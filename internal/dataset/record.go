package dataset

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Tier is the ordinal development classification.
type Tier int

const (
	TierUnknown Tier = iota
	TierLow
	TierLowerMiddle
	TierUpperMiddle
	TierHigh
)

var tierNames = map[Tier]string{
	TierUnknown:     "Unknown",
	TierLow:         "Low Income",
	TierLowerMiddle: "Lower Middle Income",
	TierUpperMiddle: "Upper Middle Income",
	TierHigh:        "High Income",
}

func (t Tier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return "Unknown"
}

// ParseTier resolves a tier display name.
func ParseTier(s string) (Tier, error) {
	for t, name := range tierNames {
		if name == s {
			return t, nil
		}
	}
	return TierUnknown, fmt.Errorf("unknown development tier %q", s)
}

// MarshalJSON stores tiers by display name so cache artifacts remain readable.
func (t Tier) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *Tier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// CountryRecord is one merged row per country/territory. Records are built
// once by the merger and treated as immutable afterwards; concurrent readers
// share them without locking.
type CountryRecord struct {
	ID string `json:"id"`
	// Name is the spelling seen in the source files, from the first domain
	// that carried the country. It falls back to the canonical ID.
	Name      string           `json:"name"`
	Continent string           `json:"continent"`
	Tier      Tier             `json:"tier"`
	Lat       Value            `json:"lat"`
	Lon       Value            `json:"lon"`
	Metrics   map[string]Value `json:"metrics"`
}

// Metric returns the named metric cell; unknown metrics read as absent.
func (r *CountryRecord) Metric(name string) Value {
	return r.Metrics[name]
}

// Table is the merged record set, keyed by country ID. Insertion order carries
// no meaning; consumers that need determinism use Records(), which sorts.
type Table struct {
	records map[string]*CountryRecord
}

// NewTable builds a table from records, rejecting duplicate country IDs.
func NewTable(records []*CountryRecord) (*Table, error) {
	t := &Table{records: make(map[string]*CountryRecord, len(records))}
	for _, r := range records {
		if _, dup := t.records[r.ID]; dup {
			return nil, fmt.Errorf("duplicate country id %q", r.ID)
		}
		t.records[r.ID] = r
	}
	return t, nil
}

// Len reports the number of records.
func (t *Table) Len() int { return len(t.records) }

// Get returns the record for a country ID.
func (t *Table) Get(id string) (*CountryRecord, bool) {
	r, ok := t.records[id]
	return r, ok
}

// Records returns all records sorted by country ID.
func (t *Table) Records() []*CountryRecord {
	out := make([]*CountryRecord, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns all country IDs sorted.
func (t *Table) IDs() []string {
	out := make([]string, 0, len(t.records))
	for id := range t.records {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MetricNames returns the union of metric columns across all records, sorted.
func (t *Table) MetricNames() []string {
	seen := map[string]bool{}
	for _, r := range t.records {
		for name := range r.Metrics {
			seen[name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Filter returns a read-only view restricted to the given continents and
// tiers. Empty filter sets mean "no restriction". The view shares the
// underlying records; it never copies or mutates them.
func (t *Table) Filter(continents []string, tiers []Tier) *Table {
	wantCont := map[string]bool{}
	for _, c := range continents {
		wantCont[c] = true
	}
	wantTier := map[Tier]bool{}
	for _, tr := range tiers {
		wantTier[tr] = true
	}
	out := &Table{records: make(map[string]*CountryRecord)}
	for id, r := range t.records {
		if len(wantCont) > 0 && !wantCont[r.Continent] {
			continue
		}
		if len(wantTier) > 0 && !wantTier[r.Tier] {
			continue
		}
		out.records[id] = r
	}
	return out
}

// MetricMinMax scans the full table for the observed range of a metric.
// Returns ok=false when no record holds a value.
func (t *Table) MetricMinMax(metric string) (min, max float64, ok bool) {
	for _, r := range t.records {
		v, present := r.Metric(metric).Float()
		if !present {
			continue
		}
		if !ok {
			min, max, ok = v, v, true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, ok
}

// MarshalJSON encodes the table as an ID-sorted record array.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Records())
}

// UnmarshalJSON rebuilds the keyed set, re-checking ID uniqueness.
func (t *Table) UnmarshalJSON(b []byte) error {
	var records []*CountryRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return err
	}
	built, err := NewTable(records)
	if err != nil {
		return err
	}
	*t = *built
	return nil
}

package dataset

import (
	"fmt"

	"go.uber.org/zap"
)

// TierThresholds are the GDP-per-capita cut points separating development
// tiers, supplied by configuration.
type TierThresholds struct {
	LowMax         float64
	LowerMiddleMax float64
	UpperMiddleMax float64
}

// GDPPerCapitaMetric is the column driving tier classification.
const GDPPerCapitaMetric = "Real_GDP_per_Capita_USD"

// Merger outer-joins per-domain tables into one CountryRecord table and
// attaches the derived categorical columns.
type Merger struct {
	thresholds TierThresholds
	log        *zap.Logger
}

// NewMerger builds a merger with the given tier thresholds.
func NewMerger(thresholds TierThresholds, log *zap.Logger) *Merger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Merger{thresholds: thresholds, log: log}
}

// Merge joins the domain tables on the canonical country key. A country seen
// in any domain produces a record; metrics from domains that never saw it
// stay absent. A column name reused by a later domain is disambiguated with a
// domain suffix so no value is silently overwritten.
func (m *Merger) Merge(tables map[Domain]*DomainTable) (*Table, error) {
	for _, d := range Domains {
		if tables[d] == nil {
			return nil, fmt.Errorf("missing %s table", d)
		}
	}

	records := make(map[string]*CountryRecord)
	columnOwner := make(map[string]Domain)

	for _, d := range Domains {
		t := tables[d]
		for id, cells := range t.Rows {
			rec := records[id]
			if rec == nil {
				name := t.RawNames[id]
				if name == "" {
					name = id
				}
				rec = &CountryRecord{ID: id, Name: name, Metrics: make(map[string]Value)}
				records[id] = rec
			}
			for name, v := range cells {
				switch name {
				case latColumn:
					rec.Lat = v
					continue
				case lonColumn:
					rec.Lon = v
					continue
				}
				owner, seen := columnOwner[name]
				if !seen {
					columnOwner[name] = d
					rec.Metrics[name] = v
					continue
				}
				if owner == d {
					rec.Metrics[name] = v
					continue
				}
				// Same column name contributed by a second domain.
				rec.Metrics[name+"_"+string(d)] = v
			}
		}
	}

	out := make([]*CountryRecord, 0, len(records))
	unknownContinent := 0
	for _, rec := range records {
		rec.Continent = continentOf(rec.ID)
		if rec.Continent == ContinentUnknown {
			unknownContinent++
		}
		rec.Tier = m.classifyTier(rec.Metric(GDPPerCapitaMetric))
		out = append(out, rec)
	}

	table, err := NewTable(out)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	m.log.Info("merged domain tables",
		zap.Int("countries", table.Len()),
		zap.Int("metrics", len(table.MetricNames())),
		zap.Int("unknown_continent", unknownContinent))
	return table, nil
}

// classifyTier cuts GDP per capita into the ordinal tiers. Absent GDP means
// TierUnknown; it is never defaulted to the lowest tier.
func (m *Merger) classifyTier(gdp Value) Tier {
	v, ok := gdp.Float()
	if !ok {
		return TierUnknown
	}
	switch {
	case v < m.thresholds.LowMax:
		return TierLow
	case v < m.thresholds.LowerMiddleMax:
		return TierLowerMiddle
	case v < m.thresholds.UpperMiddleMax:
		return TierUpperMiddle
	default:
		return TierHigh
	}
}

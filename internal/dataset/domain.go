package dataset

import "fmt"

// Domain is one of the seven thematic categories of metrics.
type Domain string

const (
	Geography      Domain = "geography"
	Demographics   Domain = "demographics"
	Economy        Domain = "economy"
	Energy         Domain = "energy"
	Transportation Domain = "transportation"
	Communications Domain = "communications"
	Government     Domain = "government"
)

// Domains lists all domains in merge order. Geography comes first because it
// carries the representative coordinates.
var Domains = []Domain{
	Geography,
	Demographics,
	Economy,
	Energy,
	Transportation,
	Communications,
	Government,
}

// FileName returns the conventional source file for a domain.
func (d Domain) FileName() string {
	if d == Government {
		return "government_and_civics_data.csv"
	}
	return string(d) + "_data.csv"
}

// ParseDomain validates a domain name from user input.
func ParseDomain(s string) (Domain, error) {
	for _, d := range Domains {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q", s)
}

// DomainTable is one loaded per-domain table prior to merging. Rows are keyed
// by the canonical country ID; RawNames preserves the spelling seen in the
// source file for diagnostics.
type DomainTable struct {
	Domain   Domain
	Columns  []string
	Rows     map[string]map[string]Value
	RawNames map[string]string
}

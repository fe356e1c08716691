package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Loader reads per-domain CSV files into typed domain tables.
type Loader struct {
	dataDir string
	log     *zap.Logger
}

// NewLoader builds a loader over a data directory. Pass zap.NewNop() to keep
// it silent.
func NewLoader(dataDir string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{dataDir: dataDir, log: log}
}

// SourceFiles lists the domain input files in domain order. The cache layer
// fingerprints exactly this set.
func (l *Loader) SourceFiles() []string {
	out := make([]string, 0, len(Domains))
	for _, d := range Domains {
		out = append(out, filepath.Join(l.dataDir, d.FileName()))
	}
	return out
}

// LoadAll loads every domain table. A malformed or missing domain file is a
// load-time failure: a silently short merge is worse than no merge.
func (l *Loader) LoadAll() (map[Domain]*DomainTable, error) {
	tables := make(map[Domain]*DomainTable, len(Domains))
	for _, d := range Domains {
		t, err := l.LoadDomain(d)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", d, err)
		}
		tables[d] = t
	}
	return tables, nil
}

// LoadDomain loads one domain CSV.
func (l *Loader) LoadDomain(d Domain) (*DomainTable, error) {
	path := filepath.Join(l.dataDir, d.FileName())
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	countryIdx := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "Country") {
			countryIdx = i
			break
		}
	}
	if countryIdx < 0 {
		return nil, fmt.Errorf("no Country column in %s", filepath.Base(path))
	}

	table := &DomainTable{
		Domain:   d,
		Rows:     make(map[string]map[string]Value),
		RawNames: make(map[string]string),
	}
	for i, h := range header {
		if i == countryIdx {
			continue
		}
		table.Columns = append(table.Columns, strings.TrimSpace(h))
	}

	rowNum := 1
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", rowNum+1, err)
		}
		rowNum++
		if countryIdx >= len(rec) {
			continue
		}
		raw := strings.TrimSpace(rec[countryIdx])
		if raw == "" {
			continue
		}
		id := canonicalID(raw)
		if _, dup := table.Rows[id]; dup {
			return nil, fmt.Errorf("duplicate country %q (row %d) in %s", id, rowNum, filepath.Base(path))
		}
		cells := make(map[string]Value, len(header)-1)
		for i, h := range header {
			if i == countryIdx {
				continue
			}
			name := strings.TrimSpace(h)
			var field string
			if i < len(rec) {
				field = rec[i]
			}
			cells[name] = coerceNumeric(field)
		}
		if d == Geography {
			if lat, lon, ok := parseCoordinates(rec, header); ok {
				cells[latColumn] = Present(lat)
				cells[lonColumn] = Present(lon)
			}
		}
		table.Rows[id] = cells
		table.RawNames[id] = raw
	}

	l.log.Debug("domain loaded",
		zap.String("domain", string(d)),
		zap.Int("rows", len(table.Rows)),
		zap.Int("columns", len(table.Columns)))
	return table, nil
}

// Internal column names for the representative coordinate extracted from the
// geography table. The merger lifts these out of the metric map.
const (
	latColumn = "__latitude"
	lonColumn = "__longitude"
)

var (
	missingTokens = map[string]bool{"": true, "N/A": true, "NA": true, "-": true, "NULL": true}
	unitSuffixes  = []string{" sq km", " bbl/day", " cubic meters", " kWh", " kW", " km", " Mt", " m"}
)

// coerceNumeric parses a raw cell to a numeric Value. Thousands separators,
// percent signs, currency markers, unit suffixes, and billion/million word
// multipliers are handled; anything else becomes Absent, never zero.
func coerceNumeric(raw string) Value {
	s := strings.TrimSpace(raw)
	if missingTokens[strings.ToUpper(s)] {
		return Absent()
	}

	mult := 1.0
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "trillion"):
		mult = 1e12
		s = cutWord(s, "trillion")
	case strings.Contains(lower, "billion"):
		mult = 1e9
		s = cutWord(s, "billion")
	case strings.Contains(lower, "million"):
		mult = 1e6
		s = cutWord(s, "million")
	}

	for _, suffix := range unitSuffixes {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Absent()
	}
	return Present(f * mult)
}

func cutWord(s, word string) string {
	idx := strings.Index(strings.ToLower(s), word)
	if idx < 0 {
		return s
	}
	return strings.TrimSpace(s[:idx] + s[idx+len(word):])
}

var dmsPattern = regexp.MustCompile(`(\d+)\s+(\d+)\s+([NS]),\s+(\d+)\s+(\d+)\s+([EW])`)

// parseCoordinates extracts a decimal lat/lon pair from the geography table's
// degrees-minutes coordinate column, e.g. "41 54 N, 12 27 E".
func parseCoordinates(rec, header []string) (lat, lon float64, ok bool) {
	idx := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "Geographic_Coordinates") {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(rec) {
		return 0, 0, false
	}
	m := dmsPattern.FindStringSubmatch(rec[idx])
	if m == nil {
		return 0, 0, false
	}
	latDeg, _ := strconv.ParseFloat(m[1], 64)
	latMin, _ := strconv.ParseFloat(m[2], 64)
	lonDeg, _ := strconv.ParseFloat(m[4], 64)
	lonMin, _ := strconv.ParseFloat(m[5], 64)
	lat = latDeg + latMin/60
	if m[3] == "S" {
		lat = -lat
	}
	lon = lonDeg + lonMin/60
	if m[6] == "W" {
		lon = -lon
	}
	return lat, lon, true
}

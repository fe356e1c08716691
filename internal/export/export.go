// Package export writes tables, aggregates, correlation matrices, and
// figure descriptions to disk as CSV, JSON, and XLSX. Every write goes
// through a temp file rename so a crashed export never leaves a torn file.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"globescope/internal/chart"
	"globescope/internal/dataset"
	"globescope/internal/stats"
	"globescope/internal/utils"
)

// Exporter writes artifacts under a single output directory.
type Exporter struct {
	dir string
	log *zap.Logger
}

// NewExporter returns an exporter rooted at dir, creating it if needed.
func NewExporter(dir string, log *zap.Logger) (*Exporter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("export dir: %w", err)
	}
	return &Exporter{dir: dir, log: log}, nil
}

// tableHeader is the fixed column prefix before the metric columns.
var tableHeader = []string{"Country", "Continent", "Tier", "Latitude", "Longitude"}

// TableCSV writes the merged table as CSV. Absent values become empty
// cells, never zeros.
func (e *Exporter) TableCSV(table *dataset.Table, name string) (string, error) {
	metrics := table.MetricNames()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(append(append([]string(nil), tableHeader...), metrics...)); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, rec := range table.Records() {
		row := []string{rec.ID, rec.Continent, rec.Tier.String(), cell(rec.Lat), cell(rec.Lon)}
		for _, m := range metrics {
			row = append(row, cell(rec.Metric(m)))
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row %s: %w", rec.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return e.save(name+".csv", buf.Bytes())
}

// TableJSON writes the merged table as pretty JSON, null-faithful.
func (e *Exporter) TableJSON(table *dataset.Table, name string) (string, error) {
	data, err := utils.PrettyJSON(table)
	if err != nil {
		return "", err
	}
	return e.save(name+".json", data)
}

// LoadTableJSON reads a table previously written by TableJSON.
func LoadTableJSON(path string) (*dataset.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	var table dataset.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}
	return &table, nil
}

// TableXLSX writes the merged table as a single-sheet workbook.
func (e *Exporter) TableXLSX(table *dataset.Table, name string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Countries"
	f.SetSheetName(f.GetSheetName(0), sheet)

	metrics := table.MetricNames()
	header := append(append([]string(nil), tableHeader...), metrics...)
	for i, h := range header {
		axis, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, axis, h); err != nil {
			return "", fmt.Errorf("header cell: %w", err)
		}
	}

	for r, rec := range table.Records() {
		values := []any{rec.ID, rec.Continent, rec.Tier.String(), xlsxCell(rec.Lat), xlsxCell(rec.Lon)}
		for _, m := range metrics {
			values = append(values, xlsxCell(rec.Metric(m)))
		}
		for c, v := range values {
			if v == nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return "", fmt.Errorf("cell %s: %w", rec.ID, err)
			}
			if err := f.SetCellValue(sheet, axis, v); err != nil {
				return "", fmt.Errorf("cell %s: %w", rec.ID, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", fmt.Errorf("encode workbook: %w", err)
	}
	return e.save(name+".xlsx", buf.Bytes())
}

// AggregatesCSV writes group aggregates in long form: group, metric, value,
// sample count.
func (e *Exporter) AggregatesCSV(groups []stats.GroupAggregate, metrics []string, name string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Group", "Size", "Metric", "Value", "Samples"}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, g := range groups {
		for _, m := range metrics {
			agg := g.Metrics[m]
			row := []string{
				g.Group,
				strconv.Itoa(g.Size),
				m,
				cell(agg.Value),
				strconv.Itoa(agg.SampleCount),
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("write row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return e.save(name+".csv", buf.Bytes())
}

// AggregatesJSON writes group aggregates as pretty JSON.
func (e *Exporter) AggregatesJSON(groups []stats.GroupAggregate, name string) (string, error) {
	data, err := utils.PrettyJSON(groups)
	if err != nil {
		return "", err
	}
	return e.save(name+".json", data)
}

// CorrelationCSV writes the matrix with metric names on both axes. Cells
// that could not be computed stay empty.
func (e *Exporter) CorrelationCSV(cm *stats.CorrelationMatrix, name string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(append([]string{""}, cm.Metrics...)); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for i, m := range cm.Metrics {
		row := []string{m}
		for j := range cm.Metrics {
			row = append(row, cell(cm.Cells[i][j]))
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row %s: %w", m, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return e.save(name+".csv", buf.Bytes())
}

// CorrelationJSON writes the matrix as pretty JSON, null-faithful.
func (e *Exporter) CorrelationJSON(cm *stats.CorrelationMatrix, name string) (string, error) {
	data, err := utils.PrettyJSON(cm)
	if err != nil {
		return "", err
	}
	return e.save(name+".json", data)
}

// FigureJSON writes one figure description as pretty JSON.
func (e *Exporter) FigureJSON(fig *chart.FigureDescription, name string) (string, error) {
	data, err := utils.PrettyJSON(fig)
	if err != nil {
		return "", err
	}
	return e.save(name+".json", data)
}

// SummariesJSON writes metric distribution summaries as pretty JSON.
func (e *Exporter) SummariesJSON(summaries []stats.MetricSummary, name string) (string, error) {
	data, err := utils.PrettyJSON(summaries)
	if err != nil {
		return "", err
	}
	return e.save(name+".json", data)
}

// IndexCSV writes composite index scores, best first. Countries whose score
// could not be computed trail alphabetically with an empty cell.
func (e *Exporter) IndexCSV(scores map[string]dataset.Value, name string) (string, error) {
	countries := make([]string, 0, len(scores))
	for c := range scores {
		countries = append(countries, c)
	}
	sort.Slice(countries, func(i, j int) bool {
		a, okA := scores[countries[i]].Float()
		b, okB := scores[countries[j]].Float()
		if okA != okB {
			return okA
		}
		if okA && a != b {
			return a > b
		}
		return countries[i] < countries[j]
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Country", "Score"}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, c := range countries {
		if err := w.Write([]string{c, cell(scores[c])}); err != nil {
			return "", fmt.Errorf("write row %s: %w", c, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return e.save(name+".csv", buf.Bytes())
}

// IndexJSON writes composite index scores as pretty JSON, null-faithful.
func (e *Exporter) IndexJSON(scores map[string]dataset.Value, name string) (string, error) {
	data, err := utils.PrettyJSON(scores)
	if err != nil {
		return "", err
	}
	return e.save(name+".json", data)
}

// Manifest records one export run: which files were produced, from which
// source fingerprint, and when.
type Manifest struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Files       []string  `json:"files"`
}

// WriteManifest writes a manifest covering the given files and returns its
// path. File paths are stored relative to the export directory.
func (e *Exporter) WriteManifest(fingerprint string, files []string) (string, error) {
	m := Manifest{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		CreatedAt:   time.Now().UTC(),
		Files:       make([]string, 0, len(files)),
	}
	for _, f := range files {
		rel, err := filepath.Rel(e.dir, f)
		if err != nil {
			rel = f
		}
		m.Files = append(m.Files, rel)
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return "", err
	}
	return e.save("manifest.json", data)
}

// save writes bytes atomically under the export directory and logs the
// artifact.
func (e *Exporter) save(name string, data []byte) (string, error) {
	path := filepath.Join(e.dir, name)
	if err := utils.SafeWriteFile(path, data); err != nil {
		return "", err
	}
	e.log.Info("wrote export artifact",
		zap.String("path", path),
		zap.Int("bytes", len(data)))
	return path, nil
}

// cell formats a value for CSV, empty for absent.
func cell(v dataset.Value) string {
	f, ok := v.Float()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// xlsxCell returns nil for absent so the workbook cell stays blank.
func xlsxCell(v dataset.Value) any {
	if f, ok := v.Float(); ok {
		return f
	}
	return nil
}

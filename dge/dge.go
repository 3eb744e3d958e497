// Package dge holds the differential-gene-expression table: loading
// from the upstream spreadsheet, the persisted tab-delimited form, and
// expression classification for the volcano plot.
//
// Statistical testing happens upstream; the numeric columns here are
// trusted as-is and carry no range validation.
package dge

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ostrowski-lab/covid19-dge/internal/tabio"
)

// Record is one gene's precomputed DGE statistics. Gene is the unique
// key for all downstream joins.
type Record struct {
	Gene           string
	Log2FoldChange float64
	PValue         float64
	PAdj           float64
}

// Expression is the regulation direction of a gene.
type Expression string

const (
	ExpressionUp   Expression = "up"
	ExpressionDown Expression = "down"
	// ExpressionUnchanged covers log2FoldChange exactly zero, which has
	// no color category of its own in the two-color volcano palette and
	// renders neutral instead of erroring.
	ExpressionUnchanged Expression = "unchanged"
)

// Classify returns the expression direction for a fold change.
func Classify(log2FoldChange float64) Expression {
	switch {
	case log2FoldChange > 0:
		return ExpressionUp
	case log2FoldChange < 0:
		return ExpressionDown
	default:
		return ExpressionUnchanged
	}
}

var tableHeaders = []string{"Gene", "log2FoldChange", "pvalue", "padj"}

// LoadSheet reads gene-level statistics from the named sheet. Rows
// with an empty Gene are dropped; everything else passes through.
func LoadSheet(f *excelize.File, sheet string) ([]Record, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheet)
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[h] = i
	}
	for _, h := range tableHeaders {
		if _, ok := cols[h]; !ok {
			return nil, fmt.Errorf("sheet %s: column %q not found", sheet, h)
		}
	}

	cell := func(row []string, name string) string {
		if i := cols[name]; i < len(row) {
			return row[i]
		}
		return ""
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		gene := cell(row, "Gene")
		if gene == "" {
			continue
		}
		rec := Record{Gene: gene}
		if rec.Log2FoldChange, err = parseField(cell(row, "log2FoldChange")); err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
		if rec.PValue, err = parseField(cell(row, "pvalue")); err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
		if rec.PAdj, err = parseField(cell(row, "padj")); err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteTable writes records as the persisted tab-delimited DGE table.
func WriteTable(w io.Writer, records []Record) error {
	tw := tabio.NewTabWriter(w)
	if err := tw.WriteHeaders(tableHeaders); err != nil {
		return err
	}
	for _, rec := range records {
		err := tw.WriteRow(rec.Gene,
			formatField(rec.Log2FoldChange),
			formatField(rec.PValue),
			formatField(rec.PAdj))
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

// ReadTable reads the persisted DGE table back into records.
func ReadTable(r io.Reader) ([]Record, error) {
	tr := tabio.NewTabReader(r, true)
	if _, err := tr.Headers(); err != nil {
		return nil, fmt.Errorf("reading DGE headers: %w", err)
	}

	var idx [4]int
	for i, h := range tableHeaders {
		col, err := tr.Column(h)
		if err != nil {
			return nil, fmt.Errorf("DGE table: %w", err)
		}
		idx[i] = col
	}

	rows, err := tr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading DGE rows: %w", err)
	}

	field := func(row []string, i int) string {
		if idx[i] < len(row) {
			return row[idx[i]]
		}
		return ""
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec := Record{Gene: field(row, 0)}
		if rec.Log2FoldChange, err = parseField(field(row, 1)); err != nil {
			return nil, fmt.Errorf("DGE table row %d: %w", i+2, err)
		}
		if rec.PValue, err = parseField(field(row, 2)); err != nil {
			return nil, fmt.Errorf("DGE table row %d: %w", i+2, err)
		}
		if rec.PAdj, err = parseField(field(row, 3)); err != nil {
			return nil, fmt.Errorf("DGE table row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ByGene indexes records by gene symbol for joins.
func ByGene(records []Record) map[string]Record {
	m := make(map[string]Record, len(records))
	for _, rec := range records {
		m[rec.Gene] = rec
	}
	return m
}

// parseField parses a numeric cell. An empty cell is a missing value
// and becomes NaN; anything else must parse.
func parseField(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", s, err)
	}
	return v, nil
}

// formatField renders a numeric cell, writing missing values (NaN) as
// empty fields.
func formatField(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return tabio.FormatFloat(v)
}

// Package clinical loads and normalizes the patient metadata sheet.
package clinical

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ostrowski-lab/covid19-dge/internal/tabio"
)

// Patient is one normalized clinical record.
type Patient struct {
	ID       string
	Age      float64
	Sex      string
	Severity string
}

// severityRule rewrites a raw severity label when the raw text
// contains Substring (case-sensitive).
type severityRule struct {
	Substring string
	Label     string
}

// severityRules are evaluated in order and every matching rule
// overwrites the previous result, so the last matching rule wins. A
// label containing "Mild" and "Moderate" therefore normalizes to
// "moderate", not "mild".
var severityRules = []severityRule{
	{"Mild", "mild"},
	{"Severe", "severe"},
	{"Moderate", "moderate"},
}

// NormalizeSeverity maps a raw free-text severity label onto
// mild/moderate/severe. Text matching none of the rules is returned
// unchanged; callers see the raw label rather than an error.
func NormalizeSeverity(raw string) string {
	out := raw
	for _, rule := range severityRules {
		if strings.Contains(raw, rule.Substring) {
			out = rule.Label
		}
	}
	return out
}

// LoadPatients reads the clinical sheet. The sheet carries its real
// column names on row 2 with data from row 3, plus trailing columns
// beyond the first four; only Patient, Age, Sex and Severity are kept.
func LoadPatients(f *excelize.File, sheet string) ([]Patient, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s: no header row at row 2", sheet)
	}

	patients := make([]Patient, 0, len(rows)-2)
	for i, row := range rows[2:] {
		p := Patient{}
		if len(row) > 0 {
			p.ID = row[0]
		}
		if len(row) > 1 && row[1] != "" {
			age, err := strconv.ParseFloat(row[1], 64)
			if err != nil {
				return nil, fmt.Errorf("sheet %s row %d: parsing age %q: %w", sheet, i+3, row[1], err)
			}
			p.Age = age
		}
		if len(row) > 2 {
			p.Sex = row[2]
		}
		if len(row) > 3 {
			p.Severity = NormalizeSeverity(row[3])
		}
		patients = append(patients, p)
	}
	return patients, nil
}

// WriteTable writes the patient table as tab-delimited text.
func WriteTable(w io.Writer, patients []Patient) error {
	tw := tabio.NewTabWriter(w)
	if err := tw.WriteHeaders([]string{"Patient", "Age", "Sex", "Severity"}); err != nil {
		return err
	}
	for _, p := range patients {
		err := tw.WriteRow(p.ID, tabio.FormatFloat(p.Age), p.Sex, p.Severity)
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

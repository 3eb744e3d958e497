package clinical

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestNormalizeSeverity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"mild", "Mild symptoms", "mild"},
		{"moderate", "Moderate disease", "moderate"},
		{"severe", "Severe, ICU", "severe"},
		{"last rule wins over mild", "Mild to Moderate", "moderate"},
		{"moderate overwrites severe", "Severe or Moderate", "moderate"},
		{"severe overwrites mild", "Mild then Severe", "severe"},
		{"all three", "Mild Severe Moderate", "moderate"},
		{"case sensitive", "mild", "mild"}, // raw text passes through untouched
		{"unmatched passes through", "asymptomatic", "asymptomatic"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSeverity(tt.raw); got != tt.want {
				t.Errorf("NormalizeSeverity(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// clinicalSheet builds a workbook shaped like the raw clinical export:
// a throwaway title row, the real header on row 2, data from row 3,
// and a trailing column past the first four.
func clinicalSheet(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()

	rows := [][]any{
		{"COVID-19 cohort", "", "", "", ""},
		{"patient_id", "age", "sex", "disease_severity", "batch"},
		{"P001", 54, "F", "Severe pneumonia", "b1"},
		{"P002", 31, "M", "Mild symptoms", "b1"},
		{"P003", 47, "F", "Moderate (hospitalized)", "b2"},
		{"P004", 62, "M", "asymptomatic", "b2"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("setting row %d: %v", i+1, err)
		}
	}
	return f
}

func TestLoadPatients(t *testing.T) {
	f := clinicalSheet(t)

	patients, err := LoadPatients(f, "Sheet1")
	if err != nil {
		t.Fatalf("LoadPatients() error = %v", err)
	}

	if len(patients) != 4 {
		t.Fatalf("len(patients) = %d, want 4", len(patients))
	}

	want := []Patient{
		{ID: "P001", Age: 54, Sex: "F", Severity: "severe"},
		{ID: "P002", Age: 31, Sex: "M", Severity: "mild"},
		{ID: "P003", Age: 47, Sex: "F", Severity: "moderate"},
		{ID: "P004", Age: 62, Sex: "M", Severity: "asymptomatic"},
	}
	for i, p := range patients {
		if p != want[i] {
			t.Errorf("patients[%d] = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestLoadPatients_BadAge(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"title"},
		{"patient_id", "age", "sex", "disease_severity"},
		{"P001", "fifty", "F", "Mild"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("setting row: %v", err)
		}
	}

	if _, err := LoadPatients(f, "Sheet1"); err == nil {
		t.Error("LoadPatients() should fail on a non-numeric age")
	}
}

func TestWriteTable(t *testing.T) {
	patients := []Patient{
		{ID: "P001", Age: 54, Sex: "F", Severity: "severe"},
		{ID: "P002", Age: 31, Sex: "M", Severity: "mild"},
	}

	var buf strings.Builder
	if err := WriteTable(&buf, patients); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	want := "Patient\tAge\tSex\tSeverity\nP001\t54\tF\tsevere\nP002\t31\tM\tmild\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

// Package pathway builds the gene↔pathway bridge table and the
// per-pathway summaries behind the dot plot.
package pathway

import (
	"fmt"
	"io"
	"math"

	"github.com/ostrowski-lab/covid19-dge/annotation"
	"github.com/ostrowski-lab/covid19-dge/dge"
	"github.com/ostrowski-lab/covid19-dge/internal/tabio"
	"github.com/ostrowski-lab/covid19-dge/kegg"
)

// Mapping is one row of the persisted gene→pathway bridge table.
type Mapping struct {
	PathwayID string
	GeneID    string
	Gene      string
	Pathway   string
}

// Summary aggregates the DGE rows mapped to one pathway.
type Summary struct {
	Pathway  string
	NumGenes int
	PMean    float64
}

// BuildMapping inner-joins KEGG pathway edges to annotated gene
// symbols and pathway names. Edges whose gene ID is missing from the
// annotation set drop out silently, so genes the annotation service
// does not know never reach the pathway table.
func BuildMapping(links []kegg.PathwayLink, genes []annotation.Gene, names []kegg.PathwayName) []Mapping {
	symbolByID := make(map[string]string, len(genes))
	for _, g := range genes {
		symbolByID[g.GeneID] = g.Symbol
	}
	nameByID := make(map[string]string, len(names))
	for _, n := range names {
		nameByID[n.PathwayID] = n.Name
	}

	var mappings []Mapping
	for _, link := range links {
		symbol, ok := symbolByID[link.GeneID]
		if !ok {
			continue
		}
		name, ok := nameByID[link.PathwayID]
		if !ok {
			continue
		}
		mappings = append(mappings, Mapping{
			PathwayID: link.PathwayID,
			GeneID:    link.GeneID,
			Gene:      symbol,
			Pathway:   name,
		})
	}
	return mappings
}

// Summarize restricts the bridge table to the allow-listed pathway
// names, inner-joins each row with the DGE table on Gene, and computes
// one Summary per pathway: NumGenes is the joined row count and PMean
// the arithmetic mean of padj over those rows. Rows with a missing
// padj (NaN) are excluded from the aggregate, so one gap never turns
// the whole mean into NaN. Pathways with no joined rows are absent
// from the result, never zero.
//
// Summaries come back in allow-list order.
func Summarize(mappings []Mapping, records map[string]dge.Record, allow []string) []Summary {
	counts := make(map[string]int, len(allow))
	sums := make(map[string]float64, len(allow))

	allowed := make(map[string]bool, len(allow))
	for _, name := range allow {
		allowed[name] = true
	}

	for _, m := range mappings {
		if !allowed[m.Pathway] {
			continue
		}
		rec, ok := records[m.Gene]
		if !ok || math.IsNaN(rec.PAdj) {
			continue
		}
		counts[m.Pathway]++
		sums[m.Pathway] += rec.PAdj
	}

	summaries := make([]Summary, 0, len(allow))
	for _, name := range allow {
		n := counts[name]
		if n == 0 {
			continue
		}
		summaries = append(summaries, Summary{
			Pathway:  name,
			NumGenes: n,
			PMean:    sums[name] / float64(n),
		})
	}
	return summaries
}

var tableHeaders = []string{"hsaID", "geneID", "Gene", "Pathway"}

// WriteTable writes the bridge table as tab-delimited text.
func WriteTable(w io.Writer, mappings []Mapping) error {
	tw := tabio.NewTabWriter(w)
	if err := tw.WriteHeaders(tableHeaders); err != nil {
		return err
	}
	for _, m := range mappings {
		if err := tw.WriteRow(m.PathwayID, m.GeneID, m.Gene, m.Pathway); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// ReadTable reads the persisted bridge table.
func ReadTable(r io.Reader) ([]Mapping, error) {
	tr := tabio.NewTabReader(r, true)
	if _, err := tr.Headers(); err != nil {
		return nil, fmt.Errorf("reading pathway headers: %w", err)
	}

	var idx [4]int
	for i, h := range tableHeaders {
		col, err := tr.Column(h)
		if err != nil {
			return nil, fmt.Errorf("pathway table: %w", err)
		}
		idx[i] = col
	}

	rows, err := tr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading pathway rows: %w", err)
	}

	field := func(row []string, i int) string {
		if idx[i] < len(row) {
			return row[idx[i]]
		}
		return ""
	}

	mappings := make([]Mapping, 0, len(rows))
	for _, row := range rows {
		mappings = append(mappings, Mapping{
			PathwayID: field(row, 0),
			GeneID:    field(row, 1),
			Gene:      field(row, 2),
			Pathway:   field(row, 3),
		})
	}
	return mappings, nil
}

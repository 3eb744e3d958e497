package pathway

import (
	"math"
	"strings"
	"testing"

	"github.com/ostrowski-lab/covid19-dge/annotation"
	"github.com/ostrowski-lab/covid19-dge/dge"
	"github.com/ostrowski-lab/covid19-dge/kegg"
)

func TestBuildMapping(t *testing.T) {
	links := []kegg.PathwayLink{
		{GeneID: "3569", PathwayID: "hsa04060"},
		{GeneID: "6352", PathwayID: "hsa04060"},
		{GeneID: "6352", PathwayID: "hsa04062"},
		{GeneID: "99999", PathwayID: "hsa04060"}, // not in annotation set
		{GeneID: "3569", PathwayID: "hsa99999"},  // no pathway name
	}
	genes := []annotation.Gene{
		{Symbol: "IL6", GeneID: "3569"},
		{Symbol: "CCL5", GeneID: "6352"},
	}
	names := []kegg.PathwayName{
		{PathwayID: "hsa04060", Name: "Cytokine-cytokine receptor interaction"},
		{PathwayID: "hsa04062", Name: "Chemokine signaling pathway"},
	}

	mappings := BuildMapping(links, genes, names)

	want := []Mapping{
		{PathwayID: "hsa04060", GeneID: "3569", Gene: "IL6", Pathway: "Cytokine-cytokine receptor interaction"},
		{PathwayID: "hsa04060", GeneID: "6352", Gene: "CCL5", Pathway: "Cytokine-cytokine receptor interaction"},
		{PathwayID: "hsa04062", GeneID: "6352", Gene: "CCL5", Pathway: "Chemokine signaling pathway"},
	}
	if len(mappings) != len(want) {
		t.Fatalf("len(mappings) = %d, want %d", len(mappings), len(want))
	}
	for i, m := range mappings {
		if m != want[i] {
			t.Errorf("mappings[%d] = %+v, want %+v", i, m, want[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	mappings := []Mapping{
		{Pathway: "TNF signaling pathway", Gene: "A"},
		{Pathway: "TNF signaling pathway", Gene: "B"},
		{Pathway: "TNF signaling pathway", Gene: "C"},
		{Pathway: "Ribosome", Gene: "A"},
		{Pathway: "Not on the list", Gene: "B"},
		{Pathway: "TNF signaling pathway", Gene: "ABSENT"}, // no DGE row
	}
	records := dge.ByGene([]dge.Record{
		{Gene: "A", PAdj: 0.01},
		{Gene: "B", PAdj: 0.03},
		{Gene: "C", PAdj: 0.02},
	})
	allow := []string{"TNF signaling pathway", "Ribosome", "Empty pathway"}

	summaries := Summarize(mappings, records, allow)

	if len(summaries) != 2 {
		t.Fatalf("len(summaries) = %d, want 2 (empty pathways are absent, not zero)", len(summaries))
	}

	tnf := summaries[0]
	if tnf.Pathway != "TNF signaling pathway" {
		t.Fatalf("summaries[0].Pathway = %q, want TNF signaling pathway", tnf.Pathway)
	}
	if tnf.NumGenes != 3 {
		t.Errorf("NumGenes = %d, want 3", tnf.NumGenes)
	}
	if tnf.PMean != 0.02 {
		t.Errorf("PMean = %v, want 0.02 exactly", tnf.PMean)
	}

	rib := summaries[1]
	if rib.Pathway != "Ribosome" || rib.NumGenes != 1 || rib.PMean != 0.01 {
		t.Errorf("summaries[1] = %+v, want Ribosome with 1 gene and PMean 0.01", rib)
	}
}

func TestSummarize_MissingPAdj(t *testing.T) {
	mappings := []Mapping{
		{Pathway: "Ribosome", Gene: "A"},
		{Pathway: "Ribosome", Gene: "B"},
	}
	records := dge.ByGene([]dge.Record{
		{Gene: "A", PAdj: 0.01},
		{Gene: "B", PAdj: math.NaN()},
	})

	summaries := Summarize(mappings, records, []string{"Ribosome"})

	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(summaries))
	}
	got := summaries[0]
	if got.NumGenes != 1 {
		t.Errorf("NumGenes = %d, want 1 (missing padj excluded)", got.NumGenes)
	}
	if got.PMean != 0.01 {
		t.Errorf("PMean = %v, want 0.01 (one missing padj must not poison the mean)", got.PMean)
	}
}

func TestSummarize_AllPAdjMissing(t *testing.T) {
	mappings := []Mapping{{Pathway: "Ribosome", Gene: "A"}}
	records := dge.ByGene([]dge.Record{{Gene: "A", PAdj: math.NaN()}})

	summaries := Summarize(mappings, records, []string{"Ribosome"})

	if len(summaries) != 0 {
		t.Fatalf("summaries = %+v, want none when every padj is missing", summaries)
	}
}

func TestSummarize_NumGenesAtLeastOne(t *testing.T) {
	summaries := Summarize(nil, dge.ByGene(nil), []string{"Ribosome"})
	if len(summaries) != 0 {
		t.Fatalf("len(summaries) = %d, want 0", len(summaries))
	}
}

func TestTableRoundTrip(t *testing.T) {
	mappings := []Mapping{
		{PathwayID: "hsa04060", GeneID: "3569", Gene: "IL6", Pathway: "Cytokine-cytokine receptor interaction"},
		{PathwayID: "hsa04668", GeneID: "6352", Gene: "CCL5", Pathway: "TNF signaling pathway"},
	}

	var buf strings.Builder
	if err := WriteTable(&buf, mappings); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	got, err := ReadTable(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}

	if len(got) != len(mappings) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(mappings))
	}
	for i, m := range mappings {
		if got[i] != m {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], m)
		}
	}
}

func TestWriteTable_Header(t *testing.T) {
	var buf strings.Builder
	if err := WriteTable(&buf, nil); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "hsaID\tgeneID\tGene\tPathway\n") {
		t.Errorf("header = %q", buf.String())
	}
}

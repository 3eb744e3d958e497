// Package study holds the fixed constants of the COVID-19 blood
// transcriptomics analysis: input sheet names, organism codes, the
// volcano label set, and the pathway allow-lists. Commands use these
// as flag defaults.
package study

// Input spreadsheet defaults.
const (
	ClinicalFile  = "data/clinical_metadata.xlsx"
	ClinicalSheet = "Clinical"
	DGEFile       = "data/dge_results.xlsx"
	DGESheet      = "DGE"
)

// Intermediate and output file defaults.
const (
	PatientTable     = "output/patients.tsv"
	DGETable         = "output/dge_results.tsv"
	GenePathwayTable = "output/gene_pathways.tsv"
	VolcanoFigure    = "output/volcano.svg"
	PathwayFigure    = "output/pathway_dotplot.svg"
)

// Organism codes for the external reference services.
const (
	// KEGGOrganism is the KEGG three-letter organism code.
	KEGGOrganism = "hsa"
	// AnnotationSpecies selects the gene annotation universe.
	AnnotationSpecies = "human"
)

// VolcanoUpLabels are the up-regulated genes that receive text labels
// and ring highlights on the volcano plot.
var VolcanoUpLabels = []string{
	"IFI27",
	"IFI44L",
	"ISG15",
	"OAS1",
	"RSAD2",
	"CXCL10",
	"IL6",
	"MX1",
	"IFIT1",
	"SIGLEC1",
}

// VolcanoDownLabels are the down-regulated genes that receive text
// labels and ring highlights on the volcano plot.
var VolcanoDownLabels = []string{
	"CCL5",
	"CD8A",
	"GZMB",
	"KLRD1",
	"CCR7",
}

// UpPathways is the allow-list for the upper (up-regulated) panel of
// the pathway dot plot.
var UpPathways = []string{
	"Cytokine-cytokine receptor interaction",
	"NOD-like receptor signaling pathway",
	"Toll-like receptor signaling pathway",
	"JAK-STAT signaling pathway",
	"TNF signaling pathway",
	"NF-kappa B signaling pathway",
	"Chemokine signaling pathway",
	"Complement and coagulation cascades",
	"IL-17 signaling pathway",
	"RIG-I-like receptor signaling pathway",
}

// DownPathways is the allow-list for the lower (down-regulated) panel
// of the pathway dot plot.
var DownPathways = []string{
	"T cell receptor signaling pathway",
	"Natural killer cell mediated cytotoxicity",
	"Th1 and Th2 cell differentiation",
	"Th17 cell differentiation",
	"Antigen processing and presentation",
	"Primary immunodeficiency",
	"Hematopoietic cell lineage",
	"B cell receptor signaling pathway",
	"Ribosome",
	"Oxidative phosphorylation",
}

// VolcanoLabels returns the combined 15-gene label set.
func VolcanoLabels() []string {
	labels := make([]string, 0, len(VolcanoUpLabels)+len(VolcanoDownLabels))
	labels = append(labels, VolcanoUpLabels...)
	labels = append(labels, VolcanoDownLabels...)
	return labels
}

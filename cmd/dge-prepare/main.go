// Command dge-prepare runs the data-preparation stage: it loads the
// clinical metadata and precomputed DGE spreadsheets, normalizes
// patient severity labels, maps genes to KEGG pathways through the
// annotation and pathway reference services, and writes the flat
// tables the chart stages consume.
//
// Usage:
//
//	dge-prepare [options]
//
// Examples:
//
//	dge-prepare
//	dge-prepare --dge data/dge_results.xlsx --dge-sheet DGE
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ostrowski-lab/covid19-dge/annotation"
	"github.com/ostrowski-lab/covid19-dge/clinical"
	"github.com/ostrowski-lab/covid19-dge/dge"
	"github.com/ostrowski-lab/covid19-dge/internal/tabio"
	"github.com/ostrowski-lab/covid19-dge/kegg"
	"github.com/ostrowski-lab/covid19-dge/pathway"
	"github.com/ostrowski-lab/covid19-dge/study"
)

var (
	clinicalFile  string
	clinicalSheet string
	dgeFile       string
	dgeSheet      string
	organism      string
	species       string
	patientsOut   string
	dgeOut        string
	pathwaysOut   string
)

var rootCmd = &cobra.Command{
	Use:   "dge-prepare [options]",
	Short: "Prepare the DGE and gene-pathway tables",
	Long: `This command reads the raw clinical metadata and precomputed DGE
spreadsheets and writes the normalized tab-delimited tables used by
dge-volcano and dge-pathways.

Gene symbols are resolved to Entrez IDs through the MyGene.info
annotation service and joined to KEGG pathway membership and names.
Genes the annotation service does not know silently drop out of the
pathway table.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&clinicalFile, "clinical", study.ClinicalFile, "clinical metadata workbook")
	rootCmd.Flags().StringVar(&clinicalSheet, "clinical-sheet", study.ClinicalSheet, "clinical sheet name")
	rootCmd.Flags().StringVar(&dgeFile, "dge", study.DGEFile, "DGE results workbook")
	rootCmd.Flags().StringVar(&dgeSheet, "dge-sheet", study.DGESheet, "DGE sheet name")
	rootCmd.Flags().StringVar(&organism, "organism", study.KEGGOrganism, "KEGG organism code")
	rootCmd.Flags().StringVar(&species, "species", study.AnnotationSpecies, "annotation service species")
	rootCmd.Flags().StringVar(&patientsOut, "patients-out", study.PatientTable, "patient table output path")
	rootCmd.Flags().StringVar(&dgeOut, "dge-out", study.DGETable, "DGE table output path")
	rootCmd.Flags().StringVar(&pathwaysOut, "pathways-out", study.GenePathwayTable, "gene-pathway table output path")
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	patients, err := loadPatients()
	if err != nil {
		return err
	}
	if err := writeOutput(patientsOut, func(w io.Writer) error {
		return clinical.WriteTable(w, patients)
	}); err != nil {
		return fmt.Errorf("writing patient table: %w", err)
	}
	logger.Info("wrote patient table",
		zap.String("path", patientsOut),
		zap.Int("patients", len(patients)))

	records, err := loadDGE()
	if err != nil {
		return err
	}
	if err := writeOutput(dgeOut, func(w io.Writer) error {
		return dge.WriteTable(w, records)
	}); err != nil {
		return fmt.Errorf("writing DGE table: %w", err)
	}
	logger.Info("wrote DGE table",
		zap.String("path", dgeOut),
		zap.Int("genes", len(records)))

	mappings, err := buildPathwayMapping(ctx, logger, records)
	if err != nil {
		return err
	}
	if err := writeOutput(pathwaysOut, func(w io.Writer) error {
		return pathway.WriteTable(w, mappings)
	}); err != nil {
		return fmt.Errorf("writing gene-pathway table: %w", err)
	}
	logger.Info("wrote gene-pathway table",
		zap.String("path", pathwaysOut),
		zap.Int("rows", len(mappings)))

	return nil
}

func loadPatients() ([]clinical.Patient, error) {
	f, err := excelize.OpenFile(clinicalFile)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", clinicalFile, err)
	}
	defer f.Close()

	patients, err := clinical.LoadPatients(f, clinicalSheet)
	if err != nil {
		return nil, fmt.Errorf("loading patients: %w", err)
	}
	return patients, nil
}

func loadDGE() ([]dge.Record, error) {
	f, err := excelize.OpenFile(dgeFile)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dgeFile, err)
	}
	defer f.Close()

	records, err := dge.LoadSheet(f, dgeSheet)
	if err != nil {
		return nil, fmt.Errorf("loading DGE results: %w", err)
	}
	return records, nil
}

func buildPathwayMapping(ctx context.Context, logger *zap.Logger, records []dge.Record) ([]pathway.Mapping, error) {
	symbols := make([]string, len(records))
	for i, rec := range records {
		symbols[i] = rec.Gene
	}

	genes, err := annotation.NewClient().MapSymbols(ctx, symbols, species)
	if err != nil {
		return nil, fmt.Errorf("annotating gene symbols: %w", err)
	}
	logger.Info("annotated gene symbols",
		zap.Int("queried", len(symbols)),
		zap.Int("resolved", len(genes)))

	keggClient := kegg.NewClient()
	links, err := keggClient.GeneLinks(ctx, organism)
	if err != nil {
		return nil, fmt.Errorf("fetching pathway links: %w", err)
	}
	names, err := keggClient.PathwayNames(ctx, organism)
	if err != nil {
		return nil, fmt.Errorf("fetching pathway names: %w", err)
	}
	logger.Info("fetched KEGG reference tables",
		zap.String("organism", organism),
		zap.Int("links", len(links)),
		zap.Int("pathways", len(names)))

	return pathway.BuildMapping(links, genes, names), nil
}

// writeOutput writes one output file, creating its parent directory.
func writeOutput(path string, write func(io.Writer) error) error {
	f, err := tabio.OpenOutput(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

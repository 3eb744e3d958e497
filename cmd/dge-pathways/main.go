// Command dge-pathways renders the paired pathway dot plot from the
// prepared DGE and gene-pathway tables: the allow-listed up- and
// down-regulated pathways as two mirrored panels sharing one color
// and size scale.
//
// Usage:
//
//	dge-pathways [options]
//
// Examples:
//
//	dge-pathways
//	dge-pathways --out output/pathway_dotplot.svg
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ostrowski-lab/covid19-dge/dge"
	"github.com/ostrowski-lab/covid19-dge/figure"
	"github.com/ostrowski-lab/covid19-dge/internal/tabio"
	"github.com/ostrowski-lab/covid19-dge/pathway"
	"github.com/ostrowski-lab/covid19-dge/study"
)

var (
	dgeTable     string
	pathwayTable string
	outFile      string
)

var rootCmd = &cobra.Command{
	Use:   "dge-pathways [options]",
	Short: "Render the pathway dot plot",
	Long: `This command reads the tab-delimited DGE and gene-pathway tables
written by dge-prepare, aggregates genes per allow-listed pathway
(gene count and mean adjusted p-value), and renders the paired dot
figure as a 6x10 inch SVG.

Both panels share one color scale and one size scale computed from the
union of the up and down summaries.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&dgeTable, "dge", study.DGETable, "DGE table path")
	rootCmd.Flags().StringVar(&pathwayTable, "pathways", study.GenePathwayTable, "gene-pathway table path")
	rootCmd.Flags().StringVar(&outFile, "out", study.PathwayFigure, "output SVG path")
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	records, err := readDGE()
	if err != nil {
		return err
	}
	mappings, err := readMappings()
	if err != nil {
		return err
	}

	byGene := dge.ByGene(records)
	up := pathway.Summarize(mappings, byGene, study.UpPathways)
	down := pathway.Summarize(mappings, byGene, study.DownPathways)
	logger.Info("aggregated pathways",
		zap.Int("up", len(up)),
		zap.Int("down", len(down)))

	out, err := tabio.OpenOutput(outFile)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	if err := figure.RenderPathwayDots(out, up, down); err != nil {
		return fmt.Errorf("rendering pathway dots: %w", err)
	}

	logger.Info("wrote pathway figure", zap.String("path", outFile))
	return nil
}

func readDGE() ([]dge.Record, error) {
	f, err := tabio.OpenInput(dgeTable)
	if err != nil {
		return nil, fmt.Errorf("opening DGE table: %w", err)
	}
	defer f.Close()

	records, err := dge.ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("reading DGE table: %w", err)
	}
	return records, nil
}

func readMappings() ([]pathway.Mapping, error) {
	f, err := tabio.OpenInput(pathwayTable)
	if err != nil {
		return nil, fmt.Errorf("opening gene-pathway table: %w", err)
	}
	defer f.Close()

	mappings, err := pathway.ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("reading gene-pathway table: %w", err)
	}
	return mappings, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

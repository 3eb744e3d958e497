// Command dge-volcano renders the volcano plot from the prepared DGE
// table: every gene as a point colored by expression direction, with
// the fixed 15-gene label set highlighted.
//
// Usage:
//
//	dge-volcano [options]
//
// Examples:
//
//	dge-volcano
//	dge-volcano --dge output/dge_results.tsv --out output/volcano.svg
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ostrowski-lab/covid19-dge/dge"
	"github.com/ostrowski-lab/covid19-dge/figure"
	"github.com/ostrowski-lab/covid19-dge/internal/tabio"
	"github.com/ostrowski-lab/covid19-dge/study"
)

var (
	dgeTable string
	outFile  string
)

var rootCmd = &cobra.Command{
	Use:   "dge-volcano [options]",
	Short: "Render the volcano plot",
	Long: `This command reads the tab-delimited DGE table written by
dge-prepare and renders the volcano figure as a 6x8 inch SVG.

Genes are colored by expression direction (up/down, with a neutral
color for zero fold change); the fixed label set receives text labels
and ring highlights.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&dgeTable, "dge", study.DGETable, "DGE table path")
	rootCmd.Flags().StringVar(&outFile, "out", study.VolcanoFigure, "output SVG path")
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	in, err := tabio.OpenInput(dgeTable)
	if err != nil {
		return fmt.Errorf("opening DGE table: %w", err)
	}
	defer in.Close()

	records, err := dge.ReadTable(in)
	if err != nil {
		return fmt.Errorf("reading DGE table: %w", err)
	}

	out, err := tabio.OpenOutput(outFile)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	if err := figure.RenderVolcano(out, records, study.VolcanoLabels()); err != nil {
		return fmt.Errorf("rendering volcano: %w", err)
	}

	logger.Info("wrote volcano figure",
		zap.String("path", outFile),
		zap.Int("genes", len(records)),
		zap.Int("labels", len(figure.SelectLabels(records, study.VolcanoLabels()))))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

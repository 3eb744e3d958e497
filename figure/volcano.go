package figure

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/ostrowski-lab/covid19-dge/dge"
)

// SelectLabels returns the records whose gene is in the label
// allow-list, in table order. Allow-listed genes absent from the table
// simply do not appear.
func SelectLabels(records []dge.Record, labels []string) []dge.Record {
	allowed := make(map[string]bool, len(labels))
	for _, l := range labels {
		allowed[l] = true
	}

	var selected []dge.Record
	for _, rec := range records {
		if allowed[rec.Gene] {
			selected = append(selected, rec)
		}
	}
	return selected
}

// negLog10P is the volcano y coordinate. Zero or negative p-values
// would map to +Inf and break the axis range, so they are clamped to
// the smallest value the chart can still place. Missing p-values (NaN)
// never reach this clamp; their records are excluded from the plot.
func negLog10P(p float64) float64 {
	if !(p > 0) {
		p = 1e-300
	}
	return -math.Log10(p)
}

// plottable reports whether a record has the finite coordinates the
// scatter needs. Missing values are NaN per the table convention.
func plottable(rec dge.Record) bool {
	return !math.IsNaN(rec.Log2FoldChange) && !math.IsNaN(rec.PValue)
}

// RenderVolcano draws the volcano plot for the DGE table and writes it
// as a 6×8 inch SVG: all genes as points colored by expression
// direction, the allow-listed genes labeled and ring-highlighted,
// dashed fold-change references at x=±1 and a baseline at y=0.
func RenderVolcano(w io.Writer, records []dge.Record, labels []string) error {
	ch, err := buildVolcano(records, labels)
	if err != nil {
		return err
	}
	return ch.Render(chart.SVG, w)
}

func buildVolcano(records []dge.Record, labels []string) (*chart.Chart, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("volcano: no DGE records")
	}

	var xs struct{ up, down, flat []float64 }
	var ys struct{ up, down, flat []float64 }
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMax := math.Inf(-1)

	for _, rec := range records {
		if !plottable(rec) {
			continue
		}
		x := rec.Log2FoldChange
		y := negLog10P(rec.PValue)
		switch dge.Classify(x) {
		case dge.ExpressionUp:
			xs.up = append(xs.up, x)
			ys.up = append(ys.up, y)
		case dge.ExpressionDown:
			xs.down = append(xs.down, x)
			ys.down = append(ys.down, y)
		default:
			xs.flat = append(xs.flat, x)
			ys.flat = append(ys.flat, y)
		}
		xMin = math.Min(xMin, x)
		xMax = math.Max(xMax, x)
		yMax = math.Max(yMax, y)
	}
	if len(xs.up)+len(xs.down)+len(xs.flat) == 0 {
		return nil, fmt.Errorf("volcano: no plottable DGE records")
	}

	// The ±1 fold-change references must stay visible even for
	// compressed datasets.
	xMin = math.Min(xMin, -1) - 0.5
	xMax = math.Max(xMax, 1) + 0.5
	if yMax <= 0 {
		yMax = 1
	}
	yTop := yMax * 1.08

	xRange := &chart.ContinuousRange{Min: xMin, Max: xMax}
	yRange := &chart.ContinuousRange{Min: 0, Max: yTop}

	var series []chart.Series
	if len(xs.down) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "down",
			XValues: xs.down,
			YValues: ys.down,
			Style:   scatterStyle(colorDown, 3),
		})
	}
	if len(xs.up) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "up",
			XValues: xs.up,
			YValues: ys.up,
			Style:   scatterStyle(colorUp, 3),
		})
	}
	// Zero fold change has no direction; those points render in the
	// neutral color rather than failing the two-color palette.
	if len(xs.flat) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "unchanged",
			XValues: xs.flat,
			YValues: ys.flat,
			Style:   scatterStyle(colorNeutral, 3),
		})
	}

	// Dashed reference lines: fold-change thresholds and baseline.
	for _, x := range []float64{-1, 1} {
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{x, x},
			YValues: []float64{0, yTop},
			Style:   dashedStyle(),
		})
	}
	series = append(series, chart.ContinuousSeries{
		XValues: []float64{xMin, xMax},
		YValues: []float64{0, 0},
		Style:   dashedStyle(),
	})

	// Labels and ring highlights for the allow-listed genes.
	var ringX, ringY []float64
	var points []labelPoint
	for _, rec := range SelectLabels(records, labels) {
		if !plottable(rec) {
			continue
		}
		x := rec.Log2FoldChange
		y := negLog10P(rec.PValue)
		ringX = append(ringX, x)
		ringY = append(ringY, y)
		points = append(points, labelPoint{X: x, Y: y, Label: rec.Gene})
	}
	if len(points) > 0 {
		series = append(series, ringSeries{
			XValues: ringX,
			YValues: ringY,
			Radius:  5,
			Color:   chart.ColorBlack,
		})

		spreadLabels(points, (xMax-xMin)*0.08, yTop*0.03)
		annotations := make([]chart.Value2, len(points))
		for i, p := range points {
			annotations[i] = chart.Value2{XValue: p.X, YValue: p.Y, Label: p.Label}
		}
		series = append(series, chart.AnnotationSeries{
			Annotations: annotations,
			Style: chart.Style{
				StrokeColor: colorRef,
				FillColor:   chart.ColorWhite,
				FontSize:    7,
			},
		})
	}

	var legend []legendEntry
	if len(xs.down) > 0 {
		legend = append(legend, legendEntry{Label: "down", Color: colorDown})
	}
	if len(xs.up) > 0 {
		legend = append(legend, legendEntry{Label: "up", Color: colorUp})
	}
	if len(xs.flat) > 0 {
		legend = append(legend, legendEntry{Label: "unchanged", Color: colorNeutral})
	}

	return &chart.Chart{
		Title:  "Differential expression",
		DPI:    renderDPI,
		Width:  volcanoWidthIn * renderDPI,
		Height: volcanoHeightIn * renderDPI,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 12, Right: 12, Bottom: 12},
		},
		XAxis: chart.XAxis{
			Name:  "log2 fold change",
			Range: xRange,
		},
		YAxis: chart.YAxis{
			Name:  "-log10 p-value",
			Range: yRange,
		},
		Series:   series,
		Elements: []chart.Renderable{colorLegend(legend)},
	}, nil
}

// labelPoint is a gene label anchored at its data position.
type labelPoint struct {
	X, Y  float64
	Label string
}

// spreadLabels nudges overlapping labels apart vertically so that no
// two labels closer than dx share the same y band. Points are adjusted
// bottom-up; the data points themselves are untouched, only the label
// anchors move.
func spreadLabels(points []labelPoint, dx, dy float64) {
	sort.Slice(points, func(i, j int) bool { return points[i].Y < points[j].Y })
	for i := 1; i < len(points); i++ {
		for j := 0; j < i; j++ {
			if math.Abs(points[i].X-points[j].X) < dx && points[i].Y-points[j].Y < dy {
				points[i].Y = points[j].Y + dy
			}
		}
	}
}

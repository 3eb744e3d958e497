package figure

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ostrowski-lab/covid19-dge/pathway"
)

// Dot size bounds in pixels for the smallest and largest gene counts.
const (
	minDotWidth = 4
	maxDotWidth = 11
)

// dotScale holds the color and size limits shared by both panels.
// Limits are computed once over the union of the up and down
// summaries so the two panels stay visually comparable.
type dotScale struct {
	minGenes, maxGenes float64
	minP, maxP         float64
}

func sharedDotScale(up, down []pathway.Summary) dotScale {
	sc := dotScale{
		minGenes: math.Inf(1), maxGenes: math.Inf(-1),
		minP: math.Inf(1), maxP: math.Inf(-1),
	}
	for _, s := range append(append([]pathway.Summary{}, up...), down...) {
		n := float64(s.NumGenes)
		sc.minGenes = math.Min(sc.minGenes, n)
		sc.maxGenes = math.Max(sc.maxGenes, n)
		sc.minP = math.Min(sc.minP, s.PMean)
		sc.maxP = math.Max(sc.maxP, s.PMean)
	}
	return sc
}

// dotWidth maps a gene count onto the shared size scale.
func (sc dotScale) dotWidth(numGenes float64) float64 {
	if sc.maxGenes <= sc.minGenes {
		return (minDotWidth + maxDotWidth) / 2
	}
	t := (numGenes - sc.minGenes) / (sc.maxGenes - sc.minGenes)
	return minDotWidth + t*(maxDotWidth-minDotWidth)
}

// dotColor maps a mean adjusted p-value onto the shared blue→red
// gradient.
func (sc dotScale) dotColor(pMean float64) drawing.Color {
	if sc.maxP <= sc.minP {
		return gradientColor(0)
	}
	return gradientColor((pMean - sc.minP) / (sc.maxP - sc.minP))
}

// RenderPathwayDots draws the paired pathway dot plot and writes it as
// a single stacked 6×10 inch SVG: the up-regulated panel on top in
// standard orientation, the down-regulated panel below it mirrored
// (right-side category labels, reversed x-axis), with one shared
// legend. Dot size encodes the pathway's gene count and dot color its
// mean adjusted p-value on scales shared across both panels.
func RenderPathwayDots(w io.Writer, up, down []pathway.Summary) error {
	if len(up) == 0 {
		return fmt.Errorf("pathway dots: no up-regulated summaries")
	}
	if len(down) == 0 {
		return fmt.Errorf("pathway dots: no down-regulated summaries")
	}

	sc := sharedDotScale(up, down)
	widthPx := dotsWidthIn * renderDPI
	panelHeightPx := dotsHeightIn * renderDPI / 2

	upChart := dotPanel(up, sc, false, widthPx, panelHeightPx)
	downChart := dotPanel(down, sc, true, widthPx, panelHeightPx)
	downChart.Elements = []chart.Renderable{dotLegend(sc)}

	var upBuf, downBuf bytes.Buffer
	if err := upChart.Render(chart.SVG, &upBuf); err != nil {
		return fmt.Errorf("rendering up panel: %w", err)
	}
	if err := downChart.Render(chart.SVG, &downBuf); err != nil {
		return fmt.Errorf("rendering down panel: %w", err)
	}

	return stackSVG(w, widthPx, panelHeightPx, upBuf.Bytes(), downBuf.Bytes())
}

// dotPanel builds one horizontal dot chart. Categories are ordered
// ascending by the panel's own gene counts; the mirrored panel flips
// the x-axis and moves the category labels to the right side.
func dotPanel(summaries []pathway.Summary, sc dotScale, mirrored bool, widthPx, heightPx int) *chart.Chart {
	ordered := make([]pathway.Summary, len(summaries))
	copy(ordered, summaries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].NumGenes < ordered[j].NumGenes
	})

	n := len(ordered)
	xs := make([]float64, n)
	ys := make([]float64, n)
	ticks := make([]chart.Tick, n)
	for i, s := range ordered {
		xs[i] = float64(s.NumGenes)
		ys[i] = float64(i + 1)
		ticks[i] = chart.Tick{Value: float64(i + 1), Label: s.Pathway}
	}

	series := chart.ContinuousSeries{
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidthProvider: func(_, _ chart.Range, _ int, x, _ float64) float64 {
				return sc.dotWidth(x)
			},
			DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
				return sc.dotColor(ordered[index].PMean)
			},
		},
	}

	xRange := &chart.ContinuousRange{
		Min:        0,
		Max:        sc.maxGenes * 1.15,
		Descending: mirrored,
	}
	yRange := &chart.ContinuousRange{Min: 0.5, Max: float64(n) + 0.5}

	categoryAxis := chart.YAxis{
		Ticks: ticks,
		Range: yRange,
		Style: chart.Style{FontSize: 6},
	}

	title := "Up-regulated pathways"
	ch := &chart.Chart{
		DPI:    renderDPI,
		Width:  widthPx,
		Height: heightPx,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 8, Right: 8, Bottom: 8},
		},
		XAxis: chart.XAxis{
			Name:  "genes",
			Range: xRange,
			Ticks: geneCountTicks(sc.maxGenes * 1.15),
		},
	}

	if mirrored {
		title = "Down-regulated pathways"
		series.YAxis = chart.YAxisSecondary
		ch.YAxis = chart.YAxis{Style: chart.Hidden(), Range: yRange}
		ch.YAxisSecondary = categoryAxis
	} else {
		ch.YAxis = categoryAxis
	}
	ch.Title = title
	ch.Series = []chart.Series{series}
	return ch
}

// geneCountTicks builds integer x-axis ticks up to max.
func geneCountTicks(max float64) []chart.Tick {
	step := math.Ceil(max / 4)
	if step < 1 {
		step = 1
	}
	var ticks []chart.Tick
	for v := 0.0; v <= max; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: strconv.Itoa(int(v))})
	}
	return ticks
}

// dotLegend renders the shared size and color legend in the panel's
// upper corner.
func dotLegend(sc dotScale) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, chartDefaults chart.Style) {
		x := canvasBox.Right - 110
		y := canvasBox.Top + 14

		r.SetFont(chartDefaults.GetFont())
		r.SetFontSize(7)
		r.SetFontColor(chart.ColorBlack)
		r.SetStrokeColor(colorRef)
		r.SetStrokeWidth(1)

		entry := func(radius float64, fill drawing.Color, label string) {
			r.SetFillColor(fill)
			r.Circle(radius, x, y)
			r.FillStroke()
			r.Text(label, x+16, y+3)
			y += 16
		}

		entry(sc.dotWidth(sc.minGenes), colorNeutral, fmt.Sprintf("%d genes", int(sc.minGenes)))
		entry(sc.dotWidth(sc.maxGenes), colorNeutral, fmt.Sprintf("%d genes", int(sc.maxGenes)))
		entry(5, gradientColor(0), "padj "+formatP(sc.minP))
		entry(5, gradientColor(1), "padj "+formatP(sc.maxP))
	}
}

// formatP renders a p-value for legend display.
func formatP(v float64) string {
	return strconv.FormatFloat(v, 'g', 2, 64)
}

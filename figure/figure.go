// Package figure renders the two analysis figures with go-chart:
// the volcano plot and the paired pathway dot plot. Figures are
// exported as SVG at fixed physical dimensions.
package figure

import (
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// renderDPI fixes the pixel density so the inch dimensions below map
// to stable pixel sizes.
const renderDPI = 72

// Figure dimensions in inches.
const (
	volcanoWidthIn  = 6
	volcanoHeightIn = 8
	dotsWidthIn     = 6
	dotsHeightIn    = 10
)

var (
	colorUp      = drawing.Color{R: 215, G: 48, B: 39, A: 255}
	colorDown    = drawing.Color{R: 69, G: 117, B: 180, A: 255}
	colorNeutral = drawing.Color{R: 153, G: 153, B: 153, A: 255}
	colorRef     = drawing.Color{R: 90, G: 90, B: 90, A: 255}
)

// gradientColor interpolates the shared two-point p-value gradient:
// t=0 is blue (low p), t=1 is red (high p).
func gradientColor(t float64) drawing.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	return drawing.Color{
		R: lerp(colorDown.R, colorUp.R),
		G: lerp(colorDown.G, colorUp.G),
		B: lerp(colorDown.B, colorUp.B),
		A: 255,
	}
}

// scatterStyle returns a dots-only series style.
func scatterStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    width,
		DotColor:    col,
	}
}

// dashedStyle returns the style used for reference lines.
func dashedStyle() chart.Style {
	return chart.Style{
		StrokeWidth:     1.0,
		StrokeColor:     colorRef,
		StrokeDashArray: []float64{4.0, 4.0},
	}
}

// ringSeries draws hollow ring markers at fixed data positions. It is
// excluded from axis-range inference, so charts using it must set
// explicit axis ranges covering its points.
type ringSeries struct {
	XValues []float64
	YValues []float64
	Radius  float64
	Color   drawing.Color
}

func (rs ringSeries) GetName() string { return "" }

func (rs ringSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

func (rs ringSeries) GetStyle() chart.Style { return chart.Style{} }

func (rs ringSeries) Validate() error {
	if len(rs.XValues) != len(rs.YValues) {
		return fmt.Errorf("ring series: %d x values, %d y values", len(rs.XValues), len(rs.YValues))
	}
	return nil
}

func (rs ringSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, _ chart.Style) {
	r.SetStrokeColor(rs.Color)
	r.SetStrokeWidth(1.2)
	for i := range rs.XValues {
		cx := canvasBox.Left + xrange.Translate(rs.XValues[i])
		cy := canvasBox.Bottom - yrange.Translate(rs.YValues[i])
		r.Circle(rs.Radius, cx, cy)
		r.Stroke()
	}
}

// legendEntry is one swatch in a color legend.
type legendEntry struct {
	Label string
	Color drawing.Color
}

// colorLegend renders a compact dot-swatch legend in the chart's upper
// left corner.
func colorLegend(entries []legendEntry) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, chartDefaults chart.Style) {
		x := canvasBox.Left + 12
		y := canvasBox.Top + 14

		r.SetFont(chartDefaults.GetFont())
		r.SetFontSize(7)
		r.SetFontColor(chart.ColorBlack)
		r.SetStrokeColor(colorRef)
		r.SetStrokeWidth(1)

		for _, e := range entries {
			r.SetFillColor(e.Color)
			r.Circle(4, x, y)
			r.FillStroke()
			r.Text(e.Label, x+10, y+3)
			y += 14
		}
	}
}

// stackSVG composes pre-rendered SVG panels of equal width and height
// into one vertically stacked SVG document.
func stackSVG(w io.Writer, widthPx, panelHeightPx int, panels ...[]byte) error {
	_, err := fmt.Fprintf(w, "<svg xmlns=%q width=\"%d\" height=\"%d\">\n",
		"http://www.w3.org/2000/svg", widthPx, panelHeightPx*len(panels))
	if err != nil {
		return err
	}
	for i, panel := range panels {
		s := strings.Replace(string(panel), "<svg ", fmt.Sprintf("<svg y=\"%d\" ", i*panelHeightPx), 1)
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "</svg>\n")
	return err
}

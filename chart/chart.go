// Package chart draws the cumulative return chart of a backtest as a PDF document.
package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/etnz/engagement"
	"github.com/go-pdf/fpdf"
)

// DefaultTitle is the title of the chart when Options.Title is empty.
const DefaultTitle = "Twitter Engagement Ratio Strategy Return Over Time"

// Options controls the chart layout.
type Options struct {
	Title string
	// Ticks is the number of intervals on the y axis.
	Ticks int
}

type rgb struct{ r, g, b int }

var (
	strategyColor  = rgb{31, 119, 180}
	benchmarkColor = rgb{255, 127, 14}
	gridColor      = rgb{220, 220, 220}
)

// page layout, in mm on a landscape A4.
const (
	pageWidth  = 297.0
	pageHeight = 210.0
	left       = 25.0
	right      = 15.0
	top        = 25.0
	bottom     = 30.0
)

// Render writes a line chart of the strategy and benchmark cumulative returns to w.
//
// The y axis is formatted in percent. An empty performance table still renders the axes and the title.
func Render(w io.Writer, perf *engagement.Performance, opts Options) error {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Ticks <= 0 {
		opts.Ticks = 8
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, opts.Title, "", 1, "C", false, 0, "")

	plot := area{x: left, y: top, w: pageWidth - left - right, h: pageHeight - top - bottom}
	lo, hi := bounds(perf)
	plot.yAxis(pdf, lo, hi, opts.Ticks)
	plot.xAxis(pdf, perf)

	strategy := make([]float64, len(perf.Rows))
	benchmark := make([]float64, len(perf.Rows))
	for i, row := range perf.Rows {
		strategy[i], benchmark[i] = row.PortfolioCumulative, row.BenchmarkCumulative
	}
	plot.line(pdf, strategy, lo, hi, strategyColor)
	plot.line(pdf, benchmark, lo, hi, benchmarkColor)

	name := perf.Benchmark
	if name == "" {
		name = "Benchmark"
	}
	plot.legend(pdf, []string{"Strategy", name}, []rgb{strategyColor, benchmarkColor})

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("drawing chart: %w", err)
	}
	return pdf.Output(w)
}

// bounds returns the y range of the chart, always including 0.
func bounds(perf *engagement.Performance) (lo, hi float64) {
	for _, row := range perf.Rows {
		for _, v := range []float64{row.PortfolioCumulative, row.BenchmarkCumulative} {
			if math.IsNaN(v) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if hi-lo < 0.01 {
		lo, hi = lo-0.01, hi+0.01
	}
	margin := (hi - lo) * 0.05
	return lo - margin, hi + margin
}

type area struct{ x, y, w, h float64 }

// ypos maps a value to the page coordinate.
func (a area) ypos(v, lo, hi float64) float64 { return a.y + a.h*(hi-v)/(hi-lo) }

func (a area) yAxis(pdf *fpdf.Fpdf, lo, hi float64, ticks int) {
	pdf.SetFont("Arial", "", 8)
	pdf.SetLineWidth(0.1)
	step := (hi - lo) / float64(ticks)
	for i := 0; i <= ticks; i++ {
		v := lo + float64(i)*step
		y := a.ypos(v, lo, hi)
		pdf.SetDrawColor(gridColor.r, gridColor.g, gridColor.b)
		pdf.Line(a.x, y, a.x+a.w, y)
		label := fmt.Sprintf("%.0f%%", float64(engagement.PercentOf(v)))
		pdf.Text(a.x-2-pdf.GetStringWidth(label), y+1, label)
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(a.x, a.y, a.x, a.y+a.h)
	if lo < 0 && hi > 0 {
		zero := a.ypos(0, lo, hi)
		pdf.Line(a.x, zero, a.x+a.w, zero)
	}
	pdf.TransformBegin()
	pdf.TransformRotate(90, 8, a.y+a.h/2)
	pdf.Text(8, a.y+a.h/2, "Cumulative Return")
	pdf.TransformEnd()
}

// xAxis labels the first day of each month, at most 12 labels.
func (a area) xAxis(pdf *fpdf.Fpdf, perf *engagement.Performance) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(a.x, a.y+a.h, a.x+a.w, a.y+a.h)
	pdf.SetFont("Arial", "", 8)

	n := len(perf.Rows)
	var marks []int
	for i, row := range perf.Rows {
		if i == 0 || row.Date.Month() != perf.Rows[i-1].Date.Month() {
			marks = append(marks, i)
		}
	}
	every := len(marks)/12 + 1
	for k, i := range marks {
		if k%every != 0 {
			continue
		}
		x := a.xpos(i, n)
		pdf.Line(x, a.y+a.h, x, a.y+a.h+1.5)
		label := perf.Rows[i].Date.Format("Jan 2006")
		pdf.Text(x-pdf.GetStringWidth(label)/2, a.y+a.h+5, label)
	}
	label := "Date"
	pdf.Text(a.x+a.w/2-pdf.GetStringWidth(label)/2, a.y+a.h+12, label)
}

func (a area) xpos(i, n int) float64 {
	if n <= 1 {
		return a.x
	}
	return a.x + a.w*float64(i)/float64(n-1)
}

// line draws values as a polyline, breaking it on NaN.
func (a area) line(pdf *fpdf.Fpdf, values []float64, lo, hi float64, c rgb) {
	pdf.SetDrawColor(c.r, c.g, c.b)
	pdf.SetLineWidth(0.4)
	for i := 1; i < len(values); i++ {
		if math.IsNaN(values[i-1]) || math.IsNaN(values[i]) {
			continue
		}
		pdf.Line(a.xpos(i-1, len(values)), a.ypos(values[i-1], lo, hi), a.xpos(i, len(values)), a.ypos(values[i], lo, hi))
	}
}

func (a area) legend(pdf *fpdf.Fpdf, names []string, colors []rgb) {
	pdf.SetFont("Arial", "", 9)
	x, y := a.x+5, a.y+5
	for i, name := range names {
		dy := y + float64(i)*5
		pdf.SetDrawColor(colors[i].r, colors[i].g, colors[i].b)
		pdf.SetLineWidth(0.8)
		pdf.Line(x, dy-1, x+8, dy-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(x+10, dy, name)
	}
}

// Package chart renders frequency distributions and timelines as PNG bar
// charts.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mrsinham/rdsrsummary/internal/report"
)

const (
	chartWidth  = 900
	chartHeight = 520

	marginLeft   = 70
	marginRight  = 30
	marginTop    = 50
	marginBottom = 60
)

var (
	background = color.RGBA{255, 255, 255, 255}
	axisColor  = color.RGBA{60, 60, 60, 255}
	barColor   = color.RGBA{70, 130, 180, 255}
	textColor  = color.RGBA{30, 30, 30, 255}
)

// RenderHistogram draws a histogram as a PNG bar chart at path. The caller
// is expected to have handled report.ErrInsufficientData already; an empty
// histogram here is a programmer error and yields an error, not a blank
// chart.
func RenderHistogram(h report.Histogram, path string) error {
	if len(h.Counts) == 0 {
		return fmt.Errorf("histogram for %s has no bins", h.Field)
	}

	title := fmt.Sprintf("Histogram of %s (n=%d", h.Field, h.Total())
	if h.Excluded > 0 {
		title += fmt.Sprintf(", %d excluded", h.Excluded)
	}
	title += ")"

	labels := make([]string, len(h.Counts))
	for i := range h.Counts {
		labels[i] = formatEdge(h.Edges[i])
	}

	return renderBars(path, title, labels, h.Counts)
}

// RenderTimeline draws per-day exposure counts as a PNG bar chart at path.
func RenderTimeline(points []report.DateCount, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("no dated exposures to plot")
	}

	labels := make([]string, len(points))
	counts := make([]int, len(points))
	for i, p := range points {
		labels[i] = p.Date.Format("2006-01-02")
		counts[i] = p.Count
	}

	return renderBars(path, "Exposure count over time", labels, counts)
}

// renderBars draws one bar per count, with sparse x labels and count labels
// above each non-empty bar.
func renderBars(path, title string, labels []string, counts []int) error {
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	fill(img, background)

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	plotW := chartWidth - marginLeft - marginRight
	plotH := chartHeight - marginTop - marginBottom
	baseline := marginTop + plotH

	drawString(img, marginLeft, marginTop/2, title)

	// Axes.
	hline(img, marginLeft, marginLeft+plotW, baseline, axisColor)
	vline(img, marginLeft, marginTop, baseline, axisColor)

	// Y axis reference labels: 0, max/2, max.
	drawString(img, 8, baseline, "0")
	drawString(img, 8, marginTop+plotH/2, strconv.Itoa(maxCount/2))
	drawString(img, 8, marginTop, strconv.Itoa(maxCount))

	barSlot := plotW / len(counts)
	gap := barSlot / 8
	if gap < 1 {
		gap = 1
	}

	// Label at most ~8 bars to keep the axis readable.
	labelEvery := 1
	if len(labels) > 8 {
		labelEvery = (len(labels) + 7) / 8
	}

	for i, c := range counts {
		x0 := marginLeft + i*barSlot + gap
		x1 := marginLeft + (i+1)*barSlot - gap
		barH := int(float64(plotH) * float64(c) / float64(maxCount))
		rect(img, x0, baseline-barH, x1, baseline, barColor)

		if c > 0 {
			drawString(img, x0, baseline-barH-4, strconv.Itoa(c))
		}
		if i%labelEvery == 0 {
			drawString(img, x0, baseline+16, labels[i])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// drawString renders text with the fixed 7x13 face, baseline at (x, y).
func drawString(img *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func rect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func hline(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x, y, c)
	}
}

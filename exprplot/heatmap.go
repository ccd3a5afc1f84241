package exprplot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/andrewsu/ABCB/expr"
)

var missingGray = color.NRGBA{R: 190, G: 190, B: 190, A: 255}

// Heatmap draws the matrix as a color grid, one cell per measurement, rows
// in matrix order. Values ramp from blue through white to red across the
// observed range; missing cells are gray. Callers that want a particular
// row order (say, by p-value) subset the matrix first.
func Heatmap(w io.Writer, m *expr.Matrix, cellWidth, cellHeight int) error {
	if m.NRows() == 0 || m.NCols() == 0 {
		return fmt.Errorf("exprplot: cannot draw an empty matrix")
	}
	if cellWidth < 1 || cellHeight < 1 {
		return fmt.Errorf("exprplot: cell size must be positive, got %dx%d", cellWidth, cellHeight)
	}

	found := false
	var min, max float64
	for _, row := range m.Data {
		for _, v := range row {
			if expr.IsMissing(v) {
				continue
			}
			if !found || v < min {
				min = v
			}
			if !found || v > max {
				max = v
			}
			found = true
		}
	}
	if !found {
		return fmt.Errorf("exprplot: the matrix has no finite values")
	}
	if min == max {
		max = min + 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, cellWidth*m.NCols(), cellHeight*m.NRows()))

	for i, row := range m.Data {
		for j, v := range row {
			cell := missingGray
			if !expr.IsMissing(v) {
				cell = rampColor((v - min) / (max - min))
			}

			for ymul := 0; ymul < cellHeight; ymul++ {
				for xmul := 0; xmul < cellWidth; xmul++ {
					img.Set(j*cellWidth+xmul, i*cellHeight+ymul, cell)
				}
			}
		}
	}

	return png.Encode(w, img)
}

// rampColor maps t in [0,1] onto a blue-white-red ramp.
func rampColor(t float64) color.NRGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	if t < 0.5 {
		f := uint8(255 * (t * 2))
		return color.NRGBA{R: f, G: f, B: 255, A: 255}
	}

	f := uint8(255 * (2 - t*2))
	return color.NRGBA{R: 255, G: f, B: f, A: 255}
}

package exprplot

import (
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/pfx"
	hist2 "github.com/grd/histogram"
	"github.com/wcharczuk/go-chart/v2"
)

// Histogram bins the finite values and renders one bar per bin. Missing
// values are ignored.
func Histogram(w io.Writer, vals []float64, nBins int, title string) error {
	if nBins < 1 {
		return fmt.Errorf("exprplot: need at least one histogram bin, got %d", nBins)
	}

	finite := dropMissing(vals)
	if len(finite) == 0 {
		return fmt.Errorf("exprplot: no plottable values")
	}

	min, max := finite[0], finite[0]
	for _, v := range finite {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		max = min + 1
	}

	// Widen the spread slightly so the largest value lands inside the last
	// bin instead of on its open upper edge.
	width := (max - min) * (1 + 1e-9) / float64(nBins)

	hg, err := hist2.NewHistogram(hist2.Range(min, uint(nBins), width))
	if err != nil {
		return pfx.Err(err)
	}
	for _, v := range finite {
		hg.Add(v)
	}

	// Labeling every bin would be unreadable beyond a handful of bins.
	labelEvery := 1 + nBins/8

	bars := make([]chart.Value, nBins)
	for i := 0; i < nBins; i++ {
		label := ""
		if i%labelEvery == 0 {
			label = strconv.FormatFloat(min+(float64(i)+0.5)*width, 'g', 3, 64)
		}
		bars[i] = chart.Value{Value: float64(hg.Get(i)), Label: label}
	}

	const barWidth, barSpacing = 14, 4

	graph := chart.BarChart{
		Title:        title,
		Width:        len(bars)*(barWidth+barSpacing) + 80,
		Height:       400,
		BarWidth:     barWidth,
		BarSpacing:   barSpacing,
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}

	return graph.Render(chart.PNG, w)
}

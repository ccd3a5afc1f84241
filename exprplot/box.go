package exprplot

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/andrewsu/ABCB/expr"
	"github.com/montanaflynn/stats"
	"github.com/wcharczuk/go-chart/v2"
)

// Box is a five-number summary with Tukey fences: the whiskers reach the
// most extreme values within 1.5 IQR of the quartiles, and everything
// beyond them is an outlier.
type Box struct {
	Label    string
	N        int
	Low      float64
	Q1       float64
	Median   float64
	Q3       float64
	High     float64
	Outliers []float64
}

// BoxStats summarizes one group of values. Missing values are dropped
// first, the same way R's boxplot drops NA before drawing.
func BoxStats(label string, vals []float64) (Box, error) {
	finite := dropMissing(vals)
	if len(finite) == 0 {
		return Box{}, fmt.Errorf("exprplot: %s has no plottable values", label)
	}

	if len(finite) == 1 {
		v := finite[0]
		return Box{Label: label, N: 1, Low: v, Q1: v, Median: v, Q3: v, High: v}, nil
	}

	quartiles, err := stats.Quartile(finite)
	if err != nil {
		return Box{}, err
	}

	iqr := quartiles.Q3 - quartiles.Q1
	loFence := quartiles.Q1 - 1.5*iqr
	hiFence := quartiles.Q3 + 1.5*iqr

	box := Box{
		Label:  label,
		N:      len(finite),
		Q1:     quartiles.Q1,
		Median: quartiles.Q2,
		Q3:     quartiles.Q3,
		Low:    math.Inf(1),
		High:   math.Inf(-1),
	}

	for _, v := range finite {
		if v < loFence || v > hiFence {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		if v < box.Low {
			box.Low = v
		}
		if v > box.High {
			box.High = v
		}
	}
	sort.Float64s(box.Outliers)

	return box, nil
}

// GroupBoxStats builds one Box per group label for a single probe's row,
// in the annotation's label order.
func GroupBoxStats(m *expr.Matrix, ann *expr.Annotation, probe string) ([]Box, error) {
	row, ok := m.Row(probe)
	if !ok {
		return nil, fmt.Errorf("exprplot: no row %q in matrix", probe)
	}

	colLabels, err := ann.Align(m)
	if err != nil {
		return nil, err
	}

	var boxes []Box
	for _, group := range ann.Labels() {
		var vals []float64
		for j, label := range colLabels {
			if label == group {
				vals = append(vals, row[j])
			}
		}

		box, err := BoxStats(group, vals)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}

	return boxes, nil
}

// Boxes renders one box-and-whisker glyph per group.
func Boxes(w io.Writer, boxes []Box, title string) error {
	if len(boxes) == 0 {
		return fmt.Errorf("exprplot: no boxes to draw")
	}

	var series []chart.Series
	ticks := make([]chart.Tick, 0, len(boxes))
	yLo, yHi := math.Inf(1), math.Inf(-1)

	grow := func(vals ...float64) {
		for _, v := range vals {
			if v < yLo {
				yLo = v
			}
			if v > yHi {
				yHi = v
			}
		}
	}

	for i, b := range boxes {
		x := float64(i)
		grow(b.Low, b.High)
		grow(b.Outliers...)

		series = append(series,
			// Whisker span.
			chart.ContinuousSeries{
				XValues: []float64{x, x},
				YValues: []float64{b.Low, b.High},
				Style:   chart.Style{StrokeWidth: 1.5, StrokeColor: chart.ColorBlack},
			},
			// Interquartile box.
			chart.ContinuousSeries{
				XValues: []float64{x, x},
				YValues: []float64{b.Q1, b.Q3},
				Style:   chart.Style{StrokeWidth: 18, StrokeColor: chart.ColorBlue},
			},
			// Median bar.
			chart.ContinuousSeries{
				XValues: []float64{x - 0.18, x + 0.18},
				YValues: []float64{b.Median, b.Median},
				Style:   chart.Style{StrokeWidth: 2.5, StrokeColor: chart.ColorBlack},
			},
		)

		if len(b.Outliers) > 0 {
			xs := make([]float64, len(b.Outliers))
			for k := range xs {
				xs[k] = x
			}
			series = append(series, chart.ContinuousSeries{
				XValues: padSingle(xs),
				YValues: padSingle(b.Outliers),
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    3,
					DotColor:    chart.ColorRed,
				},
			})
		}

		ticks = append(ticks, chart.Tick{Value: x, Label: b.Label})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  defaultWidth,
		Height: defaultHeight,
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(boxes)) - 0.5},
		},
		YAxis: chart.YAxis{
			Range: paddedRange(yLo, yHi),
		},
		Series: series,
	}

	return graph.Render(chart.PNG, w)
}

package exprplot

import (
	"fmt"
	"io"
	"math"

	"github.com/andrewsu/ABCB/expr"
	"github.com/wcharczuk/go-chart/v2"
)

// Strip renders every sample's value for one probe as a dot, one column of
// dots per group. Dots inside a group fan out horizontally in sample order,
// so ties stay visible and the layout is identical between runs.
func Strip(w io.Writer, m *expr.Matrix, ann *expr.Annotation, probe, title string) error {
	row, ok := m.Row(probe)
	if !ok {
		return fmt.Errorf("exprplot: no row %q in matrix", probe)
	}

	colLabels, err := ann.Align(m)
	if err != nil {
		return err
	}

	groups := ann.Labels()

	var series []chart.Series
	ticks := make([]chart.Tick, 0, len(groups))
	yLo, yHi := math.Inf(1), math.Inf(-1)

	for gi, group := range groups {
		x := float64(gi)
		ticks = append(ticks, chart.Tick{Value: x, Label: group})

		var ys []float64
		for j, label := range colLabels {
			if label != group || expr.IsMissing(row[j]) {
				continue
			}
			ys = append(ys, row[j])
		}
		if len(ys) == 0 {
			continue
		}

		xs := make([]float64, len(ys))
		step := 0.5 / float64(len(ys))
		for k := range xs {
			xs[k] = x + step*(float64(k)-float64(len(ys)-1)/2)
		}

		for _, v := range ys {
			yLo = math.Min(yLo, v)
			yHi = math.Max(yHi, v)
		}

		series = append(series, chart.ContinuousSeries{
			Name:    group,
			XValues: padSingle(xs),
			YValues: padSingle(ys),
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
			},
		})
	}

	if len(series) == 0 {
		return fmt.Errorf("exprplot: %q has no plottable values", probe)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  defaultWidth,
		Height: defaultHeight,
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(groups)) - 0.5},
		},
		YAxis: chart.YAxis{
			Range: paddedRange(yLo, yHi),
		},
		Series: series,
	}

	return graph.Render(chart.PNG, w)
}

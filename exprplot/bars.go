package exprplot

import (
	"fmt"
	"io"
	"math"

	"github.com/andrewsu/ABCB/dge"
	"github.com/wcharczuk/go-chart/v2"
)

// GroupBars renders one bar per group summary, with whiskers one standard
// error of the mean above and below each bar top. Summaries whose mean is
// undefined keep their axis slot but draw nothing; summaries without a
// defined SEM draw a bare bar.
func GroupBars(w io.Writer, sums []dge.GroupSummary, title string) error {
	if len(sums) == 0 {
		return fmt.Errorf("exprplot: no group summaries to draw")
	}

	sameProbe := true
	for _, s := range sums {
		if s.Probe != sums[0].Probe {
			sameProbe = false
			break
		}
	}

	var series []chart.Series
	ticks := make([]chart.Tick, 0, len(sums))
	yLo, yHi := 0.0, 0.0

	for i, s := range sums {
		x := float64(i)

		label := s.Group
		if !sameProbe {
			label = s.Probe + " " + s.Group
		}
		ticks = append(ticks, chart.Tick{Value: x, Label: label})

		if math.IsNaN(s.Mean) {
			continue
		}

		yLo = math.Min(yLo, s.Mean)
		yHi = math.Max(yHi, s.Mean)

		series = append(series, chart.ContinuousSeries{
			XValues: []float64{x, x},
			YValues: []float64{0, s.Mean},
			Style:   chart.Style{StrokeWidth: 18, StrokeColor: chart.ColorBlue},
		})

		if math.IsNaN(s.SEM) || s.SEM == 0 {
			continue
		}

		lo, hi := s.Mean-s.SEM, s.Mean+s.SEM
		yLo = math.Min(yLo, lo)
		yHi = math.Max(yHi, hi)

		series = append(series,
			chart.ContinuousSeries{
				XValues: []float64{x, x},
				YValues: []float64{lo, hi},
				Style:   chart.Style{StrokeWidth: 1.5, StrokeColor: chart.ColorBlack},
			},
			chart.ContinuousSeries{
				XValues: []float64{x - 0.1, x + 0.1},
				YValues: []float64{lo, lo},
				Style:   chart.Style{StrokeWidth: 1.5, StrokeColor: chart.ColorBlack},
			},
			chart.ContinuousSeries{
				XValues: []float64{x - 0.1, x + 0.1},
				YValues: []float64{hi, hi},
				Style:   chart.Style{StrokeWidth: 1.5, StrokeColor: chart.ColorBlack},
			},
		)
	}

	if len(series) == 0 {
		return fmt.Errorf("exprplot: every group summary is undefined")
	}

	graph := chart.Chart{
		Title:  title,
		Width:  defaultWidth,
		Height: defaultHeight,
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(sums)) - 0.5},
		},
		YAxis: chart.YAxis{
			Range: paddedRange(yLo, yHi),
		},
		Series: series,
	}

	return graph.Render(chart.PNG, w)
}

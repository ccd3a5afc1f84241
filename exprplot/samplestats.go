// Package exprplot renders the standard diagnostic views of an expression
// analysis: per-sample quality summaries, group bar charts with standard
// error whiskers, strip and box plots, value histograms, and matrix
// heatmaps. Every renderer writes PNG bytes to an io.Writer, so callers
// decide about files.
package exprplot

import (
	"math"

	"github.com/andrewsu/ABCB/expr"
	"github.com/carbocation/runningvariance"
)

// SampleStat is a per-sample quality summary across all probes. SD is NaN
// when fewer than two measurements exist, matching the group summaries
// downstream.
type SampleStat struct {
	Sample  string
	N       int
	Missing int
	Mean    float64
	SD      float64
	Min     float64
	Max     float64
}

type colStat struct {
	runningvariance.RunningStat
	Min     float64
	Max     float64
	Missing int
}

func newColStat() *colStat {
	return &colStat{
		RunningStat: *runningvariance.NewRunningStat(),
		Min:         math.MaxFloat64,
		Max:         -math.MaxFloat64,
	}
}

func (c *colStat) push(x float64) {
	if expr.IsMissing(x) {
		c.Missing++
		return
	}

	c.Push(x)
	if x < c.Min {
		c.Min = x
	}
	if x > c.Max {
		c.Max = x
	}
}

// SampleStats sweeps the matrix once, accumulating running moments per
// column, which stays cheap on tables with tens of thousands of rows.
func SampleStats(m *expr.Matrix) []SampleStat {
	cols := make([]*colStat, m.NCols())
	for j := range cols {
		cols[j] = newColStat()
	}

	for _, row := range m.Data {
		for j, v := range row {
			cols[j].push(v)
		}
	}

	out := make([]SampleStat, m.NCols())
	for j, c := range cols {
		st := SampleStat{Sample: m.Samples[j], N: int(c.N), Missing: c.Missing}

		switch {
		case c.N == 0:
			st.Mean, st.SD = math.NaN(), math.NaN()
			st.Min, st.Max = math.NaN(), math.NaN()
		case c.N == 1:
			st.Mean = c.Mean()
			st.SD = math.NaN()
			st.Min, st.Max = c.Min, c.Max
		default:
			st.Mean = c.Mean()
			st.SD = c.StandardDeviation()
			st.Min, st.Max = c.Min, c.Max
		}

		out[j] = st
	}

	return out
}

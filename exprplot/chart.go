package exprplot

import (
	"github.com/andrewsu/ABCB/expr"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
)

func dropMissing(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !expr.IsMissing(v) {
			out = append(out, v)
		}
	}

	return out
}

// padSingle duplicates a lone point. go-chart draws series as lines between
// points, and a one-point series would otherwise have nothing to draw.
func padSingle(vals []float64) []float64 {
	if len(vals) != 1 {
		return vals
	}

	return []float64{vals[0], vals[0]}
}

// paddedRange widens the observed value range by 5% on each side so glyphs
// at the extremes are not clipped by the plot frame.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if hi < lo {
		lo, hi = hi, lo
	}

	span := hi - lo
	if span == 0 {
		span = 1
	}

	return &chart.ContinuousRange{Min: lo - 0.05*span, Max: hi + 0.05*span}
}

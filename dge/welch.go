package dge

import (
	"fmt"
	"math"
	"sort"

	"github.com/andrewsu/ABCB/expr"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TestResult is the outcome of one per-probe differential-expression test.
// P is the two-sided p-value, or NaN when the test is undefined for that
// row (too few measurements, or no variance in either group).
type TestResult struct {
	Probe string
	T     float64
	DF    float64
	P     float64
}

// Welch runs an unpaired two-sample Welch t-test, which does not assume
// equal variances. It returns the t statistic, the Welch-Satterthwaite
// degrees of freedom, and the two-sided p-value from the t distribution.
// All three are NaN when either group has fewer than two values or both
// groups are constant; a t statistic without a standard error is not a
// number worth reporting.
func Welch(a, b []float64) (t, df, p float64) {
	t, df, p = math.NaN(), math.NaN(), math.NaN()

	if len(a) < 2 || len(b) < 2 {
		return t, df, p
	}

	na, nb := float64(len(a)), float64(len(b))
	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)

	// Squared standard errors of the two means. A zero standard error means
	// both groups are constant; NaN means a missing value slipped through.
	// Neither supports a t statistic.
	seA, seB := varA/na, varB/nb
	se2 := seA + seB
	if se2 == 0 || math.IsNaN(se2) {
		return t, df, p
	}

	t = (meanA - meanB) / math.Sqrt(se2)
	df = se2 * se2 / (seA*seA/(na-1) + seB*seB/(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.Survival(math.Abs(t))

	return t, df, p
}

// WelchAll tests every matrix row for a difference in means between the
// columns labeled groupA and the columns labeled groupB. Rows where the
// test is undefined are reported with NaN statistics rather than dropped,
// so the result always has exactly one entry per matrix row, in row order.
func WelchAll(m *expr.Matrix, ann *expr.Annotation, groupA, groupB string) ([]TestResult, error) {
	if groupA == groupB {
		return nil, fmt.Errorf("dge: cannot compare group %q against itself", groupA)
	}

	colLabels, err := ann.Align(m)
	if err != nil {
		return nil, err
	}
	if err := validateGroups(ann, []string{groupA, groupB}); err != nil {
		return nil, err
	}

	var colsA, colsB []int
	for j, label := range colLabels {
		switch label {
		case groupA:
			colsA = append(colsA, j)
		case groupB:
			colsB = append(colsB, j)
		}
	}

	out := make([]TestResult, len(m.Probes))
	xa := make([]float64, len(colsA))
	xb := make([]float64, len(colsB))

	for i, probe := range m.Probes {
		for k, j := range colsA {
			xa[k] = m.Data[i][j]
		}
		for k, j := range colsB {
			xb[k] = m.Data[i][j]
		}

		t, df, p := Welch(xa, xb)
		out[i] = TestResult{Probe: probe, T: t, DF: df, P: p}
	}

	return out, nil
}

// SortByP orders results by ascending p-value. Undefined tests sort last,
// and ties fall back to the probe id so the order is fully deterministic.
func SortByP(results []TestResult) {
	sort.SliceStable(results, func(i, j int) bool {
		pi, pj := results[i].P, results[j].P

		switch {
		case math.IsNaN(pi) && math.IsNaN(pj):
			return results[i].Probe < results[j].Probe
		case math.IsNaN(pi):
			return false
		case math.IsNaN(pj):
			return true
		case pi != pj:
			return pi < pj
		default:
			return results[i].Probe < results[j].Probe
		}
	})
}

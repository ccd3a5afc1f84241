// Package enrich tests whether a set of probes of interest is
// over-represented among the significant rows of a differential-expression
// run, using Fisher's exact test on the 2x2 significance-by-membership
// table.
package enrich

import (
	"fmt"
	"math"

	"github.com/andrewsu/ABCB/dge"
	fet "github.com/glycerine/golang-fisher-exact"
)

// Result is one over-representation test.
//
//	               significant   not significant
//	in set             N11            N21
//	outside set        N12            N22
//
// Universe counts only rows with a defined p-value; untestable rows carry
// no evidence in either direction and are left out entirely.
type Result struct {
	Universe int
	Alpha    float64

	N11 int // in set, significant
	N12 int // outside set, significant
	N21 int // in set, not significant
	N22 int // outside set, not significant

	OddsRatio float64
	P         float64 // two-sided Fisher exact p-value
}

// Overrep tallies results against a probe set of interest at significance
// cutoff alpha and runs the exact test. Probes in the set that never appear
// in results are ignored: they were not part of the experiment.
func Overrep(results []dge.TestResult, set map[string]bool, alpha float64) (Result, error) {
	if alpha <= 0 || alpha >= 1 {
		return Result{}, fmt.Errorf("enrich: alpha must be in (0,1), got %v", alpha)
	}
	if len(set) == 0 {
		return Result{}, fmt.Errorf("enrich: the probe set is empty")
	}

	out := Result{Alpha: alpha}

	for _, res := range results {
		if math.IsNaN(res.P) {
			continue
		}
		out.Universe++

		significant := res.P < alpha
		switch {
		case set[res.Probe] && significant:
			out.N11++
		case set[res.Probe]:
			out.N21++
		case significant:
			out.N12++
		default:
			out.N22++
		}
	}

	if out.Universe == 0 {
		return Result{}, fmt.Errorf("enrich: no row has a defined p-value")
	}
	if out.N11+out.N21 == 0 {
		return Result{}, fmt.Errorf("enrich: no probe from the set was testable")
	}

	out.OddsRatio = oddsRatio(out.N11, out.N12, out.N21, out.N22)

	_, _, _, twop := fet.FisherExactTest(out.N11, out.N12, out.N21, out.N22)
	out.P = twop

	return out, nil
}

// oddsRatio is the sample odds ratio (N11*N22)/(N12*N21). A zero
// denominator with a nonzero numerator is reported as +Inf; 0/0 is NaN.
func oddsRatio(n11, n12, n21, n22 int) float64 {
	num := float64(n11) * float64(n22)
	den := float64(n12) * float64(n21)

	if den == 0 {
		if num == 0 {
			return math.NaN()
		}
		return math.Inf(1)
	}

	return num / den
}

func (r Result) String() string {
	return fmt.Sprintf("%d/%d in-set probes significant at alpha=%v vs %d/%d outside (odds ratio %.3g, Fisher two-sided p=%.3g)",
		r.N11, r.N11+r.N21, r.Alpha, r.N12, r.N12+r.N22, r.OddsRatio, r.P)
}

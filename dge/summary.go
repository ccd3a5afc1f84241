// Package dge computes group-level summaries and differential-expression
// tests over cleaned, log-scaled expression matrices. Results come back in
// a stable order (matrix row order, then requested group order) so that
// repeated runs of a pipeline produce identical output files.
package dge

import (
	"fmt"
	"math"

	"github.com/andrewsu/ABCB/expr"
	"gonum.org/v1/gonum/stat"
)

// GroupSummary describes the expression of one probe within one sample
// group. SD is the sample standard deviation (n-1 denominator) and SEM is
// SD/sqrt(n). Groups with fewer than two measurements have no spread, so SD
// and SEM are NaN there; the row is still reported.
type GroupSummary struct {
	Probe string
	Group string
	N     int
	Mean  float64
	SD    float64
	SEM   float64
}

// Summarize computes N, mean, SD, and SEM for every matrix row within every
// requested group. With no explicit groups it covers all of the
// annotation's labels in first-seen order. The annotation must cover the
// matrix columns exactly.
func Summarize(m *expr.Matrix, ann *expr.Annotation, groups ...string) ([]GroupSummary, error) {
	colLabels, err := ann.Align(m)
	if err != nil {
		return nil, err
	}

	if len(groups) == 0 {
		groups = ann.Labels()
	} else if err := validateGroups(ann, groups); err != nil {
		return nil, err
	}

	out := make([]GroupSummary, 0, len(m.Probes)*len(groups))
	vals := make([]float64, 0, len(m.Samples))

	for i, probe := range m.Probes {
		for _, group := range groups {
			vals = vals[:0]
			for j, label := range colLabels {
				if label == group {
					vals = append(vals, m.Data[i][j])
				}
			}
			out = append(out, summarize(probe, group, vals))
		}
	}

	return out, nil
}

func summarize(probe, group string, vals []float64) GroupSummary {
	gs := GroupSummary{Probe: probe, Group: group, N: len(vals)}

	switch len(vals) {
	case 0:
		gs.Mean = math.NaN()
		gs.SD = math.NaN()
		gs.SEM = math.NaN()
	case 1:
		gs.Mean = vals[0]
		gs.SD = math.NaN()
		gs.SEM = math.NaN()
	default:
		gs.Mean, gs.SD = stat.MeanStdDev(vals, nil)
		gs.SEM = stat.StdErr(gs.SD, float64(len(vals)))
	}

	return gs
}

func validateGroups(ann *expr.Annotation, groups []string) error {
	known := make(map[string]struct{})
	for _, label := range ann.Labels() {
		known[label] = struct{}{}
	}

	seen := make(map[string]struct{}, len(groups))
	for _, group := range groups {
		if _, ok := known[group]; !ok {
			return fmt.Errorf("dge: annotation has no group %q", group)
		}
		if _, dup := seen[group]; dup {
			return fmt.Errorf("dge: group %q requested twice", group)
		}
		seen[group] = struct{}{}
	}

	return nil
}

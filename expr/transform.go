package expr

import (
	"fmt"
	"math"
)

// DomainError reports a cell whose value lies outside the domain of a
// requested transform, identified by its probe and sample ids.
type DomainError struct {
	Probe  string
	Sample string
	Value  float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("expr: log2 is undefined for %v (probe %s, sample %s)", e.Value, e.Probe, e.Sample)
}

// Log2 returns a new matrix with every measurement replaced by its base-2
// logarithm. Missing cells stay missing. Any present value at or below zero
// aborts the whole transform with a *DomainError naming the offending cell;
// expression intensities are expected to be strictly positive, so such a
// value means the wrong preprocessing was applied upstream.
func (m *Matrix) Log2() (*Matrix, error) {
	data := make([][]float64, len(m.Data))

	for i, row := range m.Data {
		out := make([]float64, len(row))
		for j, v := range row {
			if IsMissing(v) {
				out[j] = v
				continue
			}
			if v <= 0 {
				return nil, &DomainError{Probe: m.Probes[i], Sample: m.Samples[j], Value: v}
			}
			out[j] = math.Log2(v)
		}
		data[i] = out
	}

	return &Matrix{Probes: m.Probes, Samples: m.Samples, Data: data}, nil
}

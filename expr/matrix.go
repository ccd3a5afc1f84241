// Package expr models gene-expression matrices and the sample annotations
// that group their columns. Missing measurements are carried as NaN so that
// arithmetic propagates them instead of quietly treating them as zero; use
// IsMissing rather than comparing against NaN directly.
//
// Matrices are treated as immutable: every operation that changes the data
// returns a freshly allocated Matrix and leaves its receiver alone.
package expr

import (
	"fmt"
	"math"
)

// IsMissing reports whether a cell holds no usable measurement.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Matrix is a rectangular gene-expression table with one row per probe set
// and one column per sample. Row and column identifiers are unique. Data is
// row-major: Data[i][j] is the measurement of probe Probes[i] in sample
// Samples[j].
type Matrix struct {
	Probes  []string
	Samples []string
	Data    [][]float64
}

// NewMatrix validates the shape of the inputs and wraps them in a Matrix.
// The slices are retained, not copied; the caller must not modify them
// afterwards.
func NewMatrix(probes, samples []string, data [][]float64) (*Matrix, error) {
	if len(data) != len(probes) {
		return nil, fmt.Errorf("expr: %d probe ids but %d data rows", len(probes), len(data))
	}

	seenProbe := make(map[string]struct{}, len(probes))
	for _, p := range probes {
		if _, exists := seenProbe[p]; exists {
			return nil, fmt.Errorf("expr: duplicate probe id %q", p)
		}
		seenProbe[p] = struct{}{}
	}

	seenSample := make(map[string]struct{}, len(samples))
	for _, s := range samples {
		if _, exists := seenSample[s]; exists {
			return nil, fmt.Errorf("expr: duplicate sample id %q", s)
		}
		seenSample[s] = struct{}{}
	}

	for i, row := range data {
		if len(row) != len(samples) {
			return nil, fmt.Errorf("expr: row %q has %d values, want %d", probes[i], len(row), len(samples))
		}
	}

	return &Matrix{Probes: probes, Samples: samples, Data: data}, nil
}

// NRows returns the number of probe rows.
func (m *Matrix) NRows() int {
	return len(m.Probes)
}

// NCols returns the number of sample columns.
func (m *Matrix) NCols() int {
	return len(m.Samples)
}

// Row returns the data row for a probe id. The slice is the matrix's own
// storage and must not be modified.
func (m *Matrix) Row(probe string) ([]float64, bool) {
	for i, p := range m.Probes {
		if p == probe {
			return m.Data[i], true
		}
	}

	return nil, false
}

// Subset returns a new matrix holding only the requested probes, in the
// requested order. Every probe must be present exactly once.
func (m *Matrix) Subset(probes []string) (*Matrix, error) {
	rowFor := make(map[string]int, len(m.Probes))
	for i, p := range m.Probes {
		rowFor[p] = i
	}

	requested := make(map[string]struct{}, len(probes))
	data := make([][]float64, 0, len(probes))
	kept := make([]string, 0, len(probes))

	for _, p := range probes {
		if _, dup := requested[p]; dup {
			return nil, fmt.Errorf("expr: probe %q requested twice", p)
		}
		requested[p] = struct{}{}

		i, ok := rowFor[p]
		if !ok {
			return nil, fmt.Errorf("expr: no row %q in matrix", p)
		}

		row := make([]float64, len(m.Data[i]))
		copy(row, m.Data[i])
		data = append(data, row)
		kept = append(kept, p)
	}

	return &Matrix{Probes: kept, Samples: m.Samples, Data: data}, nil
}

package expr

// Clean returns a new matrix without any row that contains a missing cell.
// Surviving rows keep their original order and values. A matrix where every
// row has a gap cleans to a zero-row matrix, which is still valid input for
// the downstream stages.
func (m *Matrix) Clean() *Matrix {
	probes := make([]string, 0, len(m.Probes))
	data := make([][]float64, 0, len(m.Data))

	for i, row := range m.Data {
		if CountMissing(row) > 0 {
			continue
		}

		kept := make([]float64, len(row))
		copy(kept, row)

		probes = append(probes, m.Probes[i])
		data = append(data, kept)
	}

	return &Matrix{Probes: probes, Samples: m.Samples, Data: data}
}

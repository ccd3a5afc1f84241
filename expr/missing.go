package expr

// CountMissing returns the number of missing cells in one data row.
func CountMissing(row []float64) int {
	n := 0
	for _, v := range row {
		if IsMissing(v) {
			n++
		}
	}

	return n
}

// NumMissing is CountMissing with the signature MapRows expects.
func NumMissing(row []float64) float64 {
	return float64(CountMissing(row))
}

// MissingByRow counts the missing cells of every row with an explicit scan.
// MapRows(NumMissing) computes the same vector through the row-apply path;
// the two must agree for every matrix.
func (m *Matrix) MissingByRow() []int {
	counts := make([]int, len(m.Data))
	for i, row := range m.Data {
		for _, v := range row {
			if IsMissing(v) {
				counts[i]++
			}
		}
	}

	return counts
}

// MapRows applies fn to each data row in order and collects the results.
// The row slice passed to fn is the matrix's own storage and must not be
// modified.
func (m *Matrix) MapRows(fn func(row []float64) float64) []float64 {
	out := make([]float64, len(m.Data))
	for i, row := range m.Data {
		out[i] = fn(row)
	}

	return out
}

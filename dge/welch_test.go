package dge

import (
	"math"
	"testing"

	"github.com/andrewsu/ABCB/expr"
)

func closeTo(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

// Truth values computed with R: t.test(c(1,2,3,4,5), c(2,3,4,5,6)) reports
// t = -1, df = 8, p-value = 0.3465935.
func TestWelchKnownValues(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 3, 4, 5, 6}

	tstat, df, p := Welch(a, b)

	if !closeTo(tstat, -1, 1e-12) {
		t.Errorf("t: got %v, want -1", tstat)
	}
	if !closeTo(df, 8, 1e-12) {
		t.Errorf("df: got %v, want 8", df)
	}
	if !closeTo(p, 0.3465935071, 1e-9) {
		t.Errorf("p: got %v, want 0.3465935071", p)
	}
}

// Unequal variances and group sizes exercise the Welch-Satterthwaite
// correction: t.test(c(1,2,3,4,5), c(10,20,30)) reports t = -2.9226,
// df = 2.0602.
func TestWelchUnequalVariances(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 20, 30}

	tstat, df, p := Welch(a, b)

	if !closeTo(tstat, -2.92263, 1e-4) {
		t.Errorf("t: got %v, want -2.92263", tstat)
	}
	if !closeTo(df, 2.06022, 1e-4) {
		t.Errorf("df: got %v, want 2.06022", df)
	}
	if p <= 0.08 || p >= 0.12 {
		t.Errorf("p: got %v, want a value near 0.1", p)
	}
}

// With one group constant the statistic has a closed form: for a = (5,5,5)
// and b = (1,2,3), t = 3*sqrt(3), df = 2, and the two-sided p-value is
// 1 - sqrt(27/29) = 0.03509872.
func TestWelchOneGroupConstant(t *testing.T) {
	a := []float64{5, 5, 5}
	b := []float64{1, 2, 3}

	tstat, df, p := Welch(a, b)

	if !closeTo(tstat, 3*math.Sqrt(3), 1e-9) {
		t.Errorf("t: got %v, want %v", tstat, 3*math.Sqrt(3))
	}
	if !closeTo(df, 2, 1e-9) {
		t.Errorf("df: got %v, want 2", df)
	}
	if !closeTo(p, 0.03509872, 1e-6) {
		t.Errorf("p: got %v, want 0.03509872", p)
	}
}

func TestWelchIdenticalGroups(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}

	tstat, _, p := Welch(a, a)

	if tstat != 0 {
		t.Errorf("t: got %v, want 0", tstat)
	}
	if !closeTo(p, 1, 1e-12) {
		t.Errorf("p: got %v, want 1", p)
	}
}

func TestWelchSeparatedGroups(t *testing.T) {
	a := []float64{1, 1.1, 0.9, 1.05, 0.95}
	b := []float64{10, 10.1, 9.9, 10.05, 9.95}

	tstat, _, p := Welch(a, b)

	if tstat >= 0 {
		t.Errorf("t: got %v, want a negative statistic", tstat)
	}
	if p < 0 || p >= 1e-6 {
		t.Errorf("p: got %v, want nearly zero", p)
	}
}

func TestWelchUndefinedCases(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
	}{
		{"single measurement", []float64{1}, []float64{1, 2, 3}},
		{"empty group", nil, []float64{1, 2, 3}},
		{"both constant", []float64{5, 5, 5}, []float64{5, 5, 5}},
		{"missing value present", []float64{1, math.NaN(), 3}, []float64{4, 5, 6}},
	}

	for _, test := range tests {
		tstat, df, p := Welch(test.a, test.b)
		if !math.IsNaN(tstat) || !math.IsNaN(df) || !math.IsNaN(p) {
			t.Errorf("%s: got (%v, %v, %v), want all NaN", test.name, tstat, df, p)
		}
	}
}

func welchFixture(t *testing.T) (*expr.Matrix, *expr.Annotation) {
	t.Helper()

	m, err := expr.NewMatrix(
		[]string{"up_at", "flat_at", "const_at"},
		[]string{"GSM1", "GSM2", "GSM3", "GSM4", "GSM5"},
		[][]float64{
			{1, 1.1, 0.9, 10, 10.2},
			{1, 2, 3, 2, 2.1},
			{7, 7, 7, 7, 7},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	ann, err := expr.NewAnnotation([]expr.SampleLabel{
		{Sample: "GSM1", Label: "control"},
		{Sample: "GSM2", Label: "control"},
		{Sample: "GSM3", Label: "control"},
		{Sample: "GSM4", Label: "tumor"},
		{Sample: "GSM5", Label: "tumor"},
	})
	if err != nil {
		t.Fatal(err)
	}

	return m, ann
}

func TestWelchAll(t *testing.T) {
	m, ann := welchFixture(t)

	results, err := WelchAll(m, ann, "control", "tumor")
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != m.NRows() {
		t.Fatalf("got %d results, want one per row (%d)", len(results), m.NRows())
	}
	for i, res := range results {
		if res.Probe != m.Probes[i] {
			t.Fatalf("result %d is for %q, want %q", i, res.Probe, m.Probes[i])
		}
	}

	// A strongly separated row beats a flat one.
	if !(results[0].P < results[1].P) {
		t.Errorf("expected p(up_at)=%v < p(flat_at)=%v", results[0].P, results[1].P)
	}

	// A constant row cannot be tested but must not abort the batch.
	if !math.IsNaN(results[2].P) {
		t.Errorf("const_at: got p=%v, want NaN", results[2].P)
	}
}

func TestWelchAllDeterministic(t *testing.T) {
	m, ann := welchFixture(t)

	first, err := WelchAll(m, ann, "control", "tumor")
	if err != nil {
		t.Fatal(err)
	}
	second, err := WelchAll(m, ann, "control", "tumor")
	if err != nil {
		t.Fatal(err)
	}

	for i := range first {
		same := first[i].Probe == second[i].Probe &&
			(first[i].P == second[i].P || (math.IsNaN(first[i].P) && math.IsNaN(second[i].P)))
		if !same {
			t.Fatalf("row %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestWelchAllErrors(t *testing.T) {
	m, ann := welchFixture(t)

	if _, err := WelchAll(m, ann, "control", "control"); err == nil {
		t.Error("expected an error comparing a group against itself")
	}
	if _, err := WelchAll(m, ann, "control", "stroma"); err == nil {
		t.Error("expected an error for an unknown group")
	}

	// An annotation that does not cover the matrix fails before any test runs.
	short, err := expr.NewAnnotation([]expr.SampleLabel{
		{Sample: "GSM1", Label: "control"},
		{Sample: "GSM4", Label: "tumor"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := WelchAll(m, short, "control", "tumor"); err == nil {
		t.Error("expected an error for an annotation that misses matrix samples")
	}
}

func TestSortByP(t *testing.T) {
	results := []TestResult{
		{Probe: "d_at", P: math.NaN()},
		{Probe: "c_at", P: 0.5},
		{Probe: "b_at", P: 0.001},
		{Probe: "a_at", P: math.NaN()},
		{Probe: "e_at", P: 0.5},
	}

	SortByP(results)

	want := []string{"b_at", "c_at", "e_at", "a_at", "d_at"}
	for i, probe := range want {
		if results[i].Probe != probe {
			t.Fatalf("position %d: got %q, want %q (full order %+v)", i, results[i].Probe, probe, results)
		}
	}
}

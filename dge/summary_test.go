package dge

import (
	"math"
	"testing"

	"github.com/andrewsu/ABCB/expr"
)

func summaryFixture(t *testing.T) (*expr.Matrix, *expr.Annotation) {
	t.Helper()

	m, err := expr.NewMatrix(
		[]string{"pA", "pB"},
		[]string{"s1", "s2", "s3", "s4", "s5", "s6", "s7"},
		[][]float64{
			{1, 2, 3, 10, 20, 30, 5},
			{4, 4, 4, 8, 8, 8, 6},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	ann, err := expr.NewAnnotation([]expr.SampleLabel{
		{Sample: "s1", Label: "normal"},
		{Sample: "s2", Label: "normal"},
		{Sample: "s3", Label: "normal"},
		{Sample: "s4", Label: "tumor"},
		{Sample: "s5", Label: "tumor"},
		{Sample: "s6", Label: "tumor"},
		{Sample: "s7", Label: "stroma"},
	})
	if err != nil {
		t.Fatal(err)
	}

	return m, ann
}

// For values (1,2,3): mean 2, sample SD 1, SEM 1/sqrt(3) = 0.5773503.
// For values (10,20,30): mean 20, sample SD 10, SEM 10/sqrt(3) = 5.7735027.
func TestSummarizeKnownValues(t *testing.T) {
	m, ann := summaryFixture(t)

	sums, err := Summarize(m, ann, "normal", "tumor")
	if err != nil {
		t.Fatal(err)
	}

	if got, want := len(sums), 4; got != want {
		t.Fatalf("got %d summaries, want %d", got, want)
	}

	normal := sums[0]
	if normal.Probe != "pA" || normal.Group != "normal" {
		t.Fatalf("first summary is %s/%s, want pA/normal", normal.Probe, normal.Group)
	}
	if normal.N != 3 {
		t.Errorf("n: got %d, want 3", normal.N)
	}
	if !closeTo(normal.Mean, 2, 1e-12) {
		t.Errorf("mean: got %v, want 2", normal.Mean)
	}
	if !closeTo(normal.SD, 1, 1e-12) {
		t.Errorf("sd: got %v, want 1", normal.SD)
	}
	if !closeTo(normal.SEM, 0.5773502692, 1e-9) {
		t.Errorf("sem: got %v, want 0.5773502692", normal.SEM)
	}

	tumor := sums[1]
	if tumor.Group != "tumor" {
		t.Fatalf("second summary is for group %q, want tumor", tumor.Group)
	}
	if !closeTo(tumor.Mean, 20, 1e-12) || !closeTo(tumor.SD, 10, 1e-12) || !closeTo(tumor.SEM, 5.7735026919, 1e-9) {
		t.Errorf("tumor: got mean=%v sd=%v sem=%v, want 20, 10, 5.7735026919", tumor.Mean, tumor.SD, tumor.SEM)
	}
}

func TestSummarizeRowThenGroupOrder(t *testing.T) {
	m, ann := summaryFixture(t)

	sums, err := Summarize(m, ann)
	if err != nil {
		t.Fatal(err)
	}

	// All annotation labels, first-seen order, nested inside row order.
	want := []struct{ probe, group string }{
		{"pA", "normal"}, {"pA", "tumor"}, {"pA", "stroma"},
		{"pB", "normal"}, {"pB", "tumor"}, {"pB", "stroma"},
	}

	if len(sums) != len(want) {
		t.Fatalf("got %d summaries, want %d", len(sums), len(want))
	}
	for i, w := range want {
		if sums[i].Probe != w.probe || sums[i].Group != w.group {
			t.Fatalf("position %d: got %s/%s, want %s/%s", i, sums[i].Probe, sums[i].Group, w.probe, w.group)
		}
	}
}

func TestSummarizeSingletonGroup(t *testing.T) {
	m, ann := summaryFixture(t)

	sums, err := Summarize(m, ann, "stroma")
	if err != nil {
		t.Fatal(err)
	}

	got := sums[0]
	if got.N != 1 {
		t.Fatalf("n: got %d, want 1", got.N)
	}
	if got.Mean != 5 {
		t.Errorf("mean: got %v, want 5", got.Mean)
	}
	if !math.IsNaN(got.SD) || !math.IsNaN(got.SEM) {
		t.Errorf("a single measurement has no spread: got sd=%v sem=%v, want NaN", got.SD, got.SEM)
	}
}

func TestSummarizeEmptyValues(t *testing.T) {
	got := summarize("p", "g", nil)

	if got.N != 0 {
		t.Fatalf("n: got %d, want 0", got.N)
	}
	if !math.IsNaN(got.Mean) || !math.IsNaN(got.SD) || !math.IsNaN(got.SEM) {
		t.Errorf("got mean=%v sd=%v sem=%v, want all NaN", got.Mean, got.SD, got.SEM)
	}
}

func TestSummarizeRejectsBadGroups(t *testing.T) {
	m, ann := summaryFixture(t)

	if _, err := Summarize(m, ann, "glioma"); err == nil {
		t.Error("expected an error for an unknown group")
	}
	if _, err := Summarize(m, ann, "tumor", "tumor"); err == nil {
		t.Error("expected an error for a group requested twice")
	}
}

func TestSummarizeRejectsMismatchedAnnotation(t *testing.T) {
	m, _ := summaryFixture(t)

	ann, err := expr.NewAnnotation([]expr.SampleLabel{
		{Sample: "s1", Label: "normal"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Summarize(m, ann); err == nil {
		t.Error("expected an error for an annotation that misses matrix samples")
	}
}

package expr

import (
	"strings"
	"testing"
)

func mustAnnotation(t *testing.T, pairs ...SampleLabel) *Annotation {
	t.Helper()

	ann, err := NewAnnotation(pairs)
	if err != nil {
		t.Fatal(err)
	}

	return ann
}

func TestNewAnnotationValidation(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []SampleLabel
		wantErr string
	}{
		{
			name:  "valid",
			pairs: []SampleLabel{{"s1", "control"}, {"s2", "tumor"}},
		},
		{
			name:    "empty",
			pairs:   nil,
			wantErr: "no samples",
		},
		{
			name:    "duplicate sample",
			pairs:   []SampleLabel{{"s1", "control"}, {"s1", "tumor"}},
			wantErr: `"s1" is annotated twice`,
		},
		{
			name:    "empty label",
			pairs:   []SampleLabel{{"s1", ""}},
			wantErr: "empty label",
		},
		{
			name:    "empty sample id",
			pairs:   []SampleLabel{{"", "control"}},
			wantErr: "empty sample id",
		},
	}

	for _, test := range tests {
		_, err := NewAnnotation(test.pairs)

		if test.wantErr == "" {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", test.name, err)
			}
			continue
		}

		if err == nil {
			t.Errorf("%s: expected an error", test.name)
			continue
		}
		if !strings.Contains(err.Error(), test.wantErr) {
			t.Errorf("%s: error %q does not mention %q", test.name, err, test.wantErr)
		}
	}
}

func TestLabelsFirstSeenOrder(t *testing.T) {
	ann := mustAnnotation(t,
		SampleLabel{"s1", "tumor"},
		SampleLabel{"s2", "control"},
		SampleLabel{"s3", "tumor"},
		SampleLabel{"s4", "normal adjacent"},
	)

	got := ann.Labels()
	want := []string{"tumor", "control", "normal adjacent"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAlign(t *testing.T) {
	m := mustMatrix(t,
		[]string{"p1"},
		[]string{"s1", "s2", "s3"},
		[][]float64{{1, 2, 3}},
	)

	// Annotation order differs from column order; Align must follow columns.
	ann := mustAnnotation(t,
		SampleLabel{"s3", "tumor"},
		SampleLabel{"s1", "control"},
		SampleLabel{"s2", "tumor"},
	)

	labels, err := ann.Align(m)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"control", "tumor", "tumor"}
	for j := range want {
		if labels[j] != want[j] {
			t.Fatalf("got %v, want %v", labels, want)
		}
	}
}

func TestAlignRejectsPartialCoverage(t *testing.T) {
	m := mustMatrix(t,
		[]string{"p1"},
		[]string{"s1", "s2", "s3"},
		[][]float64{{1, 2, 3}},
	)

	ann := mustAnnotation(t,
		SampleLabel{"s1", "control"},
		SampleLabel{"s3", "tumor"},
	)

	_, err := ann.Align(m)
	if err == nil {
		t.Fatal("expected an error for an unlabeled matrix column")
	}
	if !strings.Contains(err.Error(), "covers 2 of 3") {
		t.Errorf("error %q does not report the coverage counts", err)
	}
	if !strings.Contains(err.Error(), `"s2"`) {
		t.Errorf("error %q does not name the unlabeled sample", err)
	}
}

func TestAlignRejectsExtraSamples(t *testing.T) {
	m := mustMatrix(t,
		[]string{"p1"},
		[]string{"s1", "s2"},
		[][]float64{{1, 2}},
	)

	ann := mustAnnotation(t,
		SampleLabel{"s1", "control"},
		SampleLabel{"s2", "tumor"},
		SampleLabel{"s9", "tumor"},
	)

	_, err := ann.Align(m)
	if err == nil {
		t.Fatal("expected an error for an annotated sample the matrix lacks")
	}
	if !strings.Contains(err.Error(), `"s9"`) {
		t.Errorf("error %q does not name the extra sample", err)
	}
}

func TestReadAnnotation(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"comma", "sample,label\nGSM1,control\nGSM2,control\nGSM3,tumor\n"},
		{"tab", "sample\tlabel\nGSM1\tcontrol\nGSM2\tcontrol\nGSM3\ttumor\n"},
	}

	for _, test := range tests {
		ann, err := ReadAnnotation(strings.NewReader(test.in))
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}

		if got, want := ann.Len(), 3; got != want {
			t.Errorf("%s: got %d samples, want %d", test.name, got, want)
			continue
		}
		if label, _ := ann.Label("GSM3"); label != "tumor" {
			t.Errorf("%s: GSM3 label is %q, want %q", test.name, label, "tumor")
		}
	}
}

func TestReadAnnotationRejectsDuplicates(t *testing.T) {
	in := "sample,label\nGSM1,control\nGSM1,tumor\n"
	if _, err := ReadAnnotation(strings.NewReader(in)); err == nil {
		t.Error("expected an error for a sample annotated twice")
	}
}

package expr

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	abcb "github.com/andrewsu/ABCB"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// SampleLabel pairs one sample id with its group label. The csv tags match
// annotation files with a "sample,label" header.
type SampleLabel struct {
	Sample string `csv:"sample"`
	Label  string `csv:"label"`
}

// Annotation assigns one categorical group label to every sample of a
// matrix. Insertion order is preserved so that derived outputs are stable.
type Annotation struct {
	pairs []SampleLabel
	byID  map[string]string
}

// NewAnnotation validates the pairs and wraps them in an Annotation. Every
// sample may appear only once, and neither sample ids nor labels may be
// empty.
func NewAnnotation(pairs []SampleLabel) (*Annotation, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("expr: annotation has no samples")
	}

	byID := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if p.Sample == "" {
			return nil, fmt.Errorf("expr: annotation contains an empty sample id")
		}
		if p.Label == "" {
			return nil, fmt.Errorf("expr: sample %q has an empty label", p.Sample)
		}
		if _, exists := byID[p.Sample]; exists {
			return nil, fmt.Errorf("expr: sample %q is annotated twice", p.Sample)
		}
		byID[p.Sample] = p.Label
	}

	kept := make([]SampleLabel, len(pairs))
	copy(kept, pairs)

	return &Annotation{pairs: kept, byID: byID}, nil
}

// Len returns the number of annotated samples.
func (a *Annotation) Len() int {
	return len(a.pairs)
}

// Label returns the group label of one sample.
func (a *Annotation) Label(sample string) (string, bool) {
	label, ok := a.byID[sample]
	return label, ok
}

// Samples returns the annotated sample ids in insertion order.
func (a *Annotation) Samples() []string {
	out := make([]string, len(a.pairs))
	for i, p := range a.pairs {
		out[i] = p.Sample
	}

	return out
}

// Labels returns the distinct group labels in first-seen order.
func (a *Annotation) Labels() []string {
	var out []string
	seen := make(map[string]struct{})

	for _, p := range a.pairs {
		if _, ok := seen[p.Label]; ok {
			continue
		}
		seen[p.Label] = struct{}{}
		out = append(out, p.Label)
	}

	return out
}

// Align matches the annotation against a matrix and returns one group label
// per matrix column, in column order. The annotation must cover the matrix
// columns exactly: a sample without a label, or a label for a sample the
// matrix does not have, is a hard error rather than something to paper
// over, because a silent partial join would misassign samples to groups.
func (a *Annotation) Align(m *Matrix) ([]string, error) {
	labels := make([]string, len(m.Samples))

	missing := 0
	firstMissing := ""
	for j, sample := range m.Samples {
		label, ok := a.byID[sample]
		if !ok {
			missing++
			if firstMissing == "" {
				firstMissing = sample
			}
			continue
		}
		labels[j] = label
	}

	if missing > 0 {
		return nil, fmt.Errorf("expr: annotation covers %d of %d matrix samples (no label for %q)",
			len(m.Samples)-missing, len(m.Samples), firstMissing)
	}

	if a.Len() > len(m.Samples) {
		inMatrix := make(map[string]struct{}, len(m.Samples))
		for _, sample := range m.Samples {
			inMatrix[sample] = struct{}{}
		}
		for _, p := range a.pairs {
			if _, ok := inMatrix[p.Sample]; !ok {
				return nil, fmt.Errorf("expr: annotation lists %d samples but the matrix has %d columns (%q is not a matrix column)",
					a.Len(), len(m.Samples), p.Sample)
			}
		}
	}

	return labels, nil
}

// ReadAnnotation parses a delimited annotation file with a "sample,label"
// header. The delimiter is sniffed, so comma- and tab-separated files both
// work.
func ReadAnnotation(r io.Reader) (*Annotation, error) {
	fileBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := abcb.DetermineDelimiter(bytes.NewReader(fileBytes))

	// Tell gocsv which delimiter to use
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = delim
		cr.LazyQuotes = true
		return cr
	})

	records := []*SampleLabel{}
	if err := gocsv.UnmarshalBytes(fileBytes, &records); err != nil {
		return nil, pfx.Err(err)
	}

	pairs := make([]SampleLabel, 0, len(records))
	for _, record := range records {
		pairs = append(pairs, *record)
	}

	return NewAnnotation(pairs)
}

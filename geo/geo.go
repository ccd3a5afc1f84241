// Package geo loads GEO DataSet (GDS) files in SOFT format: the dataset
// metadata, the sample subsets that group its columns, and the embedded
// expression table. Parsed tables come back as expr.Matrix values, so the
// rest of the pipeline never needs to know where a matrix came from.
package geo

import (
	"fmt"
	"strings"

	"github.com/andrewsu/ABCB/expr"
)

// Subset is one GDS sample grouping, e.g. the "disease state" split into
// tumor and control samples. A dataset usually carries several subset types
// over the same samples.
type Subset struct {
	ID          string
	Type        string
	Description string
	Samples     []string
}

// DataSet is a parsed GDS file.
type DataSet struct {
	Accession string
	Title     string
	Platform  string
	ValueType string
	Matrix    *expr.Matrix
	Subsets   []Subset

	// identifier maps each probe id to the gene symbol the platform
	// annotates it with.
	identifier map[string]string
}

// SubsetTypes returns the distinct subset types in first-seen order.
func (ds *DataSet) SubsetTypes() []string {
	var out []string
	seen := make(map[string]struct{})

	for _, ss := range ds.Subsets {
		if _, ok := seen[ss.Type]; ok {
			continue
		}
		seen[ss.Type] = struct{}{}
		out = append(out, ss.Type)
	}

	return out
}

// Annotation builds a sample annotation from the subsets of one type, using
// each subset's description as the group label. The subsets of that type
// must cover the matrix columns exactly; GDS files where they do not are
// rejected here, before any group statistics can be computed from a partial
// join.
func (ds *DataSet) Annotation(subsetType string) (*expr.Annotation, error) {
	var pairs []expr.SampleLabel

	for _, ss := range ds.Subsets {
		if ss.Type != subsetType {
			continue
		}
		for _, sample := range ss.Samples {
			pairs = append(pairs, expr.SampleLabel{Sample: sample, Label: ss.Description})
		}
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("geo: %s has no subsets of type %q (available: %s)",
			ds.Accession, subsetType, strings.Join(ds.SubsetTypes(), ", "))
	}

	ann, err := expr.NewAnnotation(pairs)
	if err != nil {
		return nil, fmt.Errorf("geo: building the %q annotation: %w", subsetType, err)
	}

	if _, err := ann.Align(ds.Matrix); err != nil {
		return nil, fmt.Errorf("geo: the %q subsets do not match the table: %w", subsetType, err)
	}

	return ann, nil
}

// GeneSymbol returns the platform's gene symbol for a probe id, or "" when
// the probe is unknown.
func (ds *DataSet) GeneSymbol(probe string) string {
	return ds.identifier[probe]
}

// ProbesForGene returns the probe ids annotated with a gene symbol, in
// table row order. Symbol matching is case-insensitive because GEO
// platforms are inconsistent about capitalization.
func (ds *DataSet) ProbesForGene(symbol string) []string {
	var out []string

	for _, probe := range ds.Matrix.Probes {
		if strings.EqualFold(ds.identifier[probe], symbol) {
			out = append(out, probe)
		}
	}

	return out
}

// abcb runs a gene-centric differential-expression pass over a GEO DataSet:
// drop rows with missing values, log2-transform, summarize the gene's probes
// by sample group, Welch-test every row between two groups, and follow up
// with an over-representation test of the gene's probes among the
// significant rows. Tables land as csv and plots as png in -out.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/andrewsu/ABCB/buildinfoprint"
	"github.com/andrewsu/ABCB/dge"
	"github.com/andrewsu/ABCB/enrich"
	"github.com/andrewsu/ABCB/expr"
	"github.com/andrewsu/ABCB/geo"
)

// heatmapRows caps how many top-ranked probes the heatmap draws.
const heatmapRows = 25

func main() {
	var (
		gds        string
		gene       string
		subsetType string
		groupPair  string
		alpha      float64
		outDir     string
		noLog2     bool
	)

	flag.StringVar(&gds, "gds", "", "GEO DataSet accession (e.g. GDS5085) or path to a local SOFT file. Accessions are fetched from NCBI.")
	flag.StringVar(&gene, "gene", "ABCB4", "Gene symbol whose probes are summarized and plotted.")
	flag.StringVar(&subsetType, "subset-type", "disease state", "Subset type that provides the sample grouping (exprdescribe lists the choices).")
	flag.StringVar(&groupPair, "groups", "", "Two group labels to compare, comma-separated. Defaults to the first two labels of the chosen subset type.")
	flag.Float64Var(&alpha, "alpha", 0.05, "Significance cutoff for the over-representation follow-up.")
	flag.StringVar(&outDir, "out", ".", "Directory for the output tables and plots.")
	flag.BoolVar(&noLog2, "no-log2", false, "Skip the log2 transform (for tables already in log space).")
	flag.Parse()

	if gds == "" || gene == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(gds, gene, subsetType, groupPair, outDir, alpha, !noLog2); err != nil {
		log.Fatalln(err)
	}

	log.Println("abcb completed")
}

func run(gds, gene, subsetType, groupPair, outDir string, alpha float64, logTransform bool) error {
	ds, err := openDataSet(gds)
	if err != nil {
		return err
	}
	log.Printf("%s: %s (%d probes x %d samples, %s)",
		ds.Accession, ds.Title, ds.Matrix.NRows(), ds.Matrix.NCols(), ds.ValueType)

	ann, err := ds.Annotation(subsetType)
	if err != nil {
		return err
	}

	groupA, groupB, err := pickGroups(groupPair, ann)
	if err != nil {
		return err
	}
	log.Printf("comparing %q vs %q by %s", groupA, groupB, subsetType)

	m := ds.Matrix.Clean()
	if dropped := ds.Matrix.NRows() - m.NRows(); dropped > 0 {
		log.Printf("dropped %d rows with missing values, %d remain", dropped, m.NRows())
	}

	if logTransform {
		if m, err = m.Log2(); err != nil {
			return err
		}
	}

	probes := ds.ProbesForGene(gene)
	if len(probes) == 0 {
		return fmt.Errorf("no probes on this platform measure %q", gene)
	}
	probes = keepKnownProbes(probes, m)
	if len(probes) == 0 {
		return fmt.Errorf("every %s probe was dropped for missing values", gene)
	}
	log.Printf("%s is measured by %s", gene, strings.Join(probes, ", "))

	geneM, err := m.Subset(probes)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return err
	}

	base := ds.Accession
	if base == "" {
		base = "dataset"
	}

	sums, err := dge.Summarize(geneM, ann)
	if err != nil {
		return err
	}
	if err := writeSummaryCSV(csvPath(outDir, base, gene+"_groups"), sums); err != nil {
		return err
	}

	if err := writeGenePlots(outDir, base, gene, geneM, m, ann, sums); err != nil {
		return err
	}
	if err := writeSampleBoxplot(pngPath(outDir, base, "sample_boxes"), m); err != nil {
		return err
	}

	results, err := dge.WelchAll(m, ann, groupA, groupB)
	if err != nil {
		return err
	}
	if err := writeResultsCSV(csvPath(outDir, base, "welch"), ds, results); err != nil {
		return err
	}

	set := make(map[string]bool, len(probes))
	for _, p := range probes {
		set[p] = true
	}

	for _, res := range results {
		if set[res.Probe] {
			log.Printf("%s (%s): t=%.4g df=%.4g p=%.4g", res.Probe, gene, res.T, res.DF, res.P)
		}
	}

	or, err := enrich.Overrep(results, set, alpha)
	if err != nil {
		return err
	}
	log.Printf("%s probes among significant rows: %s", gene, or)

	if err := writeHeatmap(pngPath(outDir, base, "top_heatmap"), m, results); err != nil {
		return err
	}

	return writeSampleCSV(csvPath(outDir, base, "samples"), ds.Matrix)
}

// pickGroups resolves the -groups flag, defaulting to the first two labels
// the annotation defines.
func pickGroups(pair string, ann *expr.Annotation) (string, string, error) {
	if pair == "" {
		labels := ann.Labels()
		if len(labels) < 2 {
			return "", "", fmt.Errorf("the subsets define only %d group(s); need two to compare", len(labels))
		}

		return labels[0], labels[1], nil
	}

	parts := strings.Split(pair, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("-groups wants exactly two comma-separated labels, got %q", pair)
	}

	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// keepKnownProbes drops probes that no longer have a matrix row, e.g. after
// cleaning.
func keepKnownProbes(probes []string, m *expr.Matrix) []string {
	var kept []string
	for _, p := range probes {
		if _, ok := m.Row(p); ok {
			kept = append(kept, p)
		}
	}

	return kept
}

func openDataSet(gds string) (*geo.DataSet, error) {
	if geo.IsAccession(gds) {
		log.Println("Fetching", gds, "from NCBI")
		return geo.Fetch(gds)
	}

	return geo.Open(gds)
}

// gds2csv flattens a GEO DataSet's expression table to csv on stdout.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/andrewsu/ABCB/buildinfoprint"
	"github.com/andrewsu/ABCB/expr"
	"github.com/andrewsu/ABCB/geo"
)

func main() {
	var gds, genes string

	flag.StringVar(&gds, "gds", "", "GEO DataSet accession (e.g. GDS5085) or path to a local SOFT file. Accessions are fetched from NCBI.")
	flag.StringVar(&genes, "genes", "", "Optional comma-separated gene symbols. If set, only rows whose IDENTIFIER matches one of them are printed.")
	flag.Parse()

	if gds == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(gds, genes); err != nil {
		log.Fatalln(err)
	}
}

func run(gds, genes string) error {
	ds, err := openDataSet(gds)
	if err != nil {
		return err
	}
	log.Printf("%s: %s (%d probes x %d samples)", ds.Accession, ds.Title, ds.Matrix.NRows(), ds.Matrix.NCols())

	m := ds.Matrix
	if genes != "" {
		probes, err := probesFor(ds, genes)
		if err != nil {
			return err
		}

		m, err = m.Subset(probes)
		if err != nil {
			return err
		}
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"probe", "gene"}, m.Samples...)
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, probe := range m.Probes {
		row[0] = probe
		row[1] = ds.GeneSymbol(probe)
		for j, v := range m.Data[i] {
			if expr.IsMissing(v) {
				// "null" round-trips through the SOFT table reader
				row[2+j] = "null"
			} else {
				row[2+j] = strconv.FormatFloat(v, 'G', -1, 64)
			}
		}

		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// probesFor resolves a comma-separated gene list to the probes that measure
// those genes, deduplicated, in table order per gene.
func probesFor(ds *geo.DataSet, genes string) ([]string, error) {
	seen := map[string]bool{}
	var probes []string

	for _, gene := range strings.Split(genes, ",") {
		gene = strings.TrimSpace(gene)
		if gene == "" {
			continue
		}

		hits := ds.ProbesForGene(gene)
		if len(hits) == 0 {
			return nil, fmt.Errorf("no probes on this platform measure %q", gene)
		}

		for _, p := range hits {
			if !seen[p] {
				seen[p] = true
				probes = append(probes, p)
			}
		}
	}

	if len(probes) == 0 {
		return nil, fmt.Errorf("no gene symbols parsed from %q", genes)
	}

	return probes, nil
}

func openDataSet(gds string) (*geo.DataSet, error) {
	if geo.IsAccession(gds) {
		log.Println("Fetching", gds, "from NCBI")
		return geo.Fetch(gds)
	}

	return geo.Open(gds)
}

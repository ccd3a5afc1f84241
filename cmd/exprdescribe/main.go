// exprdescribe prints a quick look at a GEO DataSet: dimensions, the
// missing-value profile, subset groupings, a per-sample statistics table,
// and a terminal histogram of the expression values.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"

	_ "github.com/andrewsu/ABCB/buildinfoprint"
	"github.com/andrewsu/ABCB/expr"
	"github.com/andrewsu/ABCB/exprplot"
	"github.com/andrewsu/ABCB/geo"
)

func main() {
	var (
		gds      string
		logSpace bool
		bins     int
	)

	flag.StringVar(&gds, "gds", "", "GEO DataSet accession (e.g. GDS5085) or path to a local SOFT file. Accessions are fetched from NCBI.")
	flag.BoolVar(&logSpace, "log2", false, "Log2-transform the values first. Fails if the table has values <= 0.")
	flag.IntVar(&bins, "bins", 25, "Number of histogram buckets.")
	flag.Parse()

	if gds == "" || bins < 1 {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(gds, logSpace, bins); err != nil {
		log.Fatalln(err)
	}
}

func run(gds string, logSpace bool, bins int) error {
	ds, err := openDataSet(gds)
	if err != nil {
		return err
	}

	m := ds.Matrix

	fmt.Printf("%s\t%s\n", ds.Accession, ds.Title)
	fmt.Printf("platform %s, values are %s\n", ds.Platform, ds.ValueType)
	fmt.Printf("%d probes x %d samples\n", m.NRows(), m.NCols())

	var gappyRows, gapCells int
	for _, k := range m.MissingByRow() {
		if k > 0 {
			gappyRows++
			gapCells += k
		}
	}
	fmt.Printf("%d rows have gaps (%d missing cells); cleaning would keep %d rows\n",
		gappyRows, gapCells, m.NRows()-gappyRows)

	for _, s := range ds.Subsets {
		fmt.Printf("subset %s: %s = %q (%d samples)\n", s.ID, s.Type, s.Description, len(s.Samples))
	}

	if logSpace {
		m, err = m.Log2()
		if err != nil {
			return err
		}
	}

	if err := printSampleTable(m); err != nil {
		return err
	}

	var vals []float64
	for _, row := range m.Data {
		for _, v := range row {
			if !expr.IsMissing(v) {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return fmt.Errorf("the table has no plottable values")
	}

	fmt.Println()
	hist := histogram.Hist(bins, vals)

	return histogram.Fprint(os.Stdout, hist, histogram.Linear(40))
}

func printSampleTable(m *expr.Matrix) error {
	w := csv.NewWriter(os.Stdout)
	w.Comma = '\t'
	defer w.Flush()

	if err := w.Write([]string{"sample", "n", "missing", "mean", "sd", "min", "max"}); err != nil {
		return err
	}

	for _, st := range exprplot.SampleStats(m) {
		err := w.Write([]string{
			st.Sample,
			strconv.Itoa(st.N),
			strconv.Itoa(st.Missing),
			strconv.FormatFloat(st.Mean, 'G', 6, 64),
			strconv.FormatFloat(st.SD, 'G', 6, 64),
			strconv.FormatFloat(st.Min, 'G', 6, 64),
			strconv.FormatFloat(st.Max, 'G', 6, 64),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func openDataSet(gds string) (*geo.DataSet, error) {
	if geo.IsAccession(gds) {
		log.Println("Fetching", gds, "from NCBI")
		return geo.Fetch(gds)
	}

	return geo.Open(gds)
}

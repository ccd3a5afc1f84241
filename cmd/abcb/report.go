package main

import (
	"encoding/csv"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/andrewsu/ABCB/dge"
	"github.com/andrewsu/ABCB/expr"
	"github.com/andrewsu/ABCB/exprplot"
	"github.com/andrewsu/ABCB/geo"
)

func csvPath(dir, base, name string) string {
	return filepath.Join(dir, base+"_"+name+".csv")
}

func pngPath(dir, base, name string) string {
	return filepath.Join(dir, base+"_"+name+".png")
}

func writeCSV(path string, write func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	w := csv.NewWriter(f)
	if err := write(w); err != nil {
		f.Close()
		return err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}
	log.Println("wrote", path)

	return nil
}

func writePNG(path string, render func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	if err := render(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}
	log.Println("wrote", path)

	return nil
}

func writeSummaryCSV(path string, sums []dge.GroupSummary) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"probe", "group", "n", "mean", "sd", "sem"}); err != nil {
			return err
		}

		for _, s := range sums {
			err := w.Write([]string{
				s.Probe,
				s.Group,
				strconv.Itoa(s.N),
				fl(s.Mean),
				fl(s.SD),
				fl(s.SEM),
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func writeResultsCSV(path string, ds *geo.DataSet, results []dge.TestResult) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"probe", "gene", "t", "df", "p"}); err != nil {
			return err
		}

		for _, r := range results {
			err := w.Write([]string{r.Probe, ds.GeneSymbol(r.Probe), fl(r.T), fl(r.DF), fl(r.P)})
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func writeSampleCSV(path string, m *expr.Matrix) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"sample", "n", "missing", "mean", "sd", "min", "max"}); err != nil {
			return err
		}

		for _, st := range exprplot.SampleStats(m) {
			err := w.Write([]string{
				st.Sample,
				strconv.Itoa(st.N),
				strconv.Itoa(st.Missing),
				fl(st.Mean),
				fl(st.SD),
				fl(st.Min),
				fl(st.Max),
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// writeGenePlots draws, for each of the gene's probes, the group-mean bars,
// the per-sample strip, and the group boxplot, plus one histogram of every
// value in the table.
func writeGenePlots(dir, base, gene string, geneM, m *expr.Matrix, ann *expr.Annotation, sums []dge.GroupSummary) error {
	for _, probe := range geneM.Probes {
		title := probe + " (" + gene + ")"

		var probeSums []dge.GroupSummary
		for _, s := range sums {
			if s.Probe == probe {
				probeSums = append(probeSums, s)
			}
		}

		err := writePNG(pngPath(dir, base, safe(probe)+"_bars"), func(w io.Writer) error {
			return exprplot.GroupBars(w, probeSums, title)
		})
		if err != nil {
			return err
		}

		err = writePNG(pngPath(dir, base, safe(probe)+"_strip"), func(w io.Writer) error {
			return exprplot.Strip(w, m, ann, probe, title)
		})
		if err != nil {
			return err
		}

		boxes, err := exprplot.GroupBoxStats(m, ann, probe)
		if err != nil {
			return err
		}
		err = writePNG(pngPath(dir, base, safe(probe)+"_box"), func(w io.Writer) error {
			return exprplot.Boxes(w, boxes, title)
		})
		if err != nil {
			return err
		}
	}

	var vals []float64
	for _, row := range m.Data {
		vals = append(vals, row...)
	}

	return writePNG(pngPath(dir, base, "histogram"), func(w io.Writer) error {
		return exprplot.Histogram(w, vals, 30, "expression values")
	})
}

// writeSampleBoxplot draws one box per sample column, the usual scan for
// samples whose distribution sits apart from the rest.
func writeSampleBoxplot(path string, m *expr.Matrix) error {
	boxes := make([]exprplot.Box, 0, m.NCols())
	col := make([]float64, m.NRows())

	for j, sample := range m.Samples {
		for i := range m.Data {
			col[i] = m.Data[i][j]
		}

		box, err := exprplot.BoxStats(sample, col)
		if err != nil {
			return err
		}
		boxes = append(boxes, box)
	}

	return writePNG(path, func(w io.Writer) error {
		return exprplot.Boxes(w, boxes, "per-sample distributions")
	})
}

// writeHeatmap draws the heatmapRows strongest probes by p-value. Untestable
// rows sort last and never make the cut.
func writeHeatmap(path string, m *expr.Matrix, results []dge.TestResult) error {
	ranked := make([]dge.TestResult, len(results))
	copy(ranked, results)
	dge.SortByP(ranked)

	n := len(ranked)
	if n > heatmapRows {
		n = heatmapRows
	}

	probes := make([]string, 0, n)
	for _, r := range ranked[:n] {
		if math.IsNaN(r.P) {
			break
		}
		probes = append(probes, r.Probe)
	}
	if len(probes) == 0 {
		log.Println("no testable rows; skipping the heatmap")
		return nil
	}

	top, err := m.Subset(probes)
	if err != nil {
		return err
	}

	return writePNG(path, func(w io.Writer) error {
		return exprplot.Heatmap(w, top, 12, 12)
	})
}

// safe makes a probe ID usable inside a filename.
func safe(probe string) string {
	probe = strings.ReplaceAll(probe, "/", "_")

	return strings.ReplaceAll(probe, " ", "_")
}

func fl(v float64) string {
	return strconv.FormatFloat(v, 'G', -1, 64)
}

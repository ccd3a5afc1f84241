package geo

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/andrewsu/ABCB/expr"
	"github.com/carbocation/pfx"
)

// Datasets with thousands of samples have table lines well beyond the
// default scanner buffer.
const maxSOFTLine = 8 * 1024 * 1024

// ParseDataSet reads a GDS SOFT file. SOFT interleaves "^ENTITY = value"
// stanza markers, "!key = value" attribute lines, and one tab-separated
// expression table bracketed by !dataset_table_begin/!dataset_table_end.
func ParseDataSet(r io.Reader) (*DataSet, error) {
	ds := &DataSet{identifier: make(map[string]string)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxSOFTLine)

	var cur *Subset
	flush := func() {
		if cur != nil {
			ds.Subsets = append(ds.Subsets, *cur)
			cur = nil
		}
	}

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")

		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, "^DATASET"):
			flush()
			ds.Accession = attrValue(line)

		case strings.HasPrefix(line, "^SUBSET"):
			flush()
			cur = &Subset{ID: attrValue(line)}

		case strings.HasPrefix(line, "^"):
			// Other entities (^DATABASE, ^ANNOTATION) carry nothing we keep.
			flush()

		case strings.HasPrefix(line, "!"):
			key, value := attrKeyValue(line)
			switch key {
			case "dataset_title":
				ds.Title = value
			case "dataset_platform":
				ds.Platform = value
			case "dataset_value_type":
				ds.ValueType = value
			case "subset_type":
				if cur != nil {
					cur.Type = value
				}
			case "subset_description":
				if cur != nil {
					cur.Description = value
				}
			case "subset_sample_id":
				if cur != nil {
					cur.Samples = splitSampleIDs(value)
				}
			case "dataset_table_begin":
				flush()
				if err := parseTable(sc, ds); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	flush()

	if ds.Matrix == nil {
		return nil, fmt.Errorf("geo: no dataset table found")
	}

	return ds, nil
}

// parseTable consumes the tab-separated expression table, including its
// terminator line. The header is ID_REF, IDENTIFIER, then one column per
// sample.
func parseTable(sc *bufio.Scanner, ds *DataSet) error {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return pfx.Err(err)
		}
		return fmt.Errorf("geo: dataset table has no header")
	}

	header := strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t")
	if len(header) < 3 || header[0] != "ID_REF" || header[1] != "IDENTIFIER" {
		return fmt.Errorf("geo: unexpected table header starting with %q", header[0])
	}
	samples := header[2:]

	var probes []string
	var data [][]float64

	row := 0
	terminated := false
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "!dataset_table_end" {
			terminated = true
			break
		}
		if line == "" {
			continue
		}

		row++
		fields := strings.Split(line, "\t")
		if len(fields) != len(header) {
			return fmt.Errorf("geo: table row %d has %d fields, want %d", row, len(fields), len(header))
		}

		probe := fields[0]
		vals := make([]float64, len(samples))
		for k, raw := range fields[2:] {
			v, err := parseCell(raw)
			if err != nil {
				return fmt.Errorf("geo: table row %d (%s), sample %s: %w", row, probe, samples[k], err)
			}
			vals[k] = v
		}

		probes = append(probes, probe)
		data = append(data, vals)
		ds.identifier[probe] = fields[1]
	}
	if err := sc.Err(); err != nil {
		return pfx.Err(err)
	}
	if !terminated {
		return fmt.Errorf("geo: dataset table is missing its end marker")
	}

	matrix, err := expr.NewMatrix(probes, samples, data)
	if err != nil {
		return fmt.Errorf("geo: dataset table: %w", err)
	}
	ds.Matrix = matrix

	return nil
}

// parseCell reads one table value. GEO writes absent measurements as
// "null"; exports that passed through other tools also show up with "",
// "NA", or "NaN". All of them become NaN.
func parseCell(raw string) (float64, error) {
	s := strings.TrimSpace(raw)

	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unreadable value %q", s)
	}

	return v, nil
}

// attrValue extracts the value of a "^ENTITY = value" line.
func attrValue(line string) string {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return ""
	}

	return strings.TrimSpace(line[idx+1:])
}

// attrKeyValue splits a "!key = value" line. Marker lines without "=" come
// back with an empty value.
func attrKeyValue(line string) (string, string) {
	rest := strings.TrimPrefix(line, "!")

	idx := strings.Index(rest, "=")
	if idx < 0 {
		return strings.TrimSpace(rest), ""
	}

	return strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+1:])
}

func splitSampleIDs(value string) []string {
	var out []string

	for _, id := range strings.Split(value, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			out = append(out, id)
		}
	}

	return out
}

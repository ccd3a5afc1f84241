package geo

import (
	"fmt"
	"regexp"

	abcb "github.com/andrewsu/ABCB"
)

const softURLRoot = "https://ftp.ncbi.nlm.nih.gov/geo/datasets"

var accessionRE = regexp.MustCompile(`^GDS[0-9]+$`)

// IsAccession reports whether s looks like a GDS accession.
func IsAccession(s string) bool {
	return accessionRE.MatchString(s)
}

// URL returns the NCBI download location of a DataSet's compressed SOFT
// file. GEO shards datasets into directories named after the accession with
// the last three digits masked, so GDS5085 lives under GDS5nnn/ and GDS858
// under GDSnnn/.
func URL(accession string) (string, error) {
	if !IsAccession(accession) {
		return "", fmt.Errorf("geo: %q does not look like a GDS accession", accession)
	}

	digits := accession[len("GDS"):]
	prefix := "GDS"
	if len(digits) > 3 {
		prefix += digits[:len(digits)-3]
	}

	return fmt.Sprintf("%s/%snnn/%s/soft/%s.soft.gz", softURLRoot, prefix, accession, accession), nil
}

// Fetch downloads a DataSet from NCBI by accession and parses it.
func Fetch(accession string) (*DataSet, error) {
	u, err := URL(accession)
	if err != nil {
		return nil, err
	}

	return Open(u)
}

// Open parses a DataSet from a local path or URL, decompressing as needed.
func Open(path string) (*DataSet, error) {
	rc, err := abcb.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return ParseDataSet(rc)
}

package abcb

import (
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DefaultDelimiter is assumed when detection finds no better candidate.
const DefaultDelimiter = ','

// DetermineDelimiter returns the single most likely rune that would delimit
// the values in the reader, assuming a CSV-like file. Sample annotation
// files arrive as both comma- and tab-separated, so callers sniff rather
// than hardcode.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return DefaultDelimiter
}

// Package abcb provides the shared plumbing for the expression analysis
// tools: opening local or remote data files and seeing through the
// compression formats that GEO and annotation providers serve them in.
package abcb

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type Compression byte

const (
	CompressionInvalid Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionZ
	CompressionBZip2
)

var byteCodeSigs = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionZ:     {0x1f, 0x9d},
	CompressionBZip2: {0x42, 0x5a, 0x68},
}

// DetectCompression attempts to detect the compression of a stream by
// checking against a set of known formats. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475 . The stream is only peeked
// at, never consumed, so it works on HTTP bodies and other readers that
// cannot seek back to the start.
func DetectCompression(br *bufio.Reader) (Compression, error) {
	buff, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return CompressionInvalid, pfx.Err(err)
	}

	// Match known signatures
Outer:
	for dt, sig := range byteCodeSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return CompressionNone, nil
}

// NewDecompressingReader sniffs r and wraps it so that reads yield the
// uncompressed stream. Streams without a recognized signature pass through
// unmodified. For zip archives, only the first file entry is read.
func NewDecompressingReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)

	dt, err := DetectCompression(br)
	if err != nil {
		return nil, err
	}

	switch dt {
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return gz, nil
	case CompressionZip:
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, pfx.Err(err)
		}
		return &readCloserFaker{zr}, nil
	case CompressionBZip2:
		return &readCloserFaker{bzip2.NewReader(br)}, nil
	case CompressionXZ:
		reader, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return &readCloserFaker{reader}, nil
	case CompressionZ:
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return zr, nil
	}

	// No compression detected. Assume this is plain data.
	return &readCloserFaker{br}, nil
}

// Open opens a local file path or an http(s) URL and transparently
// decompresses gzip, zip, xz, zlib, and bzip2 payloads. The caller must
// Close the result, which also closes the underlying file or HTTP body.
func Open(input string) (io.ReadCloser, error) {
	var src io.ReadCloser

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		resp, err := http.Get(input)
		if err != nil {
			return nil, pfx.Err(err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, pfx.Err(fmt.Errorf("%s: %s", input, resp.Status))
		}

		src = resp.Body
	} else {
		file, err := os.Open(ExpandHome(input))
		if err != nil {
			return nil, pfx.Err(err)
		}

		src = file
	}

	decomp, err := NewDecompressingReader(src)
	if err != nil {
		src.Close()
		return nil, err
	}

	return &stackedCloser{Reader: decomp, closers: []io.Closer{decomp, src}}, nil
}

// ReadAllData is Open followed by a full read, for callers that want the
// whole payload in memory.
func ReadAllData(input string) ([]byte, error) {
	rc, err := Open(input)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return data, nil
}

// readCloserFaker "upgrades" readers that don't need to be closed
type readCloserFaker struct {
	io.Reader
}

func (c *readCloserFaker) Close() error {
	return nil
}

// stackedCloser closes every layer of a reader chain, outermost first.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ io.ReadCloser = (*stackedCloser)(nil)

package table

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const utf8BOM = "\uFEFF"

// DataSet is a parsed CSV file: the header row and the data rows below it.
// It is never modified after parsing.
type DataSet struct {
	Header []string
	Rows   [][]string
}

// Options controls how raw bytes become a DataSet.
type Options struct {
	// Encoding names a non-UTF-8 source encoding (e.g. "windows-1252").
	// Empty means UTF-8.
	Encoding string
}

// ReadFile opens path and parses it.
func ReadFile(path string, opts Options) (*DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ds, nil
}

// Parse reads all of r and tokenizes it. The first non-empty line is the header.
func Parse(r io.Reader, opts Options) (*DataSet, error) {
	// Transcode non-UTF-8 encodings.
	if enc := opts.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		r = transform.NewReader(r, e.NewDecoder())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ParseString(string(data)), nil
}

// ParseString tokenizes an in-memory CSV text.
func ParseString(text string) *DataSet {
	lines := SplitLines(strings.TrimPrefix(text, utf8BOM))
	ds := &DataSet{}
	if len(lines) == 0 {
		return ds
	}
	ds.Header = ParseRow(lines[0])
	ds.Rows = make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		ds.Rows = append(ds.Rows, ParseRow(line))
	}
	return ds
}

// Len returns the number of data rows.
func (d *DataSet) Len() int {
	return len(d.Rows)
}

// Field returns row[idx], or "" when idx is out of range.
func Field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}

package table

import (
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
)

// RecordReader yields the data rows of a DataSet padded or truncated to the
// header width. It satisfies csvutil.Reader.
type RecordReader struct {
	ds   *DataSet
	next int
}

// Records returns a reader positioned on the first data row.
func (d *DataSet) Records() *RecordReader {
	return &RecordReader{ds: d}
}

// Read returns the next record, or io.EOF after the last row.
func (r *RecordReader) Read() ([]string, error) {
	if r.next >= len(r.ds.Rows) {
		return nil, io.EOF
	}
	row := r.ds.Rows[r.next]
	r.next++

	rec := make([]string, len(r.ds.Header))
	copy(rec, row)
	return rec, nil
}

// DecodeAll decodes every data row into a T whose fields are tagged with
// header names (`csv:"ISO"`). Columns absent from the header leave the field
// zero. Use string fields and Coerce for numbers.
func DecodeAll[T any](ds *DataSet) ([]T, error) {
	if len(ds.Header) == 0 {
		return nil, nil
	}
	dec, err := csvutil.NewDecoder(ds.Records(), ds.Header...)
	if err != nil {
		return nil, fmt.Errorf("csv decoder: %w", err)
	}

	out := make([]T, 0, ds.Len())
	for {
		var v T
		if err := dec.Decode(&v); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", len(out)+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

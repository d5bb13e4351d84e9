package encoding

import (
	"io"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

// BooleanReader unpacks a byte RLE stream into booleans, eight per byte,
// most significant bit first.
//
// The last byte of a stream may be only partly used, so the caller passes
// the exact number of booleans it expects. Asking for more returns io.EOF; a
// stream that runs out before the budget is reached is truncated.
type BooleanReader struct {
	bytes  *ByteRLEReader
	budget int
	cur    byte
	bits   int // bits of cur not yet returned
	err    error
}

func NewBooleanReader(src orcio.ByteSource, rows int) *BooleanReader {
	return &BooleanReader{
		bytes:  NewByteRLEReader(src),
		budget: rows,
	}
}

func (d *BooleanReader) Next() (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.budget == 0 {
		return false, io.EOF
	}
	if d.bits == 0 {
		b, err := d.bytes.Next()
		if err == io.EOF {
			err = lerrors.New(lerrors.ErrUnexpectedEOF).
				Op("decode_boolean_rle").
				Offset(d.bytes.Offset()).
				Context("missing_values", d.budget).
				Severity(lerrors.SeverityFatal).
				Build()
		}
		if err != nil {
			d.err = err
			return false, err
		}
		d.cur = b
		d.bits = 8
	}
	d.bits--
	d.budget--
	return d.cur>>d.bits&1 == 1, nil
}

// Remaining returns how many booleans can still be read.
func (d *BooleanReader) Remaining() int {
	return d.budget
}

package encoding

import (
	"errors"
	"io"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

// Values is a byte cursor over the DATA stream of a variable-width column.
//
// It knows nothing about rows: the caller passes the length of each element,
// normally pulled from the column's LENGTH stream. Bytes are consumed exactly
// once and in order.
type Values struct {
	r byteReader
}

func NewValues(src orcio.ByteSource) *Values {
	return &Values{r: byteReader{src: src}}
}

// Next returns the next length bytes as a fresh slice owned by the caller.
// A stream holding fewer than length bytes is an ErrLengthMismatch error;
// element alignment is lost at that point so the cursor must not be reused.
func (v *Values) Next(length int) ([]byte, error) {
	if length < 0 {
		return nil, lerrors.InvalidArg("read_values", "negative length")
	}
	out := make([]byte, length)
	if length == 0 {
		return out, nil
	}

	start := v.r.off
	n, err := v.r.readFull(out)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, lerrors.LengthMismatch(start, length, n)
		}
		return nil, v.r.fail("values", err)
	}
	return out, nil
}

// Offset returns the number of bytes consumed from the value stream.
func (v *Values) Offset() int64 {
	return v.r.off
}

package encoding

import (
	"io"

	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

const (
	// MinRepeatSize is the shortest repeated run of the v1 protocols; the
	// control byte stores the run length minus this value.
	MinRepeatSize = 3
	// MaxRepeatSize is the longest repeated run (127 + MinRepeatSize).
	MaxRepeatSize = 127 + MinRepeatSize
	// MaxLiteralSize is the longest literal run of the v1 protocols.
	MaxLiteralSize = 128
)

// ByteRLEReader decodes the byte run-length protocol.
//
// Each run starts with a control byte c read as int8: c >= 0 is a repeated
// run of c+3 copies of the following byte, c < 0 is a literal run of -c bytes.
type ByteRLEReader struct {
	r byteReader

	literals  [MaxLiteralSize]byte
	repeat    bool
	value     byte
	remaining int
	idx       int
	err       error
}

func NewByteRLEReader(src orcio.ByteSource) *ByteRLEReader {
	return &ByteRLEReader{r: byteReader{src: src}}
}

// Next returns the next byte, or io.EOF when the stream ends on a run
// boundary.
func (d *ByteRLEReader) Next() (byte, error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.remaining == 0 {
		if err := d.readRun(); err != nil {
			d.err = err
			return 0, err
		}
	}
	d.remaining--
	if d.repeat {
		return d.value, nil
	}
	b := d.literals[d.idx]
	d.idx++
	return b, nil
}

func (d *ByteRLEReader) readRun() error {
	c, err := d.r.ReadByte()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return d.r.fail("byte_rle", err)
	}

	ctrl := int8(c)
	if ctrl >= 0 {
		v, err := d.r.ReadByte()
		if err != nil {
			return d.r.fail("byte_rle", err)
		}
		d.repeat = true
		d.value = v
		d.remaining = int(ctrl) + MinRepeatSize
		return nil
	}

	n := -int(ctrl)
	if _, err := d.r.readFull(d.literals[:n]); err != nil {
		return d.r.fail("byte_rle", err)
	}
	d.repeat = false
	d.idx = 0
	d.remaining = n
	return nil
}

// Offset returns the number of stream bytes consumed so far.
func (d *ByteRLEReader) Offset() int64 {
	return d.r.off
}

package encoding

import (
	"io"

	"golang.org/x/exp/constraints"

	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

// RLEv1Reader decodes the version 1 integer run-length protocol used by
// DIRECT column encodings.
//
// A control byte c read as int8 starts every run:
//   - c >= 0: repeated run of c+3 values, followed by a signed delta byte
//     and a varint base. Values are base, base+delta, base+2*delta, ...
//   - c < 0: literal run of -c varints.
//
// Signed streams zig-zag encode their varints. Only the current run is held
// in memory.
type RLEv1Reader[T constraints.Integer] struct {
	r      byteReader
	signed bool

	literals [MaxRepeatSize]int64
	n        int // values in the current run
	used     int
	err      error
}

func NewRLEv1Reader[T constraints.Integer](src orcio.ByteSource, signed bool) *RLEv1Reader[T] {
	return &RLEv1Reader[T]{r: byteReader{src: src}, signed: signed}
}

func (d *RLEv1Reader[T]) Next() (T, error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.used == d.n {
		if err := d.readRun(); err != nil {
			d.err = err
			return 0, err
		}
	}
	v := d.literals[d.used]
	d.used++
	return T(v), nil
}

func (d *RLEv1Reader[T]) readValue() (int64, error) {
	if d.signed {
		return d.r.readVarint("rle_v1")
	}
	u, err := d.r.readUvarint("rle_v1")
	return int64(u), err
}

func (d *RLEv1Reader[T]) readRun() error {
	c, err := d.r.ReadByte()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return d.r.fail("rle_v1", err)
	}

	d.used = 0
	ctrl := int8(c)
	if ctrl >= 0 {
		count := int(ctrl) + MinRepeatSize
		db, err := d.r.ReadByte()
		if err != nil {
			return d.r.fail("rle_v1", err)
		}
		delta := int64(int8(db))
		base, err := d.readValue()
		if err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			d.literals[i] = base + int64(i)*delta
		}
		d.n = count
		return nil
	}

	count := -int(ctrl)
	for i := 0; i < count; i++ {
		v, err := d.readValue()
		if err != nil {
			return err
		}
		d.literals[i] = v
	}
	d.n = count
	return nil
}

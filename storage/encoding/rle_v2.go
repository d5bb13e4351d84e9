package encoding

import (
	"io"

	"golang.org/x/exp/constraints"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

// Sub-encodings of RLE v2, stored in the top two bits of the header byte.
const (
	subShortRepeat = iota
	subDirect
	subPatchedBase
	subDelta
)

const (
	// MaxRLEv2Run is the longest run a v2 header can describe (9 bit length + 1).
	MaxRLEv2Run = 512
	maxPatchList = 31
)

// RLEv2Reader decodes the version 2 integer run-length protocol used by
// DIRECT_V2 column encodings. Four sub-encodings are supported:
//
//   - SHORT_REPEAT: 3..10 copies of one value stored in 1..8 bytes
//   - DIRECT: up to 512 bit-packed values
//   - PATCHED_BASE: bit-packed offsets from a base plus a patch list for
//     the few values that need extra high bits
//   - DELTA: a base, a delta base and bit-packed delta magnitudes
//
// Bit-packed values are big-endian and every run starts on a byte boundary.
type RLEv2Reader[T constraints.Integer] struct {
	r      byteReader
	signed bool

	literals [MaxRLEv2Run]int64
	patches  [maxPatchList]int64
	n        int
	used     int
	err      error
}

func NewRLEv2Reader[T constraints.Integer](src orcio.ByteSource, signed bool) *RLEv2Reader[T] {
	return &RLEv2Reader[T]{r: byteReader{src: src}, signed: signed}
}

func (d *RLEv2Reader[T]) Next() (T, error) {
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

func (d *RLEv2Reader[T]) readRun() error {
	first, err := d.r.ReadByte()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return d.r.fail("rle_v2", err)
	}

	d.used = 0
	switch first >> 6 {
	case subShortRepeat:
		return d.readShortRepeat(first)
	case subDirect:
		return d.readDirect(first)
	case subPatchedBase:
		return d.readPatchedBase(first)
	default:
		return d.readDelta(first)
	}
}

// runLength reads the 9 bit run length split across the header byte and the
// byte after it.
func (d *RLEv2Reader[T]) runLength(first byte) (int, error) {
	second, err := d.r.ReadByte()
	if err != nil {
		return 0, d.r.fail("rle_v2", err)
	}
	return (int(first&0x01)<<8 | int(second)) + 1, nil
}

func (d *RLEv2Reader[T]) readShortRepeat(first byte) error {
	size := int(first>>3&0x07) + 1
	count := int(first&0x07) + MinRepeatSize

	u, err := d.r.readBE("rle_v2_short_repeat", size)
	if err != nil {
		return err
	}
	v := int64(u)
	if d.signed {
		v = ZigZagDecode(u)
	}
	for i := 0; i < count; i++ {
		d.literals[i] = v
	}
	d.n = count
	return nil
}

func (d *RLEv2Reader[T]) readDirect(first byte) error {
	width := decodeBitWidth(first >> 1 & 0x1f)
	length, err := d.runLength(first)
	if err != nil {
		return err
	}
	if err := d.readInts(d.literals[:length], width); err != nil {
		return err
	}
	if d.signed {
		for i := 0; i < length; i++ {
			d.literals[i] = ZigZagDecode(uint64(d.literals[i]))
		}
	}
	d.n = length
	return nil
}

func (d *RLEv2Reader[T]) readDelta(first byte) error {
	width := 0
	if fb := first >> 1 & 0x1f; fb != 0 {
		width = decodeBitWidth(fb)
	}
	length, err := d.runLength(first)
	if err != nil {
		return err
	}

	var base int64
	if d.signed {
		base, err = d.r.readVarint("rle_v2_delta")
	} else {
		var u uint64
		u, err = d.r.readUvarint("rle_v2_delta")
		base = int64(u)
	}
	if err != nil {
		return err
	}
	deltaBase, err := d.r.readVarint("rle_v2_delta")
	if err != nil {
		return err
	}

	lit := d.literals[:length]
	lit[0] = base
	if length > 1 {
		lit[1] = base + deltaBase
	}
	if width == 0 {
		// fixed delta
		for i := 2; i < length; i++ {
			lit[i] = lit[i-1] + deltaBase
		}
	} else if length > 2 {
		// 只存储 delta 的绝对值，符号由 deltaBase 决定
		if err := d.readInts(lit[2:], width); err != nil {
			return err
		}
		for i := 2; i < length; i++ {
			if deltaBase < 0 {
				lit[i] = lit[i-1] - lit[i]
			} else {
				lit[i] = lit[i-1] + lit[i]
			}
		}
	}
	d.n = length
	return nil
}

func (d *RLEv2Reader[T]) readPatchedBase(first byte) error {
	width := decodeBitWidth(first >> 1 & 0x1f)
	length, err := d.runLength(first)
	if err != nil {
		return err
	}
	third, err := d.r.ReadByte()
	if err != nil {
		return d.r.fail("rle_v2_patched_base", err)
	}
	fourth, err := d.r.ReadByte()
	if err != nil {
		return d.r.fail("rle_v2_patched_base", err)
	}

	baseBytes := int(third>>5&0x07) + 1
	patchWidth := decodeBitWidth(third & 0x1f)
	gapWidth := int(fourth>>5&0x07) + 1
	patchLen := int(fourth & 0x1f)
	if patchWidth+gapWidth > 64 {
		return lerrors.New(lerrors.ErrDecodeFailed).
			Op("decode_rle_v2_patched_base").
			Offset(d.r.off).
			Context("patch_width", patchWidth).
			Context("gap_width", gapWidth).
			Context("reason", "patch entry wider than 64 bits").
			Severity(lerrors.SeverityFatal).
			Build()
	}

	// base 以 sign-magnitude 存储，最高位为符号位
	u, err := d.r.readBE("rle_v2_patched_base", baseBytes)
	if err != nil {
		return err
	}
	signBit := uint64(1) << (baseBytes*8 - 1)
	base := int64(u)
	if u&signBit != 0 {
		base = -int64(u &^ signBit)
	}

	lit := d.literals[:length]
	if err := d.readInts(lit, width); err != nil {
		return err
	}
	patches := d.patches[:patchLen]
	if err := d.readInts(patches, closestFixedBits(patchWidth+gapWidth)); err != nil {
		return err
	}

	if patchLen > 0 {
		if !applyPatches(lit, patches, width, patchWidth) {
			return lerrors.DecodeFailed("rle_v2_patched_base", d.r.off, "patch gap points past the run")
		}
	}
	for i := range lit {
		lit[i] += base
	}
	d.n = length
	return nil
}

// applyPatches ORs the patch bits above width into the values they target.
// Each patch entry holds a gap (distance from the previous patched index)
// above patchWidth bits of patch value. Gaps wider than 255 are chained
// through entries with gap 255 and a zero patch.
func applyPatches(lit, patches []int64, width, patchWidth int) bool {
	mask := uint64(1)<<patchWidth - 1
	idx := 0
	pos := 0
	for idx < len(patches) {
		gap := uint64(patches[idx]) >> patchWidth
		patch := uint64(patches[idx]) & mask
		pos += int(gap)
		idx++
		if gap == 255 && patch == 0 {
			continue
		}
		if pos >= len(lit) {
			return false
		}
		lit[pos] = int64(uint64(lit[pos]) | patch<<width)
	}
	return true
}

// readInts unpacks len(dst) big-endian values of width bits. Leftover bits of
// the last byte are dropped; the next run starts on a fresh byte.
func (d *RLEv2Reader[T]) readInts(dst []int64, width int) error {
	var cur uint64
	left := 0
	for i := range dst {
		var v uint64
		need := width
		for need > 0 {
			if left == 0 {
				b, err := d.r.ReadByte()
				if err != nil {
					return d.r.fail("rle_v2", err)
				}
				cur = uint64(b)
				left = 8
			}
			take := need
			if take > left {
				take = left
			}
			v = v<<take | cur>>(left-take)&(1<<take-1)
			left -= take
			need -= take
		}
		dst[i] = int64(v)
	}
	return nil
}

// decodeBitWidth maps the 5 bit width code of a v2 header to a bit width.
func decodeBitWidth(code byte) int {
	switch {
	case code <= 23:
		return int(code) + 1
	case code == 24:
		return 26
	case code == 25:
		return 28
	case code == 26:
		return 30
	case code == 27:
		return 32
	case code == 28:
		return 40
	case code == 29:
		return 48
	case code == 30:
		return 56
	default:
		return 64
	}
}

// closestFixedBits rounds n up to a width the v2 bit packer supports.
func closestFixedBits(n int) int {
	switch {
	case n == 0:
		return 1
	case n <= 24:
		return n
	case n <= 26:
		return 26
	case n <= 28:
		return 28
	case n <= 30:
		return 30
	case n <= 32:
		return 32
	case n <= 40:
		return 40
	case n <= 48:
		return 48
	case n <= 56:
		return 56
	default:
		return 64
	}
}

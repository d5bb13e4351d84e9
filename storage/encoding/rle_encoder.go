package encoding

import (
	"encoding/binary"
)

// RLE v1 encoders. The reader never needs them; they produce stream bytes
// for fixtures and tools that have to write a stripe by hand.

// AppendByteRLE appends the byte RLE encoding of values to dst.
func AppendByteRLE(dst []byte, values []byte) []byte {
	i := 0
	for i < len(values) {
		if run := byteRunAt(values, i); run >= MinRepeatSize {
			dst = append(dst, byte(run-MinRepeatSize), values[i])
			i += run
			continue
		}

		// literal 一直延伸到下一个可重复 run 的起点
		j := i
		for j < len(values) && j-i < MaxLiteralSize {
			if byteRunAt(values, j) >= MinRepeatSize {
				break
			}
			j++
		}
		dst = append(dst, byte(int8(-(j - i))))
		dst = append(dst, values[i:j]...)
		i = j
	}
	return dst
}

func byteRunAt(values []byte, i int) int {
	run := 1
	for i+run < len(values) && run < MaxRepeatSize && values[i+run] == values[i] {
		run++
	}
	return run
}

// AppendBooleanRLE packs values eight to a byte, most significant bit first,
// pads the last byte with zero bits and byte RLE encodes the result.
func AppendBooleanRLE(dst []byte, values []bool) []byte {
	packed := make([]byte, (len(values)+7)/8)
	for i, v := range values {
		if v {
			packed[i/8] |= 0x80 >> (i % 8)
		}
	}
	return AppendByteRLE(dst, packed)
}

// AppendRLEv1 appends the version 1 integer RLE encoding of values to dst.
// Unsigned streams pass the bit pattern of each value.
func AppendRLEv1(dst []byte, values []int64, signed bool) []byte {
	appendValue := func(dst []byte, v int64) []byte {
		if signed {
			return binary.AppendVarint(dst, v)
		}
		return binary.AppendUvarint(dst, uint64(v))
	}

	i := 0
	for i < len(values) {
		if run, delta := intRunAt(values, i); run >= MinRepeatSize {
			dst = append(dst, byte(run-MinRepeatSize), byte(int8(delta)))
			dst = appendValue(dst, values[i])
			i += run
			continue
		}

		j := i
		for j < len(values) && j-i < MaxLiteralSize {
			if run, _ := intRunAt(values, j); run >= MinRepeatSize {
				break
			}
			j++
		}
		dst = append(dst, byte(int8(-(j - i))))
		for _, v := range values[i:j] {
			dst = appendValue(dst, v)
		}
		i = j
	}
	return dst
}

// intRunAt returns the length of the constant-delta run starting at i and
// its delta. Deltas must fit in a signed byte.
func intRunAt(values []int64, i int) (int, int64) {
	if i+1 >= len(values) {
		return 1, 0
	}
	delta := values[i+1] - values[i]
	if delta < -128 || delta > 127 {
		return 1, 0
	}
	run := 2
	for i+run < len(values) && run < MaxRepeatSize && values[i+run]-values[i+run-1] == delta {
		run++
	}
	return run, delta
}

package encoding

import (
	"encoding/binary"
	"errors"
	"io"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

// Iterator is a lazy, forward-only sequence of decoded values.
//
// Next returns io.EOF once the sequence is exhausted. Any other error is
// sticky: the decoder is unusable afterwards and keeps returning it.
type Iterator[T any] interface {
	Next() (T, error)
}

// byteReader counts consumed bytes so errors can report a stream offset.
type byteReader struct {
	src orcio.ByteSource
	off int64
}

func (r *byteReader) ReadByte() (byte, error) {
	b, err := r.src.ReadByte()
	if err != nil {
		return 0, err
	}
	r.off++
	return b, nil
}

func (r *byteReader) readFull(p []byte) (int, error) {
	n, err := io.ReadFull(r.src, p)
	r.off += int64(n)
	return n, err
}

func (r *byteReader) readUvarint(decoder string) (uint64, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, r.fail(decoder, err)
	}
	return v, nil
}

// readVarint reads a zig-zag encoded varint. binary.ReadVarint uses the same
// (n << 1) ^ (n >> 63) mapping as ORC.
func (r *byteReader) readVarint(decoder string) (int64, error) {
	v, err := binary.ReadVarint(r)
	if err != nil {
		return 0, r.fail(decoder, err)
	}
	return v, nil
}

// readBE reads an n byte big-endian unsigned integer.
func (r *byteReader) readBE(decoder string, n int) (uint64, error) {
	var v uint64
	for i := 0; i < n; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, r.fail(decoder, err)
		}
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// fail converts an error hit in the middle of a run. An EOF there means the
// stream was truncated, which is never a clean end of data.
func (r *byteReader) fail(decoder string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return lerrors.UnexpectedEOF(decoder, r.off, err)
	}
	var oe *lerrors.OrcError
	if errors.As(err, &oe) {
		return err
	}
	return lerrors.New(lerrors.ErrDecodeFailed).
		Op("decode_" + decoder).
		Offset(r.off).
		Wrap(err).
		Severity(lerrors.SeverityFatal).
		Build()
}

// ZigZagEncode maps a signed integer onto an unsigned one so that values of
// small magnitude get short varints.
func ZigZagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// ZigZagDecode inverts ZigZagEncode.
func ZigZagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

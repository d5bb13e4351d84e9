package io

import (
	"io"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/format"
)

// ChunkReader turns the raw bytes of one compressed stream into a ByteSource.
//
// On disk a compressed stream is a sequence of chunks, each preceded by a
// 3 byte little-endian header h: h&1 marks a chunk stored without
// compression ("original"), h>>1 is the chunk length in bytes. Chunks are
// decompressed one at a time, so memory stays bounded by the block size.
type ChunkReader struct {
	raw       []byte
	pos       int // 下一个 chunk header 在 raw 中的位置
	codec     Codec
	blockSize int

	buf     []byte // 当前解压后的 chunk
	off     int    // buf 内的读取位置
	scratch []byte
}

// NewChunkReader returns a ByteSource over raw. With CompressionNone the
// bytes are not framed and are returned as a BytesSource.
func NewChunkReader(raw []byte, c format.Compression) (ByteSource, error) {
	if c.Kind == format.CompressionNone {
		return NewBytesSource(raw), nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	codec, err := CodecFor(c.Kind)
	if err != nil {
		return nil, err
	}
	return &ChunkReader{
		raw:       raw,
		codec:     codec,
		blockSize: c.BlockSize,
	}, nil
}

// nextChunk loads the next non-empty chunk into buf. It returns io.EOF when
// the raw stream ends on a chunk boundary.
func (r *ChunkReader) nextChunk() error {
	for {
		if r.pos >= len(r.raw) {
			return io.EOF
		}
		start := int64(r.pos)
		if len(r.raw)-r.pos < format.ChunkHeaderSize {
			return lerrors.DecodeFailed("chunk_header", start, "truncated chunk header")
		}
		h := int(r.raw[r.pos]) | int(r.raw[r.pos+1])<<8 | int(r.raw[r.pos+2])<<16
		r.pos += format.ChunkHeaderSize

		original := h&1 == 1
		length := h >> 1
		if length > len(r.raw)-r.pos {
			return lerrors.New(lerrors.ErrCorruptedFile).
				Op("read_chunk").
				Offset(start).
				Context("chunk_length", length).
				Context("available", len(r.raw)-r.pos).
				Severity(lerrors.SeverityFatal).
				Build()
		}
		chunk := r.raw[r.pos : r.pos+length]
		r.pos += length

		if original {
			if length > r.blockSize {
				return lerrors.BufferTooSmall("read_chunk", length, r.blockSize)
			}
			r.buf = chunk
		} else {
			out, err := r.codec.Decompress(r.scratch, chunk, r.blockSize)
			if err != nil {
				return lerrors.DecompressFailed(r.codec.Name(), start, err)
			}
			r.scratch = out
			r.buf = out
		}
		r.off = 0
		if len(r.buf) > 0 {
			return nil
		}
	}
}

func (r *ChunkReader) ReadByte() (byte, error) {
	if r.off >= len(r.buf) {
		if err := r.nextChunk(); err != nil {
			return 0, err
		}
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *ChunkReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.off >= len(r.buf) {
			if err := r.nextChunk(); err != nil {
				if err == io.EOF && n > 0 {
					return n, nil
				}
				return n, err
			}
		}
		c := copy(p[n:], r.buf[r.off:])
		r.off += c
		n += c
	}
	return n, nil
}

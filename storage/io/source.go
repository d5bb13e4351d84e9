package io

import (
	"io"
)

// ByteSource is a pull-based reader over one decompressed stream.
//
// Reading past the end returns io.EOF. It is up to the decoders to decide
// whether an EOF is a clean end of stream or a truncated run.
type ByteSource interface {
	io.Reader
	io.ByteReader
}

// BytesSource is a ByteSource over an in-memory, uncompressed buffer.
type BytesSource struct {
	buf []byte
	off int
}

// NewBytesSource 创建内存 ByteSource（不拷贝 buf）
func NewBytesSource(buf []byte) *BytesSource {
	return &BytesSource{buf: buf}
}

func (s *BytesSource) ReadByte() (byte, error) {
	if s.off >= len(s.buf) {
		return 0, io.EOF
	}
	b := s.buf[s.off]
	s.off++
	return b, nil
}

func (s *BytesSource) Read(p []byte) (int, error) {
	if s.off >= len(s.buf) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.off:])
	s.off += n
	return n, nil
}

// Remaining returns the number of unread bytes.
func (s *BytesSource) Remaining() int {
	return len(s.buf) - s.off
}

// Offset returns the number of bytes consumed so far.
func (s *BytesSource) Offset() int {
	return s.off
}

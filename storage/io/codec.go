package io

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/format"
)

// Codec decompresses a single chunk of a compressed stream.
type Codec interface {
	// Name is the name of the compression algorithm.
	Name() string
	// Decompress decodes src into dst[:0] and returns the result. The output
	// must not exceed limit bytes; a larger chunk is an error, since a writer
	// never produces chunks bigger than the block size.
	Decompress(dst, src []byte, limit int) ([]byte, error)
}

// CodecFor returns the codec for a compression kind. CompressionNone has no
// codec and returns (nil, nil).
func CodecFor(kind format.CompressionKind) (Codec, error) {
	switch kind {
	case format.CompressionNone:
		return nil, nil
	case format.CompressionZlib:
		return &zlibCodec{}, nil
	case format.CompressionSnappy:
		return snappyCodec{}, nil
	case format.CompressionLZ4:
		return lz4Codec{}, nil
	case format.CompressionZstd:
		return zstdCodec{}, nil
	case format.CompressionLZO:
		return nil, lerrors.NotSupported("codec_for", "lzo compression")
	default:
		return nil, lerrors.New(lerrors.ErrNotSupported).
			Op("codec_for").
			Context("compression", kind.String()).
			Build()
	}
}

// zlibCodec handles ZLIB chunks. ORC writes raw deflate without the zlib
// header or checksum.
type zlibCodec struct {
	fr io.ReadCloser
}

func (z *zlibCodec) Name() string { return "zlib" }

func (z *zlibCodec) Decompress(dst, src []byte, limit int) ([]byte, error) {
	if z.fr == nil {
		z.fr = flate.NewReader(bytes.NewReader(src))
	} else if err := z.fr.(flate.Resetter).Reset(bytes.NewReader(src), nil); err != nil {
		return nil, err
	}

	out := bytes.NewBuffer(dst[:0])
	// 多读 1 字节用于判断是否超过 limit
	n, err := io.Copy(out, io.LimitReader(z.fr, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if n > int64(limit) {
		return nil, lerrors.BufferTooSmall("zlib_decompress", int(n), limit)
	}
	return out.Bytes(), nil
}

type snappyCodec struct{}

func (snappyCodec) Name() string { return "snappy" }

// Decompress uses s2, which reads the snappy block format.
func (snappyCodec) Decompress(dst, src []byte, limit int) ([]byte, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, lerrors.BufferTooSmall("snappy_decompress", n, limit)
	}
	return s2.Decode(grow(dst, n), src)
}

type lz4Codec struct{}

func (lz4Codec) Name() string { return "lz4" }

func (lz4Codec) Decompress(dst, src []byte, limit int) ([]byte, error) {
	out := grow(dst, limit)
	n, err := lz4.UncompressBlock(src, out)
	if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
		// 块格式不带解压后长度，输出放不下 limit 时只能从这个错误判断
		return nil, lerrors.New(lerrors.ErrBufferTooSmall).
			Op("lz4_decompress").
			Context("available_bytes", limit).
			Wrap(err).
			Build()
	}
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

var (
	zstdOnce    sync.Once
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

// sharedZstd returns the process-wide zstd decoder. DecodeAll is safe for
// concurrent use. Output is capped at the largest legal block size so a
// corrupt frame cannot allocate past it.
func sharedZstd() (*zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdDecoder, zstdErr = zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(0),
			zstd.WithDecoderMaxMemory(uint64(format.MaxCompressionBlockSize)+1),
		)
	})
	return zstdDecoder, zstdErr
}

type zstdCodec struct{}

func (zstdCodec) Name() string { return "zstd" }

func (zstdCodec) Decompress(dst, src []byte, limit int) ([]byte, error) {
	dec, err := sharedZstd()
	if err != nil {
		return nil, err
	}
	out, err := dec.DecodeAll(src, dst[:0])
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
		return nil, lerrors.New(lerrors.ErrBufferTooSmall).
			Op("zstd_decompress").
			Context("available_bytes", limit).
			Wrap(err).
			Build()
	}
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		return nil, lerrors.BufferTooSmall("zstd_decompress", len(out), limit)
	}
	return out, nil
}

// grow returns buf resliced to n bytes, reallocating only when cap is short.
func grow(buf []byte, n int) []byte {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]byte, n)
}

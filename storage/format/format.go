package format

import (
	"fmt"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
)

// ORC stripe format constants
const (
	// DefaultCompressionBlockSize is the writer default for the size of one
	// decompressed chunk (256 KB).
	DefaultCompressionBlockSize = 256 * 1024

	// MaxCompressionBlockSize bounds the block size a reader accepts. The
	// chunk header stores lengths in 23 bits.
	MaxCompressionBlockSize = 1<<23 - 1

	// MaxStripeSize bounds the bytes LoadStripe reads for one stripe.
	MaxStripeSize = 1 << 31

	// ChunkHeaderSize is the size of the header in front of every
	// compressed chunk.
	ChunkHeaderSize = 3
)

// StreamKind identifies the role of a byte stream for a column.
type StreamKind uint8

const (
	StreamPresent        StreamKind = iota // null bitmap, boolean RLE
	StreamData                             // primary values
	StreamLength                           // element byte lengths for variable-width types
	StreamDictionaryData                   // dictionary blob
	StreamDictionaryCount
	StreamSecondary
	StreamRowIndex
	StreamBloomFilter
	StreamBloomFilterUTF8
)

func (k StreamKind) String() string {
	switch k {
	case StreamPresent:
		return "PRESENT"
	case StreamData:
		return "DATA"
	case StreamLength:
		return "LENGTH"
	case StreamDictionaryData:
		return "DICTIONARY_DATA"
	case StreamDictionaryCount:
		return "DICTIONARY_COUNT"
	case StreamSecondary:
		return "SECONDARY"
	case StreamRowIndex:
		return "ROW_INDEX"
	case StreamBloomFilter:
		return "BLOOM_FILTER"
	case StreamBloomFilterUTF8:
		return "BLOOM_FILTER_UTF8"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// ColumnEncoding is the per-stripe encoding of a column. It selects the
// integer run-length protocol used by the column's DATA and LENGTH streams.
type ColumnEncoding uint8

const (
	EncodingDirect       ColumnEncoding = iota // integer RLE v1
	EncodingDictionary                         // not supported by this reader
	EncodingDirectV2                           // integer RLE v2
	EncodingDictionaryV2                       // not supported by this reader
)

func (e ColumnEncoding) String() string {
	switch e {
	case EncodingDirect:
		return "DIRECT"
	case EncodingDictionary:
		return "DICTIONARY"
	case EncodingDirectV2:
		return "DIRECT_V2"
	case EncodingDictionaryV2:
		return "DICTIONARY_V2"
	default:
		return fmt.Sprintf("Unknown(%d)", e)
	}
}

// CompressionKind is the codec applied to every stream of a file.
type CompressionKind uint8

const (
	CompressionNone CompressionKind = iota
	CompressionZlib
	CompressionSnappy
	CompressionLZO
	CompressionLZ4
	CompressionZstd
)

func (c CompressionKind) String() string {
	switch c {
	case CompressionNone:
		return "NONE"
	case CompressionZlib:
		return "ZLIB"
	case CompressionSnappy:
		return "SNAPPY"
	case CompressionLZO:
		return "LZO"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZstd:
		return "ZSTD"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// Compression describes how stream bytes are framed on disk.
type Compression struct {
	Kind      CompressionKind
	BlockSize int
}

// NoCompression is the compression setting of an uncompressed file.
var NoCompression = Compression{Kind: CompressionNone}

// Validate checks the block size for compressed files.
func (c Compression) Validate() error {
	if c.Kind == CompressionNone {
		return nil
	}
	if c.BlockSize <= 0 || c.BlockSize > MaxCompressionBlockSize {
		return lerrors.New(lerrors.ErrInvalidArgument).
			Op("validate_compression").
			Context("codec", c.Kind.String()).
			Context("block_size", c.BlockSize).
			Build()
	}
	return nil
}

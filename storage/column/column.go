package column

import (
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/format"
	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

// StreamMap resolves the decompressed stream for a (column, kind) pair
// within one stripe. Every call returns a fresh source; a source is never
// shared between two decoders.
type StreamMap interface {
	Get(col format.Column, kind format.StreamKind) (orcio.ByteSource, bool)
}

// Stripe is the slice of stripe-level metadata the column decoders need.
type Stripe struct {
	ID       string // correlation id for logs and errors
	RowCount int
	Streams  StreamMap
}

// NewStripe creates a stripe with a random correlation id.
func NewStripe(rowCount int, streams StreamMap) *Stripe {
	return &Stripe{
		ID:       uuid.NewString(),
		RowCount: rowCount,
		Streams:  streams,
	}
}

type streamKey struct {
	column uint32
	kind   format.StreamKind
}

// MemStreams is a StreamMap over the raw (possibly compressed) bytes of each
// stream, as they were cut out of the stripe. The zero value serves
// uncompressed streams.
type MemStreams struct {
	compression format.Compression
	streams     map[streamKey][]byte
}

// NewMemStreams validates the compression settings up front so that Get
// cannot fail later.
func NewMemStreams(c format.Compression) (*MemStreams, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if _, err := orcio.CodecFor(c.Kind); err != nil {
		return nil, err
	}
	return &MemStreams{
		compression: c,
		streams:     make(map[streamKey][]byte),
	}, nil
}

// Put registers the raw bytes of one stream, replacing any previous entry.
func (m *MemStreams) Put(column uint32, kind format.StreamKind, raw []byte) {
	if m.streams == nil {
		m.streams = make(map[streamKey][]byte)
	}
	m.streams[streamKey{column: column, kind: kind}] = raw
}

func (m *MemStreams) Get(col format.Column, kind format.StreamKind) (orcio.ByteSource, bool) {
	raw, ok := m.streams[streamKey{column: col.ID, kind: kind}]
	if !ok {
		return nil, false
	}
	src, err := orcio.NewChunkReader(raw, m.compression)
	if err != nil {
		// compression was validated in NewMemStreams
		return nil, false
	}
	return src, true
}

// requireStream looks up a stream that the column cannot be decoded without.
func requireStream(col format.Column, stripe *Stripe, kind format.StreamKind, cfg *Config) (orcio.ByteSource, error) {
	src, ok := stripe.Streams.Get(col, kind)
	if !ok {
		level.Warn(cfg.Logger).Log("msg", "required stream missing", "stripe", stripe.ID, "column", col.Name, "stream", kind)
		return nil, lerrors.InvalidColumn(col.Name, col.StreamName(kind))
	}
	return src, nil
}

// requireDirect rejects dictionary encodings, which this reader does not
// decode.
func requireDirect(col format.Column) error {
	switch col.Encoding {
	case format.EncodingDirect, format.EncodingDirectV2:
		return nil
	default:
		return lerrors.New(lerrors.ErrNotSupported).
			Op("new_column_iterator").
			Context("column", col.Name).
			Context("encoding", col.Encoding.String()).
			Build()
	}
}

func validateStripe(stripe *Stripe) error {
	if stripe == nil || stripe.Streams == nil {
		return lerrors.InvalidArg("new_column_iterator", "stripe has no stream map")
	}
	if stripe.RowCount < 0 {
		return lerrors.New(lerrors.ErrInvalidArgument).
			Op("new_column_iterator").
			Context("row_count", stripe.RowCount).
			Build()
	}
	return nil
}

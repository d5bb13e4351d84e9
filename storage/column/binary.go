package column

import (
	"github.com/go-kit/log/level"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/encoding"
	"github.com/wzqhbustb/orcstripe/storage/format"
)

// NewBinaryIterator decodes a direct-encoded binary column from its DATA
// (concatenated bytes) and LENGTH (one unsigned length per present row)
// streams.
func NewBinaryIterator(col format.Column, stripe *Stripe, opts ...Option) (*NullableIterator[[]byte], error) {
	cfg := newConfig(opts)

	present, values, err := newBinaryValues(col, stripe, cfg)
	if err != nil {
		return nil, err
	}
	return NewNullableIterator[[]byte](present, values), nil
}

func newBinaryValues(col format.Column, stripe *Stripe, cfg *Config) ([]bool, *binaryValues, error) {
	if err := requireDirect(col); err != nil {
		return nil, nil, err
	}
	present, err := readPresent(col, stripe)
	if err != nil {
		return nil, nil, err
	}

	data, err := requireStream(col, stripe, format.StreamData, cfg)
	if err != nil {
		return nil, nil, err
	}
	lengthSrc, err := requireStream(col, stripe, format.StreamLength, cfg)
	if err != nil {
		return nil, nil, err
	}
	lengths, err := encoding.NewUnsignedIntReader(col, lengthSrc)
	if err != nil {
		return nil, nil, err
	}

	level.Debug(cfg.Logger).Log("msg", "binary column ready", "stripe", stripe.ID, "column", col.Name, "encoding", col.Encoding, "rows", len(present), "present_rows", countPresent(present))
	return present, &binaryValues{
		lengths: lengths,
		values:  encoding.NewValues(data),
		maxLen:  cfg.MaxValueLength,
	}, nil
}

// binaryValues pulls one length and then exactly that many value bytes.
type binaryValues struct {
	lengths encoding.Iterator[uint64]
	values  *encoding.Values
	maxLen  int
}

func (b *binaryValues) Next() ([]byte, error) {
	n, err := b.lengths.Next()
	if err != nil {
		return nil, err
	}
	if n > uint64(b.maxLen) {
		return nil, lerrors.New(lerrors.ErrBufferTooSmall).
			Op("read_values").
			Offset(b.values.Offset()).
			Context("requested_bytes", n).
			Context("max_value_length", b.maxLen).
			Severity(lerrors.SeverityFatal).
			Build()
	}
	return b.values.Next(int(n))
}

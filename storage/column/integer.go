package column

import (
	"github.com/go-kit/log/level"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/encoding"
	"github.com/wzqhbustb/orcstripe/storage/format"
)

// NewIntegerIterator decodes a tinyint, smallint, int or bigint column.
// tinyint values are stored with byte RLE, the wider kinds with signed
// integer RLE.
func NewIntegerIterator(col format.Column, stripe *Stripe, opts ...Option) (*NullableIterator[int64], error) {
	cfg := newConfig(opts)

	switch col.Kind {
	case format.KindByte, format.KindShort, format.KindInt, format.KindLong:
	default:
		return nil, lerrors.New(lerrors.ErrInvalidArgument).
			Op("new_integer_iterator").
			Context("column", col.Name).
			Context("kind", col.Kind.String()).
			Build()
	}

	if err := requireDirect(col); err != nil {
		return nil, err
	}
	present, err := readPresent(col, stripe)
	if err != nil {
		return nil, err
	}
	src, err := requireStream(col, stripe, format.StreamData, cfg)
	if err != nil {
		return nil, err
	}

	var values encoding.Iterator[int64]
	if col.Kind == format.KindByte {
		values = Map[byte, int64](encoding.NewByteRLEReader(src), func(b byte) (int64, error) {
			return int64(int8(b)), nil
		})
	} else {
		values, err = encoding.NewSignedIntReader(col, src)
		if err != nil {
			return nil, err
		}
	}

	level.Debug(cfg.Logger).Log("msg", "integer column ready", "stripe", stripe.ID, "column", col.Name, "kind", col.Kind, "encoding", col.Encoding, "rows", len(present))
	return NewNullableIterator[int64](present, values), nil
}

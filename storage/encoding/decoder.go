package encoding

import (
	"golang.org/x/exp/constraints"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/format"
	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

// NewSignedIntReader returns the integer decoder for a signed stream of col,
// picking the run-length protocol from the column encoding. Dictionary
// encodings are not supported.
func NewSignedIntReader(col format.Column, src orcio.ByteSource) (Iterator[int64], error) {
	return newIntReader[int64](col, src, true)
}

// NewUnsignedIntReader returns the integer decoder for an unsigned stream of
// col, such as a LENGTH stream.
func NewUnsignedIntReader(col format.Column, src orcio.ByteSource) (Iterator[uint64], error) {
	return newIntReader[uint64](col, src, false)
}

func newIntReader[T constraints.Integer](col format.Column, src orcio.ByteSource, signed bool) (Iterator[T], error) {
	switch col.Encoding {
	case format.EncodingDirect:
		return NewRLEv1Reader[T](src, signed), nil
	case format.EncodingDirectV2:
		return NewRLEv2Reader[T](src, signed), nil
	default:
		return nil, lerrors.New(lerrors.ErrNotSupported).
			Op("new_int_reader").
			Context("column", col.Name).
			Context("encoding", col.Encoding.String()).
			Build()
	}
}

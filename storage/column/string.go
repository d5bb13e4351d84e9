package column

import (
	"unicode/utf8"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/encoding"
	"github.com/wzqhbustb/orcstripe/storage/format"
)

// NewStringIterator decodes a direct-encoded string, varchar or char column.
// The streams are laid out exactly like a binary column.
func NewStringIterator(col format.Column, stripe *Stripe, opts ...Option) (*NullableIterator[string], error) {
	cfg := newConfig(opts)

	present, values, err := newBinaryValues(col, stripe, cfg)
	if err != nil {
		return nil, err
	}

	var strings encoding.Iterator[string]
	if cfg.StrictUTF8 {
		strings = Map[[]byte, string](values, convertUTF8)
	} else {
		strings = Map[[]byte, string](values, func(b []byte) (string, error) {
			return string(b), nil
		})
	}
	return NewNullableIterator[string](present, strings), nil
}

func convertUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", lerrors.ConversionFailed("convert_utf8", len(b), "invalid utf-8")
	}
	return string(b), nil
}

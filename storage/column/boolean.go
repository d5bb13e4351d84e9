package column

import (
	"github.com/go-kit/log/level"

	"github.com/wzqhbustb/orcstripe/storage/encoding"
	"github.com/wzqhbustb/orcstripe/storage/format"
)

// NewBooleanIterator decodes a boolean column. The DATA stream stores one bit
// per present row only, so the bit budget is the number of present rows.
func NewBooleanIterator(col format.Column, stripe *Stripe, opts ...Option) (*NullableIterator[bool], error) {
	cfg := newConfig(opts)

	present, err := readPresent(col, stripe)
	if err != nil {
		return nil, err
	}
	rows := countPresent(present)

	data, err := requireStream(col, stripe, format.StreamData, cfg)
	if err != nil {
		return nil, err
	}

	level.Debug(cfg.Logger).Log("msg", "boolean column ready", "stripe", stripe.ID, "column", col.Name, "rows", len(present), "present_rows", rows)
	return NewNullableIterator[bool](present, encoding.NewBooleanReader(data, rows)), nil
}

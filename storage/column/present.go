package column

import (
	"io"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/encoding"
	"github.com/wzqhbustb/orcstripe/storage/format"
)

// NewPresentIter returns the presence sequence of col: one boolean per row of
// the stripe, true when the row holds a value. Columns without a PRESENT
// stream have no nulls and get an all-true sequence without any stream read.
func NewPresentIter(col format.Column, stripe *Stripe) (encoding.Iterator[bool], error) {
	if err := validateStripe(stripe); err != nil {
		return nil, err
	}
	if src, ok := stripe.Streams.Get(col, format.StreamPresent); ok {
		return encoding.NewBooleanReader(src, stripe.RowCount), nil
	}
	return &allPresent{remaining: stripe.RowCount}, nil
}

type allPresent struct {
	remaining int
}

func (p *allPresent) Next() (bool, error) {
	if p.remaining == 0 {
		return false, io.EOF
	}
	p.remaining--
	return true, nil
}

// readPresent materializes the presence mask. A mask cannot be partly
// trusted, so the first failed element fails the whole column.
func readPresent(col format.Column, stripe *Stripe) ([]bool, error) {
	it, err := NewPresentIter(col, stripe)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, 0, stripe.RowCount)
	for {
		v, err := it.Next()
		if err == io.EOF {
			return mask, nil
		}
		if err != nil {
			return nil, lerrors.New(lerrors.GetCode(err)).
				Op("read_present").
				Stream(col.StreamName(format.StreamPresent)).
				Context("column", col.Name).
				Context("row", len(mask)).
				Wrap(err).
				Severity(lerrors.SeverityFatal).
				Build()
		}
		mask = append(mask, v)
	}
}

func countPresent(mask []bool) int {
	n := 0
	for _, p := range mask {
		if p {
			n++
		}
	}
	return n
}

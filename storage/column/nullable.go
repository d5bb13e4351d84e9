package column

import (
	"io"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/encoding"
)

// NullableIterator overlays a presence mask on a value sequence and yields
// one optional value per row, in on-disk row order.
//
// The value sequence only holds values for present rows. The iterator relies
// on this: values must contain exactly as many elements as present has true
// entries. It does not verify the count up front; a value sequence that is
// too long silently leaves values behind and one that is too short fails at
// the first present row it cannot serve.
//
// The iterator is forward-only and not restartable. Once a row fails, every
// later call returns the same error. Dropping it early performs no further
// reads.
type NullableIterator[T any] struct {
	present []bool
	values  encoding.Iterator[T]
	row     int
	err     error
}

func NewNullableIterator[T any](present []bool, values encoding.Iterator[T]) *NullableIterator[T] {
	return &NullableIterator[T]{present: present, values: values}
}

// Next returns the next row. valid is false for null rows. After the last
// row Next returns io.EOF.
func (it *NullableIterator[T]) Next() (value T, valid bool, err error) {
	if it.err != nil {
		return value, false, it.err
	}
	if it.row >= len(it.present) {
		return value, false, io.EOF
	}

	row := it.row
	it.row++
	if !it.present[row] {
		return value, false, nil
	}

	v, err := it.values.Next()
	if err == io.EOF {
		err = lerrors.New(lerrors.ErrDecodeFailed).
			Op("read_values").
			Context("row", row).
			Context("reason", "value stream ended before the presence mask").
			Severity(lerrors.SeverityFatal).
			Build()
	}
	if err != nil {
		it.err = rowError(err, row)
		return value, false, it.err
	}
	return v, true, nil
}

// Len returns the number of rows, nulls included.
func (it *NullableIterator[T]) Len() int {
	return len(it.present)
}

// Row returns the index of the next row Next will return.
func (it *NullableIterator[T]) Row() int {
	return it.row
}

// Present returns the materialized presence mask. Callers must not modify it.
func (it *NullableIterator[T]) Present() []bool {
	return it.present
}

// Values returns the underlying value sequence for consumers that interleave
// presence and values themselves. Mixing it with Next misaligns rows.
func (it *NullableIterator[T]) Values() encoding.Iterator[T] {
	return it.values
}

// rowError attaches the failing row to structured errors.
func rowError(err error, row int) error {
	var oe *lerrors.OrcError
	if lerrors.As(err, &oe) {
		if _, ok := oe.Context["row"]; !ok {
			oe.WithContext("row", row)
		}
		return err
	}
	return lerrors.New(lerrors.ErrDecodeFailed).
		Op("read_values").
		Context("row", row).
		Wrap(err).
		Build()
}

// Map applies fn to every value of src. A conversion error is returned for
// that element only; src is not advanced past it.
func Map[S, T any](src encoding.Iterator[S], fn func(S) (T, error)) encoding.Iterator[T] {
	return &mapped[S, T]{src: src, fn: fn}
}

type mapped[S, T any] struct {
	src encoding.Iterator[S]
	fn  func(S) (T, error)
}

func (m *mapped[S, T]) Next() (T, error) {
	v, err := m.src.Next()
	if err != nil {
		var zero T
		return zero, err
	}
	return m.fn(v)
}

package column

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
)

// sliceIter yields a fixed sequence, then io.EOF.
type sliceIter[T any] struct {
	values []T
	pulls  int
}

func (s *sliceIter[T]) Next() (T, error) {
	if s.pulls >= len(s.values) {
		var zero T
		return zero, io.EOF
	}
	v := s.values[s.pulls]
	s.pulls++
	return v, nil
}

type failingIter struct {
	after int
	err   error
	pulls int
}

func (f *failingIter) Next() (int, error) {
	if f.pulls == f.after {
		return 0, f.err
	}
	f.pulls++
	return f.pulls, nil
}

func TestNullableIterator_Overlay(t *testing.T) {
	values := &sliceIter[string]{values: []string{"a", "b", "c"}}
	it := NewNullableIterator[string]([]bool{true, false, true, false, true}, values)

	got, valid := collect(t, it)
	assert.Equal(t, []string{"a", "", "b", "", "c"}, got)
	assert.Equal(t, []bool{true, false, true, false, true}, valid)
	assert.Equal(t, 3, values.pulls)
	assert.Equal(t, 5, it.Len())
	assert.Equal(t, 5, it.Row())

	_, _, err := it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNullableIterator_NullRowsPullNothing(t *testing.T) {
	values := &sliceIter[int]{}
	it := NewNullableIterator[int]([]bool{false, false, false}, values)

	_, valid := collect(t, it)
	assert.Equal(t, []bool{false, false, false}, valid)
	assert.Zero(t, values.pulls)
}

func TestNullableIterator_ShortValueStream(t *testing.T) {
	values := &sliceIter[int]{values: []int{1}}
	it := NewNullableIterator[int]([]bool{true, true}, values)

	v, ok, err := it.Next()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, _, err = it.Next()
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
	assert.True(t, lerrors.Is(err, lerrors.ErrDecodeFailed), "got %v", err)

	var oe *lerrors.OrcError
	require.True(t, lerrors.As(err, &oe))
	assert.Equal(t, 1, oe.Context["row"])
}

func TestNullableIterator_ErrorIsStickyAndAttributed(t *testing.T) {
	cause := errors.New("boom")
	values := &failingIter{after: 2, err: cause}
	it := NewNullableIterator[int]([]bool{true, true, false, true, true}, values)

	for i := 0; i < 3; i++ {
		_, _, err := it.Next()
		require.NoError(t, err)
	}

	_, _, err := it.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	var oe *lerrors.OrcError
	require.True(t, lerrors.As(err, &oe))
	assert.Equal(t, 3, oe.Context["row"])

	_, _, again := it.Next()
	assert.Equal(t, err, again)
	assert.Equal(t, 2, values.pulls)
}

func TestMap(t *testing.T) {
	src := &sliceIter[int]{values: []int{1, -1, 2}}
	m := Map[int, uint](src, func(v int) (uint, error) {
		if v < 0 {
			return 0, lerrors.ConversionFailed("to_uint", v, "negative")
		}
		return uint(v), nil
	})

	v, err := m.Next()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)

	_, err = m.Next()
	assert.True(t, lerrors.Is(err, lerrors.ErrConversionFailed))

	// 转换失败不影响后续元素
	v, err = m.Next()
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)

	_, err = m.Next()
	assert.Equal(t, io.EOF, err)
}

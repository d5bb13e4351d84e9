package column

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wzqhbustb/orcstripe/storage/encoding"
	"github.com/wzqhbustb/orcstripe/storage/format"
	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

func newStreams(t *testing.T) *MemStreams {
	t.Helper()
	m, err := NewMemStreams(format.NoCompression)
	require.NoError(t, err)
	return m
}

// collect drains it, returning the values and validity per row.
func collect[T any](t *testing.T, it *NullableIterator[T]) ([]T, []bool) {
	t.Helper()
	var values []T
	var valid []bool
	for {
		v, ok, err := it.Next()
		if err == io.EOF {
			return values, valid
		}
		require.NoError(t, err, "row %d", len(valid))
		values = append(values, v)
		valid = append(valid, ok)
	}
}

func presentBytes(mask ...bool) []byte {
	return encoding.AppendBooleanRLE(nil, mask)
}

func uintRLE(values ...int64) []byte {
	return encoding.AppendRLEv1(nil, values, false)
}

func intRLE(values ...int64) []byte {
	return encoding.AppendRLEv1(nil, values, true)
}

// countingStreams wraps a StreamMap and counts lookups and bytes read.
type countingStreams struct {
	inner StreamMap
	gets  map[format.StreamKind]int
	reads int
}

func newCountingStreams(inner StreamMap) *countingStreams {
	return &countingStreams{inner: inner, gets: make(map[format.StreamKind]int)}
}

func (c *countingStreams) Get(col format.Column, kind format.StreamKind) (orcio.ByteSource, bool) {
	c.gets[kind]++
	src, ok := c.inner.Get(col, kind)
	if !ok {
		return nil, false
	}
	return &countingSource{src: src, reads: &c.reads}, true
}

type countingSource struct {
	src   orcio.ByteSource
	reads *int
}

func (s *countingSource) ReadByte() (byte, error) {
	b, err := s.src.ReadByte()
	if err == nil {
		*s.reads++
	}
	return b, err
}

func (s *countingSource) Read(p []byte) (int, error) {
	n, err := s.src.Read(p)
	*s.reads += n
	return n, err
}

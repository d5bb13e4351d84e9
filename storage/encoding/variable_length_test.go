package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/format"
	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

func TestValues_SlicesExactly(t *testing.T) {
	v := NewValues(orcio.NewBytesSource([]byte("abcdefgh")))

	var got [][]byte
	for _, n := range []int{3, 0, 5} {
		b, err := v.Next(n)
		require.NoError(t, err)
		assert.Len(t, b, n)
		got = append(got, b)
	}
	assert.Equal(t, []byte("abc"), got[0])
	assert.Equal(t, []byte{}, got[1])
	assert.Equal(t, []byte("defgh"), got[2])
	assert.Equal(t, int64(8), v.Offset())

	_, err := v.Next(1)
	require.Error(t, err)
	assert.True(t, lerrors.Is(err, lerrors.ErrLengthMismatch), "got %v", err)
}

func TestValues_ShortStream(t *testing.T) {
	v := NewValues(orcio.NewBytesSource([]byte("abcd")))

	_, err := v.Next(2)
	require.NoError(t, err)

	_, err = v.Next(5)
	require.Error(t, err)

	var oe *lerrors.OrcError
	require.True(t, lerrors.As(err, &oe))
	assert.Equal(t, lerrors.ErrLengthMismatch, oe.Code)
	assert.Equal(t, int64(2), oe.Offset)
	assert.Equal(t, 5, oe.Context["requested_bytes"])
	assert.Equal(t, 2, oe.Context["available_bytes"])
}

func TestValues_ReturnedSlicesAreOwned(t *testing.T) {
	buf := []byte("xyz")
	v := NewValues(orcio.NewBytesSource(buf))

	b, err := v.Next(3)
	require.NoError(t, err)
	buf[0] = 'q'
	assert.Equal(t, []byte("xyz"), b)
}

func TestValues_NegativeLength(t *testing.T) {
	_, err := NewValues(orcio.NewBytesSource(nil)).Next(-1)
	assert.True(t, lerrors.Is(err, lerrors.ErrInvalidArgument), "got %v", err)
}

func TestIntReaderDispatch(t *testing.T) {
	data := []byte{0x0a, 0x27, 0x10} // v2 short repeat, v1 repeated run

	v2 := format.Column{Name: "c", Encoding: format.EncodingDirectV2}
	it, err := NewUnsignedIntReader(v2, orcio.NewBytesSource(data))
	require.NoError(t, err)
	assert.IsType(t, &RLEv2Reader[uint64]{}, it)
	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), first)

	v1 := format.Column{Name: "c", Encoding: format.EncodingDirect}
	sit, err := NewSignedIntReader(v1, orcio.NewBytesSource(data))
	require.NoError(t, err)
	assert.IsType(t, &RLEv1Reader[int64]{}, sit)
	got := drain[int64](t, sit)
	// 13 个值，delta 0x27，base zigzag(0x10)=8
	require.Len(t, got, 13)
	assert.Equal(t, int64(8), got[0])
	assert.Equal(t, int64(8+12*0x27), got[12])

	for _, enc := range []format.ColumnEncoding{format.EncodingDictionary, format.EncodingDictionaryV2, format.ColumnEncoding(9)} {
		col := format.Column{Name: "c", Encoding: enc}
		_, err = NewSignedIntReader(col, orcio.NewBytesSource(data))
		assert.True(t, lerrors.Is(err, lerrors.ErrNotSupported), "%s: got %v", enc, err)
		_, err = NewUnsignedIntReader(col, orcio.NewBytesSource(data))
		assert.True(t, lerrors.Is(err, lerrors.ErrNotSupported), "%s: got %v", enc, err)
	}
}

package encoding

import (
	"io"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

func drain[T any](t *testing.T, it Iterator[T]) []T {
	t.Helper()
	var out []T
	for {
		v, err := it.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, v)
	}
}

func TestRLEv1Reader_FormatExamples(t *testing.T) {
	// repeated run: 100 x 7
	got := drain[uint64](t, NewRLEv1Reader[uint64](orcio.NewBytesSource([]byte{0x61, 0x00, 0x07}), false))
	require.Len(t, got, 100)
	for _, v := range got {
		assert.Equal(t, uint64(7), v)
	}

	// literal run
	got = drain[uint64](t, NewRLEv1Reader[uint64](orcio.NewBytesSource([]byte{0xfb, 0x02, 0x03, 0x06, 0x07, 0x0b}), false))
	assert.Equal(t, []uint64{2, 3, 6, 7, 11}, got)
}

func TestRLEv1Reader_RepeatedRunWithDelta(t *testing.T) {
	// 5 values, delta -2, base zigzag(10)=20
	data := []byte{0x02, 0xfe, 0x14}
	got := drain[int64](t, NewRLEv1Reader[int64](orcio.NewBytesSource(data), true))
	assert.Equal(t, []int64{10, 8, 6, 4, 2}, got)
}

func TestRLEv1_RoundTripSigned(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	cases := map[string][]int64{
		"zero repeat": make([]int64, 300),
		"ascending":   seq(0, 1, 500),
		"descending":  seq(1000, -3, 200),
		"extremes":    {math.MinInt64, math.MaxInt64, 0, -1, 1, math.MinInt64, math.MinInt64, math.MinInt64},
	}
	random := make([]int64, 4000)
	for i := range random {
		switch rng.Intn(3) {
		case 0:
			random[i] = rng.Int63() - math.MaxInt64/2
		case 1:
			random[i] = int64(rng.Intn(5)) - 2
		default:
			if i > 0 {
				random[i] = random[i-1] + 1
			}
		}
	}
	cases["random"] = random

	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			enc := AppendRLEv1(nil, values, true)
			got := drain[int64](t, NewRLEv1Reader[int64](orcio.NewBytesSource(enc), true))
			assert.Equal(t, values, got)
		})
	}
}

func TestRLEv1_RoundTripUnsigned(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	values := make([]uint64, 3000)
	raw := make([]int64, len(values))
	for i := range values {
		if rng.Intn(2) == 0 {
			values[i] = rng.Uint64()
		} else {
			values[i] = uint64(i / 10)
		}
		raw[i] = int64(values[i])
	}

	enc := AppendRLEv1(nil, raw, false)
	got := drain[uint64](t, NewRLEv1Reader[uint64](orcio.NewBytesSource(enc), false))
	assert.Equal(t, values, got)
}

func TestRLEv1Reader_Truncated(t *testing.T) {
	tests := map[string][]byte{
		"repeat missing delta": {0x00},
		"repeat missing base":  {0x00, 0x01},
		"literal short":        {0xfd, 0x01, 0x02},
		"varint cut":           {0xff, 0x80},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewRLEv1Reader[int64](orcio.NewBytesSource(data), true)
			var err error
			for err == nil {
				_, err = d.Next()
			}
			assert.NotEqual(t, io.EOF, err)
			assert.True(t, lerrors.Is(err, lerrors.ErrUnexpectedEOF), "got %v", err)
		})
	}
}

func TestRLEv1Reader_VarintOverflow(t *testing.T) {
	data := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}
	_, err := NewRLEv1Reader[uint64](orcio.NewBytesSource(data), false).Next()
	assert.True(t, lerrors.Is(err, lerrors.ErrDecodeFailed), "got %v", err)
}

func TestZigZag(t *testing.T) {
	cases := map[int64]uint64{
		0:              0,
		-1:             1,
		1:              2,
		-2:             3,
		math.MaxInt64:  math.MaxUint64 - 1,
		math.MinInt64:  math.MaxUint64,
	}
	for v, want := range cases {
		assert.Equal(t, want, ZigZagEncode(v), "encode %d", v)
		assert.Equal(t, v, ZigZagDecode(want), "decode %d", want)
	}
}

func seq(start, step int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = start + int64(i)*step
	}
	return out
}

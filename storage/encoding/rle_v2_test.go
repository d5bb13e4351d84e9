package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

func TestRLEv2Reader_Unsigned(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []uint64
	}{
		{
			name: "short repeat",
			data: []byte{0x0a, 0x27, 0x10},
			want: []uint64{10000, 10000, 10000, 10000, 10000},
		},
		{
			name: "direct",
			data: []byte{0x5e, 0x03, 0x5c, 0xa1, 0xab, 0x1e, 0xde, 0xad, 0xbe, 0xef},
			want: []uint64{23713, 43806, 57005, 48879},
		},
		{
			name: "patched base",
			data: []byte{
				0x8e, 0x13, 0x2b, 0x21, 0x07, 0xd0, 0x1e, 0x00, 0x14, 0x70,
				0x28, 0x32, 0x3c, 0x46, 0x50, 0x5a, 0x64, 0x6e, 0x78, 0x82,
				0x8c, 0x96, 0xa0, 0xaa, 0xb4, 0xbe, 0xfc, 0xe8,
			},
			want: []uint64{
				2030, 2000, 2020, 1000000, 2040, 2050, 2060, 2070, 2080, 2090,
				2100, 2110, 2120, 2130, 2140, 2150, 2160, 2170, 2180, 2190,
			},
		},
		{
			name: "delta",
			data: []byte{0xc6, 0x09, 0x02, 0x02, 0x22, 0x42, 0x42, 0x46},
			want: []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29},
		},
		{
			name: "fixed delta",
			data: []byte{0xc0, 0x04, 0x64, 0x14},
			want: []uint64{100, 110, 120, 130, 140},
		},
		{
			name: "runs back to back",
			data: []byte{0x0a, 0x27, 0x10, 0xc0, 0x04, 0x64, 0x14},
			want: []uint64{10000, 10000, 10000, 10000, 10000, 100, 110, 120, 130, 140},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drain[uint64](t, NewRLEv2Reader[uint64](orcio.NewBytesSource(tt.data), false))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRLEv2Reader_Signed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []int64
	}{
		{
			name: "short repeat zigzag",
			data: []byte{0x00, 0x05},
			want: []int64{-3, -3, -3},
		},
		{
			name: "direct zigzag",
			data: []byte{0x44, 0x02, 0x46, 0x00},
			want: []int64{1, -1, 2},
		},
		{
			name: "delta descending",
			data: []byte{0xc2, 0x03, 0x14, 0x05, 0x90},
			want: []int64{10, 7, 5, 4},
		},
		{
			name: "patched base negative base",
			// width 8, 3 values, base -5 in one byte, no patches
			data: []byte{0x8e, 0x02, 0x00, 0x20, 0x85, 0x00, 0x01, 0x0a},
			want: []int64{-5, -4, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drain[int64](t, NewRLEv2Reader[int64](orcio.NewBytesSource(tt.data), true))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRLEv2Reader_Truncated(t *testing.T) {
	tests := map[string][]byte{
		"short repeat value": {0x0a, 0x27},
		"direct header":      {0x5e},
		"direct values":      {0x5e, 0x03, 0x5c, 0xa1, 0xab},
		"delta base":         {0xc6, 0x09},
		"patched header":     {0x8e, 0x13, 0x2b},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewRLEv2Reader[uint64](orcio.NewBytesSource(data), false)
			var err error
			for err == nil {
				_, err = d.Next()
			}
			assert.True(t, lerrors.Is(err, lerrors.ErrUnexpectedEOF), "got %v", err)
		})
	}
}

func TestRLEv2Reader_PatchOutOfRange(t *testing.T) {
	// width 8, 2 values, base 0, one patch (gap width 2, patch width 1)
	// whose gap (3) points past the run
	data := []byte{0x8e, 0x01, 0x00, 0x21, 0x00, 0x01, 0x02, 0xc0}
	_, err := NewRLEv2Reader[uint64](orcio.NewBytesSource(data), false).Next()
	assert.True(t, lerrors.Is(err, lerrors.ErrDecodeFailed), "got %v", err)
}

func TestDecodeBitWidth(t *testing.T) {
	assert.Equal(t, 1, decodeBitWidth(0))
	assert.Equal(t, 24, decodeBitWidth(23))
	assert.Equal(t, 26, decodeBitWidth(24))
	assert.Equal(t, 32, decodeBitWidth(27))
	assert.Equal(t, 64, decodeBitWidth(31))

	assert.Equal(t, 1, closestFixedBits(0))
	assert.Equal(t, 14, closestFixedBits(14))
	assert.Equal(t, 26, closestFixedBits(25))
	assert.Equal(t, 64, closestFixedBits(57))
}

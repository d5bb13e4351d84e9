package column

import (
	"context"

	"github.com/go-kit/log/level"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/format"
	orcio "github.com/wzqhbustb/orcstripe/storage/io"
)

// StreamInfo is one entry of a stripe's stream directory. Streams are stored
// back to back in directory order, starting at the stripe offset.
type StreamInfo struct {
	Column uint32
	Kind   format.StreamKind
	Length uint64
}

// StripeInfo locates a stripe inside a file.
type StripeInfo struct {
	Offset   int64
	RowCount int
	Streams  []StreamInfo
}

// LoadStripe reads the streams of one stripe from a registered file with a
// single range read and returns a Stripe serving them.
func LoadStripe(ctx context.Context, pool *orcio.FilePool, fileID string, info StripeInfo, c format.Compression, opts ...Option) (*Stripe, error) {
	cfg := newConfig(opts)

	streams, err := NewMemStreams(c)
	if err != nil {
		return nil, err
	}

	var total uint64
	for _, s := range info.Streams {
		total += s.Length
		if total > uint64(format.MaxStripeSize) {
			return nil, lerrors.New(lerrors.ErrCorruptedFile).
				Op("load_stripe").
				Offset(info.Offset).
				Context("stripe_bytes", total).
				Build()
		}
	}

	raw, err := pool.ReadRange(ctx, fileID, info.Offset, int64(total))
	if err != nil {
		return nil, err
	}

	var off uint64
	for _, s := range info.Streams {
		streams.Put(s.Column, s.Kind, raw[off:off+s.Length:off+s.Length])
		off += s.Length
	}

	stripe := NewStripe(info.RowCount, streams)
	level.Debug(cfg.Logger).Log("msg", "stripe loaded", "stripe", stripe.ID, "file_id", fileID, "offset", info.Offset, "bytes", total, "streams", len(info.Streams), "rows", info.RowCount)
	return stripe, nil
}

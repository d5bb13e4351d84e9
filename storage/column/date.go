package column

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-kit/log/level"

	lerrors "github.com/wzqhbustb/orcstripe/storage/errors"
	"github.com/wzqhbustb/orcstripe/storage/encoding"
	"github.com/wzqhbustb/orcstripe/storage/format"
)

var (
	// UnixEpoch is day zero of a date column.
	UnixEpoch = civil.Date{Year: 1970, Month: time.January, Day: 1}

	// MinDate and MaxDate bound the dates a date column may decode to.
	MinDate = civil.Date{Year: -262144, Month: time.January, Day: 1}
	MaxDate = civil.Date{Year: 262143, Month: time.December, Day: 31}

	minDateDays = int64(MinDate.DaysSince(UnixEpoch))
	maxDateDays = int64(MaxDate.DaysSince(UnixEpoch))
)

// ConvertDate interprets days as a signed day count relative to 1970-01-01.
// Results outside [MinDate, MaxDate] are a conversion error, never clamped.
func ConvertDate(days int64) (civil.Date, error) {
	if days < minDateDays || days > maxDateDays {
		return civil.Date{}, lerrors.ConversionFailed("convert_date", days, "date out of range")
	}
	return UnixEpoch.AddDays(int(days)), nil
}

// NewDateIterator decodes a date column: signed integer RLE on DATA, one
// day offset per present row.
func NewDateIterator(col format.Column, stripe *Stripe, opts ...Option) (*NullableIterator[civil.Date], error) {
	cfg := newConfig(opts)

	if err := requireDirect(col); err != nil {
		return nil, err
	}
	present, err := readPresent(col, stripe)
	if err != nil {
		return nil, err
	}

	src, err := requireStream(col, stripe, format.StreamData, cfg)
	if err != nil {
		return nil, err
	}
	data, err := encoding.NewSignedIntReader(col, src)
	if err != nil {
		return nil, err
	}

	level.Debug(cfg.Logger).Log("msg", "date column ready", "stripe", stripe.ID, "column", col.Name, "encoding", col.Encoding, "rows", len(present))
	return NewNullableIterator[civil.Date](present, Map[int64, civil.Date](data, ConvertDate)), nil
}

package kaiko

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sgheb/kaiko-api/kaiko/dto"
)

// Candle represents aggregated OHLCV trading statistics for one instrument
// over one time bucket.
type Candle struct {
	Timestamp time.Time       // Start of the bucket, UTC
	Open      decimal.Decimal // Opening price
	High      decimal.Decimal // Highest price during the bucket
	Low       decimal.Decimal // Lowest price during the bucket
	Close     decimal.Decimal // Closing price
	Volume    decimal.Decimal // Traded volume
	VWAP      decimal.Decimal // Traded-value-weighted average price
	Count     int64           // Number of trades in the bucket
}

// candleFromRow converts a wire row into the domain type. Timestamps arrive
// as Unix milliseconds.
func candleFromRow(r dto.CandleRow) (Candle, error) {
	if r.Timestamp <= 0 {
		return Candle{}, &ParseError{Field: "timestamp", Err: fmt.Errorf("missing or non-positive value %d", r.Timestamp)}
	}
	return Candle{
		Timestamp: time.UnixMilli(r.Timestamp).UTC(),
		Open:      r.Open,
		High:      r.High,
		Low:       r.Low,
		Close:     r.Close,
		Volume:    r.Volume,
		VWAP:      r.Price,
		Count:     r.Count,
	}, nil
}

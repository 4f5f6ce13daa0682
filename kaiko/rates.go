package kaiko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sgheb/kaiko-api/kaiko/dto"
)

// RatePoint is one bucket of an asset-pair exchange rate series.
type RatePoint struct {
	Timestamp time.Time       // Start of the bucket, UTC
	Price     decimal.Decimal // Rate for the bucket
	Volume    decimal.Decimal // Traded volume underlying the rate
}

// RateQuery selects the exchange rate series to fetch.
type RateQuery struct {
	BaseAsset  string    // e.g. "btc"
	QuoteAsset string    // e.g. "usd"
	Interval   Interval  // Optional bucket width; the API default applies when empty
	StartTime  time.Time // Optional; zero leaves the API's default window
	EndTime    time.Time // Optional; zero means now
	PageSize   int       // Optional; defaults to DefaultPageSize
}

func (q *RateQuery) normalize() error {
	if q.BaseAsset == "" {
		return &ConfigError{Param: "base asset", Reason: "must not be empty"}
	}
	if q.QuoteAsset == "" {
		return &ConfigError{Param: "quote asset", Reason: "must not be empty"}
	}
	if q.Interval != "" && !q.Interval.Valid() {
		return &ConfigError{Param: "interval", Reason: "unknown interval " + string(q.Interval)}
	}
	if q.EndTime.IsZero() {
		q.EndTime = time.Now().UTC()
	}
	if !q.StartTime.IsZero() && !q.StartTime.Before(q.EndTime) {
		return &ConfigError{Param: "time range", Reason: "start time must be before end time"}
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	return nil
}

func (q *RateQuery) values() url.Values {
	v := url.Values{}
	if q.Interval != "" {
		v.Set("interval", q.Interval.String())
	}
	if !q.StartTime.IsZero() {
		v.Set("start_time", q.StartTime.UTC().Format(time.RFC3339))
	}
	v.Set("end_time", q.EndTime.UTC().Format(time.RFC3339))
	v.Set("page_size", strconv.Itoa(q.PageSize))
	return v
}

// SpotDirectExchangeRate fetches the rate computed from trades on the direct
// base/quote pair across exchanges.
func (c *Client) SpotDirectExchangeRate(ctx context.Context, q RateQuery) ([]RatePoint, error) {
	return c.fetchRates(ctx, "spot_direct_exchange_rate", q)
}

// SpotExchangeRate fetches the rate that also routes through intermediate
// quote assets when the direct pair is thin.
func (c *Client) SpotExchangeRate(ctx context.Context, q RateQuery) ([]RatePoint, error) {
	return c.fetchRates(ctx, "spot_exchange_rate", q)
}

func (c *Client) fetchRates(ctx context.Context, kind string, q RateQuery) ([]RatePoint, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}

	endpoint := c.rateURL(kind, q.BaseAsset, q.QuoteAsset)

	var rows []RatePoint
	collect := func(data json.RawMessage) (int, error) {
		var page []dto.RateRow
		if err := json.Unmarshal(data, &page); err != nil {
			return 0, &ParseError{Field: "data", Err: err}
		}
		for _, r := range page {
			if r.Timestamp <= 0 {
				return 0, &ParseError{Field: "timestamp", Err: fmt.Errorf("missing or non-positive value %d", r.Timestamp)}
			}
			rows = append(rows, RatePoint{
				Timestamp: time.UnixMilli(r.Timestamp).UTC(),
				Price:     r.Price,
				Volume:    r.Volume,
			})
		}
		return len(page), nil
	}

	if err := c.paginate(ctx, endpoint, q.values(), collect); err != nil {
		return nil, err
	}
	return assembleRates(rows, q.StartTime, q.EndTime), nil
}

// assembleRates sorts points ascending, drops duplicate timestamps keeping
// the first occurrence, and clips to [start, end).
func assembleRates(rows []RatePoint, start, end time.Time) []RatePoint {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})

	kept := make([]RatePoint, 0, len(rows))
	for _, r := range rows {
		if !start.IsZero() && r.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && !r.Timestamp.Before(end) {
			continue
		}
		if n := len(kept); n > 0 && r.Timestamp.Equal(kept[n-1].Timestamp) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

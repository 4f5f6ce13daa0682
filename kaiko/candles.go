package kaiko

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/sgheb/kaiko-api/kaiko/dto"
)

const (
	// DefaultInterval is used when a candles query leaves the interval empty.
	DefaultInterval = Interval1d
	// DefaultPageSize is the page size requested from data endpoints when
	// the query does not set one.
	DefaultPageSize = 100000
)

// CandlesQuery selects the aggregated candles to fetch.
type CandlesQuery struct {
	Exchange        string    // Exchange code, e.g. "cbse"
	InstrumentClass string    // Defaults to "spot"
	Instrument      string    // Base-quote pair, e.g. "btc-usd"
	Interval        Interval  // Bucket width; defaults to 1d
	StartTime       time.Time // Optional; zero leaves the API's default window
	EndTime         time.Time // Optional; zero means now
	PageSize        int       // Optional; defaults to DefaultPageSize
	Sort            string    // Optional; "asc" or "desc"
}

// normalize applies defaults and validates the query. Every failure is a
// ConfigError reported before any network call.
func (q *CandlesQuery) normalize() error {
	if q.Exchange == "" {
		return &ConfigError{Param: "exchange", Reason: "must not be empty"}
	}
	if q.Instrument == "" {
		return &ConfigError{Param: "instrument", Reason: "must not be empty"}
	}
	if q.InstrumentClass == "" {
		q.InstrumentClass = "spot"
	}
	if q.Interval == "" {
		q.Interval = DefaultInterval
	}
	if !q.Interval.Valid() {
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
	if q.Sort != "" && q.Sort != "asc" && q.Sort != "desc" {
		return &ConfigError{Param: "sort", Reason: "must be asc or desc"}
	}
	return nil
}

func (q *CandlesQuery) values() url.Values {
	v := url.Values{}
	v.Set("interval", q.Interval.String())
	if !q.StartTime.IsZero() {
		v.Set("start_time", q.StartTime.UTC().Format(time.RFC3339))
	}
	v.Set("end_time", q.EndTime.UTC().Format(time.RFC3339))
	v.Set("page_size", strconv.Itoa(q.PageSize))
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// Candles fetches OHLCV+VWAP candles for one instrument, following
// continuation tokens until the provider signals the end of the data, and
// assembles all pages into a single time-ordered table. An empty result is a
// valid empty table, not an error.
func (c *Client) Candles(ctx context.Context, q CandlesQuery) (*CandleTable, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}

	endpoint := c.instrumentURL(q.Exchange, q.InstrumentClass, q.Instrument, "aggregations/count_ohlcv_vwap")

	var rows []Candle
	collect := func(data json.RawMessage) (int, error) {
		var page []dto.CandleRow
		if err := json.Unmarshal(data, &page); err != nil {
			return 0, &ParseError{Field: "data", Err: err}
		}
		for _, r := range page {
			cd, err := candleFromRow(r)
			if err != nil {
				return 0, err
			}
			rows = append(rows, cd)
		}
		return len(page), nil
	}

	if err := c.paginate(ctx, endpoint, q.values(), collect); err != nil {
		return nil, err
	}
	return newCandleTable(rows, q.StartTime, q.EndTime), nil
}

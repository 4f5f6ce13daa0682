package kaiko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sgheb/kaiko-api/kaiko/dto"
)

// DefaultOrderBookPageSize is the page size for order book endpoints, which
// carry far heavier rows than trade or candle endpoints.
const DefaultOrderBookPageSize = 100

// BookLevel is one price level of an order book side.
type BookLevel struct {
	Price  decimal.Decimal
	Amount decimal.Decimal
}

// OrderBookSnapshot is a full order book at one polling instant.
type OrderBookSnapshot struct {
	PollTimestamp time.Time
	Asks          []BookLevel
	Bids          []BookLevel
}

// OrderBookAggregation is averaged order book depth at one polling instant.
// Bid and ask volumes are keyed by level label: "0_1" through "0_9" mean
// 0.1% to 0.9% away from the mid price, "1" through "10" mean 1% to 10%.
type OrderBookAggregation struct {
	PollTimestamp time.Time
	MidPrice      decimal.Decimal
	BidVolumes    map[string]decimal.Decimal
	AskVolumes    map[string]decimal.Decimal
}

// BidPrice returns the price at the labelled depth below the mid price,
// mid * (1 - level). The second return is false for an unknown label.
func (a OrderBookAggregation) BidPrice(label string) (decimal.Decimal, bool) {
	return a.priceAt(label, a.BidVolumes, decimal.NewFromInt(-1))
}

// AskPrice returns the price at the labelled depth above the mid price,
// mid * (1 + level).
func (a OrderBookAggregation) AskPrice(label string) (decimal.Decimal, bool) {
	return a.priceAt(label, a.AskVolumes, decimal.NewFromInt(1))
}

func (a OrderBookAggregation) priceAt(label string, volumes map[string]decimal.Decimal, sign decimal.Decimal) (decimal.Decimal, bool) {
	if _, ok := volumes[label]; !ok {
		return decimal.Zero, false
	}
	lvl, err := parseLevelLabel(label)
	if err != nil {
		return decimal.Zero, false
	}
	one := decimal.NewFromInt(1)
	return a.MidPrice.Mul(one.Add(sign.Mul(lvl))), true
}

// parseLevelLabel converts a depth label to its fraction of the mid price:
// "0_1" -> 0.001, "10" -> 0.1.
func parseLevelLabel(label string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.Replace(label, "_", ".", 1))
	if err != nil {
		return decimal.Zero, err
	}
	return d.Div(decimal.NewFromInt(100)), nil
}

// OrderBookQuery selects the order book data to fetch.
type OrderBookQuery struct {
	Exchange        string
	InstrumentClass string // Defaults to "spot"
	Instrument      string
	Interval        Interval  // Aggregations only; the API default applies when empty
	StartTime       time.Time // Optional; zero leaves the API's default window
	EndTime         time.Time // Optional; zero means now
	PageSize        int       // Optional; defaults to DefaultOrderBookPageSize
}

func (q *OrderBookQuery) normalize() error {
	if q.Exchange == "" {
		return &ConfigError{Param: "exchange", Reason: "must not be empty"}
	}
	if q.Instrument == "" {
		return &ConfigError{Param: "instrument", Reason: "must not be empty"}
	}
	if q.InstrumentClass == "" {
		q.InstrumentClass = "spot"
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
		q.PageSize = DefaultOrderBookPageSize
	}
	return nil
}

func (q *OrderBookQuery) values() url.Values {
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

// OrderBookSnapshots fetches full order book snapshots for one instrument.
// Only about one month of snapshot history is served by the API.
func (c *Client) OrderBookSnapshots(ctx context.Context, q OrderBookQuery) ([]OrderBookSnapshot, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}

	endpoint := c.instrumentURL(q.Exchange, q.InstrumentClass, q.Instrument, "snapshots/full")

	var rows []OrderBookSnapshot
	collect := func(data json.RawMessage) (int, error) {
		var page []dto.SnapshotRow
		if err := json.Unmarshal(data, &page); err != nil {
			return 0, &ParseError{Field: "data", Err: err}
		}
		for _, r := range page {
			if r.PollTimestamp <= 0 {
				return 0, &ParseError{Field: "poll_timestamp", Err: fmt.Errorf("missing or non-positive value %d", r.PollTimestamp)}
			}
			rows = append(rows, OrderBookSnapshot{
				PollTimestamp: time.UnixMilli(r.PollTimestamp).UTC(),
				Asks:          bookLevels(r.Asks),
				Bids:          bookLevels(r.Bids),
			})
		}
		return len(page), nil
	}

	if err := c.paginate(ctx, endpoint, q.values(), collect); err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PollTimestamp.Before(rows[j].PollTimestamp)
	})
	return rows, nil
}

// OrderBookAggregations fetches averaged order book depth for one
// instrument.
func (c *Client) OrderBookAggregations(ctx context.Context, q OrderBookQuery) ([]OrderBookAggregation, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}

	endpoint := c.instrumentURL(q.Exchange, q.InstrumentClass, q.Instrument, "ob_aggregations/full")

	var rows []OrderBookAggregation
	collect := func(data json.RawMessage) (int, error) {
		var page []dto.AggregationRow
		if err := json.Unmarshal(data, &page); err != nil {
			return 0, &ParseError{Field: "data", Err: err}
		}
		for _, r := range page {
			if r.PollTimestamp <= 0 {
				return 0, &ParseError{Field: "poll_timestamp", Err: fmt.Errorf("missing or non-positive value %d", r.PollTimestamp)}
			}
			rows = append(rows, OrderBookAggregation{
				PollTimestamp: time.UnixMilli(r.PollTimestamp).UTC(),
				MidPrice:      r.MidPrice,
				BidVolumes:    r.BidVolumes,
				AskVolumes:    r.AskVolumes,
			})
		}
		return len(page), nil
	}

	if err := c.paginate(ctx, endpoint, q.values(), collect); err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PollTimestamp.Before(rows[j].PollTimestamp)
	})
	return rows, nil
}

func bookLevels(in []dto.BookLevel) []BookLevel {
	out := make([]BookLevel, 0, len(in))
	for _, l := range in {
		out = append(out, BookLevel{Price: l.Price, Amount: l.Amount})
	}
	return out
}

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

// Trade is a single historical tick trade.
type Trade struct {
	Timestamp     time.Time       // Execution time, UTC
	TradeID       string          // Exchange-assigned trade identifier
	Price         decimal.Decimal
	Amount        decimal.Decimal
	TakerSideSell bool // True when the taker was on the sell side
}

// TradesQuery selects the historical tick trades to fetch.
type TradesQuery struct {
	Exchange        string
	InstrumentClass string // Defaults to "spot"
	Instrument      string
	StartTime       time.Time // Optional; zero leaves the API's default window
	EndTime         time.Time // Optional; zero means now
	PageSize        int       // Optional; defaults to DefaultPageSize
}

func (q *TradesQuery) normalize() error {
	if q.Exchange == "" {
		return &ConfigError{Param: "exchange", Reason: "must not be empty"}
	}
	if q.Instrument == "" {
		return &ConfigError{Param: "instrument", Reason: "must not be empty"}
	}
	if q.InstrumentClass == "" {
		q.InstrumentClass = "spot"
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

func (q *TradesQuery) values() url.Values {
	v := url.Values{}
	if !q.StartTime.IsZero() {
		v.Set("start_time", q.StartTime.UTC().Format(time.RFC3339))
	}
	v.Set("end_time", q.EndTime.UTC().Format(time.RFC3339))
	v.Set("page_size", strconv.Itoa(q.PageSize))
	return v
}

// Trades fetches historical tick-by-tick trades for one instrument,
// paginating until the provider signals the end of the data. The result is
// sorted ascending by timestamp and deduplicated by (timestamp, trade ID).
func (c *Client) Trades(ctx context.Context, q TradesQuery) ([]Trade, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}

	endpoint := c.instrumentURL(q.Exchange, q.InstrumentClass, q.Instrument, "trades")

	var rows []Trade
	collect := func(data json.RawMessage) (int, error) {
		var page []dto.TradeRow
		if err := json.Unmarshal(data, &page); err != nil {
			return 0, &ParseError{Field: "data", Err: err}
		}
		for _, r := range page {
			if r.Timestamp <= 0 {
				return 0, &ParseError{Field: "timestamp", Err: fmt.Errorf("missing or non-positive value %d", r.Timestamp)}
			}
			rows = append(rows, Trade{
				Timestamp:     time.UnixMilli(r.Timestamp).UTC(),
				TradeID:       r.TradeID,
				Price:         r.Price,
				Amount:        r.Amount,
				TakerSideSell: r.TakerSideSell,
			})
		}
		return len(page), nil
	}

	if err := c.paginate(ctx, endpoint, q.values(), collect); err != nil {
		return nil, err
	}
	return assembleTrades(rows, q.StartTime, q.EndTime), nil
}

// assembleTrades sorts trades ascending, drops duplicate (timestamp, trade
// ID) pairs keeping the first occurrence, and clips to [start, end).
func assembleTrades(rows []Trade, start, end time.Time) []Trade {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})

	type key struct {
		ts int64
		id string
	}
	seen := make(map[key]struct{}, len(rows))
	kept := make([]Trade, 0, len(rows))
	for _, r := range rows {
		if !start.IsZero() && r.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && !r.Timestamp.Before(end) {
			continue
		}
		k := key{ts: r.Timestamp.UnixMilli(), id: r.TradeID}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, r)
	}
	return kept
}

package kaiko

import (
	"sort"
	"time"
)

// CandleTable is an immutable, time-ordered collection of candles. Row
// timestamps are strictly increasing and unique. A table is built once per
// fetch; recomputing requires a new fetch.
type CandleTable struct {
	rows []Candle
}

// newCandleTable sorts rows ascending by timestamp, drops duplicate
// timestamps keeping the first occurrence in arrival order (pagination
// boundaries may overlap), and clips the result to [start, end). A zero
// start or end disables the corresponding bound.
func newCandleTable(rows []Candle, start, end time.Time) *CandleTable {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})

	kept := make([]Candle, 0, len(rows))
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
	return &CandleTable{rows: kept}
}

// Len returns the number of rows in the table.
func (t *CandleTable) Len() int { return len(t.rows) }

// Row returns the i-th candle in ascending timestamp order.
func (t *CandleTable) Row(i int) Candle { return t.rows[i] }

// Rows returns a copy of all rows in ascending timestamp order. Mutating the
// returned slice does not affect the table.
func (t *CandleTable) Rows() []Candle {
	out := make([]Candle, len(t.rows))
	copy(out, t.rows)
	return out
}

// First returns the earliest candle, or false for an empty table.
func (t *CandleTable) First() (Candle, bool) {
	if len(t.rows) == 0 {
		return Candle{}, false
	}
	return t.rows[0], true
}

// Last returns the latest candle, or false for an empty table.
func (t *CandleTable) Last() (Candle, bool) {
	if len(t.rows) == 0 {
		return Candle{}, false
	}
	return t.rows[len(t.rows)-1], true
}

// Bounds returns the timestamps of the first and last rows, or false for an
// empty table.
func (t *CandleTable) Bounds() (first, last time.Time, ok bool) {
	if len(t.rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return t.rows[0].Timestamp, t.rows[len(t.rows)-1].Timestamp, true
}

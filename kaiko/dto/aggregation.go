package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AggregationRow is one element of the ob_aggregations data array. Besides
// the poll timestamp and mid price the row carries dynamically named depth
// columns (bid_volume0_1 through ask_volume10) which are collected into maps
// keyed by level label ("0_1" means 0.1% away from the mid price, "10" means
// 10% away).
type AggregationRow struct {
	PollTimestamp int64
	MidPrice      decimal.Decimal
	BidVolumes    map[string]decimal.Decimal
	AskVolumes    map[string]decimal.Decimal
}

// UnmarshalJSON decodes the fixed columns by name and sweeps the remaining
// keys for depth columns.
func (r *AggregationRow) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if v, ok := raw["poll_timestamp"]; ok {
		if err := json.Unmarshal(v, &r.PollTimestamp); err != nil {
			return fmt.Errorf("poll_timestamp: %w", err)
		}
	}
	if v, ok := raw["mid_price"]; ok {
		if err := json.Unmarshal(v, &r.MidPrice); err != nil {
			return fmt.Errorf("mid_price: %w", err)
		}
	}

	r.BidVolumes = map[string]decimal.Decimal{}
	r.AskVolumes = map[string]decimal.Decimal{}
	for key, v := range raw {
		var dst map[string]decimal.Decimal
		var label string
		switch {
		case strings.HasPrefix(key, "bid_volume"):
			dst, label = r.BidVolumes, strings.TrimPrefix(key, "bid_volume")
		case strings.HasPrefix(key, "ask_volume"):
			dst, label = r.AskVolumes, strings.TrimPrefix(key, "ask_volume")
		default:
			continue
		}
		var d decimal.Decimal
		if err := json.Unmarshal(v, &d); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		dst[label] = d
	}
	return nil
}

// Package dto defines data transfer objects for the Kaiko API responses.
package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Envelope is the common wrapper around every market-data response. Data is
// kept raw because its element type depends on the endpoint.
type Envelope struct {
	Result            string          `json:"result"`
	Message           string          `json:"message,omitempty"`
	Data              json.RawMessage `json:"data"`
	ContinuationToken string          `json:"continuation_token,omitempty"`
	NextURL           string          `json:"next_url,omitempty"`
}

// CandleRow is one element of the count_ohlcv_vwap aggregation data array.
// Prices arrive either quoted or bare; decimal.Decimal accepts both.
type CandleRow struct {
	Timestamp int64           `json:"timestamp"` // Unix milliseconds
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    decimal.Decimal `json:"volume"`
	Price     decimal.Decimal `json:"price"` // volume-weighted average price
	Count     int64           `json:"count"`
}

// TradeRow is one element of the historical trades data array.
type TradeRow struct {
	Timestamp     int64           `json:"timestamp"` // Unix milliseconds
	TradeID       string          `json:"trade_id"`
	Price         decimal.Decimal `json:"price"`
	Amount        decimal.Decimal `json:"amount"`
	TakerSideSell bool            `json:"taker_side_sell"`
}

// RateRow is one element of the spot exchange rate data arrays.
type RateRow struct {
	Timestamp int64           `json:"timestamp"` // Unix milliseconds
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
}

// BookLevel is a single price level of an order book snapshot.
type BookLevel struct {
	Price  decimal.Decimal `json:"price"`
	Amount decimal.Decimal `json:"amount"`
}

// SnapshotRow is one element of the full order book snapshots data array.
type SnapshotRow struct {
	PollTimestamp int64       `json:"poll_timestamp"` // Unix milliseconds
	Asks          []BookLevel `json:"asks"`
	Bids          []BookLevel `json:"bids"`
}

// Instrument is one element of the reference-data instruments catalog.
type Instrument struct {
	ExchangeCode   string `json:"exchange_code"`
	Class          string `json:"class"`
	Code           string `json:"code"`
	BaseAsset      string `json:"base_asset"`
	QuoteAsset     string `json:"quote_asset"`
	TradeStartTime string `json:"trade_start_time"`
	TradeEndTime   string `json:"trade_end_time"` // empty while trading is ongoing
}

// Exchange is one element of the reference-data exchanges catalog.
type Exchange struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	LegacySlug string `json:"kaiko_legacy_slug"`
}

// Asset is one element of the reference-data assets catalog.
type Asset struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	AssetClass string `json:"asset_class"`
}

package kaiko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderBookSnapshots(t *testing.T) {
	t.Parallel()

	base := time.Date(2020, 8, 6, 0, 0, 0, 0, time.UTC)
	body := fmt.Sprintf(`{"result": "success", "data": [
		{"poll_timestamp": %d,
		 "asks": [{"price": "100.1", "amount": "2"}],
		 "bids": [{"price": "99.9", "amount": "3"}]}
	]}`, base.UnixMilli())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := "/v2/data/trades.v1/exchanges/cbse/spot/btc-usd/snapshots/full"; r.URL.Path != want {
			t.Errorf("expected path %s, got %s", want, r.URL.Path)
		}
		if got := r.URL.Query().Get("page_size"); got != "100" {
			t.Errorf("expected default page_size 100, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := testClient(t, server)

	snaps, err := client.OrderBookSnapshots(context.Background(), OrderBookQuery{
		Exchange:   "cbse",
		Instrument: "btc-usd",
	})
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	assert.True(t, snaps[0].PollTimestamp.Equal(base))
	require.Len(t, snaps[0].Asks, 1)
	require.Len(t, snaps[0].Bids, 1)
	assert.Equal(t, "100.1", snaps[0].Asks[0].Price.String())
	assert.Equal(t, "3", snaps[0].Bids[0].Amount.String())
}

func TestOrderBookAggregations(t *testing.T) {
	t.Parallel()

	base := time.Date(2020, 8, 6, 0, 0, 0, 0, time.UTC)
	body := fmt.Sprintf(`{"result": "success", "data": [
		{"poll_timestamp": %d,
		 "mid_price": "100",
		 "bid_volume0_1": "11.5",
		 "bid_volume10": "400",
		 "ask_volume0_1": "12.5",
		 "ask_volume10": "500"}
	]}`, base.UnixMilli())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := "/v2/data/trades.v1/exchanges/cbse/spot/btc-usd/ob_aggregations/full"; r.URL.Path != want {
			t.Errorf("expected path %s, got %s", want, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := testClient(t, server)

	aggs, err := client.OrderBookAggregations(context.Background(), OrderBookQuery{
		Exchange:   "cbse",
		Instrument: "btc-usd",
		Interval:   Interval10m,
	})
	require.NoError(t, err)
	require.Len(t, aggs, 1)

	agg := aggs[0]
	assert.Equal(t, "11.5", agg.BidVolumes["0_1"].String())
	assert.Equal(t, "500", agg.AskVolumes["10"].String())

	// 0.1% away from a mid of 100.
	bid, ok := agg.BidPrice("0_1")
	require.True(t, ok)
	assert.True(t, bid.Equal(decimal.RequireFromString("99.9")), "got %s", bid)

	ask, ok := agg.AskPrice("0_1")
	require.True(t, ok)
	assert.True(t, ask.Equal(decimal.RequireFromString("100.1")), "got %s", ask)

	// 10% away from a mid of 100.
	bid, ok = agg.BidPrice("10")
	require.True(t, ok)
	assert.True(t, bid.Equal(decimal.RequireFromString("90")), "got %s", bid)

	// Depth labels the row never carried report false.
	_, ok = agg.BidPrice("5")
	assert.False(t, ok)
}

func TestOrderBook_InvalidQuery(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{APIKey: "k"}, &http.Client{})

	_, err := client.OrderBookSnapshots(context.Background(), OrderBookQuery{Exchange: "cbse"})

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "instrument", cfgErr.Param)
}

func TestParseLevelLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  string
	}{
		{"0_1", "0.001"},
		{"0_9", "0.009"},
		{"1", "0.01"},
		{"10", "0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := parseLevelLabel(tt.label)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}

	_, err := parseLevelLabel("not_a_level")
	assert.Error(t, err)
}

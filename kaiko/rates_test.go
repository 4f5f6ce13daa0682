package kaiko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateRow(ts int64, price string) string {
	return fmt.Sprintf(`{"timestamp": %d, "price": %q, "volume": "5"}`, ts, price)
}

func TestSpotDirectExchangeRate(t *testing.T) {
	t.Parallel()

	base := time.Date(2020, 8, 6, 0, 0, 0, 0, time.UTC)
	body := fmt.Sprintf(`{"result": "success", "data": [%s, %s]}`,
		rateRow(base.Add(time.Hour).UnixMilli(), "11200"),
		rateRow(base.UnixMilli(), "11100"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := "/v2/data/trades.v1/spot_direct_exchange_rate/btc/usd"; r.URL.Path != want {
			t.Errorf("expected path %s, got %s", want, r.URL.Path)
		}
		if got := r.URL.Query().Get("interval"); got != "1h" {
			t.Errorf("expected interval 1h, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := testClient(t, server)

	rates, err := client.SpotDirectExchangeRate(context.Background(), RateQuery{
		BaseAsset:  "btc",
		QuoteAsset: "usd",
		Interval:   Interval1h,
	})
	require.NoError(t, err)
	require.Len(t, rates, 2)

	// Arrival order was newest-first; the result is ascending.
	assert.True(t, rates[0].Timestamp.Equal(base))
	assert.Equal(t, "11100", rates[0].Price.String())
	assert.Equal(t, "5", rates[0].Volume.String())
}

func TestSpotExchangeRate_Path(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := "/v2/data/trades.v1/spot_exchange_rate/eth/usd"; r.URL.Path != want {
			t.Errorf("expected path %s, got %s", want, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result": "success", "data": []}`))
	}))
	defer server.Close()

	client := testClient(t, server)

	rates, err := client.SpotExchangeRate(context.Background(), RateQuery{
		BaseAsset:  "eth",
		QuoteAsset: "usd",
	})
	require.NoError(t, err)
	assert.Empty(t, rates)
}

func TestRates_InvalidQuery(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{APIKey: "k"}, &http.Client{})

	tests := []struct {
		name  string
		query RateQuery
		param string
	}{
		{"empty base", RateQuery{QuoteAsset: "usd"}, "base asset"},
		{"empty quote", RateQuery{BaseAsset: "btc"}, "quote asset"},
		{"bad interval", RateQuery{BaseAsset: "btc", QuoteAsset: "usd", Interval: Interval("2x")}, "interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SpotDirectExchangeRate(context.Background(), tt.query)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.param, cfgErr.Param)
		})
	}
}

package kaiko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The reference-data API is public; the key must not leak into it.
		if got := r.Header.Get("X-Api-Key"); got != "" {
			t.Errorf("expected no X-Api-Key header, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/instruments":
			_, _ = w.Write([]byte(`{"result": "success", "data": [
				{"exchange_code": "cbse", "class": "spot", "code": "btc-usd",
				 "base_asset": "btc", "quote_asset": "usd",
				 "trade_start_time": "2015-01-08T00:00:00Z", "trade_end_time": ""},
				{"exchange_code": "krkn", "class": "spot", "code": "xbt-eur",
				 "base_asset": "xbt", "quote_asset": "eur",
				 "trade_start_time": "2014-01-08T00:00:00Z",
				 "trade_end_time": "2019-06-01T00:00:00Z"}
			]}`))
		case "/exchanges":
			_, _ = w.Write([]byte(`{"result": "success", "data": [
				{"code": "cbse", "name": "Coinbase", "kaiko_legacy_slug": "cb"}
			]}`))
		case "/assets":
			_, _ = w.Write([]byte(`{"result": "success", "data": [
				{"code": "btc", "name": "Bitcoin", "asset_class": "cryptocurrency"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestInstruments_OngoingMapping(t *testing.T) {
	t.Parallel()

	server := referenceServer(t)
	defer server.Close()

	client := testClient(t, server)

	instruments, err := client.Instruments(context.Background())
	require.NoError(t, err)
	require.Len(t, instruments, 2)

	assert.Equal(t, TradeOngoing, instruments[0].TradeEndTime, "empty end time maps to ongoing")
	assert.Equal(t, "2019-06-01T00:00:00Z", instruments[1].TradeEndTime)
	assert.Equal(t, "cbse", instruments[0].Exchange)
	assert.Equal(t, "btc", instruments[0].BaseAsset)
}

func TestCatalogs(t *testing.T) {
	t.Parallel()

	server := referenceServer(t)
	defer server.Close()

	client := testClient(t, server)

	catalogs, err := client.Catalogs(context.Background())
	require.NoError(t, err)

	assert.Len(t, catalogs.Instruments, 2)
	require.Len(t, catalogs.Exchanges, 1)
	require.Len(t, catalogs.Assets, 1)
	assert.Equal(t, "Coinbase", catalogs.Exchanges[0].Name)
	assert.Equal(t, "cryptocurrency", catalogs.Assets[0].Class)
}

func TestReference_NoAPIKeyRequired(t *testing.T) {
	t.Parallel()

	server := referenceServer(t)
	defer server.Close()

	// No credential configured at all: reference data must still work.
	client := NewClient(Config{}, server.Client(), WithReferenceBaseURL(server.URL))

	exchanges, err := client.Exchanges(context.Background())
	require.NoError(t, err)
	assert.Len(t, exchanges, 1)
}

func TestReference_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := testClient(t, server)

	_, err := client.Assets(context.Background())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
}

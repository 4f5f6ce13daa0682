package kaiko

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	platformhttp "github.com/sgheb/kaiko-api/internal/platform/http"
	"github.com/sgheb/kaiko-api/kaiko/dto"
)

const (
	// defaultAPIVersion is the data version used in endpoint paths
	// (trades.v1).
	defaultAPIVersion = "v1"
	// defaultMaxPages bounds the pagination loop so a backend that never
	// stops handing out continuation tokens cannot spin the client forever.
	defaultMaxPages = 1000
	// maxErrorBodyBytes limits how much of an error response body is kept.
	maxErrorBodyBytes = 4096
)

// Client issues requests against the Kaiko market-data and reference-data
// APIs. It is safe for concurrent use; each fetch owns its own accumulation
// buffer and the client itself is not mutated after construction.
type Client struct {
	cfg        Config
	httpClient *http.Client
	marketBase string
	refBase    string
	apiVersion string
	maxPages   int
	logger     zerolog.Logger
}

// Option customizes a Client beyond its Config.
type Option func(*Client)

// WithLogger attaches a zerolog logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMaxPages overrides the pagination guard. Values below 1 are ignored.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n >= 1 {
			c.maxPages = n
		}
	}
}

// WithBaseURL overrides the regional market-data base URL, e.g. to point the
// client at a proxy or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.marketBase = u }
}

// WithReferenceBaseURL overrides the reference-data base URL.
func WithReferenceBaseURL(u string) Option {
	return func(c *Client) { c.refBase = u }
}

// NewClient creates a Kaiko API client. If client is nil a tuned default is
// constructed with cfg.Timeout.
func NewClient(cfg Config, client *http.Client, opts ...Option) *Client {
	if cfg.Region == "" {
		cfg.Region = RegionUS
	}
	base, ok := marketBaseURLs[cfg.Region]
	if !ok {
		base = marketBaseURLs[RegionUS]
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = platformhttp.NewHTTPClient(timeout)
	}
	c := &Client{
		cfg:        cfg,
		httpClient: client,
		marketBase: base,
		refBase:    referenceBaseURL,
		apiVersion: defaultAPIVersion,
		maxPages:   defaultMaxPages,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// instrumentURL builds a market-data endpoint scoped to one instrument, e.g.
// .../v2/data/trades.v1/exchanges/cbse/spot/btc-usd/aggregations/count_ohlcv_vwap.
func (c *Client) instrumentURL(exchange, class, instrument, suffix string) string {
	return c.marketBase + "/v2/data/trades." + c.apiVersion +
		"/exchanges/" + url.PathEscape(exchange) +
		"/" + url.PathEscape(class) +
		"/" + url.PathEscape(instrument) +
		"/" + suffix
}

// rateURL builds a market-data endpoint for an asset-pair exchange rate.
func (c *Client) rateURL(kind, base, quote string) string {
	return c.marketBase + "/v2/data/trades." + c.apiVersion +
		"/" + kind +
		"/" + url.PathEscape(base) +
		"/" + url.PathEscape(quote)
}

// getJSON performs a GET against rawURL and decodes the JSON response into
// out. The API key header is attached only for authenticated endpoints; the
// reference-data API is public.
func (c *Client) getJSON(ctx context.Context, rawURL string, authed bool, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if authed {
		req.Header.Set("X-Api-Key", c.cfg.APIKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		return &FetchError{StatusCode: res.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &ParseError{Field: "response body", Err: err}
	}
	return nil
}

// collectFunc decodes one page's data array and reports how many rows it
// held, so the pagination loop can detect an empty page.
type collectFunc func(data json.RawMessage) (int, error)

// paginate walks a paginated market-data endpoint, feeding each page's data
// array to collect. It stops on an empty page, an absent continuation token,
// or after maxPages pages (in which case the fetch fails rather than looping
// forever).
func (c *Client) paginate(ctx context.Context, endpoint string, params url.Values, collect collectFunc) error {
	if c.cfg.APIKey == "" {
		return &ConfigError{Param: "api key", Reason: "no credential configured (set KAIKO_API_KEY or Config.APIKey)"}
	}

	token := ""
	for page := 0; page < c.maxPages; page++ {
		q := cloneValues(params)
		if token != "" {
			q.Set("continuation_token", token)
		}

		c.logger.Debug().Str("endpoint", endpoint).Int("page", page).Msg("fetching page")

		var env dto.Envelope
		if err := c.getJSON(ctx, endpoint+"?"+q.Encode(), true, &env); err != nil {
			return err
		}
		if env.Result == "error" {
			return &FetchError{Body: env.Message}
		}

		n := 0
		if len(env.Data) > 0 && string(env.Data) != "null" {
			var err error
			if n, err = collect(env.Data); err != nil {
				return err
			}
		}
		if n == 0 || env.ContinuationToken == "" {
			return nil
		}
		token = env.ContinuationToken
	}
	return &FetchError{Err: ErrPaginationLimit}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

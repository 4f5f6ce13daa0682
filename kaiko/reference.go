package kaiko

import (
	"context"
	"encoding/json"

	"github.com/sgheb/kaiko-api/kaiko/dto"
)

// TradeOngoing marks an instrument that is still trading; the API reports an
// empty trade end time for those.
const TradeOngoing = "ongoing"

// Instrument is one tradable base/quote pair on one exchange.
type Instrument struct {
	Exchange       string
	Class          string
	Code           string
	BaseAsset      string
	QuoteAsset     string
	TradeStartTime string
	TradeEndTime   string // TradeOngoing while the instrument is still trading
}

// ExchangeInfo is one exchange known to the reference-data API.
type ExchangeInfo struct {
	Code       string
	Name       string
	LegacySlug string
}

// Asset is one asset known to the reference-data API.
type Asset struct {
	Code  string
	Name  string
	Class string
}

// Catalogs bundles the three reference-data catalogs.
type Catalogs struct {
	Instruments []Instrument
	Exchanges   []ExchangeInfo
	Assets      []Asset
}

// Instruments lists every instrument the reference-data API knows about.
// Reference-data endpoints are public and need no API key.
func (c *Client) Instruments(ctx context.Context) ([]Instrument, error) {
	var rows []dto.Instrument
	if err := c.getReference(ctx, "instruments", &rows); err != nil {
		return nil, err
	}

	out := make([]Instrument, 0, len(rows))
	for _, r := range rows {
		endTime := r.TradeEndTime
		if endTime == "" {
			endTime = TradeOngoing
		}
		out = append(out, Instrument{
			Exchange:       r.ExchangeCode,
			Class:          r.Class,
			Code:           r.Code,
			BaseAsset:      r.BaseAsset,
			QuoteAsset:     r.QuoteAsset,
			TradeStartTime: r.TradeStartTime,
			TradeEndTime:   endTime,
		})
	}
	return out, nil
}

// Exchanges lists every exchange the reference-data API knows about.
func (c *Client) Exchanges(ctx context.Context) ([]ExchangeInfo, error) {
	var rows []dto.Exchange
	if err := c.getReference(ctx, "exchanges", &rows); err != nil {
		return nil, err
	}

	out := make([]ExchangeInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExchangeInfo{Code: r.Code, Name: r.Name, LegacySlug: r.LegacySlug})
	}
	return out, nil
}

// Assets lists every asset the reference-data API knows about.
func (c *Client) Assets(ctx context.Context) ([]Asset, error) {
	var rows []dto.Asset
	if err := c.getReference(ctx, "assets", &rows); err != nil {
		return nil, err
	}

	out := make([]Asset, 0, len(rows))
	for _, r := range rows {
		out = append(out, Asset{Code: r.Code, Name: r.Name, Class: r.AssetClass})
	}
	return out, nil
}

// Catalogs loads the instrument, exchange, and asset catalogs in one call.
func (c *Client) Catalogs(ctx context.Context) (*Catalogs, error) {
	c.logger.Info().Msg("downloading reference catalogs")

	instruments, err := c.Instruments(ctx)
	if err != nil {
		return nil, err
	}
	exchanges, err := c.Exchanges(ctx)
	if err != nil {
		return nil, err
	}
	assets, err := c.Assets(ctx)
	if err != nil {
		return nil, err
	}
	return &Catalogs{Instruments: instruments, Exchanges: exchanges, Assets: assets}, nil
}

// getReference fetches one reference-data catalog and decodes its data array
// into rows.
func (c *Client) getReference(ctx context.Context, catalog string, rows any) error {
	var env dto.Envelope
	if err := c.getJSON(ctx, c.refBase+"/"+catalog, false, &env); err != nil {
		return err
	}
	if env.Result == "error" {
		return &FetchError{Body: env.Message}
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, rows); err != nil {
		return &ParseError{Field: "data", Err: err}
	}
	return nil
}

// Package marketdata assembles validated provider clients and turns raw
// candles into the series the analysis core consumes.
package marketdata

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
	"github.com/dmirandah/accionpro/pkg/marketdata/provider"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=yahoo binance polygon"`
	PolygonAPIKey string                `validate:"required_if=ProviderType polygon"`
}

// FetchParams holds the parameters for a daily candle fetch.
type FetchParams struct {
	Symbol    string    `validate:"required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
}

// Client is the market data client. Providers built from a ClientConfig are
// always decorated with the standard retry policy.
type Client struct {
	provider provider.Provider
	validate *validator.Validate
}

// NewClient creates a market data client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewProvider(config.ProviderType, config.PolygonAPIKey)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider: provider.NewRetryProvider(marketProvider),
		validate: validate,
	}, nil
}

// NewClientWithProvider creates a client around an existing provider, used
// for tests and the file-backed datasource. The provider is taken as is; the
// caller decides whether it retries.
func NewClientWithProvider(p provider.Provider) *Client {
	return &Client{
		provider: p,
		validate: validator.New(),
	}
}

// ProviderName returns the name of the underlying provider.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// FetchDaily fetches daily candles after validating the parameters.
func (c *Client) FetchDaily(ctx context.Context, params FetchParams) ([]types.Candle, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid fetch parameters", err)
	}

	return c.provider.FetchDaily(ctx, params.Symbol, params.StartDate, params.EndDate)
}

// BuildSeries converts candles into the aligned price and volume series,
// preferring the adjusted close where a candle carries one.
func (c *Client) BuildSeries(symbol string, candles []types.Candle) (types.PriceSeries, types.VolumeSeries) {
	return types.NewPriceSeries(symbol, candles)
}

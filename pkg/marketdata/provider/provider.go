// Package provider implements the upstream market data sources. Every
// provider returns plain daily candles; series construction, indicator math
// and recommendation logic live elsewhere and never see a provider.
package provider

import (
	"context"
	"time"

	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderYahoo   ProviderType = "yahoo"
	ProviderBinance ProviderType = "binance"
	ProviderPolygon ProviderType = "polygon"
)

type Provider interface {
	// Name returns the provider's registry name.
	Name() string
	// FetchDaily fetches the daily candles for the symbol over the closed
	// date range, sorted by time ascending. An empty range yields a
	// NoDataError so the retry layer treats it like any other failure.
	// The context can be used to cancel the fetch.
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]types.Candle, error)
}

// NewProvider creates a market data provider based on the provider type. The
// API key is only consulted for providers that need one.
func NewProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderYahoo:
		return NewYahooClient(), nil
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

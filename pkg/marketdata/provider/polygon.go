package provider

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
)

// PolygonAggsIterator abstracts the aggregate iterator returned by the
// Polygon client.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient abstracts the part of the Polygon client this provider
// uses.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

// polygonAPIAdapter adapts the concrete Polygon client to PolygonAPIClient.
type polygonAPIAdapter struct {
	client *polygon.Client
}

func (a *polygonAPIAdapter) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return a.client.ListAggs(ctx, params, options...)
}

// PolygonClient fetches daily aggregates from Polygon.io. Requires an API
// key.
type PolygonClient struct {
	apiClient PolygonAPIClient
}

// NewPolygonClient creates a Polygon provider with the given API key.
func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "polygon provider requires an API key")
	}

	return &PolygonClient{
		apiClient: &polygonAPIAdapter{client: polygon.New(apiKey)},
	}, nil
}

// NewPolygonClientWithAPI creates a Polygon provider around an existing API
// client, used in tests.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{apiClient: apiClient}
}

func (c *PolygonClient) Name() string {
	return string(ProviderPolygon)
}

// FetchDaily lists the daily aggregates for the range. Aggregates are
// requested split-adjusted, so the close already is the adjusted price and
// AdjClose stays None.
func (c *PolygonClient) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]types.Candle, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithAdjusted(true).WithLimit(50000)

	iter := c.apiClient.ListAggs(ctx, params)

	var candles []types.Candle

	for iter.Next() {
		agg := iter.Item()
		candles = append(candles, types.Candle{
			Symbol:   symbol,
			Time:     time.Time(agg.Timestamp).UTC(),
			Open:     agg.Open,
			High:     agg.High,
			Low:      agg.Low,
			Close:    agg.Close,
			Volume:   agg.Volume,
			AdjClose: optional.None[float64](),
		})
	}

	if iter.Err() != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, iter.Err(), "error iterating polygon aggregates for %s", symbol)
	}

	if len(candles) == 0 {
		return nil, errors.NewNoDataError(symbol, start, end)
	}

	return candles, nil
}

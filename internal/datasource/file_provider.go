package datasource

import (
	"context"
	"time"

	"github.com/moznion/go-optional"

	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
)

// FileProvider adapts a local DataSource to the market data provider
// interface so the analyzer can run on files instead of live feeds.
type FileProvider struct {
	source DataSource
}

// NewFileProvider creates a provider backed by an initialized data source.
func NewFileProvider(source DataSource) *FileProvider {
	return &FileProvider{source: source}
}

// Name returns the name of the provider.
func (p *FileProvider) Name() string {
	return "file"
}

// FetchDaily reads candles for the symbol within [start, end] from the file.
func (p *FileProvider) FetchDaily(_ context.Context, symbol string, start, end time.Time) ([]types.Candle, error) {
	candles, err := p.source.ReadRange(symbol, optional.Some(start), optional.Some(end))
	if err != nil {
		return nil, err
	}

	if len(candles) == 0 {
		return nil, errors.NewNoDataError(symbol, start, end)
	}

	return candles, nil
}

// Package datasource reads daily candles from local parquet and CSV files
// through DuckDB.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/dmirandah/accionpro/internal/types"
)

type DataSource interface {
	// Initialize points the data source at a parquet or CSV file
	Initialize(path string) error
	// ReadAll reads every candle stored for the symbol, oldest first
	ReadAll(symbol string) ([]types.Candle, error)
	// ReadRange reads candles for the symbol within the optional time bounds
	ReadRange(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Candle, error)
	// Count returns the number of rows within the optional time bounds
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Symbols returns the distinct symbols present in the file
	Symbols() ([]string, error)
	// Close closes the data source and releases any resources
	Close() error
}

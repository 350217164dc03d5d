package datasource

import (
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/dmirandah/accionpro/internal/logger"
	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
)

const candleView = "candles"

// requiredColumns are the columns every candle file must carry. volume and
// adj_close are probed instead; files without them still load.
var requiredColumns = []string{"time", "symbol", "open", "high", "low", "close"}

type DuckDBSource struct {
	db          *sql.DB
	logger      *logger.Logger
	sq          squirrel.StatementBuilderType
	hasVolume   bool
	hasAdjClose bool
}

// NewDuckDBSource opens a DuckDB database at the given path. Pass ":memory:"
// for an in-process database. Initialize must be called before any read.
func NewDuckDBSource(dbPath string, logger *logger.Logger) (*DuckDBSource, error) {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	_, err = db.Exec(`
		SET memory_limit='2GB';
		SET threads=4;
	`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to configure duckdb", err)
	}

	return &DuckDBSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	reader, err := readerFunction(path)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(fmt.Sprintf(`DROP VIEW IF EXISTS %s;`, candleView))
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing view", err)
	}

	query := fmt.Sprintf(`
		CREATE VIEW %s AS
		SELECT * FROM %s('%s');
	`, candleView, reader, path)

	_, err = d.db.Exec(query)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to create candle view", err)
	}

	return d.probeColumns()
}

// readerFunction picks the DuckDB table function for the file extension.
func readerFunction(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return "read_parquet", nil
	case ".csv":
		return "read_csv_auto", nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported data file extension: %q", filepath.Ext(path))
	}
}

// probeColumns checks the view for the required candle columns and records
// which of the optional ones are present.
func (d *DuckDBSource) probeColumns() error {
	rows, err := d.db.Query(`SELECT column_name FROM information_schema.columns WHERE table_name = $1`, candleView)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to inspect candle columns", err)
	}
	defer rows.Close()

	present := make(map[string]bool)

	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan column name", err)
		}

		present[strings.ToLower(column)] = true
	}

	if err := rows.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "error iterating columns", err)
	}

	for _, column := range requiredColumns {
		if !present[column] {
			return errors.Newf(errors.ErrCodeParseFailed, "data file is missing required column %q", column)
		}
	}

	d.hasVolume = present["volume"]
	d.hasAdjClose = present["adj_close"]

	return nil
}

// selectColumns returns the candle columns in scan order.
func (d *DuckDBSource) selectColumns() []string {
	columns := []string{"time", "symbol", "open", "high", "low", "close"}

	if d.hasVolume {
		columns = append(columns, "volume")
	}

	if d.hasAdjClose {
		columns = append(columns, "adj_close")
	}

	return columns
}

// scanCandle reads the current row into a Candle. A missing or NULL volume
// becomes NaN, which downstream turns into an undefined point.
func (d *DuckDBSource) scanCandle(rows *sql.Rows) (types.Candle, error) {
	var (
		candle   types.Candle
		volume   sql.NullFloat64
		adjClose sql.NullFloat64
	)

	dest := []interface{}{&candle.Time, &candle.Symbol, &candle.Open, &candle.High, &candle.Low, &candle.Close}

	if d.hasVolume {
		dest = append(dest, &volume)
	}

	if d.hasAdjClose {
		dest = append(dest, &adjClose)
	}

	if err := rows.Scan(dest...); err != nil {
		return types.Candle{}, errors.Wrap(errors.ErrCodeParseFailed, "failed to scan candle row", err)
	}

	if d.hasVolume && volume.Valid {
		candle.Volume = volume.Float64
	} else {
		candle.Volume = math.NaN()
	}

	if adjClose.Valid {
		candle.AdjClose = optional.Some(adjClose.Float64)
	}

	candle.Time = candle.Time.UTC()

	return candle, nil
}

// ReadAll implements DataSource.
func (d *DuckDBSource) ReadAll(symbol string) ([]types.Candle, error) {
	return d.ReadRange(symbol, optional.None[time.Time](), optional.None[time.Time]())
}

// ReadRange implements DataSource.
func (d *DuckDBSource) ReadRange(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Candle, error) {
	builder := d.sq.
		Select(d.selectColumns()...).
		From(candleView).
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("time ASC")

	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build candle query", err)
	}

	stmt, err := d.db.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare candle query", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query candles", err)
	}
	defer rows.Close()

	candles := make([]types.Candle, 0, 256)

	for rows.Next() {
		candle, err := d.scanCandle(rows)
		if err != nil {
			return nil, err
		}

		candles = append(candles, candle)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating candles", err)
	}

	return candles, nil
}

// Count implements DataSource.
func (d *DuckDBSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", candleView)

	var params []interface{}

	paramCount := 0

	if start.IsSome() {
		paramCount++
		if paramCount == 1 {
			query += " WHERE"
		} else {
			query += " AND"
		}

		query += fmt.Sprintf(" time >= $%d", paramCount)

		params = append(params, start.Unwrap())
	}

	if end.IsSome() {
		paramCount++
		if paramCount == 1 {
			query += " WHERE"
		} else {
			query += " AND"
		}

		query += fmt.Sprintf(" time <= $%d", paramCount)

		params = append(params, end.Unwrap())
	}

	var count int

	row := d.db.QueryRow(query, params...)
	if err := row.Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count candles", err)
	}

	return count, nil
}

// Symbols implements DataSource.
func (d *DuckDBSource) Symbols() ([]string, error) {
	rows, err := d.db.Query(fmt.Sprintf("SELECT DISTINCT symbol FROM %s ORDER BY symbol", candleView))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating symbols", err)
	}

	return symbols, nil
}

// LastCandle returns the most recent candle stored for the symbol.
func (d *DuckDBSource) LastCandle(symbol string) (types.Candle, error) {
	query, args, err := d.sq.
		Select(d.selectColumns()...).
		From(candleView).
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return types.Candle{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build candle query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return types.Candle{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query candles", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return types.Candle{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating candles", err)
		}

		return types.Candle{}, errors.Newf(errors.ErrCodeNoDataFound, "no candles found for symbol %s", symbol)
	}

	return d.scanCandle(rows)
}

// Close implements DataSource.
func (d *DuckDBSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

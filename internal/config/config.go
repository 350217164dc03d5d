// Package config loads, validates and documents the analyzer configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/dmirandah/accionpro/internal/advisor"
	"github.com/dmirandah/accionpro/internal/indicator"
	"github.com/dmirandah/accionpro/internal/types"
	"github.com/dmirandah/accionpro/pkg/errors"
)

const (
	// SchemaFileName is the JSON schema file written next to the sample config.
	SchemaFileName = "accionpro-config.json"
	// SampleFileName is the annotated sample configuration file.
	SampleFileName = "accionpro-config.yaml"
)

// ExportConfig controls where and how analysis results are written.
type ExportConfig struct {
	Dir       string `yaml:"dir" json:"dir" jsonschema:"title=Export Directory,description=Base directory for timestamped result folders"`
	Precision int    `yaml:"precision" json:"precision" jsonschema:"title=Precision,description=Decimal places for exported values,minimum=0" validate:"min=0"`
}

// Config is the full analyzer configuration. A fixed start or end time takes
// precedence over the lookback window; when both are absent the window is
// LookbackDays back from now.
type Config struct {
	Provider      string                     `yaml:"provider" json:"provider" jsonschema:"title=Provider,description=Market data provider,enum=yahoo,enum=binance,enum=polygon,enum=file" validate:"required,oneof=yahoo binance polygon file"`
	Symbols       []string                   `yaml:"symbols" json:"symbols" jsonschema:"title=Symbols,description=Watchlist scanned by default" validate:"required,min=1,dive,required"`
	LookbackDays  int                        `yaml:"lookback_days" json:"lookback_days" jsonschema:"title=Lookback Days,description=Length of the analysis window in days,minimum=1" validate:"required,min=1"`
	StartTime     optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional fixed start of the analysis window"`
	EndTime       optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional fixed end of the analysis window"`
	Indicators    types.IndicatorSet         `yaml:"indicators" json:"indicators" jsonschema:"title=Indicators,description=Indicator families to compute"`
	Periods       indicator.Params           `yaml:"periods" json:"periods" jsonschema:"title=Periods,description=Lookback windows per indicator" validate:"required"`
	Thresholds    advisor.Thresholds         `yaml:"thresholds" json:"thresholds" jsonschema:"title=Thresholds,description=RSI rule bounds" validate:"required"`
	Export        ExportConfig               `yaml:"export" json:"export" jsonschema:"title=Export,description=Result export settings"`
	DataPath      string                     `yaml:"data_path" json:"data_path" jsonschema:"title=Data Path,description=Candle file consumed by the file provider" validate:"required_if=Provider file"`
	PolygonAPIKey string                     `yaml:"polygon_api_key" json:"polygon_api_key" jsonschema:"title=Polygon API Key,description=API key for the polygon provider"`
}

// DefaultConfig returns the configuration the CLI runs with when no file is
// given: the standard watchlist on Yahoo over the last 365 days with every
// indicator enabled.
func DefaultConfig() Config {
	return Config{
		Provider: "yahoo",
		Symbols: []string{
			"AAPL", "MSFT", "GOOGL", "TSLA", "AMZN", "META", "NVDA", "BTC-USD", "ETH-USD",
		},
		LookbackDays:  365,
		StartTime:     optional.None[time.Time](),
		EndTime:       optional.None[time.Time](),
		Indicators:    types.DefaultIndicatorSet(),
		Periods:       indicator.DefaultParams(),
		Thresholds:    advisor.DefaultThresholds(),
		Export:        ExportConfig{Dir: "results", Precision: 2},
		DataPath:      "",
		PolygonAPIKey: "",
	}
}

// Load reads and validates a YAML configuration file. An empty Polygon API
// key falls back to the POLYGON_API_KEY environment variable before
// validation runs.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
	}

	if config.PolygonAPIKey == "" {
		config.PolygonAPIKey = os.Getenv("POLYGON_API_KEY")
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks the configuration against its declared rules.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if c.Provider == "polygon" && c.PolygonAPIKey == "" {
		return errors.New(errors.ErrCodeInvalidConfiguration, "polygon provider requires an API key")
	}

	return nil
}

// Window resolves the analysis window relative to now. Fixed bounds win over
// the lookback.
func (c *Config) Window(now time.Time) (time.Time, time.Time) {
	end := c.EndTime.TakeOr(now)
	start := c.StartTime.TakeOr(end.AddDate(0, 0, -c.LookbackDays))

	return start, end
}

// UnmarshalYAML implements custom unmarshaling so absent timestamps decode to
// None instead of a zero time.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plainConfig struct {
		Provider      string             `yaml:"provider"`
		Symbols       []string           `yaml:"symbols"`
		LookbackDays  int                `yaml:"lookback_days"`
		StartTime     *time.Time         `yaml:"start_time"`
		EndTime       *time.Time         `yaml:"end_time"`
		Indicators    types.IndicatorSet `yaml:"indicators"`
		Periods       indicator.Params   `yaml:"periods"`
		Thresholds    advisor.Thresholds `yaml:"thresholds"`
		Export        ExportConfig       `yaml:"export"`
		DataPath      string             `yaml:"data_path"`
		PolygonAPIKey string             `yaml:"polygon_api_key"`
	}

	plain := plainConfig{
		Provider:      c.Provider,
		Symbols:       c.Symbols,
		LookbackDays:  c.LookbackDays,
		StartTime:     nil,
		EndTime:       nil,
		Indicators:    c.Indicators,
		Periods:       c.Periods,
		Thresholds:    c.Thresholds,
		Export:        c.Export,
		DataPath:      c.DataPath,
		PolygonAPIKey: c.PolygonAPIKey,
	}

	if err := unmarshal(&plain); err != nil {
		return err
	}

	c.Provider = plain.Provider
	c.Symbols = plain.Symbols
	c.LookbackDays = plain.LookbackDays
	c.Indicators = plain.Indicators
	c.Periods = plain.Periods
	c.Thresholds = plain.Thresholds
	c.Export = plain.Export
	c.DataPath = plain.DataPath
	c.PolygonAPIKey = plain.PolygonAPIKey

	if plain.StartTime != nil {
		c.StartTime = optional.Some(*plain.StartTime)
	}

	if plain.EndTime != nil {
		c.EndTime = optional.Some(*plain.EndTime)
	}

	return nil
}

// MarshalYAML renders the config with None timestamps omitted, keeping the
// generated sample file clean.
func (c Config) MarshalYAML() (interface{}, error) {
	type plainConfig struct {
		Provider      string             `yaml:"provider"`
		Symbols       []string           `yaml:"symbols"`
		LookbackDays  int                `yaml:"lookback_days"`
		StartTime     *time.Time         `yaml:"start_time,omitempty"`
		EndTime       *time.Time         `yaml:"end_time,omitempty"`
		Indicators    types.IndicatorSet `yaml:"indicators"`
		Periods       indicator.Params   `yaml:"periods"`
		Thresholds    advisor.Thresholds `yaml:"thresholds"`
		Export        ExportConfig       `yaml:"export"`
		DataPath      string             `yaml:"data_path,omitempty"`
		PolygonAPIKey string             `yaml:"polygon_api_key,omitempty"`
	}

	plain := plainConfig{
		Provider:      c.Provider,
		Symbols:       c.Symbols,
		LookbackDays:  c.LookbackDays,
		StartTime:     nil,
		EndTime:       nil,
		Indicators:    c.Indicators,
		Periods:       c.Periods,
		Thresholds:    c.Thresholds,
		Export:        c.Export,
		DataPath:      c.DataPath,
		PolygonAPIKey: c.PolygonAPIKey,
	}

	if c.StartTime.IsSome() {
		t := c.StartTime.Unwrap()
		plain.StartTime = &t
	}

	if c.EndTime.IsSome() {
		t := c.EndTime.Unwrap()
		plain.EndTime = &t
	}

	return plain, nil
}

// GenerateSchema generates a JSON schema for the Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "accionpro-config"
	schema.Description = "Configuration schema for the accionpro analyzer"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates the JSON schema as an indented string.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// WriteSchemaFiles writes the JSON schema and, when absent, a sample config
// with a yaml-language-server header into dir. It returns both paths.
func WriteSchemaFiles(dir string) (schemaPath, samplePath string, err error) {
	config := DefaultConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to generate schema", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to create directory %s", dir)
	}

	schemaPath = filepath.Join(dir, SchemaFileName)
	samplePath = filepath.Join(dir, SampleFileName)

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return "", "", errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to write schema to %s", schemaPath)
	}

	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(config)
		if err != nil {
			return "", "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal sample config", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+SchemaFileName+"\n"), yamlBytes...)

		if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
			return "", "", errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to write sample config to %s", samplePath)
		}
	}

	return schemaPath, samplePath, nil
}

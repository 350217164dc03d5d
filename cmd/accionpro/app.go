package main

import (
	"os"

	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"

	"github.com/dmirandah/accionpro/internal/advisor"
	"github.com/dmirandah/accionpro/internal/analyzer"
	"github.com/dmirandah/accionpro/internal/config"
	"github.com/dmirandah/accionpro/internal/datasource"
	"github.com/dmirandah/accionpro/internal/indicator"
	"github.com/dmirandah/accionpro/internal/logger"
	"github.com/dmirandah/accionpro/pkg/export"
	"github.com/dmirandah/accionpro/pkg/marketdata"
	"github.com/dmirandah/accionpro/pkg/marketdata/provider"
)

// app bundles what a command action needs: the resolved configuration, the
// analyzer service and, for the file provider, the backing datasource.
type app struct {
	cfg     config.Config
	logger  *logger.Logger
	service *analyzer.Service
	source  *datasource.DuckDBSource
}

// resolveConfig loads the configuration file when one is given and applies
// flag overrides on top of it.
func resolveConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}

		cfg = loaded
	}

	if providerFlag := cmd.String("provider"); providerFlag != "" {
		cfg.Provider = providerFlag
	}

	if dataFlag := cmd.String("data"); dataFlag != "" {
		cfg.DataPath = dataFlag
	}

	if start := cmd.Timestamp("start"); !start.IsZero() {
		cfg.StartTime = optional.Some(start)
	}

	if end := cmd.Timestamp("end"); !end.IsZero() {
		cfg.EndTime = optional.Some(end)
	}

	if cfg.PolygonAPIKey == "" {
		cfg.PolygonAPIKey = os.Getenv("POLYGON_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// newApp builds the analyzer service for the resolved configuration. The
// returned app must be closed.
func newApp(cmd *cli.Command) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return nil, err
	}

	engine, err := indicator.NewEngineWithParams(cfg.Periods)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: log,
	}

	var client *marketdata.Client

	if cfg.Provider == "file" {
		source, err := datasource.NewDuckDBSource(":memory:", log)
		if err != nil {
			return nil, err
		}

		if err := source.Initialize(cfg.DataPath); err != nil {
			source.Close()

			return nil, err
		}

		a.source = source
		client = marketdata.NewClientWithProvider(datasource.NewFileProvider(source))
	} else {
		client, err = marketdata.NewClient(marketdata.ClientConfig{
			ProviderType:  provider.ProviderType(cfg.Provider),
			PolygonAPIKey: cfg.PolygonAPIKey,
		})
		if err != nil {
			return nil, err
		}
	}

	a.service = analyzer.NewService(client, engine, advisor.NewAdvisorWithThresholds(cfg.Thresholds), log)

	return a, nil
}

// watchlist returns the symbols a scan covers. The file provider scans every
// symbol present in the file; remote providers scan the configured watchlist.
func (a *app) watchlist() ([]string, error) {
	if a.source != nil {
		return a.source.Symbols()
	}

	return a.cfg.Symbols, nil
}

// Close releases the datasource and flushes the logger.
func (a *app) Close() {
	if a.source != nil {
		a.source.Close()
	}

	_ = a.logger.Sync()
}

// exportReports writes every report into one timestamped run directory and
// returns that directory.
func exportReports(cfg config.Config, reports []*analyzer.Report) (string, error) {
	writer, err := export.NewCSVWriter(cfg.Export.Dir, cfg.Export.Precision)
	if err != nil {
		return "", err
	}
	defer writer.Close()

	for _, report := range reports {
		if err := writer.WriteReport(report); err != nil {
			return "", err
		}
	}

	return writer.RunDir(), nil
}

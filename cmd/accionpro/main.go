package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dmirandah/accionpro/internal/analyzer"
	"github.com/dmirandah/accionpro/internal/config"
	"github.com/dmirandah/accionpro/pkg/errors"
	"github.com/dmirandah/accionpro/pkg/marketdata"
)

// disclaimer closes every report, same wording as the dashboard footer.
const disclaimer = "Este análisis es con fines educativos. No constituye asesoría financiera."

// configFlags are shared by the analyze and scan commands.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
		},
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   "Market data provider (yahoo, binance, polygon, file); overrides the config",
		},
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Candle file (parquet or CSV) for the file provider",
		},
		&cli.TimestampFlag{
			Name:    "start",
			Usage:   "Window start in `YYYY-MM-DD` format; overrides the lookback",
			Config: cli.TimestampConfig{
				Layouts: []string{"2006-01-02"},
			},
		},
		&cli.TimestampFlag{
			Name:    "end",
			Usage:   "Window end in `YYYY-MM-DD` format; defaults to today",
			Config: cli.TimestampConfig{
				Layouts: []string{"2006-01-02"},
			},
		},
		&cli.BoolFlag{
			Name:    "export",
			Aliases: []string{"e"},
			Usage:   "Write the results into a timestamped run directory",
		},
	}
}

// analyzeAction runs the full pipeline for one symbol and prints the summary
// block and the recommendation box.
func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	symbol := cmd.String("symbol")
	start, end := a.cfg.Window(time.Now())

	report, err := a.service.Analyze(ctx, analyzer.AnalyzeRequest{
		Symbol: symbol,
		Start:  start,
		End:    end,
		Flags:  a.cfg.Indicators,
	})
	if err != nil {
		if errors.IsNoDataError(err) {
			return cli.Exit(ErrorStyle.Render(fmt.Sprintf("No se encontraron datos para %s.", symbol)), 1)
		}

		return err
	}

	fmt.Println(RenderSummary(report.Summary))
	fmt.Println(RenderVerdict(report.Recommendation))
	fmt.Println(HelpStyle.Render(disclaimer))

	if cmd.Bool("export") {
		runDir, err := exportReports(a.cfg, []*analyzer.Report{report})
		if err != nil {
			return err
		}

		fmt.Printf("Resultados exportados en %s\n", runDir)
	}

	return nil
}

// scanAction analyzes the whole watchlist and prints one row per symbol.
func scanAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	symbols, err := a.watchlist()
	if err != nil {
		return err
	}

	start, end := a.cfg.Window(time.Now())

	reports, err := a.service.Scan(ctx, symbols, start, end, a.cfg.Indicators)
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		return cli.Exit(ErrorStyle.Render("No se encontraron datos para ningún símbolo."), 1)
	}

	fmt.Println(RenderScanTable(reports))
	fmt.Println(HelpStyle.Render(disclaimer))

	if cmd.Bool("export") {
		runDir, err := exportReports(a.cfg, reports)
		if err != nil {
			return err
		}

		fmt.Printf("Resultados exportados en %s\n", runDir)
	}

	return nil
}

// providersAction lists the registered market data providers.
func providersAction(ctx context.Context, cmd *cli.Command) error {
	fmt.Print(RenderProviders(marketdata.Providers()))
	fmt.Println(HelpStyle.Render("El proveedor file lee velas locales (parquet o CSV) indicadas con --data."))

	return nil
}

// schemaAction writes the configuration JSON schema and a sample YAML file.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	schemaPath, samplePath, err := config.WriteSchemaFiles(cmd.String("output"))
	if err != nil {
		return err
	}

	log.Printf("Schema written to %s", schemaPath)
	log.Printf("Sample config written to %s", samplePath)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "accionpro",
		Usage: "Technical analysis and trading recommendations for stocks and crypto",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Analyze a single symbol and print its recommendation",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "symbol",
						Aliases:  []string{"s"},
						Usage:    "Ticker symbol to analyze",
						Required: true,
					},
				}, configFlags()...),
				Action: analyzeAction,
			},
			{
				Name:   "scan",
				Usage:  "Analyze the whole watchlist and print a verdict per symbol",
				Flags:  configFlags(),
				Action: scanAction,
			},
			{
				Name:   "providers",
				Usage:  "List the supported market data providers",
				Action: providersAction,
			},
			{
				Name:  "schema",
				Usage: "Write the configuration JSON schema and a sample config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory the schema and sample config are written to",
						Value:   "config",
					},
				},
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

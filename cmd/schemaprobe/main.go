package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/alexanderjulianmartinez/schemaprobe/internal/catalog"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/config"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/drift"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/probe"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/probe/postgrest"
	"github.com/alexanderjulianmartinez/schemaprobe/internal/report"
)

// CLI holds the command-line flags. Every flag is optional.
type CLI struct {
	TablesFile string `help:"YAML file with a 'tables' list to probe instead of the defaults" type:"path"`
	Timeout    string `help:"Per-request timeout (e.g. 10s, 0 disables); overrides DB_TIMEOUT"`
	Types      bool   `help:"Show the type inferred from each sample value"`
	NoColor    bool   `help:"Disable colored status markers"`
	Verbose    bool   `help:"Log request details to stderr" short:"v"`
	DSN        string `help:"Database DSN for a direct catalog read; overrides DB_DSN" name:"dsn"`
	Driver     string `help:"Catalog driver: postgres or mysql; overrides DB_DRIVER"`
	Schema     string `help:"Catalog schema; overrides DB_SCHEMA"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("schemaprobe"),
		kong.Description("Infer table schemas from sample rows served by a PostgREST endpoint."),
	)

	if err := run(context.Background(), cli, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "schemaprobe error: %v\n", err)
		os.Exit(1)
	}
}

// run returns an error only when the configuration is unusable. Failed probes
// and a failed catalog read are reported inline.
func run(ctx context.Context, cli CLI, stdout, stderr io.Writer) error {
	if err := loadEnvFiles(); err != nil {
		return err
	}

	opts := config.Options{
		TablesFile: cli.TablesFile,
		DSN:        cli.DSN,
		Driver:     cli.Driver,
		Schema:     cli.Schema,
	}
	if cli.Timeout != "" {
		d, err := time.ParseDuration(cli.Timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		opts.Timeout = &d
	}

	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	out := report.NewPrinter(stdout, !cli.NoColor && !color.NoColor)
	out.Guide(cfg.Endpoint.ProjectRef())
	fmt.Fprintln(stdout)

	out.Section("📋 Tables reachable through the REST API:")
	prober := postgrest.New(cfg.Endpoint, postgrest.WithLogger(logger))
	results := probe.Run(ctx, prober, cfg.Tables, out.Status)

	out.Section("📊 Detected columns:")
	out.Columns(results, cli.Types)

	if cfg.Catalog.Enabled() {
		runCatalog(ctx, cfg.Catalog, results, out, logger)
	}

	failed := 0
	for _, r := range results.All() {
		if r.Outcome != probe.Success {
			failed++
		}
	}
	logger.Debug("run complete", "prober", prober.Name(), "tables", results.Len(), "without_sample", failed)
	return nil
}

func runCatalog(ctx context.Context, cfg config.CatalogConfig, results *probe.Results, out *report.Printer, logger *slog.Logger) {
	out.Section("🗂  Catalog columns (" + cfg.Schema + "):")

	insp, err := catalog.NewInspector(ctx, cfg.Driver, cfg.DSN, cfg.Schema)
	if err != nil {
		out.Error("catalog", err)
		return
	}
	defer insp.Close()

	cat, err := insp.Inspect(ctx)
	if err != nil {
		out.Error("catalog", err)
		return
	}
	logger.Debug("catalog read", "driver", cfg.Driver, "tables", len(cat.Tables))
	out.Catalog(cat)

	out.Section("🔎 REST sample vs catalog:")
	out.Drift(drift.Compare(results, cat))
}

// loadEnvFiles loads .env from the working directory if present. Variables
// already set in the environment take precedence.
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Command export writes the submission roster of a listable store to a PDF,
// or prints it as a table.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/csg33k/leadform/internal/adapters/logging"
	"github.com/csg33k/leadform/internal/adapters/pdf"
	"github.com/csg33k/leadform/internal/config"
	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/storage"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.Driver == config.DriverFirebase {
		cfg.Driver = config.DriverSQLite
	}

	out := flag.String("o", fmt.Sprintf("roster_%s.pdf", time.Now().Format("20060102")), "output file")
	format := flag.String("format", "pdf", "pdf, or table to print to stdout")
	flag.StringVar(&cfg.Driver, "driver", cfg.Driver, "store driver: sqlite, postgres or redis")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.StringVar(&cfg.Collection, "collection", cfg.Collection, "collection to export")
	flag.Parse()

	logger := logging.NewZapLogger(cfg.Debug)
	defer logger.Sync()

	ctx := context.Background()
	if *format == "table" {
		records, err := load(ctx, cfg)
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		writeTable(os.Stdout, records)
		return
	}
	if err := export(ctx, cfg, *out); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
	logger.Info("roster written", "file", *out, "collection", cfg.Collection)
}

// load reads the whole collection from the configured store.
func load(ctx context.Context, cfg config.Config) ([]domain.StoredRecord, error) {
	h, err := storage.Open(ctx, cfg, logging.Nop())
	if err != nil {
		return nil, err
	}
	defer h.Close()

	lister, err := h.Lister()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Driver, err)
	}
	records, err := lister.List(ctx, cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", cfg.Collection, err)
	}
	return records, nil
}

func export(ctx context.Context, cfg config.Config, path string) error {
	records, err := load(ctx, cfg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := pdf.GenerateRoster(cfg.Collection, records, &buf); err != nil {
		return fmt.Errorf("render roster: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

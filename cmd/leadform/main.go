// Command leadform is the terminal front end of the lead form: it prompts
// for each field, submits to the configured store, and then opens the
// configured targets in the system browser.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"

	"github.com/csg33k/leadform/internal/adapters/browser"
	"github.com/csg33k/leadform/internal/adapters/logging"
	"github.com/csg33k/leadform/internal/config"
	"github.com/csg33k/leadform/internal/ports"
	"github.com/csg33k/leadform/internal/storage"
	"github.com/csg33k/leadform/internal/submission"
)

// printOpener lists targets instead of launching a browser.
type printOpener struct{ out io.Writer }

func (p printOpener) Open(_ context.Context, target string) error {
	_, err := fmt.Fprintf(p.out, "  -> %s\n", target)
	return err
}

func main() {
	noBrowser := flag.Bool("no-browser", false, "print the targets instead of opening them")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewZapLogger(cfg.Debug)
	defer logger.Sync()
	cfg.LogStatus(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var opener ports.Opener = browser.New()
	if *noBrowser {
		opener = printOpener{out: os.Stdout}
	}

	s := &session{
		in:     bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
		svc:    submission.New(store.Store, logger, submission.WithCollection(cfg.Collection)),
		dialog: cfg.Dialog(),
		opener: opener,
		logger: logger,
		colors: !*noColor && color.SupportColor(),
	}
	if err := s.run(ctx); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("session ended", "error", err)
		os.Exit(1)
	}
}

// Package main is the manual integration-test utility for the CheqPrint API.
// It reads the API key from the environment (or a .env / config.yaml file), runs
// the read probes, and after an interactive confirmation runs the write probes
// that consume real cheque numbers. The exit status is always 0 once the
// configuration has loaded; failures are reported in the console output only.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"syscall"

	"github.com/cheqprint/cheqprint-test-api/internal/cheqprint"
	"github.com/cheqprint/cheqprint-test-api/internal/config"
	"github.com/cheqprint/cheqprint-test-api/internal/console"
	"github.com/cheqprint/cheqprint-test-api/internal/probes"
	"github.com/cheqprint/cheqprint-test-api/internal/safego"
	"github.com/cheqprint/cheqprint-test-api/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v\n", err)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	telemetry.SetupLogger(cfg.Logging.Format, cfg.Logging.Level, cfg.Logging.Output)

	ctx, cancel := safego.CancelOnSignal(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	execute(ctx, cfg, console.Stdout(cfg.Console.Color), os.Stdin)
	return nil
}

// execute runs the probe sequence against the configured API and flushes metrics
// when a textfile path is set. Metric flush errors are logged, never fatal.
func execute(ctx context.Context, cfg *config.Config, out *console.Printer, in io.Reader) probes.Summary {
	client := cheqprint.NewClient(cfg.API.BaseURL, cfg.API.Key, cfg.API.Timeout)
	summary := probes.NewRunner(client, out, in, cfg.API).Run(ctx)

	if path := cfg.Telemetry.Metrics.Textfile; path != "" {
		if err := telemetry.WriteTextfile(path, nil); err != nil {
			slog.Error("failed to write metrics textfile", "path", path, "error", err)
		} else {
			slog.Debug("metrics written", "path", path)
		}
	}

	return summary
}

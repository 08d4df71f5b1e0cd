package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/riskgauge/internal/smoke"
	"github.com/okian/riskgauge/pkg/logger"
	"github.com/urfave/cli/v3"
)

// Default configuration constants.
const (
	defaultEdits      = 40
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		os.Stderr.WriteString("smoke run failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	var cfg smoke.Config
	var logFormat string

	return &cli.Command{
		Name:  "smoke",
		Usage: "Exercise a running riskgauge server end to end",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "base URL of the service", Value: "http://localhost:9080", Destination: &cfg.BaseURL},
			&cli.IntFlag{Name: "edits", Usage: "number of random indicator edits", Value: defaultEdits, Destination: &cfg.Edits},
			&cli.IntFlag{Name: "workers", Usage: "concurrent save requests", Value: runtime.NumCPU() * defaultWorkers, Destination: &cfg.Workers},
			&cli.DurationFlag{Name: "timeout", Usage: "HTTP request timeout", Value: defaultTimeout, Destination: &cfg.Timeout},
			&cli.BoolFlag{Name: "restore", Usage: "re-import the starting state when done", Value: true, Destination: &cfg.Restore},
			&cli.BoolFlag{Name: "verbose", Usage: "log every edit", Destination: &cfg.Verbose},
			&cli.StringFlag{Name: "log-format", Usage: "text or json", Value: logger.FormatText, Destination: &logFormat},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			if err := logger.Init(logger.WithFormat(logFormat)); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
			defer cancel()

			_, err := smoke.Run(ctx, &cfg)
			return err
		},
	}
}

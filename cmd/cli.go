package main

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/adapters/kv"
	service "github.com/okian/riskgauge/internal/app"
	"github.com/okian/riskgauge/internal/config"
	"github.com/okian/riskgauge/pkg/logger"
	"github.com/okian/riskgauge/pkg/metrics"
	"github.com/urfave/cli/v3"
)

// run builds the command tree and executes it; output meant for the user
// goes to w while logs go to stderr.
func run(ctx context.Context, args []string, w io.Writer) error {
	return newApp(w).Run(ctx, args)
}

// runtimeEnv carries what the root Before hook prepared for subcommands.
type runtimeEnv struct {
	cfg *config.Config
	out io.Writer
}

func newApp(w io.Writer) *cli.Command {
	env := &runtimeEnv{out: w}

	return &cli.Command{
		Name:   "riskgauge",
		Usage:  "Weighted crypto market risk dashboard",
		Writer: w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file (defaults to $" + config.EnvConfigFile + ")",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
			},
			&cli.StringFlag{
				Name:     "storage",
				Usage:    "storage backend: memory, bolt, badger, firestore or nats",
				Category: "Storage",
			},
			&cli.StringFlag{
				Name:     "bolt-path",
				Usage:    "bolt database file",
				Category: "Storage",
			},
			&cli.StringFlag{
				Name:     "badger-path",
				Usage:    "badger data directory; empty runs in memory",
				Category: "Storage",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := loadConfig(ctx, c)
			if err != nil {
				return ctx, err
			}
			env.cfg = cfg
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(env),
			cmdScores(env),
			cmdSet(env),
			cmdCategoryWeight(env),
			cmdExport(env),
			cmdImport(env),
		},
	}
}

// loadConfig layers command-line flags over the koanf configuration and
// initializes logging from the result.
func loadConfig(ctx context.Context, c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(ctx, c.String("config"))
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"log-level", &cfg.LogLevel},
		{"log-format", &cfg.LogFormat},
		{"storage", &cfg.StorageBackend},
		{"bolt-path", &cfg.BoltPath},
		{"badger-path", &cfg.BadgerPath},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.dst = c.String(o.flag)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(os.Stderr)); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize logging")
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.Configure(cfg.MetricsOptions()...)

	logger.Get().Debug(ctx, "configuration loaded", logger.Any("config", cfg))
	return cfg, nil
}

// openService opens the configured backend and hydrates a service from it.
// The caller must Stop the returned service.
func openService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	backend, err := kv.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open storage", goerr.V("backend", cfg.StorageBackend))
	}

	svc := service.New(backend,
		service.WithLogger(logger.Named("service")),
		service.WithLoadConcurrency(cfg.LoadConcurrency),
		service.WithSavedFlagTTL(cfg.SavedFlagTTL()),
	)
	if err := svc.Start(ctx); err != nil {
		svc.Stop()
		return nil, goerr.Wrap(err, "failed to start service")
	}
	return svc, nil
}

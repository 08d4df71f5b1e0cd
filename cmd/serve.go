package main

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/adapters/http/api"
	"github.com/okian/riskgauge/pkg/logger"
	"github.com/okian/riskgauge/pkg/metrics"
	"github.com/urfave/cli/v3"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func cmdServe(env *runtimeEnv) *cli.Command {
	var addr string

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "HTTP listen address (overrides addr from config)",
				Destination: &addr,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg := env.cfg
			if addr != "" {
				cfg.Addr = addr
			}
			log := logger.Named("serve")

			svc, err := openService(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.Stop()

			go startSystemMetricsUpdater(ctx)

			handler := api.NewServer(svc,
				api.WithLogger(logger.Named("http")),
				api.WithRequestTimeout(cfg.RequestTimeout()),
				api.WithMaxImportBytes(cfg.MaxImportBytes),
			)
			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           handler,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("storage", cfg.StorageBackend))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", cfg.Addr))
				}
				return nil
			case <-ctx.Done():
			}
			log.Info(ctx, "shutting down server...")

			// Graceful shutdown with timeout
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
			}

			log.Info(shutdownCtx, "server stopped")
			return nil
		},
	}
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

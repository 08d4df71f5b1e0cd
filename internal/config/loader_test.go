package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/riskgauge/internal/adapters/kv"
	"github.com/okian/riskgauge/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RISKGAUGE_ADDR", ":8080")
			_ = os.Setenv("RISKGAUGE_STORAGE_BACKEND", "bolt")
			_ = os.Setenv("RISKGAUGE_BOLT_PATH", "/tmp/risk.db")
			_ = os.Setenv("RISKGAUGE_LOAD_CONCURRENCY", "3")
			_ = os.Setenv("RISKGAUGE_METRICS_ENABLED", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StorageBackend, convey.ShouldEqual, kv.BackendBolt)
				convey.So(cfg.BoltPath, convey.ShouldEqual, "/tmp/risk.db")
				convey.So(cfg.LoadConcurrency, convey.ShouldEqual, 3)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := writeConfigFile(t, `
addr: ":9090"
log_format: json
storage_backend: badger
badger_path: /var/lib/riskgauge
saved_flag_ttl_ms: 500
`)

			convey.Convey("Named by argument", func() {
				cfg, err := config.Load(ctx, path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.StorageBackend, convey.ShouldEqual, kv.BackendBadger)
				convey.So(cfg.BadgerPath, convey.ShouldEqual, "/var/lib/riskgauge")
				convey.So(cfg.SavedFlagTTLMS, convey.ShouldEqual, 500)
			})

			convey.Convey("Named by RISKGAUGE_CONFIG with env overriding the file", func() {
				_ = os.Setenv("RISKGAUGE_CONFIG", path)
				_ = os.Setenv("RISKGAUGE_ADDR", ":7070")
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx, "")
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When the YAML file tunes metrics", func() {
			path := writeConfigFile(t, `
metrics_namespace: crypto
metrics_prefix: rg_
metrics_labels:
  env: staging
metrics_buckets_ms: [1, 5, 25, 100]
metrics_refresh_ms: 2500
`)
			cfg, err := config.Load(ctx, path)

			convey.Convey("Then the metrics settings are loaded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "crypto")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "dashboard")
				convey.So(cfg.MetricsPrefix, convey.ShouldEqual, "rg_")
				convey.So(cfg.MetricsLabels, convey.ShouldResemble, map[string]string{"env": "staging"})
				convey.So(cfg.MetricsBucketsMS, convey.ShouldResemble, []float64{1, 5, 25, 100})
				convey.So(cfg.MetricsRefreshMS, convey.ShouldEqual, 2500)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := writeConfigFile(t, `invalid: yaml: content: [`)
			cfg, err := config.Load(ctx, path)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
			convey.So(cfg, convey.ShouldBeNil)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the merged config is invalid", func() {
			_ = os.Setenv("RISKGAUGE_STORAGE_BACKEND", "firestore")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")
			convey.So(cfg, convey.ShouldBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func clearConfigEnvVars() {
	for _, entry := range os.Environ() {
		name, _, _ := strings.Cut(entry, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			_ = os.Unsetenv(name)
		}
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "riskgauge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

package config

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/adapters/kv"
)

const (
	// EnvPrefix prefixes every environment override, e.g. RISKGAUGE_ADDR.
	EnvPrefix = "RISKGAUGE_"
	// EnvConfigFile names a YAML file to load when no path is given.
	EnvConfigFile = "RISKGAUGE_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) from path, or RISKGAUGE_CONFIG when path is empty
//  3. env (prefix RISKGAUGE_)
func Load(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, goerr.Wrap(ErrLoadConfig, "load config file", goerr.V("path", path), goerr.V("cause", err.Error()))
		}
	}

	// RISKGAUGE_BOLT_PATH -> bolt_path; keys stay flat to match the koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, goerr.Wrap(ErrLoadConfig, "load environment", goerr.V("cause", err.Error()))
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, goerr.Wrap(ErrLoadConfig, "unmarshal config", goerr.V("cause", err.Error()))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return goerr.Wrap(ErrInvalidConfig, "addr must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return goerr.Wrap(ErrInvalidConfig, "unknown log format", goerr.V("log_format", c.LogFormat))
	}
	switch strings.ToLower(c.StorageBackend) {
	case kv.BackendMemory, kv.BackendBadger:
	case kv.BackendBolt:
		if c.BoltPath == "" {
			return goerr.Wrap(ErrInvalidConfig, "bolt_path must not be empty")
		}
	case kv.BackendFirestore:
		if c.FirestoreProjectID == "" {
			return goerr.Wrap(ErrInvalidConfig, "firestore_project_id must not be empty")
		}
	case kv.BackendNATS:
		if c.NATSURL == "" {
			return goerr.Wrap(ErrInvalidConfig, "nats_url must not be empty")
		}
	default:
		return goerr.Wrap(ErrInvalidConfig, "unknown storage backend", goerr.V("storage_backend", c.StorageBackend))
	}
	if c.LoadConcurrency <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "load_concurrency must be positive")
	}
	if c.SavedFlagTTLMS <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "saved_flag_ttl_ms must be positive")
	}
	if c.RequestTimeoutMS <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "request_timeout_ms must be positive")
	}
	if c.MaxImportBytes <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "max_import_bytes must be positive")
	}
	return c.validateMetrics()
}

// metricName matches the characters Prometheus allows in name segments and label names.
var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateMetrics rejects settings that would make collector registration panic.
func (c *Config) validateMetrics() error {
	for key, v := range map[string]string{
		"metrics_namespace": c.MetricsNamespace,
		"metrics_subsystem": c.MetricsSubsystem,
		"metrics_prefix":    c.MetricsPrefix,
	} {
		if v != "" && !metricName.MatchString(v) {
			return goerr.Wrap(ErrInvalidConfig, "invalid metric name segment", goerr.V(key, v))
		}
	}
	for name := range c.MetricsLabels {
		if !metricName.MatchString(name) || strings.HasPrefix(name, "__") {
			return goerr.Wrap(ErrInvalidConfig, "invalid metrics label name", goerr.V("label", name))
		}
	}
	for i := 1; i < len(c.MetricsBucketsMS); i++ {
		if c.MetricsBucketsMS[i] <= c.MetricsBucketsMS[i-1] {
			return goerr.Wrap(ErrInvalidConfig, "metrics_buckets_ms must be strictly increasing",
				goerr.V("metrics_buckets_ms", c.MetricsBucketsMS))
		}
	}
	if c.MetricsRefreshMS <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "metrics_refresh_ms must be positive")
	}
	return nil
}

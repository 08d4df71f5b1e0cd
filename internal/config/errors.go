package config

import "errors"

var (
	// ErrInvalidConfig marks settings that fail Validate: an unknown storage
	// backend, a backend missing its path or endpoint, or a metric name
	// Prometheus would refuse.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a YAML file or RISKGAUGE_ environment layer that
	// could not be read or decoded.
	ErrLoadConfig = errors.New("load config failed")
)

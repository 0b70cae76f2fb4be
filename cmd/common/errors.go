package common

import "errors"

var (
	// ErrLoggerRequired is returned when CommandDeps.Logger is nil.
	ErrLoggerRequired = errors.New("logger is required")
	// ErrConfigRequired is returned when CommandDeps.Config is nil.
	ErrConfigRequired = errors.New("config is required")
	// ErrMetricsRequired is returned when CommandDeps.Metrics is nil.
	ErrMetricsRequired = errors.New("metrics are required")
	// ErrInvalidSource is returned for a malformed --source value.
	ErrInvalidSource = errors.New("invalid source, want tag=path or tag=path=kind")
)

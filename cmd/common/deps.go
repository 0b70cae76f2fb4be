// Package common provides shared wiring for command implementations.
package common

import (
	"github.com/jonesrussell/north-cloud/leadharvest/internal/config"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/logger"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/metrics"
)

// CommandDeps holds the dependencies every command needs.
type CommandDeps struct {
	Logger  logger.Interface
	Config  *config.Config
	Metrics *metrics.Metrics
}

// Validate ensures all required dependencies are present.
func (d CommandDeps) Validate() error {
	if d.Logger == nil {
		return ErrLoggerRequired
	}
	if d.Config == nil {
		return ErrConfigRequired
	}
	if d.Metrics == nil {
		return ErrMetricsRequired
	}
	return nil
}

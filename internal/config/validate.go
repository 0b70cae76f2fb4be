package config

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateRequired checks that a string field is set.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateLogLevel checks a log level.
func ValidateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return nil
	default:
		return &ValidationError{Field: "logger.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
}

// ValidateLogFormat checks a log format.
func ValidateLogFormat(format string) error {
	switch format {
	case "json", "console":
		return nil
	default:
		return &ValidationError{Field: "logger.format", Message: "must be one of: json, console"}
	}
}

// Validate checks the whole configuration and returns the first problem.
func (c *Config) Validate() error {
	if err := ValidateLogLevel(c.Logger.Level); err != nil {
		return err
	}
	if err := ValidateLogFormat(c.Logger.Format); err != nil {
		return err
	}
	if _, err := extract.ParseProfile(c.Extract.PhoneProfile); err != nil {
		return &ValidationError{Field: "extract.phone_profile", Message: err.Error()}
	}
	for _, r := range c.Geo.TargetRegions {
		if _, err := lead.ParseRegion(r); err != nil {
			return &ValidationError{Field: "geo.target_regions", Message: err.Error()}
		}
	}
	if err := c.Walker.Validate(); err != nil {
		return err
	}
	return c.Merge.Validate()
}

// Validate checks walker timings and counts.
func (w *WalkerConfig) Validate() error {
	switch {
	case w.Delay < 0 || w.RandomDelay < 0:
		return &ValidationError{Field: "walker.delay", Message: "must not be negative"}
	case w.Timeout < 0:
		return &ValidationError{Field: "walker.timeout", Message: "must not be negative"}
	case w.RetryAttempts < 1:
		return &ValidationError{Field: "walker.retry_attempts", Message: "must be at least 1"}
	case w.Workers < 1:
		return &ValidationError{Field: "walker.workers", Message: "must be at least 1"}
	}
	return nil
}

// Validate checks that every source has a tag, a path and a known kind,
// and that tags are unique.
func (m *MergeConfig) Validate() error {
	tags := make(map[string]bool, len(m.Sources))
	for i, s := range m.Sources {
		field := fmt.Sprintf("merge.sources[%d]", i)
		if err := ValidateRequired(field+".tag", s.Tag); err != nil {
			return err
		}
		if err := ValidateRequired(field+".path", s.Path); err != nil {
			return err
		}
		if s.Kind != "" {
			if _, err := lead.ParseKind(s.Kind); err != nil {
				return &ValidationError{Field: field + ".kind", Message: err.Error()}
			}
		}
		if _, err := extract.ParseProfile(s.PhoneProfile); err != nil {
			return &ValidationError{Field: field + ".phone_profile", Message: err.Error()}
		}
		if tags[s.Tag] {
			return &ValidationError{Field: field + ".tag", Message: fmt.Sprintf("duplicate tag %q", s.Tag)}
		}
		tags[s.Tag] = true
	}
	return ValidateRequired("merge.output", m.Output)
}

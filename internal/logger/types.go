// Package logger provides logging functionality for the application.
package logger

// Level represents the logging level.
type Level string

const (
	// DebugLevel logs debug messages.
	DebugLevel Level = "debug"
	// InfoLevel logs info messages.
	InfoLevel Level = "info"
	// WarnLevel logs warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel logs error messages.
	ErrorLevel Level = "error"
	// FatalLevel logs fatal messages and exits.
	FatalLevel Level = "fatal"
)

// Default configuration values.
const (
	DefaultLevel    = InfoLevel
	DefaultEncoding = "console"
)

// DefaultOutputPaths keeps log output off stdout so CSV can be piped.
var DefaultOutputPaths = []string{"stderr"}

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level.
	Level Level `yaml:"level" json:"level"`
	// Development enables development mode.
	Development bool `yaml:"development" json:"development"`
	// Encoding is either "console" or "json".
	Encoding string `yaml:"encoding" json:"encoding"`
	// OutputPaths is a list of URLs or file paths to write logging output to.
	OutputPaths []string `yaml:"outputPaths" json:"outputPaths"`
}

// Validate checks the level and encoding.
func (c *Config) Validate() error {
	if c.Level != "" {
		if _, ok := logLevels[string(c.Level)]; !ok {
			return ErrInvalidLevel
		}
	}
	switch c.Encoding {
	case "", "console", "json":
	default:
		return ErrInvalidEncoding
	}
	return nil
}

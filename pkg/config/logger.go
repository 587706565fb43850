package config

import "fmt"

// LoggerConfig defines logging configuration.
type LoggerConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level,omitempty" json:"level,omitempty"`

	// Format is the log format (simple or verbose).
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// SetDefaults sets default values for LoggerConfig.
func (c *LoggerConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "simple"
	}
}

// Validate validates the LoggerConfig.
func (c *LoggerConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Level)
	}
	switch c.Format {
	case "simple", "verbose":
	default:
		return fmt.Errorf("invalid log format: %s", c.Format)
	}
	return nil
}

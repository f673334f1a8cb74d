package logger

import (
	"fmt"
	"slices"
)

// Config controls where and how log lines are written.
type Config struct {
	// Level is the minimum severity: trace, debug, info, warn, error, fatal.
	Level string `yaml:"level" mapstructure:"level"`
	// Format selects json for machines or console/text for humans.
	Format string `yaml:"format" mapstructure:"format"`
	// Output is stdout or stderr.
	Output string `yaml:"output" mapstructure:"output"`
	// ServiceName tags console lines with a short service prefix.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// NoColor strips ANSI colors from console output.
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
	// Timestamp adds a timestamp to every line.
	Timestamp bool `yaml:"timestamp" mapstructure:"timestamp"`
	// Caller adds the file:line of the call site.
	Caller bool `yaml:"caller" mapstructure:"caller"`
}

var (
	validLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	validFormats = []string{"json", "console", "text"}
)

// ApplyDefaults fills unset fields: info level, console format, stdout,
// timestamps on.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

// Validate rejects unknown levels and formats.
func (c *Config) Validate() error {
	if !slices.Contains(validLevels, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", validLevels, c.Level)
	}
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("logging.format must be one of %v (got: %s)", validFormats, c.Format)
	}
	return nil
}

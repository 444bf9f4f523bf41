// Package config handles converter configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Faultbox/obj2uncrz/pkg/encoding"
)

// Config holds all converter settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds conversion settings.
type ConvertConfig struct {
	OutputExt     string `yaml:"output_ext"`     // Extension replacing the input's
	AbortOnError  bool   `yaml:"abort_on_error"` // Stop the batch at the first failed file
	NormalDigits  int    `yaml:"normal_digits"`  // Significant digits kept for welded normals
	InputEncoding string `yaml:"input_encoding"` // Text encoding of inputs; empty = UTF-8
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			OutputExt:     ".uncrz",
			AbortOnError:  false,
			NormalDigits:  15,
			InputEncoding: "",
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 250 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks settings that would make every conversion fail.
func (c *Config) Validate() error {
	var errs []error
	if c.Convert.OutputExt == "" || !strings.HasPrefix(c.Convert.OutputExt, ".") {
		errs = append(errs, fmt.Errorf("convert.output_ext must start with '.', got %q", c.Convert.OutputExt))
	}
	if c.Convert.NormalDigits < 1 || c.Convert.NormalDigits > 17 {
		errs = append(errs, fmt.Errorf("convert.normal_digits must be in 1..17, got %d", c.Convert.NormalDigits))
	}
	if _, err := encoding.Lookup(c.Convert.InputEncoding); err != nil {
		errs = append(errs, fmt.Errorf("convert.input_encoding: %w", err))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}
	return errors.Join(errs...)
}

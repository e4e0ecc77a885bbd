// Package config holds the tabula configuration. Values come, in increasing
// order of precedence, from built-in defaults, a YAML file, TABULA_*
// environment variables and command-line flags.
//
//	v := config.NewViper()
//	_ = v.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
//	cfg, err := config.Load(v, "tabula.yaml")
package config

import (
	"slices"

	"github.com/ajitpratap0/tabula/pkg/errors"
	"github.com/ajitpratap0/tabula/pkg/tableformat"
)

// Config is the complete configuration of the CLI
type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Table   TableConfig   `yaml:"table" mapstructure:"table"`
	Trace   TraceConfig   `yaml:"trace" mapstructure:"trace"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LogConfig configures the global zap logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// TableConfig sets defaults for rendered tables
type TableConfig struct {
	Format        string   `yaml:"format" mapstructure:"format"`
	UpperHeaders  bool     `yaml:"upper_headers" mapstructure:"upper_headers"`
	ColumnFormats []string `yaml:"column_formats" mapstructure:"column_formats"`
}

// TraceConfig enables span export to stdout
type TraceConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// MetricsConfig enables dumping Prometheus metrics after a command
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "console"}
)

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Table: TableConfig{
			Format: tableformat.FormatText,
		},
	}
}

// Validate checks enumerated values
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, c.Log.Level) {
		return invalid("log.level", c.Log.Level, logLevels)
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		return invalid("log.format", c.Log.Format, logFormats)
	}
	if formats := tableformat.Formats(); !slices.Contains(formats, c.Table.Format) {
		return invalid("table.format", c.Table.Format, formats)
	}
	return nil
}

// TableOptions converts the table section for tableformat.New
func (c *Config) TableOptions() tableformat.Options {
	return tableformat.Options{
		ColumnFormats: c.Table.ColumnFormats,
		UpperHeaders:  c.Table.UpperHeaders,
	}
}

func invalid(key, value string, allowed []string) error {
	return errors.New(errors.ErrorTypeConfig, "invalid configuration value").
		WithDetail("key", key).
		WithDetail("value", value).
		WithDetail("allowed", allowed)
}

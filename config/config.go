// Package config loads the settings of the rets command.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// environment variables prefixed with RETURNS_ (RETURNS_LOG_LEVEL,
// RETURNS_PRICES_COLUMNS, ...). The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "RETURNS"

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "returns.yaml"

// Config holds every setting of the command line tool.
type Config struct {
	Log    LogConfig    `yaml:"log" envconfig:"LOG"`
	Prices PricesConfig `yaml:"prices" envconfig:"PRICES"`
	Input  InputConfig  `yaml:"input" envconfig:"INPUT"`
	Output OutputConfig `yaml:"output" envconfig:"OUTPUT"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json console"`
}

// PricesConfig configures the price table loader.
type PricesConfig struct {
	// Columns are the candidate adjusted price labels, in priority order.
	Columns []string `yaml:"columns" envconfig:"COLUMNS" validate:"min=1,dive,required"`
}

// InputConfig configures the table decoders.
type InputConfig struct {
	Comma    string `yaml:"comma" envconfig:"COMMA" validate:"len=1"`
	Sheet    string `yaml:"sheet" envconfig:"SHEET"`
	JSONPath string `yaml:"json_path" envconfig:"JSON_PATH" validate:"required"`
}

// OutputConfig configures the panel encoding.
type OutputConfig struct {
	Format    string `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv jsonl markdown"`
	Precision int    `yaml:"precision" envconfig:"PRECISION" validate:"min=-1,max=15"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "console"},
		Prices: PricesConfig{Columns: []string{"adj_close", "adjusted_close", "adj_price"}},
		Input:  InputConfig{Comma: ",", JSONPath: "$[*]"},
		Output: OutputConfig{Format: "csv", Precision: -1},
	}
}

// Load returns the configuration read from path and the environment.
//
// A missing file is not an error when path is DefaultFile, so that the tool
// works without any configuration; any other missing path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		err := cfg.merge(path)
		if errors.Is(err, fs.ErrNotExist) && path == DefaultFile {
			err = nil
		}
		if err != nil {
			return nil, err
		}
	}

	// envconfig only touches fields whose variable is set.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge overlays the YAML file at path on cfg.
func (cfg *Config) merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return nil
}

// Validate checks every field against its constraints.
func (cfg *Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// CommaRune returns the input delimiter as a rune.
func (c InputConfig) CommaRune() rune {
	for _, r := range c.Comma {
		return r
	}
	return ','
}

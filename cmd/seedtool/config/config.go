// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads seedtool's format definitions from a config file and
// turns them into a populated seed registry.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/seedkit/seedkit/seed"
	"github.com/seedkit/seedkit/seed/options"
)

const (
	envPrefix = "SEEDTOOL"

	defaultDirName  = ".seedtool"
	defaultListName = "seeds.txt"
)

var errUnknownOptionType = errors.New("unknown option type")

// Config mirrors the seedtool config file.
type Config struct {
	// SeedList is the path of the seed list file. Defaults to
	// ~/.seedtool/seeds.txt.
	SeedList string `mapstructure:"seed-list"`

	// DefaultVersion pins the version used when generating without an
	// explicit one. When omitted, the last format in the file is used.
	DefaultVersion *uint8 `mapstructure:"default-version"`

	Formats []FormatConfig `mapstructure:"formats"`
}

// FormatConfig declares one seed format.
type FormatConfig struct {
	Version uint8          `mapstructure:"version"`
	Layout  string         `mapstructure:"layout"`
	Options []OptionConfig `mapstructure:"options"`
}

// OptionConfig declares one node of a format's option tree. Type selects
// which of the remaining fields apply: "bool", "range", "choice", or
// "group".
type OptionConfig struct {
	Type    string         `mapstructure:"type"`
	ID      string         `mapstructure:"id"`
	Title   string         `mapstructure:"title"`
	Min     int64          `mapstructure:"min"`
	Max     int64          `mapstructure:"max"`
	Step    int64          `mapstructure:"step"`
	Choices []string       `mapstructure:"choices"`
	Default any            `mapstructure:"default"`
	Options []OptionConfig `mapstructure:"options"`
}

// Load reads the config file at [path]. SEEDTOOL_* environment variables
// override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("couldn't read config %q: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("couldn't parse config %q: %w", path, err)
	}

	if cfg.SeedList == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.SeedList = filepath.Join(home, defaultDirName, defaultListName)
	}
	return cfg, nil
}

// NewRegistry builds the registry declared by the config. Any invalid
// format definition fails the whole load; a bad format must never reach
// encode or decode.
func (c *Config) NewRegistry(opts ...seed.RegistryOption) (*seed.Registry, error) {
	r := seed.NewRegistry(opts...)
	for _, formatConfig := range c.Formats {
		tree, err := buildOptions(formatConfig.Options)
		if err != nil {
			return nil, fmt.Errorf("format version %d: %w", formatConfig.Version, err)
		}

		format, err := seed.NewFormat(formatConfig.Version, formatConfig.Layout, tree...)
		if err != nil {
			return nil, err
		}
		if err := r.RegisterFormat(format); err != nil {
			return nil, err
		}
	}

	if c.DefaultVersion != nil {
		if err := r.SetDefault(*c.DefaultVersion); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func buildOptions(configs []OptionConfig) ([]options.Option, error) {
	tree := make([]options.Option, 0, len(configs))
	for _, config := range configs {
		opt, err := buildOption(config)
		if err != nil {
			return nil, err
		}
		tree = append(tree, opt)
	}
	return tree, nil
}

func buildOption(config OptionConfig) (options.Option, error) {
	switch config.Type {
	case "bool":
		def, _ := config.Default.(bool)
		return options.NewBool(config.ID, def), nil

	case "range":
		def, err := toInt64(config.Default)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", config.ID, err)
		}
		return options.NewRange(config.ID, config.Min, config.Max, config.Step, def)

	case "choice":
		def, _ := config.Default.(string)
		return options.NewChoice(config.ID, def, config.Choices...)

	case "group":
		children, err := buildOptions(config.Options)
		if err != nil {
			return nil, err
		}
		return options.NewGroup(config.Title, children...), nil

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownOptionType, config.Type)
	}
}

// toInt64 accepts the numeric types the YAML and JSON decoders produce.
func toInt64(value any) (int64, error) {
	switch value := value.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(value), nil
	case int64:
		return value, nil
	case uint64:
		return int64(value), nil
	case float64:
		return int64(value), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", value)
	}
}

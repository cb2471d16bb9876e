// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config holds the handful of knobs this engine exposes
// externally. The core (package circsim and celib) never reads a config
// file on its own — a loader or the demo CLI decodes one and applies it
// by calling the core's own setters (Circuit.SetStepLimit, an element
// constructor's delay parameter, cslog.New's level).
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/circsim/circsim/cslog"
)

// Delays holds the default propagation delay, in scheduler steps, for
// each constant-delay element family a loader builds without an
// explicit per-element override.
type Delays struct {
	Gate     int `yaml:"gate"`
	Adder    int `yaml:"adder"`
	FlipFlop int `yaml:"flip_flop"`
	Memory   int `yaml:"memory"`
	Splitter int `yaml:"splitter"`
}

// Logger holds the logger defaults: its starting level and an optional
// subsystem regular expression filter.
type Logger struct {
	Level           string `yaml:"level"`
	SubsystemFilter string `yaml:"subsystem_filter"`
}

// Config is the engine's full set of externally tunable knobs.
type Config struct {
	// StepLimit overrides Circuit's default scheduler step budget. Zero
	// means "leave the circuit's own default in place".
	StepLimit uint64 `yaml:"step_limit"`
	Delays    Delays `yaml:"delays"`
	Logger    Logger `yaml:"logger"`
}

// Default returns the engine's built-in defaults, used whenever a
// loader doesn't supply a config file.
func Default() Config {
	return Config{
		StepLimit: 0,
		Delays: Delays{
			Gate:     1,
			Adder:    1,
			FlipFlop: 1,
			Memory:   1,
			Splitter: 0,
		},
		Logger: Logger{
			Level:           "info",
			SubsystemFilter: ".*",
		},
	}
}

// Load reads and decodes a YAML config file at path, starting from
// Default so a partial file only overrides the fields it sets.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config: decode %s", path)
	}
	return cfg, nil
}

// LogLevel parses the configured logger level into a cslog.Level.
func (c Config) LogLevel() (cslog.Level, error) {
	switch c.Logger.Level {
	case "trace":
		return cslog.Trace, nil
	case "debug":
		return cslog.Debug, nil
	case "info", "":
		return cslog.Info, nil
	case "warning", "warn":
		return cslog.Warning, nil
	case "error":
		return cslog.Error, nil
	case "fatal":
		return cslog.Fatal, nil
	default:
		return 0, errors.Errorf("config: unknown log level %q", c.Logger.Level)
	}
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the settings for running a program.
// It may be loaded from a TOML file and overridden by flags.
type Config struct {
	Input    []int `toml:"input"`
	MaxSteps int   `toml:"max_steps"`
	Trace    bool  `toml:"trace"`
}

// seedInput is the input supplied to programs when none is configured.
var seedInput = []int{
	83, 73, 86, 85, 83, 67, 71, 123, 101, 109, 48, 116, 49, 111,
	110, 52, 108, 95, 100, 52, 109, 52, 103, 51, 125,
}

const defaultMaxSteps = 10_000_000

func defaultConfig() Config {
	return Config{
		Input:    append([]int(nil), seedInput...),
		MaxSteps: defaultMaxSteps,
	}
}

// loadConfig reads the TOML file at path over the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := checkInput(cfg.Input); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// parseInput parses a comma or space separated list of byte values.
func parseInput(s string) ([]int, error) {
	var vals []int
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		v, err := strconv.ParseInt(f, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("bad input value %q", f)
		}
		vals = append(vals, int(v))
	}
	return vals, checkInput(vals)
}

func checkInput(vals []int) error {
	for i, v := range vals {
		if v < 0 || v > 0xff {
			return fmt.Errorf("input value %d (%d) out of byte range", i, v)
		}
	}
	return nil
}

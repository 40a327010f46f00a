// Package config loads armc's configuration from an optional `.armc.toml`
// in the current directory, falling back to built-in defaults when the
// file is absent.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the struct-of-sections the compiler driver reads settings
// from: which external tools to invoke, whether to keep intermediate
// files around for inspection, and which diagnostics to surface.
type Config struct {
	Toolchain struct {
		Assembler        string `toml:"assembler"`
		Linker           string `toml:"linker"`
		KeepIntermediate bool   `toml:"keep_intermediate"`
	} `toml:"toolchain"`

	Diagnostics struct {
		Color               bool `toml:"color"`
		WarnOnNarrowingCast bool `toml:"warn_on_narrowing_cast"`
	} `toml:"diagnostics"`

	Repl struct {
		HistoryFile string `toml:"history_file"`
		HistorySize int    `toml:"history_size"`
	} `toml:"repl"`
}

const defaultPath = ".armc.toml"

// Default returns the configuration a zero-config run assumes.
func Default() *Config {
	cfg := &Config{}

	cfg.Toolchain.Assembler = "clang"
	cfg.Toolchain.Linker = "ld"
	cfg.Toolchain.KeepIntermediate = false

	cfg.Diagnostics.Color = true
	cfg.Diagnostics.WarnOnNarrowingCast = true

	cfg.Repl.HistoryFile = ".armc_history"
	cfg.Repl.HistorySize = 1000

	return cfg
}

// Load reads configuration from defaultPath in the current directory. A
// missing file is not an error: Default() is returned unchanged.
func Load() (*Config, error) {
	return LoadFrom(defaultPath)
}

// LoadFrom reads configuration from the given path, overlaying it onto
// Default() so that a partial file only overrides the keys it mentions.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return cfg, nil
}

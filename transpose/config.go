// SPDX-License-Identifier: MIT

package transpose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Defaults of the reference scenario.
const (
	DefaultWorkers   = 4
	DefaultDimension = 128
)

// Config fixes the topology of one run: Dimension = Workers * BlockSize().
type Config struct {
	// Workers is the number of participants the run expects.
	Workers int `toml:"workers" yaml:"workers"`

	// Dimension is the order of the square matrix.
	Dimension int `toml:"dimension" yaml:"dimension"`
}

// DefaultConfig returns the 4-worker, 128×128 configuration.
func DefaultConfig() Config {
	return Config{Workers: DefaultWorkers, Dimension: DefaultDimension}
}

// BlockSize is the order of one sub-block, Dimension / Workers.
func (c Config) BlockSize() int {
	if c.Workers <= 0 {
		return 0
	}

	return c.Dimension / c.Workers
}

// Validate checks Workers > 0, Dimension > 0 and Workers | Dimension.
func (c Config) Validate() error {
	switch {
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be > 0 (%d)", ErrBadConfig, c.Workers)
	case c.Dimension <= 0:
		return fmt.Errorf("%w: dimension must be > 0 (%d)", ErrBadConfig, c.Dimension)
	case c.Dimension%c.Workers != 0:
		return fmt.Errorf("%w: dimension %d is not divisible by %d workers", ErrBadConfig, c.Dimension, c.Workers)
	}

	return nil
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) file on top of
// DefaultConfig and validates the result. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("transpose: LoadConfig: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(f)
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	default:
		return cfg, fmt.Errorf("transpose: LoadConfig %q: %w", ext, ErrUnsupportedConfig)
	}
	if err != nil {
		return cfg, fmt.Errorf("transpose: LoadConfig %s: %w: %w", path, ErrBadConfig, err)
	}

	return cfg, cfg.Validate()
}

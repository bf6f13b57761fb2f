// Package config loads benchmark workload settings from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Workload describes one fill-and-drain benchmark run.
type Workload struct {
	// Sizes lists the cache capacities to measure, one report line each.
	Sizes []int `yaml:"sizes" toml:"sizes"`
	// Rounds is the number of fill/drain cycles per size.
	Rounds int `yaml:"rounds" toml:"rounds"`
	// Priorities and Expiries are assigned cyclically to inserted keys.
	Priorities []int   `yaml:"priorities" toml:"priorities"`
	Expiries   []int64 `yaml:"expiries" toml:"expiries"`
	// Workers runs independent caches in parallel (1 = sequential).
	Workers int `yaml:"workers" toml:"workers"`
	// HTTPAddr serves /metrics and /debug/pprof when non-empty.
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
	// Verbose routes cache construction/capacity logs to stderr.
	Verbose bool `yaml:"verbose" toml:"verbose"`
}

// Default returns the standard fill/drain workload:
// sizes 1000..10000 in steps of 1000, 10 rounds each.
func Default() Workload {
	sizes := make([]int, 0, 10)
	for n := 1000; n <= 10000; n += 1000 {
		sizes = append(sizes, n)
	}
	return Workload{
		Sizes:      sizes,
		Rounds:     10,
		Priorities: []int{5, 15, 1, 5, 5},
		Expiries:   []int64{100, 3, 15, 150, 100},
		Workers:    1,
	}
}

// Load reads path on top of Default. Fields absent from the file keep
// their default values. The format is chosen by file extension.
func Load(path string) (Workload, error) {
	w := Default()
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the operator
	if err != nil {
		return w, fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &w); err != nil {
			return w, fmt.Errorf("parsing YAML %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &w); err != nil {
			return w, fmt.Errorf("parsing TOML %s: %w", path, err)
		}
	default:
		return w, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err := w.Validate(); err != nil {
		return w, fmt.Errorf("validating %s: %w", path, err)
	}
	return w, nil
}

// Validate reports the first invalid field.
func (w Workload) Validate() error {
	if len(w.Sizes) == 0 {
		return errors.New("sizes must not be empty")
	}
	for _, n := range w.Sizes {
		if n <= 0 {
			return fmt.Errorf("size %d must be positive", n)
		}
	}
	if w.Rounds <= 0 {
		return fmt.Errorf("rounds %d must be positive", w.Rounds)
	}
	if len(w.Priorities) == 0 || len(w.Expiries) == 0 {
		return errors.New("priorities and expiries must not be empty")
	}
	for _, e := range w.Expiries {
		if e < 0 {
			return fmt.Errorf("expiry %d must not be negative", e)
		}
	}
	if w.Workers <= 0 {
		return fmt.Errorf("workers %d must be positive", w.Workers)
	}
	return nil
}

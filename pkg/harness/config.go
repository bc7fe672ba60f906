package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is one run's worth of harness parameters: the external surface
// the command-line surface assigns, reshaped so it can
// equally be supplied as a YAML file. Either construction path ends up at
// the same struct the rest of the package consumes.
type Config struct {
	// Topology selects the preset by key: "0" or "small", "1" or "big".
	Topology string `yaml:"topology"`

	// DurationSeconds bounds how long each load point runs.
	DurationSeconds int `yaml:"duration_seconds"`

	// BaseLoad is the lowest point of the load ladder Sweep drives the
	// network at; see Loads for the full series.
	BaseLoad float64 `yaml:"base_load"`

	// Algorithm selects which routing policy (or policies, via "all") to
	// run. See pkg/harness/algorithm.go for valid values.
	Algorithm string `yaml:"algorithm"`

	// OutputDir is where the JSON/CSV/PNG bundle is written. It defaults to
	// "simulation_results", matching the original's default; an empty value
	// writes the bundle under the current directory.
	OutputDir string `yaml:"output_dir"`

	// Quiet suppresses the per-load-point console summary line.
	Quiet bool `yaml:"quiet"`

	// NoPlots skips PNG rendering, leaving only the JSON/CSV bundle.
	NoPlots bool `yaml:"no_plots"`

	// ConcurrencyCap bounds the number of in-flight per-packet forwarding
	// goroutines the generator allows at once.
	ConcurrencyCap int `yaml:"concurrency_cap"`

	// PacketSize is the DATA payload size, in bytes, the generator uses.
	PacketSize int `yaml:"packet_size"`
}

// DefaultConfig returns the harness defaults, mirroring the original's
// sim.py argument defaults (small topology, 180s duration, base load 5).
func DefaultConfig() *Config {
	return &Config{
		Topology:        "small",
		DurationSeconds: 180,
		BaseLoad:        5,
		Algorithm:       string(AlgorithmAll),
		OutputDir:       "simulation_results",
		ConcurrencyCap:  defaultConcurrencyCap,
		PacketSize:      defaultPacketSize,
	}
}

// LoadConfig reads a YAML config file, starting from DefaultConfig so any
// field the file omits keeps its default.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("harness: reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("harness: parsing config %q: %w", path, err)
	}
	if cfg.ConcurrencyCap <= 0 {
		cfg.ConcurrencyCap = defaultConcurrencyCap
	}
	if cfg.PacketSize <= 0 {
		cfg.PacketSize = defaultPacketSize
	}
	return cfg, nil
}

// LoadSeries returns the fixed load ladder Sweep drives each algorithm
// through: base, base+5, base+15, base+25, base+30 packets/second,
// matching the original's generate_load_series.
func (c *Config) LoadSeries() []float64 {
	base := c.BaseLoad
	return []float64{base, base + 5, base + 15, base + 25, base + 30}
}

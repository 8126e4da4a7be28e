package config

import (
	"bytes"
	"io"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"mlpclass/internal/model"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	HiddenLayers []int         `yaml:"hidden_layers"`
	LearningRate float64       `yaml:"learning_rate"`
	TimeBudget   time.Duration `yaml:"time_budget"`
	Seed         int64         `yaml:"seed"`
	Debug        string        `yaml:"debug"`
	LogEvery     int           `yaml:"log_every"`
}

// Overrides captures CLI supplied values. Zero values, and a negative
// TimeBudget, leave the loaded value alone.
type Overrides struct {
	HiddenLayers []int
	LearningRate float64
	TimeBudget   time.Duration
	Seed         int64
	Debug        string
	LogEvery     int
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		HiddenLayers: []int{4},
		LearningRate: 0.5,
		TimeBudget:   7 * time.Second,
		Seed:         1,
		Debug:        "011",
		LogEvery:     100,
	}
}

// Load reads a Config from YAML layered over Default. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg, err := parseYAML(f)
	if err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides updates cfg using any set override.
func (c *Config) ApplyOverrides(o Overrides) {
	if len(o.HiddenLayers) > 0 {
		c.HiddenLayers = append([]int(nil), o.HiddenLayers...)
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.TimeBudget >= 0 {
		c.TimeBudget = o.TimeBudget
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Debug != "" {
		c.Debug = o.Debug
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.HiddenLayers) == 0 {
		return errors.New("at least one hidden layer is required")
	}
	for i, width := range c.HiddenLayers {
		if width <= 0 {
			return errors.Errorf("hidden_layers[%d] must be > 0 (got %d)", i, width)
		}
	}
	if !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0) {
		return errors.Errorf("learning_rate must be > 0 (got %v)", c.LearningRate)
	}
	if c.TimeBudget < 0 {
		return errors.Errorf("time_budget must be >= 0 (got %s)", c.TimeBudget)
	}
	if _, err := c.DumpMask(); err != nil {
		return err
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 100
	}
	return nil
}

// DumpMask decodes the debug selector.
func (c *Config) DumpMask() (model.DumpMask, error) {
	return model.ParseDumpMask(c.Debug)
}

func parseYAML(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(raw)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

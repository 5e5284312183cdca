// Package config loads the tuning knobs shared by the command-line tools.
//
// Values are layered: defaults, then an optional YAML file, then REFINE_*
// environment variables. Command-line flags are applied on top by the
// caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/utkarsh5026/refine/histogram"
	"github.com/utkarsh5026/refine/pool"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "REFINE_"

// Config holds the knobs that shape how a kernel runs but not what it
// computes.
type Config struct {
	Schedule  string `yaml:"schedule"`
	ChunkSize int    `yaml:"chunk_size"`
	Affinity  bool   `yaml:"affinity"`
	Mode      string `yaml:"mode"`
	MaxLevels int    `yaml:"max_levels"`
	LogLevel  string `yaml:"log_level"`
	Report    bool   `yaml:"report"`
	Progress  bool   `yaml:"progress"`
}

// Default returns the configuration used when nothing else is set.
// An empty Schedule lets each kernel pick its own default.
func Default() Config {
	return Config{
		Mode:     histogram.ModeAtomic.String(),
		LogLevel: "warn",
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path
// is not empty) and the environment. The result is not validated: callers
// layer their flags on top and then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("SCHEDULE", &c.Schedule)
	integer("CHUNK_SIZE", &c.ChunkSize)
	boolean("AFFINITY", &c.Affinity)
	str("MODE", &c.Mode)
	integer("MAX_LEVELS", &c.MaxLevels)
	str("LOG_LEVEL", &c.LogLevel)
	boolean("REPORT", &c.Report)
	boolean("PROGRESS", &c.Progress)

	return errors.Join(errs...)
}

// Validate checks the knobs shared by both tools. Mode only matters to the
// histogram and is checked by HistogramMode.
func (c Config) Validate() error {
	if c.Schedule != "" {
		if _, err := pool.ParseSchedule(c.Schedule); err != nil {
			return err
		}
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk size %d must not be negative", c.ChunkSize)
	}
	if c.MaxLevels < 0 {
		return fmt.Errorf("max levels %d must not be negative", c.MaxLevels)
	}
	return nil
}

// ScheduleOr parses the configured schedule, or returns def when none is set.
func (c Config) ScheduleOr(def pool.Schedule) pool.Schedule {
	if c.Schedule == "" {
		return def
	}
	s, err := pool.ParseSchedule(c.Schedule)
	if err != nil {
		return def
	}
	return s
}

// HistogramMode parses the configured histogram mode.
func (c Config) HistogramMode() (histogram.Mode, error) {
	return histogram.ParseMode(c.Mode)
}

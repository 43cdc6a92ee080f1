package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration. Three layers feed it, later
// wins: the optional YAML file, GPSGEOMANCY_* environment variables, then
// command-line flags (applied by the caller).
type Config struct {
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`

	Record string    `yaml:"record"`
	Replay string    `yaml:"replay"`
	Sim    SimConfig `yaml:"sim"`

	Readings int           `yaml:"readings"`
	Watch    bool          `yaml:"watch"`
	Interval time.Duration `yaml:"interval"`

	Log LogConfig `yaml:"log"`
}

type SimConfig struct {
	Enable bool `yaml:"enable"`
	Count  int  `yaml:"count"`
	Warmup int  `yaml:"warmup"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used when no layer overrides anything:
// a USB GPS mouse at NMEA's conventional 4800 baud, one reading, logging
// to stderr.
func Default() Config {
	return Config{
		Port:        "/dev/ttyUSB0",
		Baud:        4800,
		ReadTimeout: time.Second,
		Sim:         SimConfig{Count: 12, Warmup: 1},
		Readings:    1,
		Log:         LogConfig{Level: "info", Format: "text", Output: "stderr", MaxAgeDays: 7},
	}
}

// Load decodes the YAML file at path over the defaults. Unknown keys are
// rejected: a typo in a config file should fail loudly, not silently use a
// default. Validation is separate (DefaultAndValidate) so flag and env
// layers can still be applied on top.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv overlays GPSGEOMANCY_* environment variables onto cfg. Unset
// variables leave the layer below untouched.
func FromEnv(cfg *Config) error {
	if v := os.Getenv("GPSGEOMANCY_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("GPSGEOMANCY_BAUD"); v != "" {
		baud, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GPSGEOMANCY_BAUD: %q is not a number", v)
		}
		cfg.Baud = baud
	}
	if v := os.Getenv("GPSGEOMANCY_READ_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GPSGEOMANCY_READ_TIMEOUT: %q is not a duration", v)
		}
		cfg.ReadTimeout = d
	}
	return nil
}

// DefaultAndValidate fills in zero values and checks cross-field rules
// after all layers have been applied.
func DefaultAndValidate(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("port is required")
	}
	if cfg.Baud <= 0 {
		return fmt.Errorf("baud must be > 0")
	}
	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be > 0")
	}
	if cfg.Record != "" && cfg.Replay != "" {
		return fmt.Errorf("record and replay cannot both be set")
	}
	if cfg.Replay != "" && cfg.Sim.Enable {
		return fmt.Errorf("replay and sim cannot both be enabled")
	}
	if cfg.Sim.Count < 1 || cfg.Sim.Count > 64 {
		return fmt.Errorf("sim.count must be between 1 and 64")
	}
	if cfg.Sim.Warmup < 0 {
		return fmt.Errorf("sim.warmup must be >= 0")
	}
	if cfg.Readings < 1 {
		return fmt.Errorf("readings must be >= 1")
	}
	if cfg.Interval < 0 {
		return fmt.Errorf("interval must be >= 0")
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Log.MaxAgeDays <= 0 {
		cfg.Log.MaxAgeDays = 7
	}
	return nil
}

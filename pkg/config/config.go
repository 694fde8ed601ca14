package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"VolCast/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Logging     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
		Port    int    `yaml:"port"`
	} `yaml:"metrics"`
	Fit struct {
		MaxIter  int     `yaml:"max_iter"`
		Tol      float64 `yaml:"tol"`
		Restarts int     `yaml:"restarts"`
	} `yaml:"fit"`
	Run struct {
		Symbols    []string      `yaml:"symbols"`
		Interval   string        `yaml:"interval"`
		Candles    int           `yaml:"candles"`
		Steps      int           `yaml:"steps"`
		Confidence float64       `yaml:"confidence"`
		Timeout    time.Duration `yaml:"timeout"`
		Backtest   struct {
			Enabled         bool    `yaml:"enabled"`
			RequiredPercent float64 `yaml:"required_percent"`
		} `yaml:"backtest"`
	} `yaml:"run"`
	Synth struct {
		Seed      int64   `yaml:"seed"`
		AnnualVol float64 `yaml:"annual_vol"`
	} `yaml:"synth"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Run.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("INTERVAL"); v != "" {
		c.Run.Interval = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	c.Run.Candles = util.ParseIntDefault(os.Getenv("CANDLES"), c.Run.Candles)
	c.Run.Confidence = util.ParseFloatDefault(os.Getenv("CONFIDENCE"), c.Run.Confidence)
	c.Run.Timeout = util.ParseDurationDefault(os.Getenv("RUN_TIMEOUT"), c.Run.Timeout)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Run.Symbols) == 0 {
		return fmt.Errorf("run.symbols cannot be empty")
	}
	if c.Run.Interval == "" {
		return fmt.Errorf("run.interval is required")
	}
	if c.Run.Confidence <= 0 || c.Run.Confidence >= 1 {
		return fmt.Errorf("run.confidence must lie in (0, 1), got %v", c.Run.Confidence)
	}
	if p := c.Run.Backtest.RequiredPercent; p < 0 || p > 100 {
		return fmt.Errorf("run.backtest.required_percent must lie in [0, 100], got %v", p)
	}
	return nil
}

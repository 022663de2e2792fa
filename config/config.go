package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rustyeddy/pricepaths/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config represents the complete pricepaths configuration
type Config struct {
	Simulation SimulationConfig `json:"simulation" yaml:"simulation" toml:"simulation"`
	Data       DataConfig       `json:"data" yaml:"data" toml:"data"`
	Server     ServerConfig     `json:"server" yaml:"server" toml:"server"`
	Log        LogConfig        `json:"log" yaml:"log" toml:"log"`
}

// SimulationConfig sets the default path grid and run limits
type SimulationConfig struct {
	Periods int    `json:"periods" yaml:"periods" toml:"periods"`
	Sims    int    `json:"sims" yaml:"sims" toml:"sims"`
	Seed    *int64 `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"` // e.g. "30s"; empty waits forever
}

// TimeoutDuration converts the timeout string to time.Duration
func (s SimulationConfig) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(s.Timeout)
}

// DataConfig says where candles come from: a CSV file, or an instrument
// in the SQLite store.
type DataConfig struct {
	CSV        string `json:"csv,omitempty" yaml:"csv,omitempty" toml:"csv,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty" toml:"db_path,omitempty"`
	Instrument string `json:"instrument,omitempty" yaml:"instrument,omitempty" toml:"instrument,omitempty"`
}

type ServerConfig struct {
	Addr     string `json:"addr" yaml:"addr" toml:"addr"`
	CacheTTL string `json:"cache_ttl" yaml:"cache_ttl" toml:"cache_ttl"` // "0s" disables the comparison cache
}

func (s ServerConfig) CacheTTLDuration() (time.Duration, error) {
	if s.CacheTTL == "" {
		return 0, nil
	}
	return time.ParseDuration(s.CacheTTL)
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"` // "console" or "json"
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadFromFile loads configuration from a file. TOML is chosen by
// extension; anything else is tried as YAML, then JSON. Fields missing
// from the file keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (toml): %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (TOML, YAML or JSON based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch {
	case isTOML(path):
		data, err = toml.Marshal(c)
	case isYAML(path):
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Simulation.Periods < 1 {
		return fmt.Errorf("simulation.periods must be at least 1")
	}
	if c.Simulation.Sims < 1 {
		return fmt.Errorf("simulation.sims must be at least 1")
	}
	if d, err := c.Simulation.TimeoutDuration(); err != nil || d < 0 {
		return fmt.Errorf("simulation.timeout must be a non-negative duration")
	}
	if c.Data.CSV != "" && c.Data.Instrument != "" {
		return fmt.Errorf("data.csv and data.instrument are mutually exclusive")
	}
	if c.Data.Instrument != "" && c.Data.DBPath == "" {
		return fmt.Errorf("data.db_path required when data.instrument is set")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if d, err := c.Server.CacheTTLDuration(); err != nil || d < 0 {
		return fmt.Errorf("server.cache_ttl must be a non-negative duration")
	}
	if !logging.KnownLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be one of trace, debug, info, warn, error")
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Periods: 30,
			Sims:    1000,
			Timeout: "30s",
		},
		Data: DataConfig{
			DBPath: "./pricepaths.db",
		},
		Server: ServerConfig{
			Addr:     ":8080",
			CacheTTL: "5m",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

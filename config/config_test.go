package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 30, cfg.Simulation.Periods)
	assert.Equal(t, 1000, cfg.Simulation.Sims)
	assert.Nil(t, cfg.Simulation.Seed)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"zero periods", func(c *Config) { c.Simulation.Periods = 0 }, "simulation.periods must be at least 1"},
		{"zero sims", func(c *Config) { c.Simulation.Sims = 0 }, "simulation.sims must be at least 1"},
		{"bad timeout", func(c *Config) { c.Simulation.Timeout = "soon" }, "simulation.timeout"},
		{"negative timeout", func(c *Config) { c.Simulation.Timeout = "-1s" }, "simulation.timeout"},
		{"csv and instrument", func(c *Config) { c.Data.CSV = "a.csv"; c.Data.Instrument = "SOL" }, "mutually exclusive"},
		{"instrument without db", func(c *Config) { c.Data.Instrument = "SOL"; c.Data.DBPath = "" }, "data.db_path required"},
		{"missing addr", func(c *Config) { c.Server.Addr = "" }, "server.addr is required"},
		{"bad cache ttl", func(c *Config) { c.Server.CacheTTL = "forever" }, "server.cache_ttl"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	seed := int64(1234)

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
		{"yml format", ".yml"},
		{"toml format", ".toml"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			cfg.Simulation.Seed = &seed
			cfg.Simulation.Periods = 12
			cfg.Data.Instrument = "SOLUSDT"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  sims: 50\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Simulation.Sims)
	assert.Equal(t, 30, cfg.Simulation.Periods)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[simulation\nsims = "), 0644))
	_, err = LoadFromFile(bad)
	assert.ErrorContains(t, err, "toml")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"simulation": {"periods": 0}}`), 0644))
	_, err = LoadFromFile(invalid)
	assert.ErrorContains(t, err, "simulation.periods")
}

func TestDurations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"30s", 30 * time.Second, false},
		{"5m", 5 * time.Minute, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			d, err := SimulationConfig{Timeout: tt.in}.TimeoutDuration()
			d2, err2 := ServerConfig{CacheTTL: tt.in}.CacheTTLDuration()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, err2)
				return
			}
			assert.NoError(t, err)
			assert.NoError(t, err2)
			assert.Equal(t, tt.want, d)
			assert.Equal(t, tt.want, d2)
		})
	}
}

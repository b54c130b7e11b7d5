package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// dateFormat is the ISO calendar date layout used for the range bounds.
const dateFormat = "2006-01-02"

// Config holds one run's settings. Start and End are kept as strings so a
// config file round-trips byte-for-byte; DateRange parses them.
type Config struct {
	Ticker   string        `yaml:"ticker"`
	OutDir   string        `yaml:"outdir"`
	Start    string        `yaml:"start"`
	End      string        `yaml:"end"`
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"`
	BaseURL  string        `yaml:"base_url,omitempty"`
}

// Load reads a yaml config file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a yaml file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the settings used when no flags or config file override
// them: WH Smith on the London exchange, four calendar years.
func Default() *Config {
	return &Config{
		Ticker:   "SMWH.L",
		OutDir:   "data/whsmith",
		Start:    "2022-01-01",
		End:      "2025-12-31",
		Timeout:  20 * time.Second,
		LogLevel: "info",
	}
}

// DateRange parses and validates the start/end dates.
func (c *Config) DateRange() (start, end time.Time, err error) {
	start, err = time.Parse(dateFormat, c.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing start date %q: %w", c.Start, err)
	}
	end, err = time.Parse(dateFormat, c.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing end date %q: %w", c.End, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", c.End, c.Start)
	}
	return start, end, nil
}

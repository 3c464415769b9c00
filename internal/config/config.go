package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".pn.yaml"

// DefaultMaxChanges is the safety cutoff for row generation.
const DefaultMaxChanges = 6000

// Config holds all pn configuration.
type Config struct {
	// Fallback stage for expressions without a "<symbol>|" prefix. 0 = none.
	Stage int `yaml:"stage"`

	// Row generation stops once this many changes have been produced.
	MaxChanges int `yaml:"max_changes"`

	// Accept "a,b,c" style chains of low-precedence operators.
	AllowChainedOperators bool `yaml:"allow_chained_operators"`

	Output  OutputConfig  `yaml:"output"`
	Battery BatteryConfig `yaml:"battery"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls terminal rendering.
type OutputConfig struct {
	Color     bool   `yaml:"color"`
	Highlight bool   `yaml:"highlight"` // style lead-end cycle heads in rows
	Format    string `yaml:"format"`    // text, json
}

// BatteryConfig configures method battery runs.
type BatteryConfig struct {
	Path     string `yaml:"path"`
	Parallel int    `yaml:"parallel"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Stage:      0,
		MaxChanges: DefaultMaxChanges,
		Output: OutputConfig{
			Color:     true,
			Highlight: true,
			Format:    "text",
		},
		Battery: BatteryConfig{
			Parallel: 4,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v, ok := envInt("PN_STAGE"); ok {
		c.Stage = v
	}
	if v, ok := envInt("PN_MAX_CHANGES"); ok {
		c.MaxChanges = v
	}
	if v, ok := envInt("PN_BATTERY_PARALLEL"); ok {
		c.Battery.Parallel = v
	}
	if v, ok := envBool("PN_CHAINED_OPERATORS"); ok {
		c.AllowChainedOperators = v
	}
	if level := os.Getenv("PN_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
	// https://no-color.org: any non-empty value disables color.
	if os.Getenv("NO_COLOR") != "" {
		c.Output.Color = false
	}
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envBool(key string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// GetMaxChanges returns the cutoff, falling back to the default.
func (c *Config) GetMaxChanges() int {
	if c.MaxChanges <= 0 {
		return DefaultMaxChanges
	}
	return c.MaxChanges
}

// GetParallel returns the battery worker count, at least 1.
func (c *Config) GetParallel() int {
	if c.Battery.Parallel < 1 {
		return 1
	}
	return c.Battery.Parallel
}

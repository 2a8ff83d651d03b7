// Package config loads the planner's configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottoplan/internal/ingredient"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds all configuration for ottoplan.
type Config struct {
	User    string        `yaml:"user"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Plan    PlanConfig    `yaml:"plan"`

	// AliasesFile is an extra YAML alias table for the normalizer.
	AliasesFile string `yaml:"aliases_file"`
	// Equivalences add ingredient-specific unit bridges.
	Equivalences []EquivalenceConfig `yaml:"equivalences"`
}

// StoreConfig selects the document store.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // off, normal, verbose
}

// PlanConfig holds meal plan defaults.
type PlanConfig struct {
	DefaultID string `yaml:"default_id"`
	TopShared int    `yaml:"top_shared"`
}

// EquivalenceConfig states that one From of Ingredient equals Amount To.
type EquivalenceConfig struct {
	Ingredient string  `yaml:"ingredient"`
	From       string  `yaml:"from"`
	Amount     float64 `yaml:"amount"`
	To         string  `yaml:"to"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		User: "default",
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   DefaultDBPath(),
		},
		Logging: LoggingConfig{Level: "normal"},
		Plan: PlanConfig{
			DefaultID: "current",
			TopShared: 5,
		},
	}
}

// DefaultDBPath returns ~/.ottoplan/ottoplan.db, or a relative path when
// the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ottoplan", "ottoplan.db")
	}
	return filepath.Join(home, ".ottoplan", "ottoplan.db")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OTTOPLAN_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("OTTOPLAN_STORE"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("OTTOPLAN_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("OTTOPLAN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OTTOPLAN_ALIASES"); v != "" {
		c.AliasesFile = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.User == "" {
		return fmt.Errorf("user must not be empty")
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (valid: %s, %s)", c.Store.Driver, DriverMemory, DriverSQLite)
	}
	if _, ok := logger.ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("invalid logging.level: %s (valid: off, normal, verbose)", c.Logging.Level)
	}
	for i, eq := range c.Equivalences {
		if eq.Ingredient == "" || eq.From == "" || eq.To == "" || eq.Amount <= 0 {
			return fmt.Errorf("equivalences[%d]: ingredient, from, to and a positive amount are required", i)
		}
	}
	return nil
}

// LogLevel returns the configured logger level, normal if unparsable.
func (c *Config) LogLevel() logger.Level {
	lvl, _ := logger.ParseLevel(c.Logging.Level)
	return lvl
}

// UnitEquivalences converts the configured bridges for the converter.
func (c *Config) UnitEquivalences() []ingredient.Equivalence {
	out := make([]ingredient.Equivalence, 0, len(c.Equivalences))
	for _, eq := range c.Equivalences {
		out = append(out, ingredient.Equivalence{
			Ingredient: eq.Ingredient,
			From:       eq.From,
			Amount:     eq.Amount,
			To:         eq.To,
		})
	}
	return out
}

// Package config loads application settings from an optional JSON file
// and BOARDCUT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/piwi3910/BoardCut/internal/engine"
	"github.com/piwi3910/BoardCut/internal/model"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// BOARDCUT_GENETIC_SEED.
const EnvPrefix = "BOARDCUT"

// Config holds application-wide preferences and solver defaults.
type Config struct {
	LogLevel       string  `mapstructure:"log_level" json:"log_level"`
	LogPretty      bool    `mapstructure:"log_pretty" json:"log_pretty"`
	Algorithm      string  `mapstructure:"algorithm" json:"algorithm"`
	Unit           string  `mapstructure:"unit" json:"unit"`
	HTTPAddr       string  `mapstructure:"http_addr" json:"http_addr"`
	ProgressBuffer int     `mapstructure:"progress_buffer" json:"progress_buffer"`
	MaxUnits       int     `mapstructure:"max_units" json:"max_units"`
	InventoryPath  string  `mapstructure:"inventory_path" json:"inventory_path"`
	Genetic        Genetic `mapstructure:"genetic" json:"genetic"`
}

// Genetic holds the tunable genetic strategy parameters.
type Genetic struct {
	Population   int     `mapstructure:"population" json:"population"`
	Generations  int     `mapstructure:"generations" json:"generations"`
	MutationRate float64 `mapstructure:"mutation_rate" json:"mutation_rate"`
	Seed         int64   `mapstructure:"seed" json:"seed"`
}

// DefaultDir returns the directory holding configuration and inventory,
// ~/.boardcut on all platforms.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".boardcut")
}

// DefaultPath returns the default path for the config file.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.json")
}

func setDefaults(v *viper.Viper) {
	ga := engine.DefaultGeneticConfig()
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("algorithm", string(model.AlgorithmGreedy))
	v.SetDefault("unit", string(model.UnitMeters))
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("progress_buffer", 64)
	v.SetDefault("max_units", model.DefaultMaxUnits)
	v.SetDefault("inventory_path", filepath.Join(DefaultDir(), "inventory.json"))
	v.SetDefault("genetic.population", ga.PopulationSize)
	v.SetDefault("genetic.generations", ga.Generations)
	v.SetDefault("genetic.mutation_rate", ga.MutationRate)
	v.SetDefault("genetic.seed", ga.Seed)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the configuration with no file and no environment.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads the config file at path, or DefaultPath when path is empty.
// A missing file is not an error; defaults and environment still apply.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Save writes c to path as JSON, creating parent directories.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	v := viper.New()
	v.Set("log_level", c.LogLevel)
	v.Set("log_pretty", c.LogPretty)
	v.Set("algorithm", c.Algorithm)
	v.Set("unit", c.Unit)
	v.Set("http_addr", c.HTTPAddr)
	v.Set("progress_buffer", c.ProgressBuffer)
	v.Set("max_units", c.MaxUnits)
	v.Set("inventory_path", c.InventoryPath)
	v.Set("genetic.population", c.Genetic.Population)
	v.Set("genetic.generations", c.Genetic.Generations)
	v.Set("genetic.mutation_rate", c.Genetic.MutationRate)
	v.Set("genetic.seed", c.Genetic.Seed)
	v.SetConfigType("json")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := c.SolverAlgorithm(); err != nil {
		return err
	}
	if _, err := c.DisplayUnit(); err != nil {
		return err
	}
	if c.ProgressBuffer < 0 {
		return fmt.Errorf("progress_buffer must not be negative, got %d", c.ProgressBuffer)
	}
	if c.MaxUnits < 1 {
		return fmt.Errorf("max_units must be positive, got %d", c.MaxUnits)
	}
	if c.Genetic.Population < 1 || c.Genetic.Generations < 1 {
		return fmt.Errorf("genetic population and generations must be positive")
	}
	return nil
}

func (c Config) SolverAlgorithm() (model.Algorithm, error) {
	return model.ParseAlgorithm(c.Algorithm)
}

func (c Config) DisplayUnit() (model.Unit, error) {
	return model.ParseUnit(c.Unit)
}

// GeneticConfig merges the configured parameters into the strategy
// defaults.
func (c Config) GeneticConfig() engine.GeneticConfig {
	ga := engine.DefaultGeneticConfig()
	ga.PopulationSize = c.Genetic.Population
	ga.Generations = c.Genetic.Generations
	ga.MutationRate = c.Genetic.MutationRate
	ga.Seed = c.Genetic.Seed
	ga.MaxUnits = c.MaxUnits
	return ga
}


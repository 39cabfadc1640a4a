package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/rectsolve/pkg/rectsolve/internalerr"
)

// Config is the rectsolve configuration file.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Store   StoreConfig   `yaml:"store"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

type SolverConfig struct {
	MaxSteps    int `yaml:"max_steps"`
	Parallelism int `yaml:"parallelism"`
}

type IngestConfig struct {
	Stoplist     string `yaml:"stoplist"`
	Lexicon      string `yaml:"lexicon"`
	Dict         string `yaml:"dict"`
	Units        bool   `yaml:"units"`
	NumberWindow int    `yaml:"number_window"`
}

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Solver:  SolverConfig{MaxSteps: 512, Parallelism: 4},
		Ingest:  IngestConfig{Units: true, NumberWindow: 10},
		Store:   StoreConfig{Driver: DriverMemory, Path: "rectsolve.db"},
		Metrics: MetricsConfig{Enabled: true, Namespace: "rectsolve"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Solver.MaxSteps <= 0:
		return fmt.Errorf("%w: solver.max_steps must be positive, got %d", internalerr.ErrInvalidConfig, c.Solver.MaxSteps)
	case c.Solver.Parallelism <= 0:
		return fmt.Errorf("%w: solver.parallelism must be positive, got %d", internalerr.ErrInvalidConfig, c.Solver.Parallelism)
	case c.Ingest.NumberWindow <= 0:
		return fmt.Errorf("%w: ingest.number_window must be positive, got %d", internalerr.ErrInvalidConfig, c.Ingest.NumberWindow)
	case c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Namespace) == "":
		return fmt.Errorf("%w: metrics.namespace is required when metrics are enabled", internalerr.ErrInvalidConfig)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for the sqlite driver", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store.driver %q", internalerr.ErrInvalidConfig, c.Store.Driver)
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", internalerr.ErrInvalidConfig, err)
	}
	return nil
}

// Logger builds a zap logger from the logging section. verbose forces the
// debug level.
func (c LoggingConfig) Logger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if c.Level != "" {
		l, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: logging.level: %v", internalerr.ErrInvalidConfig, err)
		}
		level = l
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// Dict represents the multi-token phrase dictionary
type Dict struct {
	Entries []DictEntry
}

// DictEntry represents a dictionary entry
type DictEntry struct {
	Canonical string
	Variants  []string
	Category  string
}

// LoadDict loads extra keyword phrases from a file
// Format: canonical|variant1|variant2|category
func LoadDict(path string) (*Dict, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dict := &Dict{Entries: []DictEntry{}}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		dict.Entries = append(dict.Entries, DictEntry{
			Canonical: parts[0],
			Variants:  parts[1 : len(parts)-1],
			Category:  parts[len(parts)-1],
		})
	}

	return dict, nil
}

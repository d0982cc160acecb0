package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

type Config struct {
	App         AppConfig         `yaml:"app"`
	Corpus      CorpusConfig      `yaml:"corpus"`
	Prediction  PredictionConfig  `yaml:"prediction"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Graph       GraphConfig       `yaml:"graph"`
	MCP         MCPConfig         `yaml:"mcp"`
}

type AppConfig struct {
	Port     int    `yaml:"port"`
	WorkDir  string `yaml:"work_dir"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// CorpusConfig controls how the raw corpus is split and cleaned
type CorpusConfig struct {
	Path             string   `yaml:"path"`
	CleanedOutput    string   `yaml:"cleaned_output"`
	Delimiters       string   `yaml:"delimiters"`
	IgnoreTokens     []string `yaml:"ignore_tokens"`
	WeightedUnigrams bool     `yaml:"weighted_unigrams"`
}

type PredictionConfig struct {
	Limit           int    `yaml:"limit"`
	DefaultStrategy string `yaml:"default_strategy"`
}

type PersistenceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// GraphConfig selects an optional graph database the bigram table is exported to.
// An empty Backend disables the export.
type GraphConfig struct {
	Backend string      `yaml:"backend"`
	Kuzu    KuzuConfig  `yaml:"kuzu"`
	Neo4j   Neo4jConfig `yaml:"neo4j"`
}

type KuzuConfig struct {
	Path string `yaml:"path"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultIgnoreTokens are punctuation-only forms never counted as words
var DefaultIgnoreTokens = []string{"{", "''", "'", ".", ";", "`", "``"}

const (
	DefaultDelimiters = ",.!?;:"
	DefaultLimit      = 5
	DefaultStrategy   = "goodturing"
)

var knownStrategies = map[string]bool{
	"none": true, "no-smoothing": true, "mle": true,
	"addone": true, "add-one": true, "laplace": true,
	"goodturing": true, "good-turing": true, "gt": true,
}

// DefaultConfig returns a configuration usable without any file on disk
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Port:     8080,
			WorkDir:  ".",
			LogLevel: "info",
		},
		Corpus: CorpusConfig{
			Path:          "corpus.txt",
			CleanedOutput: "cleanedCorpus.txt",
			Delimiters:    DefaultDelimiters,
			IgnoreTokens:  append([]string(nil), DefaultIgnoreTokens...),
		},
		Prediction: PredictionConfig{
			Limit:           DefaultLimit,
			DefaultStrategy: DefaultStrategy,
		},
		Persistence: PersistenceConfig{
			Enabled: true,
			Dir:     "./bigram_models",
		},
		Graph: GraphConfig{
			Kuzu: KuzuConfig{Path: ":memory:"},
		},
		MCP: MCPConfig{Enabled: true},
	}
}

// LoadConfig reads the YAML file at path on top of DefaultConfig.
// An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvePath makes a relative path relative to app.work_dir.
// Empty paths and the Kuzu in-memory marker are returned unchanged.
func (c *Config) ResolvePath(path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) || c.App.WorkDir == "" {
		return path
	}
	return filepath.Join(c.App.WorkDir, path)
}

// Validate checks values that would otherwise fail later at prediction time
func (c *Config) Validate() error {
	if c.Prediction.Limit < 1 {
		return fmt.Errorf("prediction.limit must be at least 1, got %d", c.Prediction.Limit)
	}
	if !knownStrategies[strings.ToLower(c.Prediction.DefaultStrategy)] {
		return fmt.Errorf("unknown prediction.default_strategy: %q", c.Prediction.DefaultStrategy)
	}
	switch strings.ToLower(c.Graph.Backend) {
	case "", "kuzu", "neo4j":
	default:
		return fmt.Errorf("unknown graph.backend: %q", c.Graph.Backend)
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app.port out of range: %d", c.App.Port)
	}
	return nil
}

// Package config provides configuration loading and structs for the kaiseki server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Gate       GateConfig       `yaml:"gate"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Composer   ComposerConfig   `yaml:"composer"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the path for the chunk/embedding database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// CorpusConfig describes the private document folder.
type CorpusConfig struct {
	Path       string   `yaml:"path"`
	Extensions []string `yaml:"extensions"`
	// Watch enables the fsnotify watcher that triggers a rebuild when the
	// corpus folder changes.
	Watch bool `yaml:"watch"`
}

// EmbeddingConfig holds embedding collaborator settings.
type EmbeddingConfig struct {
	// Provider is "openai" or "mock".
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// APIKey falls back to the OPENAI_API_KEY environment variable when empty.
	APIKey     string `yaml:"api_key"`
	Dimensions int    `yaml:"dimensions"`
	// MaxInputChars truncates embedding input; long chunks are cut here
	// before the API call.
	MaxInputChars int     `yaml:"max_input_chars"`
	CacheTTLSecs  int     `yaml:"cache_ttl_seconds"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst"`
}

// GenerationConfig holds generation collaborator settings.
type GenerationConfig struct {
	// Provider is "openai" or "mock".
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	APIKey      string `yaml:"api_key"`
	MaxTokens   int    `yaml:"max_tokens"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

// PipelineConfig holds the classifier trigger tables and the axiom rule.
// Rules are data so deployments can swap them without code changes.
type PipelineConfig struct {
	AssumptionTriggers  []string `yaml:"assumption_triggers"`
	UnknownTriggers     []string `yaml:"unknown_triggers"`
	HypothesisTriggers  []string `yaml:"hypothesis_triggers"`
	SpeculationTriggers []string `yaml:"speculation_triggers"`
	RiskTriggers        []string `yaml:"risk_triggers"`
	EthicalTriggers     []string `yaml:"ethical_triggers"`
	AbsoluteTriggers    []string `yaml:"absolute_triggers"`
	// AxiomRule selects the axiom heuristic: "absolute" matches the
	// absolute-claim words, "length" flags observations longer than
	// AxiomMinWords words.
	AxiomRule     string `yaml:"axiom_rule"`
	AxiomMinWords int    `yaml:"axiom_min_words"`
}

// GateConfig holds the private-domain keyword set.
type GateConfig struct {
	PrivateKeywords []string `yaml:"private_keywords"`
}

// RetrievalConfig holds chunking and retrieval settings.
type RetrievalConfig struct {
	ChunkSize     int `yaml:"chunk_size"`
	ChunkOverlap  int `yaml:"chunk_overlap"`
	MinChunkChars int `yaml:"min_chunk_chars"`
	TopK          int `yaml:"top_k"`
}

// ComposerConfig holds the similarity tier thresholds. The historical cut
// points disagree (0.30/0.45/0.55 all appear in deployments), so these are
// tunable rather than constants.
type ComposerConfig struct {
	HighThreshold  float64 `yaml:"high_threshold"`
	MixedThreshold float64 `yaml:"mixed_threshold"`
	// InclusiveHigh selects the comparator at the high boundary:
	// false means score > HighThreshold, true means score >= HighThreshold.
	InclusiveHigh   bool `yaml:"inclusive_high"`
	ExcerptMaxChars int  `yaml:"excerpt_max_chars"`
}

// Load reads and parses the config file at path, applies defaults, and
// expands paths. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Corpus.Path = expandPath(cfg.Corpus.Path, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

// Package config loads and validates retrieval service configuration.
// Precedence: defaults < YAML file < TINGE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	rerrors "github.com/tinge-ai/retrieval/internal/errors"
)

// Config is the complete service configuration.
type Config struct {
	Index      IndexConfig      `yaml:"index"`
	Search     SearchConfig     `yaml:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	LogLevel   string           `yaml:"log_level"`
}

// IndexConfig configures the index stores and corpus defaults.
type IndexConfig struct {
	// Name is the logical index name reported in responses.
	Name string `yaml:"name"`
	// DataDir holds the lexical index, vector index, and chunk catalog.
	// Empty means fully in-memory stores (tests, smoke runs).
	DataDir string `yaml:"data_dir"`
	// CorpusPath is the default newline-delimited JSON corpus location.
	CorpusPath string `yaml:"corpus_path"`
	// ChunkSize is the default chunk window in characters.
	ChunkSize int `yaml:"chunk_size"`
	// ChunkOverlap is the default overlap between consecutive chunks.
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// SearchConfig configures search behavior and fusion parameters.
type SearchConfig struct {
	// DefaultTopK is used when a request omits top_k.
	DefaultTopK int `yaml:"default_top_k"`
	// MaxTopK caps top_k; out-of-range requests are clamped, not rejected.
	MaxTopK int `yaml:"max_top_k"`
	// BranchTopK widens per-branch fetches when two query variants run.
	// <= 0 disables widening.
	BranchTopK int `yaml:"branch_top_k"`
	// DenseTopK is the dense branch fetch floor.
	DenseTopK int `yaml:"dense_top_k"`
	// RRFConstant is the reciprocal rank fusion damping constant.
	RRFConstant int `yaml:"rrf_constant"`
	// SnippetLength is the display truncation for result content.
	SnippetLength int `yaml:"snippet_length"`
	// Languages is the set of accepted language filter values.
	Languages []string `yaml:"languages"`
	// RequestTimeout bounds one search request end to end.
	RequestTimeout Duration `yaml:"request_timeout"`
}

// Duration wraps time.Duration so YAML can carry values like "10s".
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// EmbeddingsConfig configures the optional dense retrieval pathway.
type EmbeddingsConfig struct {
	// Enabled turns the dense pathway on. When false the capability is
	// absent, not degraded.
	Enabled bool `yaml:"enabled"`
	// Provider selects the embedder: "ollama" or "static".
	Provider string `yaml:"provider"`
	// Model is the embedding model name for the ollama provider.
	Model string `yaml:"model"`
	// Dimensions is the embedding dimension (0 = auto-detect / provider default).
	Dimensions int `yaml:"dimensions"`
	// OllamaHost is the Ollama API endpoint.
	OllamaHost string `yaml:"ollama_host"`
	// BatchSize bounds one embedding request during indexing.
	BatchSize int `yaml:"batch_size"`
	// CacheSize is the query-embedding LRU capacity.
	CacheSize int `yaml:"cache_size"`
	// WriteEmbeddings controls whether chunks are embedded at index time.
	WriteEmbeddings bool `yaml:"write_embeddings"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Index: IndexConfig{
			Name:         "tinge_knowledge_v1",
			CorpusPath:   "data/corpus.jsonl",
			ChunkSize:    900,
			ChunkOverlap: 100,
		},
		Search: SearchConfig{
			DefaultTopK:    5,
			MaxTopK:        10,
			BranchTopK:     0,
			DenseTopK:      8,
			RRFConstant:    60,
			SnippetLength:  420,
			Languages:      []string{"en", "es"},
			RequestTimeout: Duration(10 * time.Second),
		},
		Embeddings: EmbeddingsConfig{
			Enabled:         false,
			Provider:        "ollama",
			Model:           "all-minilm",
			OllamaHost:      "http://localhost:11434",
			BatchSize:       32,
			CacheSize:       1000,
			WriteEmbeddings: true,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from an optional YAML file, applies environment
// overrides, and validates the result. An empty path skips file loading;
// a missing explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, rerrors.New(rerrors.ErrCodeConfigNotFound,
					fmt.Sprintf("config file not found: %s", path), err)
			}
			return nil, rerrors.Wrap(rerrors.ErrCodeConfigInvalid, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, rerrors.New(rerrors.ErrCodeConfigInvalid,
				fmt.Sprintf("invalid config file %s: %v", path, err), err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config values from TINGE_* environment variables.
func (c *Config) applyEnv() {
	setString(&c.Index.Name, "TINGE_INDEX_NAME")
	setString(&c.Index.DataDir, "TINGE_DATA_DIR")
	setString(&c.Index.CorpusPath, "TINGE_CORPUS_PATH")
	setInt(&c.Index.ChunkSize, "TINGE_CHUNK_SIZE")
	setInt(&c.Index.ChunkOverlap, "TINGE_CHUNK_OVERLAP")

	setInt(&c.Search.DefaultTopK, "TINGE_DEFAULT_TOP_K")
	setInt(&c.Search.MaxTopK, "TINGE_MAX_TOP_K")
	setInt(&c.Search.BranchTopK, "TINGE_BRANCH_TOP_K")
	setInt(&c.Search.DenseTopK, "TINGE_DENSE_TOP_K")
	setInt(&c.Search.RRFConstant, "TINGE_RRF_CONSTANT")

	setBool(&c.Embeddings.Enabled, "TINGE_DENSE_ENABLED")
	setString(&c.Embeddings.Provider, "TINGE_EMBED_PROVIDER")
	setString(&c.Embeddings.Model, "TINGE_EMBED_MODEL")
	setString(&c.Embeddings.OllamaHost, "TINGE_OLLAMA_HOST")
	setBool(&c.Embeddings.WriteEmbeddings, "TINGE_WRITE_EMBEDDINGS")

	setString(&c.LogLevel, "TINGE_LOG_LEVEL")
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Index.Name == "" {
		return rerrors.ConfigError("index.name must not be empty", nil)
	}
	if c.Index.ChunkSize <= 0 {
		return rerrors.ConfigError("index.chunk_size must be > 0", nil)
	}
	if c.Index.ChunkOverlap < 0 || c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return rerrors.ConfigError("index.chunk_overlap must be in [0, chunk_size)", nil)
	}
	if c.Search.DefaultTopK <= 0 {
		return rerrors.ConfigError("search.default_top_k must be > 0", nil)
	}
	if c.Search.MaxTopK < c.Search.DefaultTopK {
		return rerrors.ConfigError("search.max_top_k must be >= default_top_k", nil)
	}
	if c.Search.RRFConstant <= 0 {
		return rerrors.ConfigError("search.rrf_constant must be > 0", nil)
	}
	if c.Search.SnippetLength <= 0 {
		return rerrors.ConfigError("search.snippet_length must be > 0", nil)
	}
	if len(c.Search.Languages) == 0 {
		return rerrors.ConfigError("search.languages must not be empty", nil)
	}
	switch c.Embeddings.Provider {
	case "ollama", "static":
	default:
		return rerrors.ConfigError(
			fmt.Sprintf("embeddings.provider must be ollama or static, got %q", c.Embeddings.Provider), nil)
	}
	return nil
}

// LanguageAllowed reports whether lang is an accepted filter value.
func (c *SearchConfig) LanguageAllowed(lang string) bool {
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
}

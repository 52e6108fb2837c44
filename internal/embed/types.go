// Package embed provides text embedding providers for the dense
// retrieval pathway. The provider is a black box text→vector function;
// when none is configured the dense capability simply does not exist.
package embed

import (
	"context"
	"math"
	"time"
)

// Provider names accepted by the factory.
const (
	ProviderOllama = "ollama"
	ProviderStatic = "static"
)

// Defaults for embedding requests.
const (
	DefaultBatchSize = 32
	DefaultTimeout   = 60 * time.Second
	DefaultCacheSize = 1000
	DefaultRetries   = 3

	// StaticDimensions is the embedding dimension of the static provider.
	StaticDimensions = 256
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension.
	Dimensions() int

	// ModelName returns the model identifier.
	ModelName() string

	// Available checks if the embedder is ready.
	Available(ctx context.Context) bool

	// Close releases resources.
	Close() error
}

// Config configures embedder construction.
type Config struct {
	// Provider is "ollama" or "static".
	Provider string
	// Model is the model name for the ollama provider.
	Model string
	// Dimensions is the embedding dimension (0 = auto-detect).
	Dimensions int
	// Host is the Ollama API endpoint.
	Host string
	// BatchSize bounds one embedding request.
	BatchSize int
	// CacheSize is the LRU capacity for the cached wrapper.
	CacheSize int
	// Timeout bounds one embedding HTTP call.
	Timeout time.Duration
	// MaxRetries bounds retry attempts for transient failures.
	MaxRetries int
}

// normalizeVector scales a vector to unit length.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / magnitude)
	}
	return normalized
}

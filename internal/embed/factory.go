package embed

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// New constructs an embedder from config. The ollama provider is warmed
// up during construction, so a returned error means the dense capability
// is absent and the caller should run lexical-only. The static provider
// never fails and is the default for tests and offline use.
func New(ctx context.Context, cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case ProviderStatic, "":
		return NewCachedEmbedder(NewStaticEmbedder(), cfg.CacheSize), nil

	case ProviderOllama:
		start := time.Now()
		inner, err := NewOllamaEmbedder(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create ollama embedder: %w", err)
		}
		slog.Info("embedder ready",
			"provider", cfg.Provider,
			"model", inner.ModelName(),
			"dimensions", inner.Dimensions(),
			"warmup", time.Since(start).Round(time.Millisecond))

		retryCfg := DefaultRetryConfig()
		if cfg.MaxRetries > 0 {
			retryCfg.MaxRetries = cfg.MaxRetries
		}
		return NewCachedEmbedder(NewRetryingEmbedder(inner, retryCfg), cfg.CacheSize), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}
}

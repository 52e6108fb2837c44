package embed

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig configures retry behavior for transient embedding failures.
type RetryConfig struct {
	MaxRetries   int           // Retry attempts beyond the initial call
	InitialDelay time.Duration // Delay before first retry
	MaxDelay     time.Duration // Cap on the delay between retries
	Multiplier   float64       // Exponential backoff multiplier
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   DefaultRetries,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
	}
}

// withRetry executes fn with exponential backoff. A cancelled context
// returns immediately with the context error.
func withRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := fn(); err != nil {
			lastErr = err
			if attempt >= cfg.MaxRetries {
				break
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}

			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
			continue
		}

		return nil
	}

	return fmt.Errorf("failed after %d retries: %w", cfg.MaxRetries, lastErr)
}

// RetryingEmbedder wraps an Embedder so transient provider failures are
// retried before the caller sees an error.
type RetryingEmbedder struct {
	inner Embedder
	cfg   RetryConfig
}

// NewRetryingEmbedder wraps inner with retry behavior.
func NewRetryingEmbedder(inner Embedder, cfg RetryConfig) *RetryingEmbedder {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = DefaultRetryConfig().InitialDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultRetryConfig().MaxDelay
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = DefaultRetryConfig().Multiplier
	}
	return &RetryingEmbedder{inner: inner, cfg: cfg}
}

// Embed retries the inner Embed on failure.
func (r *RetryingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := withRetry(ctx, r.cfg, func() error {
		var innerErr error
		vec, innerErr = r.inner.Embed(ctx, text)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// EmbedBatch retries the inner EmbedBatch on failure.
func (r *RetryingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vecs [][]float32
	err := withRetry(ctx, r.cfg, func() error {
		var innerErr error
		vecs, innerErr = r.inner.EmbedBatch(ctx, texts)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return vecs, nil
}

// Dimensions returns the embedding dimension of the inner embedder.
func (r *RetryingEmbedder) Dimensions() int { return r.inner.Dimensions() }

// ModelName returns the model identifier of the inner embedder.
func (r *RetryingEmbedder) ModelName() string { return r.inner.ModelName() }

// Available reports whether the inner embedder is ready.
func (r *RetryingEmbedder) Available(ctx context.Context) bool { return r.inner.Available(ctx) }

// Close closes the inner embedder.
func (r *RetryingEmbedder) Close() error { return r.inner.Close() }

var _ Embedder = (*RetryingEmbedder)(nil)
